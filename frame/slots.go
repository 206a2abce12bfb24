package frame

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/teardown"
)

// SlotCount is the number of frames which may be in flight at once.
const SlotCount = 2

// Slot holds the synchronization objects of one in-flight frame.
type Slot struct {
	// ImageAvailable is signaled when the acquired image may be drawn into.
	ImageAvailable gpu.Semaphore

	// RenderFinished is signaled when drawing is done and the image may be
	// presented.
	RenderFinished gpu.Semaphore

	// InFlight is signaled when the slot's last submission completed. It is
	// created signaled so the first wait returns at once.
	InFlight gpu.Fence
}

// SlotDriver creates and destroys synchronization objects.
type SlotDriver interface {
	CreateSemaphore(device gpu.Device) (gpu.Semaphore, error)
	DestroySemaphore(device gpu.Device, semaphore gpu.Semaphore)
	CreateFence(device gpu.Device, signaled bool) (gpu.Fence, error)
	DestroyFence(device gpu.Device, fence gpu.Fence)
}

// NewSlots creates the synchronization objects of every slot and tracks them
// in arena: all image-available semaphores, then all render-finished
// semaphores, then all fences.
func NewSlots(driver SlotDriver, arena *teardown.Arena, device gpu.Device) ([SlotCount]Slot, error) {
	var slots [SlotCount]Slot

	newSemaphore := func(name string, i int) (gpu.Semaphore, error) {
		semaphore, err := driver.CreateSemaphore(device)
		if err != nil {
			return 0, errors.Wrapf(err, "createSyncObjects: %s semaphore %d", name, i)
		}
		arena.Track("semaphore", func() {
			driver.DestroySemaphore(device, semaphore)
		})
		return semaphore, nil
	}

	for i := range slots {
		semaphore, err := newSemaphore("image available", i)
		if err != nil {
			return slots, err
		}
		slots[i].ImageAvailable = semaphore
	}

	for i := range slots {
		semaphore, err := newSemaphore("render finished", i)
		if err != nil {
			return slots, err
		}
		slots[i].RenderFinished = semaphore
	}

	for i := range slots {
		fence, err := driver.CreateFence(device, true)
		if err != nil {
			return slots, errors.Wrapf(err, "createSyncObjects: in flight fence %d", i)
		}
		arena.Track("fence", func() {
			driver.DestroyFence(device, fence)
		})
		slots[i].InFlight = fence
	}

	return slots, nil
}
