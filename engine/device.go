package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/teardown"
)

// DeviceDriver creates the logical device.
type DeviceDriver interface {
	CreateDevice(adapter gpu.PhysicalDevice, info gpu.DeviceInfo) (gpu.Device, error)
	DestroyDevice(device gpu.Device)
	DeviceQueue(device gpu.Device, family uint32) gpu.Queue
}

// Device is a logical device with its only queue, used both for graphics
// and presentation.
type Device struct {
	Handle      gpu.Device
	Queue       gpu.Queue
	QueueFamily uint32
}

// NewDevice creates a logical device with one queue from the selected family
// and tracks it in arena. A selection whose graphics and present families
// differ is an assertion failure.
func NewDevice(
	driver DeviceDriver,
	arena *teardown.Arena,
	selection Selection,
	layers []string,
	extensions []string,
) (*Device, error) {
	if !selection.Families.IsUnified() {
		return nil, errors.AssertionFailedf(
			"createLogicalDevice: graphics (set=%t) and present (set=%t) families are not the same one",
			selection.Families.Graphics.HasValue(), selection.Families.Present.HasValue(),
		)
	}
	family := selection.Families.Graphics.Get()

	handle, err := driver.CreateDevice(selection.Adapter, gpu.DeviceInfo{
		QueueFamily: family,
		Layers:      layers,
		Extensions:  extensions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "createLogicalDevice")
	}
	arena.Track("device", func() {
		driver.DestroyDevice(handle)
	})

	return &Device{
		Handle:      handle,
		Queue:       driver.DeviceQueue(handle, family),
		QueueFamily: family,
	}, nil
}
