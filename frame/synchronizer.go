// Package frame drives the per-frame acquire, submit and present protocol
// over a fixed number of in-flight slots.
package frame

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/gpu"
)

// ErrFrame marks every error returned while drawing a frame.
var ErrFrame = errors.New("frame failed")

// ErrOutOfDate additionally marks frame errors caused by a swapchain which no
// longer matches its surface. Recreating the swapchain would recover from it;
// the synchronizer does not.
var ErrOutOfDate = errors.New("swapchain out of date")

// Signal is what an EventSource reports once per tick.
type Signal int

const (
	Continue Signal = iota
	CloseRequested
)

// EventSource processes pending window events and reports whether the loop
// should keep going.
type EventSource interface {
	Poll() Signal
}

// Driver is the part of gpu.Driver the synchronizer needs.
type Driver interface {
	WaitForFence(device gpu.Device, fence gpu.Fence, timeout uint64) error
	ResetFence(device gpu.Device, fence gpu.Fence) error
	AcquireNextImage(device gpu.Device, swapchain gpu.Swapchain, timeout uint64, signal gpu.Semaphore) (uint32, error)
	QueueSubmit(queue gpu.Queue, info gpu.SubmitInfo, fence gpu.Fence) error
	QueuePresent(queue gpu.Queue, info gpu.PresentInfo) error
	DeviceWaitIdle(device gpu.Device) error
}

// Config tunes the synchronizer.
type Config struct {
	// FenceTimeout bounds the wait for a slot's previous submission in
	// nanoseconds. gpu.NoTimeout waits forever.
	FenceTimeout uint64

	// IdleAfterPresent waits for the whole device to go idle after every
	// present. Without it frames are paced by the slot fences alone.
	IdleAfterPresent bool

	// StatsEvery is the number of frames between two timing log records.
	// Zero disables them.
	StatsEvery uint64
}

// DefaultConfig waits forever on fences and idles the device after present.
func DefaultConfig() Config {
	return Config{
		FenceTimeout:     gpu.NoTimeout,
		IdleAfterPresent: true,
		StatsEvery:       1000,
	}
}

// Target is what the synchronizer draws to.
type Target struct {
	Device    gpu.Device
	Queue     gpu.Queue
	Swapchain gpu.Swapchain

	// CommandBuffers holds one recorded buffer per swapchain image.
	CommandBuffers []gpu.CommandBuffer
}

// Stats are the timings of the frames drawn so far.
type Stats struct {
	Frames uint64
	Total  time.Duration
	Last   time.Duration
}

// Average returns the mean time of one frame.
func (s Stats) Average() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Frames)
}

// Synchronizer draws frames. Each Tick waits for the current slot's fence,
// acquires an image, submits the image's command buffer, presents it and
// moves on to the next slot.
type Synchronizer struct {
	driver Driver
	target Target
	slots  [SlotCount]Slot
	config Config
	logger *slog.Logger

	current int
	stats   Stats
}

// New returns a synchronizer starting at slot 0.
func New(driver Driver, target Target, slots [SlotCount]Slot, config Config, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		driver: driver,
		target: target,
		slots:  slots,
		config: config,
		logger: logger,
	}
}

// Current returns the index of the slot the next Tick uses.
func (s *Synchronizer) Current() int {
	return s.current
}

func (s *Synchronizer) Stats() Stats {
	return s.stats
}

// Run ticks until events asks to close or ctx is done. Both are checked
// before every tick so a close never interrupts a frame. It returns nil when
// stopped that way and the frame error otherwise.
func (s *Synchronizer) Run(ctx context.Context, events EventSource) error {
	defer s.logStats("frame loop finished")

	for {
		if ctx.Err() != nil {
			s.logger.Debug("frame loop cancelled", slog.Any("reason", ctx.Err()))
			return nil
		}
		if events.Poll() == CloseRequested {
			return nil
		}

		if err := s.Tick(); err != nil {
			return err
		}

		if s.config.StatsEvery > 0 && s.stats.Frames%s.config.StatsEvery == 0 {
			s.logStats("frame stats")
		}
	}
}

// Tick draws one frame.
func (s *Synchronizer) Tick() error {
	start := hrtime.Now()
	slot := s.slots[s.current]
	device := s.target.Device

	err := s.driver.WaitForFence(device, slot.InFlight, s.config.FenceTimeout)
	if err != nil {
		return s.fail(err, "waiting for in flight fence")
	}
	if err := s.driver.ResetFence(device, slot.InFlight); err != nil {
		return s.fail(err, "resetting in flight fence")
	}

	imageIndex, err := s.driver.AcquireNextImage(device, s.target.Swapchain, gpu.NoTimeout, slot.ImageAvailable)
	if err != nil {
		return s.fail(err, "acquiring next image")
	}
	if int(imageIndex) >= len(s.target.CommandBuffers) {
		return s.fail(
			errors.AssertionFailedf("image index %d out of %d command buffers", imageIndex, len(s.target.CommandBuffers)),
			"acquiring next image",
		)
	}

	submitInfo := gpu.SubmitInfo{
		WaitSemaphore:   slot.ImageAvailable,
		WaitStage:       gpu.PipelineStageColorAttachmentOutput,
		CommandBuffer:   s.target.CommandBuffers[imageIndex],
		SignalSemaphore: slot.RenderFinished,
	}
	if err := s.driver.QueueSubmit(s.target.Queue, submitInfo, slot.InFlight); err != nil {
		return s.fail(err, "queue submit")
	}

	presentInfo := gpu.PresentInfo{
		WaitSemaphore: slot.RenderFinished,
		Swapchain:     s.target.Swapchain,
		ImageIndex:    imageIndex,
	}
	if err := s.driver.QueuePresent(s.target.Queue, presentInfo); err != nil {
		return s.fail(err, "queue present")
	}

	if s.config.IdleAfterPresent {
		if err := s.driver.DeviceWaitIdle(device); err != nil {
			return s.fail(err, "waiting for device idle")
		}
	}

	s.current = (s.current + 1) % SlotCount

	elapsed := hrtime.Since(start)
	s.stats.Frames++
	s.stats.Total += elapsed
	s.stats.Last = elapsed
	return nil
}

func (s *Synchronizer) fail(err error, step string) error {
	err = errors.Mark(errors.Wrapf(err, "drawFrame: %s", step), ErrFrame)
	if errors.Is(err, gpu.ErrOutOfDate) {
		err = errors.Mark(err, ErrOutOfDate)
	}
	return err
}

func (s *Synchronizer) logStats(msg string) {
	s.logger.Debug(msg,
		slog.Uint64("frames", s.stats.Frames),
		slog.Duration("average", s.stats.Average()),
		slog.Duration("last", s.stats.Last),
	)
}
