// Package engine bootstraps the GPU context, selects an adapter, creates the
// logical device and every object needed to draw, and drives the frame loop.
package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/commands"
	"github.com/ironsmile/vkframe/frame"
	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/logging"
	"github.com/ironsmile/vkframe/pipeline"
	"github.com/ironsmile/vkframe/swapchain"
	"github.com/ironsmile/vkframe/teardown"
)

// Window is the native window drawn into.
type Window interface {
	gpu.SurfaceSource
	FramebufferSize() (width, height int)
}

// Renderer owns every GPU object of the program. They are created in New in
// dependency order and released by Close in the reverse order.
type Renderer struct {
	driver gpu.Driver
	arena  *teardown.Arena
	logger *slog.Logger

	Context      *Context
	Surface      gpu.Surface
	Selection    Selection
	Device       *Device
	Swapchain    *swapchain.Swapchain
	Pipeline     *pipeline.Pipeline
	Framebuffers []gpu.Framebuffer
	Commands     *commands.Recorder
	Slots        [frame.SlotCount]frame.Slot

	sync   *frame.Synchronizer
	closed bool
}

// New creates everything needed to draw into window. On error the objects
// created so far are released before returning.
func New(driver gpu.Driver, window Window, config Config, logger *slog.Logger) (r *Renderer, err error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	arena := teardown.New(logger)
	defer func() {
		if err != nil {
			arena.Teardown()
		}
	}()

	r = &Renderer{
		driver: driver,
		arena:  arena,
		logger: logger,
	}

	contextConfig := ContextConfig{
		ApplicationName: config.ApplicationName,
		EngineName:      config.EngineName,
		Layers:          config.layers(),
		Extensions:      config.instanceExtensions(),
	}
	if config.Validation {
		contextConfig.Diagnostics = config.Diagnostics
		if contextConfig.Diagnostics == nil {
			contextConfig.Diagnostics = logging.NewSink(logger)
		}
	}

	r.Context, err = NewContext(driver, r.arena, contextConfig, logger)
	if err != nil {
		return nil, err
	}

	r.Surface, err = CreateSurface(driver, r.arena, r.Context.Instance, window)
	if err != nil {
		return nil, err
	}

	r.Selection, err = SelectAdapter(driver, r.Context.Instance, r.Surface, logger)
	if err != nil {
		return nil, err
	}

	r.Device, err = NewDevice(driver, r.arena, r.Selection, config.layers(), config.DeviceExtensions)
	if err != nil {
		return nil, err
	}
	device := r.Device.Handle

	r.Swapchain, err = swapchain.New(driver, r.arena, swapchain.Target{
		Adapter: r.Selection.Adapter,
		Device:  device,
		Surface: r.Surface,
		Window:  window,
	}, logger)
	if err != nil {
		return nil, errors.Mark(err, ErrSurfaceCreation)
	}

	if err := r.createPipeline(config); err != nil {
		return nil, err
	}

	r.Framebuffers, err = r.Swapchain.CreateFramebuffers(driver, r.arena, device, r.Pipeline.RenderPass)
	if err != nil {
		return nil, err
	}

	r.Commands, err = commands.NewRecorder(driver, device, r.Device.QueueFamily)
	if err != nil {
		return nil, err
	}
	r.arena.Track("command-pool", r.Commands.Destroy)

	err = r.Commands.Record(commands.Scene{
		RenderPass:   r.Pipeline.RenderPass,
		Pipeline:     r.Pipeline.Handle,
		Framebuffers: r.Framebuffers,
		Extent:       r.Swapchain.Extent,
	})
	if err != nil {
		return nil, err
	}

	r.Slots, err = frame.NewSlots(driver, r.arena, device)
	if err != nil {
		return nil, err
	}

	r.sync = frame.New(driver, frame.Target{
		Device:         device,
		Queue:          r.Device.Queue,
		Swapchain:      r.Swapchain.Handle,
		CommandBuffers: r.Commands.Buffers(),
	}, r.Slots, config.Frame, logger)

	logger.Debug("renderer ready", slog.Int("objects", r.arena.Len()))
	return r, nil
}

// createPipeline creates the shader modules, the layout, the render pass and
// the pipeline, in that order.
func (r *Renderer) createPipeline(config Config) error {
	device := r.Device.Handle

	vertex, err := r.createShaderModule("vertex", config.VertexShader)
	if err != nil {
		return err
	}
	fragment, err := r.createShaderModule("fragment", config.FragmentShader)
	if err != nil {
		return err
	}

	layout, err := pipeline.NewLayout(r.driver, device)
	if err != nil {
		return err
	}
	r.arena.Track("pipeline-layout", func() {
		r.driver.DestroyPipelineLayout(device, layout)
	})

	renderPass, err := pipeline.NewRenderPass(r.driver, device, r.Swapchain.Format.Format)
	if err != nil {
		return err
	}
	r.arena.Track("render-pass", func() {
		r.driver.DestroyRenderPass(device, renderPass)
	})

	p, err := pipeline.Triangle(vertex, fragment, r.Swapchain.Extent, layout, renderPass).
		Create(r.driver, device)
	if err != nil {
		return err
	}
	r.arena.Track("pipeline", func() {
		r.driver.DestroyPipeline(device, p.Handle)
	})
	r.Pipeline = p

	return nil
}

func (r *Renderer) createShaderModule(name string, code []byte) (gpu.ShaderModule, error) {
	device := r.Device.Handle

	module, err := r.driver.CreateShaderModule(device, code)
	if err != nil {
		return 0, errors.Mark(
			errors.Wrapf(err, "creating %s shader module", name),
			pipeline.ErrPipelineCreation,
		)
	}
	r.arena.Track("shader-module", func() {
		r.driver.DestroyShaderModule(device, module)
	})
	return module, nil
}

// Synchronizer returns the frame synchronizer driving Run.
func (r *Renderer) Synchronizer() *frame.Synchronizer {
	return r.sync
}

// Acquired returns the kinds of the live objects in creation order.
func (r *Renderer) Acquired() []teardown.Kind {
	return r.arena.Kinds()
}

// Run draws frames until events asks to close, ctx is done or a frame fails.
func (r *Renderer) Run(ctx context.Context, events frame.EventSource) error {
	if r.closed {
		return errors.AssertionFailedf("engine: Run called after Close")
	}
	return r.sync.Run(ctx, events)
}

// Close waits for the device to finish all submitted work and releases every
// object in reverse creation order. Calling it again does nothing.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.Device != nil {
		if err = r.driver.DeviceWaitIdle(r.Device.Handle); err != nil {
			err = errors.Wrap(err, "waiting for device idle before cleanup")
			r.logger.Error("cleanup", slog.Any("error", err))
		}
	}

	r.arena.Teardown()
	return err
}
