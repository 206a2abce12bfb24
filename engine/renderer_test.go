package engine_test

import (
	"bytes"
	"context"
	"unsafe"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/engine"
	"github.com/ironsmile/vkframe/frame"
	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/gpu/gputest"
	"github.com/ironsmile/vkframe/logging"
	"github.com/ironsmile/vkframe/pipeline"
	"github.com/ironsmile/vkframe/teardown"
)

type fakeWindow struct {
	width, height int
	surfaceErr    error
	closeAfter    int
	polls         int
}

func (w *fakeWindow) CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error) {
	return 1, w.surfaceErr
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	return w.width, w.height
}

func (w *fakeWindow) Poll() frame.Signal {
	w.polls++
	if w.polls > w.closeAfter {
		return frame.CloseRequested
	}
	return frame.Continue
}

func kinds(objects []gputest.Object) []gputest.Kind {
	out := make([]gputest.Kind, len(objects))
	for i, obj := range objects {
		out[i] = obj.Kind
	}
	return out
}

func reversed(in []gputest.Kind) []gputest.Kind {
	out := make([]gputest.Kind, len(in))
	for i, k := range in {
		out[len(in)-1-i] = k
	}
	return out
}

var _ = Describe("Renderer", func() {
	var (
		driver *gputest.Driver
		window *fakeWindow
		config engine.Config
		logs   *bytes.Buffer
		logger *slog.Logger
	)

	BeforeEach(func() {
		driver = gputest.NewDriver()
		window = &fakeWindow{width: 1024, height: 768, closeAfter: 4}

		config = engine.DefaultConfig()
		config.InstanceExtensions = []string{engine.SurfaceExtension, "VK_KHR_xlib_surface"}
		config.VertexShader = make([]byte, 16)
		config.FragmentShader = make([]byte, 32)

		logs = &bytes.Buffer{}
		logger = logging.New(logs, logging.FormatJSON, true)
	})

	// expectAllReleased checks that nothing created by the driver is alive
	// and that it was released in the reverse of creation order.
	expectAllReleased := func() {
		Expect(driver.Live()).To(BeEmpty())
		Expect(kinds(driver.Destroyed)).To(Equal(reversed(kinds(driver.Created))))
		Expect(driver.Violations).To(BeEmpty())
	}

	It("acquires every object in dependency order", func() {
		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		Expect(r.Acquired()).To(Equal([]teardown.Kind{
			"instance",
			"debug-callback",
			"surface",
			"device",
			"swapchain",
			"image-view", "image-view", "image-view",
			"shader-module", "shader-module",
			"pipeline-layout",
			"render-pass",
			"pipeline",
			"framebuffer", "framebuffer", "framebuffer",
			"command-pool",
			"semaphore", "semaphore", "semaphore", "semaphore",
			"fence", "fence",
		}))
		Expect(r.Commands.Buffers()).To(HaveLen(len(r.Framebuffers)))
		Expect(r.Synchronizer().Current()).To(BeZero())
	})

	It("creates the instance and device with the requested layers and extensions", func() {
		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		Expect(driver.InstanceInfo.ApplicationName).To(Equal("vkframe"))
		Expect(driver.InstanceInfo.Layers).To(Equal([]string{engine.ValidationLayer}))
		Expect(driver.InstanceInfo.Extensions).To(ConsistOf(
			engine.SurfaceExtension, "VK_KHR_xlib_surface", engine.DebugReportExtension,
		))

		Expect(driver.DeviceInfo.QueueFamily).To(BeZero())
		Expect(driver.DeviceInfo.Layers).To(Equal([]string{engine.ValidationLayer}))
		Expect(driver.DeviceInfo.Extensions).To(Equal([]string{engine.SwapchainExtension}))
		Expect(r.Selection.Properties.Name).To(Equal("Fake GPU"))
	})

	It("enables the debug report extension once", func() {
		config.InstanceExtensions = append(config.InstanceExtensions, engine.DebugReportExtension)

		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		Expect(driver.InstanceInfo.Extensions).To(ConsistOf(
			engine.SurfaceExtension, "VK_KHR_xlib_surface", engine.DebugReportExtension,
		))
	})

	It("skips validation when disabled", func() {
		config.Validation = false

		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		Expect(driver.InstanceInfo.Layers).To(BeEmpty())
		Expect(driver.InstanceInfo.Extensions).NotTo(ContainElement(engine.DebugReportExtension))
		Expect(driver.DeviceInfo.Layers).To(BeEmpty())
		Expect(r.Acquired()).NotTo(ContainElement(teardown.Kind("debug-callback")))
		Expect(driver.Sinks).To(BeEmpty())
	})

	It("logs validation messages", func() {
		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		driver.Report(gpu.SeverityError, "[Validation] bad handle")
		Expect(logs.String()).To(ContainSubstring(`"msg":"[Validation] bad handle"`))
		Expect(logs.String()).To(ContainSubstring(`"source":"validation"`))
	})

	It("sends validation messages to the configured sink", func() {
		sink := &recordingSink{}
		config.Diagnostics = sink

		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		driver.Report(gpu.SeverityWarning, "careful")
		Expect(sink.messages).To(Equal([]string{"careful"}))
	})

	It("selects the first adapter able to draw and present", func() {
		driver.Adapters = []gputest.Adapter{
			{
				Properties: gpu.AdapterProperties{Name: "Compute Only", Type: gpu.AdapterDiscrete},
				Families:   []gpu.QueueFamily{{Index: 0, Flags: gpu.QueueCompute, Count: 1}},
			},
			{
				Properties: gpu.AdapterProperties{Name: "Split Queues", Type: gpu.AdapterDiscrete},
				Families: []gpu.QueueFamily{
					{Index: 0, Flags: gpu.QueueGraphics, Count: 1},
					{Index: 1, Flags: gpu.QueueTransfer, Count: 1},
				},
				PresentFamilies: []uint32{1},
			},
			{
				Properties: gpu.AdapterProperties{Name: "Integrated", Type: gpu.AdapterIntegrated},
				Families: []gpu.QueueFamily{
					{Index: 0, Flags: gpu.QueueTransfer, Count: 1},
					{Index: 1, Flags: gpu.QueueGraphics, Count: 1},
				},
				PresentFamilies: []uint32{0, 1},
			},
		}

		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()

		Expect(r.Selection.Properties.Name).To(Equal("Integrated"))
		Expect(r.Selection.Families.IsUnified()).To(BeTrue())
		Expect(r.Selection.Families.Graphics.Get()).To(BeEquivalentTo(1))
		Expect(r.Device.QueueFamily).To(BeEquivalentTo(1))
		Expect(driver.CommandPool.QueueFamily).To(BeEquivalentTo(1))
	})

	It("draws until the window closes and releases everything on Close", func() {
		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Run(context.Background(), window)).To(Succeed())
		Expect(driver.Submissions).To(HaveLen(4))
		Expect(driver.Presents).To(HaveLen(4))

		Expect(r.Close()).To(Succeed())
		expectAllReleased()
	})

	It("draws nothing when the window closes before the first frame", func() {
		window.closeAfter = 0

		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Run(context.Background(), window)).To(Succeed())
		Expect(driver.Submissions).To(BeEmpty())
		Expect(driver.Presents).To(BeEmpty())
		Expect(r.Synchronizer().Stats().Frames).To(BeZero())

		Expect(r.Close()).To(Succeed())
		expectAllReleased()

		destroyed := kinds(driver.Destroyed)
		Expect(destroyed[len(destroyed)-4:]).To(Equal([]gputest.Kind{
			gputest.KindDevice, gputest.KindSurface, gputest.KindDebugCallback, gputest.KindInstance,
		}))
	})

	It("releases everything even when frames are still in flight", func() {
		config.Frame.IdleAfterPresent = false

		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Run(context.Background(), window)).To(Succeed())
		Expect(driver.Pending(r.Slots[1].InFlight)).To(BeTrue())

		Expect(r.Close()).To(Succeed())
		expectAllReleased()
	})

	It("closes only once", func() {
		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Close()).To(Succeed())
		destroyed := len(driver.Destroyed)
		Expect(r.Close()).To(Succeed())
		Expect(driver.Destroyed).To(HaveLen(destroyed))

		err = r.Run(context.Background(), window)
		Expect(errors.HasAssertionFailure(err)).To(BeTrue())
	})

	It("tears down even when the device does not go idle", func() {
		r, err := engine.New(driver, window, config, logger)
		Expect(err).NotTo(HaveOccurred())

		driver.FailOn = map[string]error{"DeviceWaitIdle": errors.New("device lost")}
		Expect(r.Close()).To(MatchError(ContainSubstring("device lost")))
		Expect(driver.Live()).To(BeEmpty())
	})

	Describe("failing", func() {
		It("rejects a config without shaders", func() {
			config.VertexShader = nil

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, engine.ErrConfiguration)).To(BeTrue())
			Expect(driver.Calls).To(BeEmpty())
		})

		It("rejects a missing validation layer", func() {
			driver.Layers = nil

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, engine.ErrConfiguration)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring(engine.ValidationLayer)))
			Expect(driver.Created).To(BeEmpty())
		})

		It("rejects a missing instance extension", func() {
			config.InstanceExtensions = append(config.InstanceExtensions, "VK_KHR_wayland_surface")

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, engine.ErrConfiguration)).To(BeTrue())
			Expect(driver.Created).To(BeEmpty())
		})

		It("reports a window which cannot get a surface", func() {
			window.surfaceErr = errors.New("no display")

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, engine.ErrSurfaceCreation)).To(BeTrue())
			expectAllReleased()
		})

		It("reports when no adapter can draw and present", func() {
			driver.Adapters[0].PresentFamilies = nil

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, engine.ErrNoSuitableAdapter)).To(BeTrue())
			expectAllReleased()
			Expect(kinds(driver.Destroyed)).To(Equal([]gputest.Kind{
				gputest.KindSurface, gputest.KindDebugCallback, gputest.KindInstance,
			}))
		})

		It("reports a failed swapchain", func() {
			driver.FailOn = map[string]error{"CreateSwapchain": errors.New("native window in use")}

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, engine.ErrSurfaceCreation)).To(BeTrue())
			expectAllReleased()
		})

		It("reports shader code the driver rejects", func() {
			config.FragmentShader = []byte{1, 2, 3}

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, pipeline.ErrPipelineCreation)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("fragment shader module")))
			expectAllReleased()
		})

		It("reports a failed pipeline", func() {
			driver.FailOn = map[string]error{"CreateGraphicsPipelines": errors.New("link failed")}

			_, err := engine.New(driver, window, config, logger)
			Expect(errors.Is(err, pipeline.ErrPipelineCreation)).To(BeTrue())
			expectAllReleased()
		})

		It("releases everything when the sync objects fail", func() {
			driver.FailOn = map[string]error{"CreateFence": errors.New("out of memory")}

			_, err := engine.New(driver, window, config, logger)
			Expect(err).To(MatchError(ContainSubstring("createSyncObjects")))
			expectAllReleased()
		})
	})
})

type recordingSink struct {
	messages []string
}

func (s *recordingSink) Report(severity gpu.Severity, message string) {
	s.messages = append(s.messages, message)
}
