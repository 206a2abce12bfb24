package commands_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ironsmile/vkframe/commands"
	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/gpu/gputest"
)

var _ = Describe("Recorder", func() {
	var (
		driver   *gputest.Driver
		device   gpu.Device
		recorder *commands.Recorder
		scene    commands.Scene
	)

	BeforeEach(func() {
		driver = gputest.NewDriver()

		var err error
		device, err = driver.CreateDevice(0, gpu.DeviceInfo{})
		Expect(err).NotTo(HaveOccurred())

		recorder, err = commands.NewRecorder(driver, device, 3)
		Expect(err).NotTo(HaveOccurred())

		scene = commands.Scene{
			RenderPass:   11,
			Pipeline:     12,
			Framebuffers: []gpu.Framebuffer{21, 22, 23},
			Extent:       gpu.Extent2D{Width: 800, Height: 600},
		}
	})

	It("creates the pool on the queue family", func() {
		Expect(recorder.Pool()).NotTo(BeZero())
		Expect(driver.CommandPool.QueueFamily).To(BeEquivalentTo(3))
	})

	It("records one buffer per framebuffer", func() {
		Expect(recorder.Record(scene)).To(Succeed())

		buffers := recorder.Buffers()
		Expect(buffers).To(HaveLen(3))

		for i, buffer := range buffers {
			Expect(driver.Commands[buffer]).To(Equal([]string{
				"begin(usage=0x4)",
				"beginRenderPass",
				"bindPipeline",
				"draw(3,1,0,0)",
				"endRenderPass",
				"end",
			}))

			begin := driver.RenderPassBegins[buffer]
			Expect(begin.Framebuffer).To(Equal(scene.Framebuffers[i]))
			Expect(begin.RenderPass).To(Equal(scene.RenderPass))
			Expect(begin.RenderArea).To(Equal(gpu.Rect2D{Extent: scene.Extent}))
			Expect(begin.ClearColor).To(Equal([4]float32{0, 0, 0, 1}))
		}
		Expect(driver.Violations).To(BeEmpty())
	})

	It("records only once", func() {
		Expect(recorder.Record(scene)).To(Succeed())

		err := recorder.Record(scene)
		Expect(errors.Is(err, commands.ErrAlreadyRecorded)).To(BeTrue())
		Expect(driver.Count("AllocateCommandBuffers")).To(Equal(1))
	})

	It("names the buffer which failed", func() {
		driver.FailOn = map[string]error{"EndCommandBuffer": errors.New("out of device memory")}

		err := recorder.Record(scene)
		Expect(err).To(MatchError(ContainSubstring("recordCommandBuffer 0")))
		Expect(recorder.Buffers()).To(BeEmpty())
	})

	It("frees the buffers with the pool", func() {
		Expect(recorder.Record(scene)).To(Succeed())
		recorder.Destroy()

		Expect(recorder.Buffers()).To(BeEmpty())
		Expect(driver.Destroyed).To(ContainElement(gputest.Object{
			Kind:   gputest.KindCommandPool,
			Handle: gpu.Handle(recorder.Pool()),
		}))
	})
})
