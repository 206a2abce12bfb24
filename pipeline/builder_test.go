package pipeline_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/gpu/gputest"
	"github.com/ironsmile/vkframe/pipeline"
)

var _ = Describe("Builder", func() {
	var (
		driver     *gputest.Driver
		device     gpu.Device
		vertex     gpu.ShaderModule
		fragment   gpu.ShaderModule
		layout     gpu.PipelineLayout
		renderPass gpu.RenderPass
		extent     gpu.Extent2D
	)

	BeforeEach(func() {
		driver = gputest.NewDriver()
		extent = gpu.Extent2D{Width: 800, Height: 600}

		var err error
		device, err = driver.CreateDevice(0, gpu.DeviceInfo{})
		Expect(err).NotTo(HaveOccurred())
		vertex, err = driver.CreateShaderModule(device, make([]byte, 16))
		Expect(err).NotTo(HaveOccurred())
		fragment, err = driver.CreateShaderModule(device, make([]byte, 16))
		Expect(err).NotTo(HaveOccurred())
		layout, err = pipeline.NewLayout(driver, device)
		Expect(err).NotTo(HaveOccurred())
		renderPass, err = pipeline.NewRenderPass(driver, device, gpu.FormatB8G8R8A8Srgb)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the triangle pipeline", func() {
		p, err := pipeline.Triangle(vertex, fragment, extent, layout, renderPass).Create(driver, device)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.Handle).NotTo(BeZero())
		Expect(p.Layout).To(Equal(layout))
		Expect(p.RenderPass).To(Equal(renderPass))
		Expect(driver.PipelineInfos).To(HaveLen(1))

		info := driver.PipelineInfos[0]
		Expect(info.Stages).To(Equal([]gpu.ShaderStageInfo{
			{Stage: gpu.ShaderStageVertex, Module: vertex, Entry: "main"},
			{Stage: gpu.ShaderStageFragment, Module: fragment, Entry: "main"},
		}))
		Expect(info.InputAssembly.Topology).To(Equal(gpu.TopologyTriangleList))
		Expect(info.Viewport.Viewports).To(ConsistOf(gpu.Viewport{Width: 800, Height: 600, MaxDepth: 1}))
		Expect(info.Viewport.Scissors).To(ConsistOf(gpu.Rect2D{Extent: extent}))
		Expect(info.Rasterization.CullMode).To(Equal(gpu.CullModeBack))
		Expect(info.Rasterization.FrontFace).To(Equal(gpu.FrontFaceClockwise))
		Expect(info.Rasterization.LineWidth).To(BeEquivalentTo(1))
		Expect(info.Multisample.Samples).To(Equal(gpu.SampleCount1))
		Expect(info.ColorBlend.Attachments).To(HaveLen(1))
		Expect(info.ColorBlend.Attachments[0].BlendEnable).To(BeFalse())
		Expect(info.ColorBlend.Attachments[0].ColorWriteMask).To(Equal(gpu.ColorComponentRGBA))
		Expect(info.DynamicStates).To(BeEmpty())
		Expect(info.Subpass).To(BeZero())
	})

	It("passes optional dynamic states through", func() {
		_, err := pipeline.Triangle(vertex, fragment, extent, layout, renderPass).
			WithDynamicState(gpu.DynamicStateViewport, gpu.DynamicStateScissor).
			Create(driver, device)
		Expect(err).NotTo(HaveOccurred())

		Expect(driver.PipelineInfos[0].DynamicStates).To(Equal([]gpu.DynamicState{
			gpu.DynamicStateViewport, gpu.DynamicStateScissor,
		}))
	})

	It("lists every missing stage", func() {
		b := pipeline.NewBuilder().
			WithShaderStage(gpu.ShaderStageVertex, vertex).
			WithViewport(extent).
			WithLayout(layout)

		_, err := b.Create(driver, device)
		Expect(err).To(HaveOccurred())
		Expect(errors.HasAssertionFailure(err)).To(BeTrue())

		var missing *pipeline.MissingStagesError
		Expect(errors.As(err, &missing)).To(BeTrue())
		Expect(missing.Stages).To(Equal([]pipeline.Stage{
			pipeline.StageVertexInput,
			pipeline.StageInputAssembly,
			pipeline.StageRasterizer,
			pipeline.StageMultisample,
			pipeline.StageColorBlend,
			pipeline.StageRenderPass,
		}))
		Expect(err.Error()).To(ContainSubstring("vertex input"))
		Expect(driver.Count("CreateGraphicsPipelines")).To(BeZero())
	})

	// without builds the triangle pipeline leaving out one stage.
	without := func(skip pipeline.Stage) *pipeline.Builder {
		b := pipeline.NewBuilder()
		if skip != pipeline.StageShaders {
			b.WithShaderStage(gpu.ShaderStageVertex, vertex).
				WithShaderStage(gpu.ShaderStageFragment, fragment)
		}
		if skip != pipeline.StageVertexInput {
			b.WithVertexInputState(pipeline.VertexInput())
		}
		if skip != pipeline.StageInputAssembly {
			b.WithInputAssemblyState(pipeline.TriangleList())
		}
		if skip != pipeline.StageViewport {
			b.WithViewport(extent)
		}
		if skip != pipeline.StageRasterizer {
			b.WithRasterizer(pipeline.Rasterizer())
		}
		if skip != pipeline.StageMultisample {
			b.WithMultisample(pipeline.Multisample())
		}
		if skip != pipeline.StageColorBlend {
			b.WithColorBlend(pipeline.ColorBlend())
		}
		if skip != pipeline.StageLayout {
			b.WithLayout(layout)
		}
		if skip != pipeline.StageRenderPass {
			b.WithRenderPass(renderPass)
		}
		return b
	}

	DescribeTable("names the one missing stage",
		func(skip pipeline.Stage) {
			_, err := without(skip).Create(driver, device)
			Expect(errors.HasAssertionFailure(err)).To(BeTrue())

			var missing *pipeline.MissingStagesError
			Expect(errors.As(err, &missing)).To(BeTrue())
			Expect(missing.Stages).To(Equal([]pipeline.Stage{skip}))
			Expect(err.Error()).To(ContainSubstring(skip.String()))
			Expect(driver.Count("CreateGraphicsPipelines")).To(BeZero())
		},
		Entry("shader stages", pipeline.StageShaders),
		Entry("vertex input", pipeline.StageVertexInput),
		Entry("input assembly", pipeline.StageInputAssembly),
		Entry("viewport", pipeline.StageViewport),
		Entry("rasterizer", pipeline.StageRasterizer),
		Entry("multisample", pipeline.StageMultisample),
		Entry("color blend", pipeline.StageColorBlend),
		Entry("layout", pipeline.StageLayout),
		Entry("render pass", pipeline.StageRenderPass),
	)

	It("builds when no stage is left out", func() {
		Expect(without(-1).Missing()).To(BeEmpty())
	})

	It("is consumed by Create", func() {
		b := pipeline.Triangle(vertex, fragment, extent, layout, renderPass)
		_, err := b.Create(driver, device)
		Expect(err).NotTo(HaveOccurred())

		_, err = b.Create(driver, device)
		Expect(errors.Is(err, pipeline.ErrBuilderConsumed)).To(BeTrue())
		Expect(driver.Count("CreateGraphicsPipelines")).To(Equal(1))

		Expect(func() { b.WithLayout(layout) }).To(Panic())
	})

	It("is consumed by a failed Create too", func() {
		b := pipeline.NewBuilder()
		_, err := b.Create(driver, device)
		Expect(err).To(HaveOccurred())

		_, err = b.Create(driver, device)
		Expect(errors.Is(err, pipeline.ErrBuilderConsumed)).To(BeTrue())
	})

	It("marks driver failures", func() {
		driver.FailOn = map[string]error{"CreateGraphicsPipelines": errors.New("invalid shader")}

		_, err := pipeline.Triangle(vertex, fragment, extent, layout, renderPass).Create(driver, device)
		Expect(errors.Is(err, pipeline.ErrPipelineCreation)).To(BeTrue())
		Expect(err).To(MatchError(ContainSubstring("invalid shader")))
	})
})

var _ = Describe("RenderPassInfo", func() {
	It("clears one attachment and leaves it ready for presentation", func() {
		info := pipeline.RenderPassInfo(gpu.FormatB8G8R8A8Srgb)

		Expect(info.Attachments).To(HaveLen(1))
		attachment := info.Attachments[0]
		Expect(attachment.Format).To(Equal(gpu.FormatB8G8R8A8Srgb))
		Expect(attachment.LoadOp).To(Equal(gpu.LoadOpClear))
		Expect(attachment.StoreOp).To(Equal(gpu.StoreOpStore))
		Expect(attachment.InitialLayout).To(Equal(gpu.ImageLayoutUndefined))
		Expect(attachment.FinalLayout).To(Equal(gpu.ImageLayoutPresentSrc))

		Expect(info.Subpasses).To(HaveLen(1))
		Expect(info.Subpasses[0].ColorAttachments).To(ConsistOf(gpu.AttachmentReference{
			Attachment: 0,
			Layout:     gpu.ImageLayoutColorAttachmentOptimal,
		}))

		Expect(info.Dependencies).To(HaveLen(1))
		Expect(info.Dependencies[0].SrcSubpass).To(Equal(gpu.SubpassExternal))
		Expect(info.Dependencies[0].DstSubpass).To(BeZero())
	})
})
