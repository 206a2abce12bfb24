package vkdriver

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/unsafer"
)

func (d *Driver) device(device gpu.Device) vk.Device {
	return d.devices[gpu.Handle(device)]
}

func (d *Driver) DestroyDevice(device gpu.Device) {
	if obj, ok := take(d.devices, gpu.Handle(device)); ok {
		vk.DestroyDevice(obj, nil)
	}
}

func (d *Driver) DeviceQueue(device gpu.Device, family uint32) gpu.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(d.device(device), family, 0, &queue)
	return gpu.Queue(put(d, d.queues, queue))
}

func (d *Driver) DeviceWaitIdle(device gpu.Device) error {
	return check(vk.DeviceWaitIdle(d.device(device)), "waiting for device idle")
}

func (d *Driver) CreateSwapchain(device gpu.Device, info gpu.SwapchainInfo) (gpu.Swapchain, error) {
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          d.surfaces[gpu.Handle(info.Surface)],
		MinImageCount:    info.MinImageCount,
		ImageFormat:      vk.Format(info.Format.Format),
		ImageColorSpace:  vk.ColorSpace(info.Format.ColorSpace),
		ImageExtent:      extent(info.Extent),
		ImageArrayLayers: info.ArrayLayers,
		ImageUsage:       vk.ImageUsageFlags(info.Usage),
		ImageSharingMode: vk.SharingMode(info.SharingMode),
		PreTransform:     vk.SurfaceTransformFlagBits(info.PreTransform),
		CompositeAlpha:   vk.CompositeAlphaFlagBits(info.CompositeAlpha),
		PresentMode:      vk.PresentMode(info.PresentMode),
		Clipped:          bool32(info.Clipped),
		OldSwapchain:     vk.NullSwapchain,
	}

	var swapchain vk.Swapchain
	if err := check(vk.CreateSwapchain(d.device(device), &createInfo, nil, &swapchain), "creating swapchain"); err != nil {
		return 0, err
	}
	return gpu.Swapchain(put(d, d.swapchains, swapchain)), nil
}

func (d *Driver) DestroySwapchain(device gpu.Device, swapchain gpu.Swapchain) {
	if obj, ok := take(d.swapchains, gpu.Handle(swapchain)); ok {
		vk.DestroySwapchain(d.device(device), obj, nil)
	}
}

func (d *Driver) SwapchainImages(device gpu.Device, swapchain gpu.Swapchain) ([]gpu.Image, error) {
	dev := d.device(device)
	sc := d.swapchains[gpu.Handle(swapchain)]

	var count uint32
	if err := check(vk.GetSwapchainImages(dev, sc, &count, nil), "counting swapchain images"); err != nil {
		return nil, err
	}

	images := make([]vk.Image, count)
	if err := check(vk.GetSwapchainImages(dev, sc, &count, images), "getting swapchain images"); err != nil {
		return nil, err
	}

	out := make([]gpu.Image, 0, count)
	for _, image := range images[:count] {
		out = append(out, gpu.Image(put(d, d.images, image)))
	}
	return out, nil
}

func (d *Driver) CreateImageView(device gpu.Device, info gpu.ImageViewInfo) (gpu.ImageView, error) {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    d.images[gpu.Handle(info.Image)],
		ViewType: vk.ImageViewType(info.ViewType),
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzle(info.Components.R),
			G: vk.ComponentSwizzle(info.Components.G),
			B: vk.ComponentSwizzle(info.Components.B),
			A: vk.ComponentSwizzle(info.Components.A),
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(info.SubresourceRange.Aspect),
			BaseMipLevel:   info.SubresourceRange.BaseMipLevel,
			LevelCount:     info.SubresourceRange.LevelCount,
			BaseArrayLayer: info.SubresourceRange.BaseArrayLayer,
			LayerCount:     info.SubresourceRange.LayerCount,
		},
	}

	var view vk.ImageView
	if err := check(vk.CreateImageView(d.device(device), &createInfo, nil, &view), "creating image view"); err != nil {
		return 0, err
	}
	return gpu.ImageView(put(d, d.imageViews, view)), nil
}

func (d *Driver) DestroyImageView(device gpu.Device, view gpu.ImageView) {
	if obj, ok := take(d.imageViews, gpu.Handle(view)); ok {
		vk.DestroyImageView(d.device(device), obj, nil)
	}
}

// CreateShaderModule rejects code whose size is not a multiple of four
// since SPIR-V is a stream of 32 bit words.
func (d *Driver) CreateShaderModule(device gpu.Device, code []byte) (gpu.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return 0, errors.Newf("creating shader module: code size %d is not a positive multiple of 4", len(code))
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    unsafer.SliceBytesToUint32(code),
	}

	var module vk.ShaderModule
	if err := check(vk.CreateShaderModule(d.device(device), &createInfo, nil, &module), "creating shader module"); err != nil {
		return 0, err
	}
	return gpu.ShaderModule(put(d, d.shaderModules, module)), nil
}

func (d *Driver) DestroyShaderModule(device gpu.Device, module gpu.ShaderModule) {
	if obj, ok := take(d.shaderModules, gpu.Handle(module)); ok {
		vk.DestroyShaderModule(d.device(device), obj, nil)
	}
}

func (d *Driver) CreatePipelineLayout(device gpu.Device, info gpu.PipelineLayoutInfo) (gpu.PipelineLayout, error) {
	createInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         0,
		PushConstantRangeCount: 0,
	}

	var layout vk.PipelineLayout
	if err := check(vk.CreatePipelineLayout(d.device(device), &createInfo, nil, &layout), "creating pipeline layout"); err != nil {
		return 0, err
	}
	return gpu.PipelineLayout(put(d, d.pipelineLayouts, layout)), nil
}

func (d *Driver) DestroyPipelineLayout(device gpu.Device, layout gpu.PipelineLayout) {
	if obj, ok := take(d.pipelineLayouts, gpu.Handle(layout)); ok {
		vk.DestroyPipelineLayout(d.device(device), obj, nil)
	}
}

func (d *Driver) CreateRenderPass(device gpu.Device, info gpu.RenderPassInfo) (gpu.RenderPass, error) {
	attachments := make([]vk.AttachmentDescription, 0, len(info.Attachments))
	for _, a := range info.Attachments {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         vk.Format(a.Format),
			Samples:        vk.SampleCountFlagBits(a.Samples),
			LoadOp:         vk.AttachmentLoadOp(a.LoadOp),
			StoreOp:        vk.AttachmentStoreOp(a.StoreOp),
			StencilLoadOp:  vk.AttachmentLoadOp(a.StencilLoadOp),
			StencilStoreOp: vk.AttachmentStoreOp(a.StencilStoreOp),
			InitialLayout:  vk.ImageLayout(a.InitialLayout),
			FinalLayout:    vk.ImageLayout(a.FinalLayout),
		})
	}

	subpasses := make([]vk.SubpassDescription, 0, len(info.Subpasses))
	for _, s := range info.Subpasses {
		refs := make([]vk.AttachmentReference, 0, len(s.ColorAttachments))
		for _, r := range s.ColorAttachments {
			refs = append(refs, vk.AttachmentReference{
				Attachment: r.Attachment,
				Layout:     vk.ImageLayout(r.Layout),
			})
		}
		subpasses = append(subpasses, vk.SubpassDescription{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: uint32(len(refs)),
			PColorAttachments:    refs,
		})
	}

	dependencies := make([]vk.SubpassDependency, 0, len(info.Dependencies))
	for _, dep := range info.Dependencies {
		dependencies = append(dependencies, vk.SubpassDependency{
			SrcSubpass:    dep.SrcSubpass,
			DstSubpass:    dep.DstSubpass,
			SrcStageMask:  vk.PipelineStageFlags(dep.SrcStageMask),
			DstStageMask:  vk.PipelineStageFlags(dep.DstStageMask),
			SrcAccessMask: vk.AccessFlags(dep.SrcAccessMask),
			DstAccessMask: vk.AccessFlags(dep.DstAccessMask),
		})
	}

	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	var renderPass vk.RenderPass
	if err := check(vk.CreateRenderPass(d.device(device), &createInfo, nil, &renderPass), "creating render pass"); err != nil {
		return 0, err
	}
	return gpu.RenderPass(put(d, d.renderPasses, renderPass)), nil
}

func (d *Driver) DestroyRenderPass(device gpu.Device, renderPass gpu.RenderPass) {
	if obj, ok := take(d.renderPasses, gpu.Handle(renderPass)); ok {
		vk.DestroyRenderPass(d.device(device), obj, nil)
	}
}

func (d *Driver) CreateGraphicsPipelines(device gpu.Device, infos []gpu.GraphicsPipelineInfo) ([]gpu.Pipeline, error) {
	createInfos := make([]vk.GraphicsPipelineCreateInfo, 0, len(infos))
	for _, info := range infos {
		createInfos = append(createInfos, d.pipelineCreateInfo(info))
	}

	pipelines := make([]vk.Pipeline, len(createInfos))
	res := vk.CreateGraphicsPipelines(
		d.device(device),
		vk.PipelineCache(vk.NullHandle),
		uint32(len(createInfos)),
		createInfos,
		nil,
		pipelines,
	)
	if err := check(res, "creating graphics pipelines"); err != nil {
		return nil, err
	}

	out := make([]gpu.Pipeline, 0, len(pipelines))
	for _, p := range pipelines {
		out = append(out, gpu.Pipeline(put(d, d.pipelines, p)))
	}
	return out, nil
}

func (d *Driver) pipelineCreateInfo(info gpu.GraphicsPipelineInfo) vk.GraphicsPipelineCreateInfo {
	stages := make([]vk.PipelineShaderStageCreateInfo, 0, len(info.Stages))
	for _, s := range info.Stages {
		stages = append(stages, vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFlagBits(s.Stage),
			Module: d.shaderModules[gpu.Handle(s.Module)],
			PName:  cstring(s.Entry),
		})
	}

	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   info.VertexInput.BindingCount,
		VertexAttributeDescriptionCount: info.VertexInput.AttributeCount,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopology(info.InputAssembly.Topology),
		PrimitiveRestartEnable: bool32(info.InputAssembly.PrimitiveRestart),
	}

	viewports := make([]vk.Viewport, 0, len(info.Viewport.Viewports))
	for _, v := range info.Viewport.Viewports {
		viewports = append(viewports, vk.Viewport{
			X:        v.X,
			Y:        v.Y,
			Width:    v.Width,
			Height:   v.Height,
			MinDepth: v.MinDepth,
			MaxDepth: v.MaxDepth,
		})
	}
	scissors := make([]vk.Rect2D, 0, len(info.Viewport.Scissors))
	for _, s := range info.Viewport.Scissors {
		scissors = append(scissors, rect(s))
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: uint32(len(viewports)),
		PViewports:    viewports,
		ScissorCount:  uint32(len(scissors)),
		PScissors:     scissors,
	}

	r := info.Rasterization
	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        bool32(r.DepthClamp),
		RasterizerDiscardEnable: bool32(r.RasterizerDiscard),
		PolygonMode:             vk.PolygonMode(r.PolygonMode),
		CullMode:                vk.CullModeFlags(r.CullMode),
		FrontFace:               vk.FrontFace(r.FrontFace),
		DepthBiasEnable:         bool32(r.DepthBias),
		LineWidth:               r.LineWidth,
	}

	m := info.Multisample
	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  vk.SampleCountFlagBits(m.Samples),
		SampleShadingEnable:   bool32(m.SampleShading),
		MinSampleShading:      m.MinSampleShading,
		AlphaToCoverageEnable: bool32(m.AlphaToCoverage),
		AlphaToOneEnable:      bool32(m.AlphaToOne),
	}

	blendAttachments := make([]vk.PipelineColorBlendAttachmentState, 0, len(info.ColorBlend.Attachments))
	for _, a := range info.ColorBlend.Attachments {
		blendAttachments = append(blendAttachments, vk.PipelineColorBlendAttachmentState{
			BlendEnable:         bool32(a.BlendEnable),
			SrcColorBlendFactor: vk.BlendFactor(a.SrcColor),
			DstColorBlendFactor: vk.BlendFactor(a.DstColor),
			ColorBlendOp:        vk.BlendOp(a.ColorOp),
			SrcAlphaBlendFactor: vk.BlendFactor(a.SrcAlpha),
			DstAlphaBlendFactor: vk.BlendFactor(a.DstAlpha),
			AlphaBlendOp:        vk.BlendOp(a.AlphaOp),
			ColorWriteMask:      vk.ColorComponentFlags(a.ColorWriteMask),
		})
	}
	colorBlending := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   bool32(info.ColorBlend.LogicOpEnable),
		LogicOp:         vk.LogicOp(info.ColorBlend.LogicOp),
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
		BlendConstants:  info.ColorBlend.BlendConstants,
	}

	createInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PColorBlendState:    &colorBlending,
		Layout:              d.pipelineLayouts[gpu.Handle(info.Layout)],
		RenderPass:          d.renderPasses[gpu.Handle(info.RenderPass)],
		Subpass:             info.Subpass,
		BasePipelineHandle:  vk.Pipeline(vk.NullHandle),
		BasePipelineIndex:   -1,
	}

	if len(info.DynamicStates) > 0 {
		states := make([]vk.DynamicState, 0, len(info.DynamicStates))
		for _, s := range info.DynamicStates {
			states = append(states, vk.DynamicState(s))
		}
		createInfo.PDynamicState = &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(states)),
			PDynamicStates:    states,
		}
	}

	return createInfo
}

func (d *Driver) DestroyPipeline(device gpu.Device, pipeline gpu.Pipeline) {
	if obj, ok := take(d.pipelines, gpu.Handle(pipeline)); ok {
		vk.DestroyPipeline(d.device(device), obj, nil)
	}
}

func (d *Driver) CreateFramebuffer(device gpu.Device, info gpu.FramebufferInfo) (gpu.Framebuffer, error) {
	attachments := make([]vk.ImageView, 0, len(info.Attachments))
	for _, view := range info.Attachments {
		attachments = append(attachments, d.imageViews[gpu.Handle(view)])
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      d.renderPasses[gpu.Handle(info.RenderPass)],
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           info.Width,
		Height:          info.Height,
		Layers:          info.Layers,
	}

	var framebuffer vk.Framebuffer
	if err := check(vk.CreateFramebuffer(d.device(device), &createInfo, nil, &framebuffer), "creating framebuffer"); err != nil {
		return 0, err
	}
	return gpu.Framebuffer(put(d, d.framebuffers, framebuffer)), nil
}

func (d *Driver) DestroyFramebuffer(device gpu.Device, framebuffer gpu.Framebuffer) {
	if obj, ok := take(d.framebuffers, gpu.Handle(framebuffer)); ok {
		vk.DestroyFramebuffer(d.device(device), obj, nil)
	}
}

func (d *Driver) CreateCommandPool(device gpu.Device, info gpu.CommandPoolInfo) (gpu.CommandPool, error) {
	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: info.QueueFamily,
	}

	var pool vk.CommandPool
	if err := check(vk.CreateCommandPool(d.device(device), &createInfo, nil, &pool), "creating command pool"); err != nil {
		return 0, err
	}
	return gpu.CommandPool(put(d, d.commandPools, pool)), nil
}

// DestroyCommandPool also forgets the command buffers allocated from the pool
// since Vulkan frees them together with it.
func (d *Driver) DestroyCommandPool(device gpu.Device, pool gpu.CommandPool) {
	if obj, ok := take(d.commandPools, gpu.Handle(pool)); ok {
		vk.DestroyCommandPool(d.device(device), obj, nil)
	}
	for _, b := range d.poolBuffers[gpu.Handle(pool)] {
		delete(d.commandBuffers, b)
	}
	delete(d.poolBuffers, gpu.Handle(pool))
}

func (d *Driver) AllocateCommandBuffers(device gpu.Device, pool gpu.CommandPool, count int) ([]gpu.CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.commandPools[gpu.Handle(pool)],
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}

	buffers := make([]vk.CommandBuffer, count)
	if err := check(vk.AllocateCommandBuffers(d.device(device), &allocInfo, buffers), "allocating command buffers"); err != nil {
		return nil, err
	}

	out := make([]gpu.CommandBuffer, 0, count)
	for _, b := range buffers {
		h := put(d, d.commandBuffers, b)
		d.poolBuffers[gpu.Handle(pool)] = append(d.poolBuffers[gpu.Handle(pool)], h)
		out = append(out, gpu.CommandBuffer(h))
	}
	return out, nil
}

func (d *Driver) BeginCommandBuffer(buffer gpu.CommandBuffer, usage gpu.CommandBufferUsage) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(usage),
	}
	return check(vk.BeginCommandBuffer(d.commandBuffers[gpu.Handle(buffer)], &beginInfo), "beginning command buffer")
}

func (d *Driver) EndCommandBuffer(buffer gpu.CommandBuffer) error {
	return check(vk.EndCommandBuffer(d.commandBuffers[gpu.Handle(buffer)]), "ending command buffer")
}

func (d *Driver) CmdBeginRenderPass(buffer gpu.CommandBuffer, info gpu.RenderPassBeginInfo) {
	beginInfo := vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      d.renderPasses[gpu.Handle(info.RenderPass)],
		Framebuffer:     d.framebuffers[gpu.Handle(info.Framebuffer)],
		RenderArea:      rect(info.RenderArea),
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{vk.NewClearValue(info.ClearColor[:])},
	}
	vk.CmdBeginRenderPass(d.commandBuffers[gpu.Handle(buffer)], &beginInfo, vk.SubpassContentsInline)
}

func (d *Driver) CmdBindPipeline(buffer gpu.CommandBuffer, pipeline gpu.Pipeline) {
	vk.CmdBindPipeline(
		d.commandBuffers[gpu.Handle(buffer)],
		vk.PipelineBindPointGraphics,
		d.pipelines[gpu.Handle(pipeline)],
	)
}

func (d *Driver) CmdDraw(buffer gpu.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(d.commandBuffers[gpu.Handle(buffer)], vertexCount, instanceCount, firstVertex, firstInstance)
}

func (d *Driver) CmdEndRenderPass(buffer gpu.CommandBuffer) {
	vk.CmdEndRenderPass(d.commandBuffers[gpu.Handle(buffer)])
}

func (d *Driver) CreateSemaphore(device gpu.Device) (gpu.Semaphore, error) {
	createInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var semaphore vk.Semaphore
	if err := check(vk.CreateSemaphore(d.device(device), &createInfo, nil, &semaphore), "creating semaphore"); err != nil {
		return 0, err
	}
	return gpu.Semaphore(put(d, d.semaphores, semaphore)), nil
}

func (d *Driver) DestroySemaphore(device gpu.Device, semaphore gpu.Semaphore) {
	if obj, ok := take(d.semaphores, gpu.Handle(semaphore)); ok {
		vk.DestroySemaphore(d.device(device), obj, nil)
	}
}

func (d *Driver) CreateFence(device gpu.Device, signaled bool) (gpu.Fence, error) {
	createInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		createInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	if err := check(vk.CreateFence(d.device(device), &createInfo, nil, &fence), "creating fence"); err != nil {
		return 0, err
	}
	return gpu.Fence(put(d, d.fences, fence)), nil
}

func (d *Driver) DestroyFence(device gpu.Device, fence gpu.Fence) {
	if obj, ok := take(d.fences, gpu.Handle(fence)); ok {
		vk.DestroyFence(d.device(device), obj, nil)
	}
}

// WaitForFence returns an error marked with gpu.ErrTimeout when the fence
// does not signal within timeout nanoseconds.
func (d *Driver) WaitForFence(device gpu.Device, fence gpu.Fence, timeout uint64) error {
	fences := []vk.Fence{d.fences[gpu.Handle(fence)]}
	return check(vk.WaitForFences(d.device(device), 1, fences, vk.True, timeout), "waiting for fence")
}

func (d *Driver) ResetFence(device gpu.Device, fence gpu.Fence) error {
	fences := []vk.Fence{d.fences[gpu.Handle(fence)]}
	return check(vk.ResetFences(d.device(device), 1, fences), "resetting fence")
}

// AcquireNextImage treats a suboptimal swapchain as success.
func (d *Driver) AcquireNextImage(device gpu.Device, swapchain gpu.Swapchain, timeout uint64, signal gpu.Semaphore) (uint32, error) {
	var imageIndex uint32
	res := vk.AcquireNextImage(
		d.device(device),
		d.swapchains[gpu.Handle(swapchain)],
		timeout,
		d.semaphores[gpu.Handle(signal)],
		vk.Fence(vk.NullHandle),
		&imageIndex,
	)
	if err := check(res, "acquiring next image", vk.Suboptimal); err != nil {
		return 0, err
	}
	return imageIndex, nil
}

func (d *Driver) QueueSubmit(queue gpu.Queue, info gpu.SubmitInfo, fence gpu.Fence) error {
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{d.commandBuffers[gpu.Handle(info.CommandBuffer)]},
	}
	if info.WaitSemaphore != 0 {
		submitInfo.WaitSemaphoreCount = 1
		submitInfo.PWaitSemaphores = []vk.Semaphore{d.semaphores[gpu.Handle(info.WaitSemaphore)]}
		submitInfo.PWaitDstStageMask = []vk.PipelineStageFlags{vk.PipelineStageFlags(info.WaitStage)}
	}
	if info.SignalSemaphore != 0 {
		submitInfo.SignalSemaphoreCount = 1
		submitInfo.PSignalSemaphores = []vk.Semaphore{d.semaphores[gpu.Handle(info.SignalSemaphore)]}
	}

	vkFence := vk.Fence(vk.NullHandle)
	if fence != 0 {
		vkFence = d.fences[gpu.Handle(fence)]
	}

	res := vk.QueueSubmit(d.queues[gpu.Handle(queue)], 1, []vk.SubmitInfo{submitInfo}, vkFence)
	return check(res, "submitting to queue")
}

// QueuePresent treats a suboptimal swapchain as success.
func (d *Driver) QueuePresent(queue gpu.Queue, info gpu.PresentInfo) error {
	presentInfo := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{d.swapchains[gpu.Handle(info.Swapchain)]},
		PImageIndices:  []uint32{info.ImageIndex},
	}
	if info.WaitSemaphore != 0 {
		presentInfo.WaitSemaphoreCount = 1
		presentInfo.PWaitSemaphores = []vk.Semaphore{d.semaphores[gpu.Handle(info.WaitSemaphore)]}
	}

	res := vk.QueuePresent(d.queues[gpu.Handle(queue)], &presentInfo)
	return check(res, "presenting", vk.Suboptimal)
}
