package gpu

import "unsafe"

// SurfaceSource is anything that can create a presentation surface for an
// API instance. *glfw.Window satisfies it.
type SurfaceSource interface {
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error)
}

// Severity of a diagnostic message.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityPerformance
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityPerformance:
		return "performance"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// DiagnosticSink receives validation and debug messages from the driver.
type DiagnosticSink interface {
	Report(severity Severity, message string)
}

// GlobalDriver holds the entry points that exist before an instance.
type GlobalDriver interface {
	AvailableLayers() ([]string, error)
	AvailableExtensions() ([]string, error)
	CreateInstance(info InstanceInfo) (Instance, error)
}

// InstanceDriver holds the instance level entry points.
type InstanceDriver interface {
	DestroyInstance(instance Instance)

	CreateDebugCallback(instance Instance, sink DiagnosticSink) (DebugCallback, error)
	DestroyDebugCallback(instance Instance, callback DebugCallback)

	CreateSurface(instance Instance, source SurfaceSource) (Surface, error)
	DestroySurface(instance Instance, surface Surface)

	PhysicalDevices(instance Instance) ([]PhysicalDevice, error)
	AdapterProperties(adapter PhysicalDevice) AdapterProperties
	QueueFamilies(adapter PhysicalDevice) []QueueFamily
	SurfaceSupport(adapter PhysicalDevice, family uint32, surface Surface) (bool, error)
	SurfaceFormats(adapter PhysicalDevice, surface Surface) ([]SurfaceFormat, error)
	SurfaceCapabilities(adapter PhysicalDevice, surface Surface) (SurfaceCapabilities, error)
	SurfacePresentModes(adapter PhysicalDevice, surface Surface) ([]PresentMode, error)

	CreateDevice(adapter PhysicalDevice, info DeviceInfo) (Device, error)
}

// DeviceDriver holds the device level entry points.
type DeviceDriver interface {
	DestroyDevice(device Device)
	DeviceQueue(device Device, family uint32) Queue
	DeviceWaitIdle(device Device) error

	CreateSwapchain(device Device, info SwapchainInfo) (Swapchain, error)
	DestroySwapchain(device Device, swapchain Swapchain)
	SwapchainImages(device Device, swapchain Swapchain) ([]Image, error)

	CreateImageView(device Device, info ImageViewInfo) (ImageView, error)
	DestroyImageView(device Device, view ImageView)

	CreateShaderModule(device Device, code []byte) (ShaderModule, error)
	DestroyShaderModule(device Device, module ShaderModule)

	CreatePipelineLayout(device Device, info PipelineLayoutInfo) (PipelineLayout, error)
	DestroyPipelineLayout(device Device, layout PipelineLayout)

	CreateRenderPass(device Device, info RenderPassInfo) (RenderPass, error)
	DestroyRenderPass(device Device, renderPass RenderPass)

	CreateGraphicsPipelines(device Device, infos []GraphicsPipelineInfo) ([]Pipeline, error)
	DestroyPipeline(device Device, pipeline Pipeline)

	CreateFramebuffer(device Device, info FramebufferInfo) (Framebuffer, error)
	DestroyFramebuffer(device Device, framebuffer Framebuffer)

	CreateCommandPool(device Device, info CommandPoolInfo) (CommandPool, error)
	DestroyCommandPool(device Device, pool CommandPool)
	AllocateCommandBuffers(device Device, pool CommandPool, count int) ([]CommandBuffer, error)

	BeginCommandBuffer(buffer CommandBuffer, usage CommandBufferUsage) error
	EndCommandBuffer(buffer CommandBuffer) error
	CmdBeginRenderPass(buffer CommandBuffer, info RenderPassBeginInfo)
	CmdBindPipeline(buffer CommandBuffer, pipeline Pipeline)
	CmdDraw(buffer CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
	CmdEndRenderPass(buffer CommandBuffer)

	CreateSemaphore(device Device) (Semaphore, error)
	DestroySemaphore(device Device, semaphore Semaphore)

	CreateFence(device Device, signaled bool) (Fence, error)
	DestroyFence(device Device, fence Fence)
	WaitForFence(device Device, fence Fence, timeout uint64) error
	ResetFence(device Device, fence Fence) error

	AcquireNextImage(device Device, swapchain Swapchain, timeout uint64, signal Semaphore) (uint32, error)
	QueueSubmit(queue Queue, info SubmitInfo, fence Fence) error
	QueuePresent(queue Queue, info PresentInfo) error
}

// Driver is a complete graphics API implementation.
type Driver interface {
	GlobalDriver
	InstanceDriver
	DeviceDriver
}
