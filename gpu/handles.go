// Package gpu is the contract between the renderer and the graphics API.
//
// Handles are opaque. Enumerations carry the numeric values Vulkan uses for
// the same concepts so that a driver can convert them with a plain cast.
package gpu

// Handle is an opaque driver object reference. The zero value is the null
// handle.
type Handle uint64

// NullHandle is the null handle.
const NullHandle Handle = 0

type (
	Instance       Handle
	DebugCallback  Handle
	Surface        Handle
	PhysicalDevice Handle
	Device         Handle
	Queue          Handle
	Swapchain      Handle
	Image          Handle
	ImageView      Handle
	ShaderModule   Handle
	PipelineLayout Handle
	RenderPass     Handle
	Pipeline       Handle
	Framebuffer    Handle
	CommandPool    Handle
	CommandBuffer  Handle
	Semaphore      Handle
	Fence          Handle
)

// NoTimeout makes a wait block until the awaited object is signaled.
const NoTimeout uint64 = ^uint64(0)
