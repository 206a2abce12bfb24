// Package vkdriver implements gpu.Driver on top of github.com/vulkan-go/vulkan.
//
// Vulkan objects never leave the package. Callers receive gpu handles which
// the driver maps back to the Vulkan objects it created.
package vkdriver

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/ironsmile/vkframe/gpu"
)

// Driver is a gpu.Driver backed by the system Vulkan loader. It must be used
// from a single goroutine.
type Driver struct {
	next gpu.Handle

	instances       map[gpu.Handle]vk.Instance
	debugCallbacks  map[gpu.Handle]vk.DebugReportCallback
	surfaces        map[gpu.Handle]vk.Surface
	physicalDevices map[gpu.Handle]vk.PhysicalDevice
	devices         map[gpu.Handle]vk.Device
	queues          map[gpu.Handle]vk.Queue
	swapchains      map[gpu.Handle]vk.Swapchain
	images          map[gpu.Handle]vk.Image
	imageViews      map[gpu.Handle]vk.ImageView
	shaderModules   map[gpu.Handle]vk.ShaderModule
	pipelineLayouts map[gpu.Handle]vk.PipelineLayout
	renderPasses    map[gpu.Handle]vk.RenderPass
	pipelines       map[gpu.Handle]vk.Pipeline
	framebuffers    map[gpu.Handle]vk.Framebuffer
	commandPools    map[gpu.Handle]vk.CommandPool
	commandBuffers  map[gpu.Handle]vk.CommandBuffer
	poolBuffers     map[gpu.Handle][]gpu.Handle
	semaphores      map[gpu.Handle]vk.Semaphore
	fences          map[gpu.Handle]vk.Fence
}

var _ gpu.Driver = (*Driver)(nil)

// New loads the Vulkan entry points through getInstanceProcAddr, usually
// glfw.GetVulkanGetInstanceProcAddress().
func New(getInstanceProcAddr unsafe.Pointer) (*Driver, error) {
	vk.SetGetInstanceProcAddr(getInstanceProcAddr)
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "initializing vulkan")
	}

	return &Driver{
		instances:       make(map[gpu.Handle]vk.Instance),
		debugCallbacks:  make(map[gpu.Handle]vk.DebugReportCallback),
		surfaces:        make(map[gpu.Handle]vk.Surface),
		physicalDevices: make(map[gpu.Handle]vk.PhysicalDevice),
		devices:         make(map[gpu.Handle]vk.Device),
		queues:          make(map[gpu.Handle]vk.Queue),
		swapchains:      make(map[gpu.Handle]vk.Swapchain),
		images:          make(map[gpu.Handle]vk.Image),
		imageViews:      make(map[gpu.Handle]vk.ImageView),
		shaderModules:   make(map[gpu.Handle]vk.ShaderModule),
		pipelineLayouts: make(map[gpu.Handle]vk.PipelineLayout),
		renderPasses:    make(map[gpu.Handle]vk.RenderPass),
		pipelines:       make(map[gpu.Handle]vk.Pipeline),
		framebuffers:    make(map[gpu.Handle]vk.Framebuffer),
		commandPools:    make(map[gpu.Handle]vk.CommandPool),
		commandBuffers:  make(map[gpu.Handle]vk.CommandBuffer),
		poolBuffers:     make(map[gpu.Handle][]gpu.Handle),
		semaphores:      make(map[gpu.Handle]vk.Semaphore),
		fences:          make(map[gpu.Handle]vk.Fence),
	}, nil
}

// put stores obj in table under a fresh handle.
func put[T any](d *Driver, table map[gpu.Handle]T, obj T) gpu.Handle {
	d.next++
	table[d.next] = obj
	return d.next
}

// take removes the object stored under h and returns it.
func take[T any](table map[gpu.Handle]T, h gpu.Handle) (T, bool) {
	obj, ok := table[h]
	delete(table, h)
	return obj, ok
}
