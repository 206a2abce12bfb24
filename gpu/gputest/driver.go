// Package gputest provides an in-memory gpu.Driver that records every call
// and checks object lifetimes and fence/semaphore usage the way the
// validation layers would.
package gputest

import (
	"fmt"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/ironsmile/vkframe/gpu"
)

// Kind names the type of a tracked object.
type Kind string

const (
	KindInstance       Kind = "instance"
	KindDebugCallback  Kind = "debug-callback"
	KindSurface        Kind = "surface"
	KindDevice         Kind = "device"
	KindSwapchain      Kind = "swapchain"
	KindImageView      Kind = "image-view"
	KindShaderModule   Kind = "shader-module"
	KindPipelineLayout Kind = "pipeline-layout"
	KindRenderPass     Kind = "render-pass"
	KindPipeline       Kind = "pipeline"
	KindFramebuffer    Kind = "framebuffer"
	KindCommandPool    Kind = "command-pool"
	KindSemaphore      Kind = "semaphore"
	KindFence          Kind = "fence"
)

// Object is a created or destroyed driver object.
type Object struct {
	Kind   Kind
	Handle gpu.Handle
}

func (o Object) String() string {
	return fmt.Sprintf("%s#%d", o.Kind, o.Handle)
}

// Adapter is a fake physical device.
type Adapter struct {
	Properties gpu.AdapterProperties
	Families   []gpu.QueueFamily

	// PresentFamilies lists the family indices able to present to any
	// surface.
	PresentFamilies []uint32
}

// Submission is one recorded QueueSubmit call.
type Submission struct {
	Queue gpu.Queue
	Info  gpu.SubmitInfo
	Fence gpu.Fence
}

type object struct {
	Object
	deps []gpu.Handle
}

type fenceState struct {
	signaled bool
	pending  bool
	waits    []gpu.Semaphore
}

// Driver is a fake gpu.Driver. The exported fields configure what the fake
// reports and record what it was asked to do. The zero value is not usable;
// call NewDriver.
type Driver struct {
	Layers       []string
	Extensions   []string
	Adapters     []Adapter
	Formats      []gpu.SurfaceFormat
	Capabilities gpu.SurfaceCapabilities
	PresentModes []gpu.PresentMode

	// FailOn makes the named method return the error every time it is
	// called.
	FailOn map[string]error

	Calls       []string
	Created     []Object
	Destroyed   []Object
	Violations  []string
	Submissions []Submission
	Presents    []gpu.PresentInfo

	InstanceInfo   gpu.InstanceInfo
	DeviceInfo     gpu.DeviceInfo
	SwapchainInfo  gpu.SwapchainInfo
	ImageViewInfos []gpu.ImageViewInfo
	RenderPassInfo gpu.RenderPassInfo
	PipelineInfos  []gpu.GraphicsPipelineInfo
	Framebuffers   []gpu.FramebufferInfo
	CommandPool    gpu.CommandPoolInfo

	// Commands holds the recorded commands of every command buffer.
	Commands         map[gpu.CommandBuffer][]string
	RenderPassBegins map[gpu.CommandBuffer]gpu.RenderPassBeginInfo

	Sinks []gpu.DiagnosticSink

	next       gpu.Handle
	live       map[gpu.Handle]*object
	images     map[gpu.Swapchain][]gpu.Image
	imageOwner map[gpu.Image]gpu.Swapchain
	adapters   map[gpu.PhysicalDevice]int
	fences     map[gpu.Fence]*fenceState
	signaled   map[gpu.Semaphore]bool
	acquired   map[gpu.Swapchain]int
	recording  map[gpu.CommandBuffer]bool
}

var _ gpu.Driver = (*Driver)(nil)

// NewDriver returns a driver with one discrete adapter whose first queue
// family does graphics and presentation, a B8G8R8A8 sRGB surface with a
// 800x600 current extent and both FIFO and MAILBOX present modes.
func NewDriver() *Driver {
	return &Driver{
		Layers:     []string{"VK_LAYER_KHRONOS_validation"},
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xlib_surface", "VK_EXT_debug_report"},
		Adapters: []Adapter{
			{
				Properties: gpu.AdapterProperties{
					Name: "Fake GPU",
					Type: gpu.AdapterDiscrete,
				},
				Families: []gpu.QueueFamily{
					{Index: 0, Flags: gpu.QueueGraphics | gpu.QueueCompute | gpu.QueueTransfer, Count: 1},
				},
				PresentFamilies: []uint32{0},
			},
		},
		Formats: []gpu.SurfaceFormat{
			{Format: gpu.FormatB8G8R8A8Srgb, ColorSpace: gpu.ColorSpaceSrgbNonlinear},
		},
		Capabilities: gpu.SurfaceCapabilities{
			MinImageCount:       2,
			MaxImageCount:       8,
			CurrentExtent:       gpu.Extent2D{Width: 800, Height: 600},
			MinImageExtent:      gpu.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:      gpu.Extent2D{Width: 4096, Height: 4096},
			SupportedTransforms: gpu.SurfaceTransformIdentity,
			CurrentTransform:    gpu.SurfaceTransformIdentity,
		},
		PresentModes: []gpu.PresentMode{gpu.PresentModeFifo, gpu.PresentModeMailbox},
	}
}

func (d *Driver) init() {
	if d.live != nil {
		return
	}
	d.live = make(map[gpu.Handle]*object)
	d.images = make(map[gpu.Swapchain][]gpu.Image)
	d.imageOwner = make(map[gpu.Image]gpu.Swapchain)
	d.adapters = make(map[gpu.PhysicalDevice]int)
	d.fences = make(map[gpu.Fence]*fenceState)
	d.signaled = make(map[gpu.Semaphore]bool)
	d.acquired = make(map[gpu.Swapchain]int)
	d.recording = make(map[gpu.CommandBuffer]bool)
	d.Commands = make(map[gpu.CommandBuffer][]string)
	d.RenderPassBegins = make(map[gpu.CommandBuffer]gpu.RenderPassBeginInfo)
}

func (d *Driver) call(op string) error {
	d.init()
	d.Calls = append(d.Calls, op)
	if err, ok := d.FailOn[op]; ok {
		return err
	}
	return nil
}

func (d *Driver) violate(format string, args ...interface{}) {
	d.Violations = append(d.Violations, fmt.Sprintf(format, args...))
}

func (d *Driver) handle() gpu.Handle {
	d.next++
	return d.next
}

func (d *Driver) create(kind Kind, deps ...gpu.Handle) gpu.Handle {
	h := d.handle()
	for _, dep := range deps {
		if _, ok := d.live[dep]; !ok {
			d.violate("%s#%d created from dead or unknown handle %d", kind, h, dep)
		}
	}
	obj := &object{Object: Object{Kind: kind, Handle: h}, deps: deps}
	d.live[h] = obj
	d.Created = append(d.Created, obj.Object)
	return h
}

func (d *Driver) destroy(kind Kind, h gpu.Handle) {
	d.init()
	d.Calls = append(d.Calls, "Destroy:"+string(kind))
	if h == gpu.NullHandle {
		return
	}
	obj, ok := d.live[h]
	if !ok {
		d.violate("%s#%d destroyed but not alive", kind, h)
		return
	}
	if obj.Kind != kind {
		d.violate("%s destroyed as %s", obj.Object, kind)
	}
	for _, other := range d.live {
		for _, dep := range other.deps {
			if dep == h {
				d.violate("%s destroyed while %s still uses it", obj.Object, other.Object)
			}
		}
	}
	delete(d.live, h)
	d.Destroyed = append(d.Destroyed, obj.Object)
}

// Live returns the objects that were created and not yet destroyed.
func (d *Driver) Live() []Object {
	var out []Object
	for _, obj := range d.Created {
		if _, ok := d.live[obj.Handle]; ok {
			out = append(out, obj)
		}
	}
	return out
}

// Count returns how many times op was called.
func (d *Driver) Count(op string) int {
	n := 0
	for _, c := range d.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// Pending reports whether a submission guarded by the fence has not
// completed yet.
func (d *Driver) Pending(fence gpu.Fence) bool {
	st, ok := d.fences[fence]
	return ok && st.pending
}

// Report sends a message to every installed debug callback.
func (d *Driver) Report(severity gpu.Severity, message string) {
	for _, sink := range d.Sinks {
		sink.Report(severity, message)
	}
}

func (d *Driver) AvailableLayers() ([]string, error) {
	if err := d.call("AvailableLayers"); err != nil {
		return nil, err
	}
	return append([]string(nil), d.Layers...), nil
}

func (d *Driver) AvailableExtensions() ([]string, error) {
	if err := d.call("AvailableExtensions"); err != nil {
		return nil, err
	}
	return append([]string(nil), d.Extensions...), nil
}

func (d *Driver) CreateInstance(info gpu.InstanceInfo) (gpu.Instance, error) {
	if err := d.call("CreateInstance"); err != nil {
		return 0, err
	}
	d.InstanceInfo = info
	return gpu.Instance(d.create(KindInstance)), nil
}

func (d *Driver) DestroyInstance(instance gpu.Instance) {
	d.destroy(KindInstance, gpu.Handle(instance))
}

func (d *Driver) CreateDebugCallback(instance gpu.Instance, sink gpu.DiagnosticSink) (gpu.DebugCallback, error) {
	if err := d.call("CreateDebugCallback"); err != nil {
		return 0, err
	}
	d.Sinks = append(d.Sinks, sink)
	return gpu.DebugCallback(d.create(KindDebugCallback, gpu.Handle(instance))), nil
}

func (d *Driver) DestroyDebugCallback(instance gpu.Instance, callback gpu.DebugCallback) {
	d.destroy(KindDebugCallback, gpu.Handle(callback))
}

func (d *Driver) CreateSurface(instance gpu.Instance, source gpu.SurfaceSource) (gpu.Surface, error) {
	if err := d.call("CreateSurface"); err != nil {
		return 0, err
	}
	if source != nil {
		if _, err := source.CreateWindowSurface(instance, unsafe.Pointer(nil)); err != nil {
			return 0, err
		}
	}
	return gpu.Surface(d.create(KindSurface, gpu.Handle(instance))), nil
}

func (d *Driver) DestroySurface(instance gpu.Instance, surface gpu.Surface) {
	d.destroy(KindSurface, gpu.Handle(surface))
}

func (d *Driver) PhysicalDevices(instance gpu.Instance) ([]gpu.PhysicalDevice, error) {
	if err := d.call("PhysicalDevices"); err != nil {
		return nil, err
	}
	out := make([]gpu.PhysicalDevice, 0, len(d.Adapters))
	for i := range d.Adapters {
		h := gpu.PhysicalDevice(d.handle())
		d.adapters[h] = i
		out = append(out, h)
	}
	return out, nil
}

func (d *Driver) adapter(pd gpu.PhysicalDevice) *Adapter {
	i, ok := d.adapters[pd]
	if !ok {
		d.violate("unknown physical device %d", pd)
		return &Adapter{}
	}
	return &d.Adapters[i]
}

func (d *Driver) AdapterProperties(adapter gpu.PhysicalDevice) gpu.AdapterProperties {
	d.call("AdapterProperties")
	return d.adapter(adapter).Properties
}

func (d *Driver) QueueFamilies(adapter gpu.PhysicalDevice) []gpu.QueueFamily {
	d.call("QueueFamilies")
	return append([]gpu.QueueFamily(nil), d.adapter(adapter).Families...)
}

func (d *Driver) SurfaceSupport(adapter gpu.PhysicalDevice, family uint32, surface gpu.Surface) (bool, error) {
	if err := d.call("SurfaceSupport"); err != nil {
		return false, err
	}
	for _, f := range d.adapter(adapter).PresentFamilies {
		if f == family {
			return true, nil
		}
	}
	return false, nil
}

func (d *Driver) SurfaceFormats(adapter gpu.PhysicalDevice, surface gpu.Surface) ([]gpu.SurfaceFormat, error) {
	if err := d.call("SurfaceFormats"); err != nil {
		return nil, err
	}
	return append([]gpu.SurfaceFormat(nil), d.Formats...), nil
}

func (d *Driver) SurfaceCapabilities(adapter gpu.PhysicalDevice, surface gpu.Surface) (gpu.SurfaceCapabilities, error) {
	if err := d.call("SurfaceCapabilities"); err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	return d.Capabilities, nil
}

func (d *Driver) SurfacePresentModes(adapter gpu.PhysicalDevice, surface gpu.Surface) ([]gpu.PresentMode, error) {
	if err := d.call("SurfacePresentModes"); err != nil {
		return nil, err
	}
	return append([]gpu.PresentMode(nil), d.PresentModes...), nil
}

func (d *Driver) CreateDevice(adapter gpu.PhysicalDevice, info gpu.DeviceInfo) (gpu.Device, error) {
	if err := d.call("CreateDevice"); err != nil {
		return 0, err
	}
	d.DeviceInfo = info
	// A device depends on the latest instance, if there is one.
	var deps []gpu.Handle
	for _, obj := range d.Created {
		if obj.Kind == KindInstance {
			deps = []gpu.Handle{obj.Handle}
		}
	}
	return gpu.Device(d.create(KindDevice, deps...)), nil
}

func (d *Driver) DestroyDevice(device gpu.Device) {
	d.destroy(KindDevice, gpu.Handle(device))
}

func (d *Driver) DeviceQueue(device gpu.Device, family uint32) gpu.Queue {
	d.call("DeviceQueue")
	return gpu.Queue(d.handle())
}

// DeviceWaitIdle completes every pending submission.
func (d *Driver) DeviceWaitIdle(device gpu.Device) error {
	if err := d.call("DeviceWaitIdle"); err != nil {
		return err
	}
	for _, st := range d.fences {
		if st.pending {
			st.pending = false
			st.signaled = true
		}
	}
	return nil
}

func (d *Driver) CreateSwapchain(device gpu.Device, info gpu.SwapchainInfo) (gpu.Swapchain, error) {
	if err := d.call("CreateSwapchain"); err != nil {
		return 0, err
	}
	d.SwapchainInfo = info
	sc := gpu.Swapchain(d.create(KindSwapchain, gpu.Handle(device), gpu.Handle(info.Surface)))
	images := make([]gpu.Image, info.MinImageCount)
	for i := range images {
		images[i] = gpu.Image(d.handle())
		d.imageOwner[images[i]] = sc
	}
	d.images[sc] = images
	return sc, nil
}

func (d *Driver) DestroySwapchain(device gpu.Device, swapchain gpu.Swapchain) {
	d.destroy(KindSwapchain, gpu.Handle(swapchain))
}

func (d *Driver) SwapchainImages(device gpu.Device, swapchain gpu.Swapchain) ([]gpu.Image, error) {
	if err := d.call("SwapchainImages"); err != nil {
		return nil, err
	}
	return append([]gpu.Image(nil), d.images[swapchain]...), nil
}

func (d *Driver) CreateImageView(device gpu.Device, info gpu.ImageViewInfo) (gpu.ImageView, error) {
	if err := d.call("CreateImageView"); err != nil {
		return 0, err
	}
	owner, ok := d.imageOwner[info.Image]
	if !ok {
		d.violate("image view of unknown image %d", info.Image)
	}
	d.ImageViewInfos = append(d.ImageViewInfos, info)
	return gpu.ImageView(d.create(KindImageView, gpu.Handle(device), gpu.Handle(owner))), nil
}

func (d *Driver) DestroyImageView(device gpu.Device, view gpu.ImageView) {
	d.destroy(KindImageView, gpu.Handle(view))
}

func (d *Driver) CreateShaderModule(device gpu.Device, code []byte) (gpu.ShaderModule, error) {
	if err := d.call("CreateShaderModule"); err != nil {
		return 0, err
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return 0, errors.Newf("shader code size %d is not a positive multiple of 4", len(code))
	}
	return gpu.ShaderModule(d.create(KindShaderModule, gpu.Handle(device))), nil
}

func (d *Driver) DestroyShaderModule(device gpu.Device, module gpu.ShaderModule) {
	d.destroy(KindShaderModule, gpu.Handle(module))
}

func (d *Driver) CreatePipelineLayout(device gpu.Device, info gpu.PipelineLayoutInfo) (gpu.PipelineLayout, error) {
	if err := d.call("CreatePipelineLayout"); err != nil {
		return 0, err
	}
	return gpu.PipelineLayout(d.create(KindPipelineLayout, gpu.Handle(device))), nil
}

func (d *Driver) DestroyPipelineLayout(device gpu.Device, layout gpu.PipelineLayout) {
	d.destroy(KindPipelineLayout, gpu.Handle(layout))
}

func (d *Driver) CreateRenderPass(device gpu.Device, info gpu.RenderPassInfo) (gpu.RenderPass, error) {
	if err := d.call("CreateRenderPass"); err != nil {
		return 0, err
	}
	d.RenderPassInfo = info
	return gpu.RenderPass(d.create(KindRenderPass, gpu.Handle(device))), nil
}

func (d *Driver) DestroyRenderPass(device gpu.Device, renderPass gpu.RenderPass) {
	d.destroy(KindRenderPass, gpu.Handle(renderPass))
}

func (d *Driver) CreateGraphicsPipelines(device gpu.Device, infos []gpu.GraphicsPipelineInfo) ([]gpu.Pipeline, error) {
	if err := d.call("CreateGraphicsPipelines"); err != nil {
		return nil, err
	}
	out := make([]gpu.Pipeline, 0, len(infos))
	for _, info := range infos {
		for _, stage := range info.Stages {
			if _, ok := d.live[gpu.Handle(stage.Module)]; !ok {
				d.violate("pipeline created from dead shader module %d", stage.Module)
			}
		}
		d.PipelineInfos = append(d.PipelineInfos, info)
		h := d.create(KindPipeline, gpu.Handle(device), gpu.Handle(info.Layout), gpu.Handle(info.RenderPass))
		out = append(out, gpu.Pipeline(h))
	}
	return out, nil
}

func (d *Driver) DestroyPipeline(device gpu.Device, pipeline gpu.Pipeline) {
	d.destroy(KindPipeline, gpu.Handle(pipeline))
}

func (d *Driver) CreateFramebuffer(device gpu.Device, info gpu.FramebufferInfo) (gpu.Framebuffer, error) {
	if err := d.call("CreateFramebuffer"); err != nil {
		return 0, err
	}
	deps := []gpu.Handle{gpu.Handle(device), gpu.Handle(info.RenderPass)}
	for _, view := range info.Attachments {
		deps = append(deps, gpu.Handle(view))
	}
	d.Framebuffers = append(d.Framebuffers, info)
	return gpu.Framebuffer(d.create(KindFramebuffer, deps...)), nil
}

func (d *Driver) DestroyFramebuffer(device gpu.Device, framebuffer gpu.Framebuffer) {
	d.destroy(KindFramebuffer, gpu.Handle(framebuffer))
}

func (d *Driver) CreateCommandPool(device gpu.Device, info gpu.CommandPoolInfo) (gpu.CommandPool, error) {
	if err := d.call("CreateCommandPool"); err != nil {
		return 0, err
	}
	d.CommandPool = info
	return gpu.CommandPool(d.create(KindCommandPool, gpu.Handle(device))), nil
}

func (d *Driver) DestroyCommandPool(device gpu.Device, pool gpu.CommandPool) {
	for _, st := range d.fences {
		if st.pending {
			d.violate("command pool %d destroyed with a pending submission", pool)
			break
		}
	}
	d.destroy(KindCommandPool, gpu.Handle(pool))
}

func (d *Driver) AllocateCommandBuffers(device gpu.Device, pool gpu.CommandPool, count int) ([]gpu.CommandBuffer, error) {
	if err := d.call("AllocateCommandBuffers"); err != nil {
		return nil, err
	}
	out := make([]gpu.CommandBuffer, count)
	for i := range out {
		out[i] = gpu.CommandBuffer(d.handle())
		d.Commands[out[i]] = nil
	}
	return out, nil
}

func (d *Driver) record(buffer gpu.CommandBuffer, cmd string) {
	if !d.recording[buffer] {
		d.violate("%s recorded outside begin/end on command buffer %d", cmd, buffer)
	}
	d.Commands[buffer] = append(d.Commands[buffer], cmd)
}

func (d *Driver) BeginCommandBuffer(buffer gpu.CommandBuffer, usage gpu.CommandBufferUsage) error {
	if err := d.call("BeginCommandBuffer"); err != nil {
		return err
	}
	d.recording[buffer] = true
	d.record(buffer, fmt.Sprintf("begin(usage=%#x)", uint32(usage)))
	return nil
}

func (d *Driver) EndCommandBuffer(buffer gpu.CommandBuffer) error {
	if err := d.call("EndCommandBuffer"); err != nil {
		return err
	}
	d.record(buffer, "end")
	d.recording[buffer] = false
	return nil
}

func (d *Driver) CmdBeginRenderPass(buffer gpu.CommandBuffer, info gpu.RenderPassBeginInfo) {
	d.call("CmdBeginRenderPass")
	d.RenderPassBegins[buffer] = info
	d.record(buffer, "beginRenderPass")
}

func (d *Driver) CmdBindPipeline(buffer gpu.CommandBuffer, pipeline gpu.Pipeline) {
	d.call("CmdBindPipeline")
	d.record(buffer, "bindPipeline")
}

func (d *Driver) CmdDraw(buffer gpu.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	d.call("CmdDraw")
	d.record(buffer, fmt.Sprintf("draw(%d,%d,%d,%d)", vertexCount, instanceCount, firstVertex, firstInstance))
}

func (d *Driver) CmdEndRenderPass(buffer gpu.CommandBuffer) {
	d.call("CmdEndRenderPass")
	d.record(buffer, "endRenderPass")
}

func (d *Driver) CreateSemaphore(device gpu.Device) (gpu.Semaphore, error) {
	if err := d.call("CreateSemaphore"); err != nil {
		return 0, err
	}
	return gpu.Semaphore(d.create(KindSemaphore, gpu.Handle(device))), nil
}

func (d *Driver) DestroySemaphore(device gpu.Device, semaphore gpu.Semaphore) {
	for fence, st := range d.fences {
		if !st.pending {
			continue
		}
		for _, s := range st.waits {
			if s == semaphore {
				d.violate("semaphore %d destroyed while fence %d submission is pending", semaphore, fence)
			}
		}
	}
	d.destroy(KindSemaphore, gpu.Handle(semaphore))
}

func (d *Driver) CreateFence(device gpu.Device, signaled bool) (gpu.Fence, error) {
	if err := d.call("CreateFence"); err != nil {
		return 0, err
	}
	f := gpu.Fence(d.create(KindFence, gpu.Handle(device)))
	d.fences[f] = &fenceState{signaled: signaled}
	return f, nil
}

func (d *Driver) DestroyFence(device gpu.Device, fence gpu.Fence) {
	if d.Pending(fence) {
		d.violate("fence %d destroyed while its submission is pending", fence)
	}
	delete(d.fences, fence)
	d.destroy(KindFence, gpu.Handle(fence))
}

// WaitForFence completes the pending submission guarded by the fence. A
// fence that was reset and never submitted would block forever; the fake
// reports a violation and returns a timeout instead.
func (d *Driver) WaitForFence(device gpu.Device, fence gpu.Fence, timeout uint64) error {
	if err := d.call("WaitForFence"); err != nil {
		return err
	}
	st, ok := d.fences[fence]
	if !ok {
		d.violate("wait on unknown fence %d", fence)
		return errors.Mark(errors.Newf("fence %d unknown", fence), gpu.ErrTimeout)
	}
	if st.pending {
		st.pending = false
		st.signaled = true
	}
	if !st.signaled {
		d.violate("wait on fence %d that nothing will signal", fence)
		return errors.Mark(errors.Newf("fence %d never signaled", fence), gpu.ErrTimeout)
	}
	return nil
}

func (d *Driver) ResetFence(device gpu.Device, fence gpu.Fence) error {
	if err := d.call("ResetFence"); err != nil {
		return err
	}
	st, ok := d.fences[fence]
	if !ok {
		d.violate("reset of unknown fence %d", fence)
		return nil
	}
	if st.pending {
		d.violate("reset of fence %d with a pending submission", fence)
	}
	st.signaled = false
	return nil
}

// AcquireNextImage hands out the swapchain images round robin.
func (d *Driver) AcquireNextImage(device gpu.Device, swapchain gpu.Swapchain, timeout uint64, signal gpu.Semaphore) (uint32, error) {
	if err := d.call("AcquireNextImage"); err != nil {
		return 0, err
	}
	images := d.images[swapchain]
	if len(images) == 0 {
		d.violate("acquire from swapchain %d without images", swapchain)
		return 0, errors.Mark(errors.New("no images"), gpu.ErrOutOfDate)
	}
	if d.signaled[signal] {
		d.violate("acquire signals semaphore %d which is already signaled", signal)
	}
	d.signaled[signal] = true
	idx := d.acquired[swapchain] % len(images)
	d.acquired[swapchain]++
	return uint32(idx), nil
}

func (d *Driver) QueueSubmit(queue gpu.Queue, info gpu.SubmitInfo, fence gpu.Fence) error {
	if err := d.call("QueueSubmit"); err != nil {
		return err
	}
	if info.WaitSemaphore != 0 {
		if !d.signaled[info.WaitSemaphore] {
			d.violate("submit waits on unsignaled semaphore %d", info.WaitSemaphore)
		}
		d.signaled[info.WaitSemaphore] = false
	}
	if info.SignalSemaphore != 0 {
		if d.signaled[info.SignalSemaphore] {
			d.violate("submit signals semaphore %d which is already signaled", info.SignalSemaphore)
		}
		d.signaled[info.SignalSemaphore] = true
	}
	if _, ok := d.Commands[info.CommandBuffer]; !ok {
		d.violate("submit of unknown command buffer %d", info.CommandBuffer)
	} else if d.recording[info.CommandBuffer] {
		d.violate("submit of command buffer %d still recording", info.CommandBuffer)
	}
	if fence != 0 {
		st, ok := d.fences[fence]
		switch {
		case !ok:
			d.violate("submit with unknown fence %d", fence)
		case st.pending:
			d.violate("submit with fence %d that already guards a pending submission", fence)
		case st.signaled:
			d.violate("submit with fence %d that was not reset", fence)
		}
		if ok {
			st.pending = true
			st.waits = []gpu.Semaphore{info.WaitSemaphore, info.SignalSemaphore}
		}
	}
	d.Submissions = append(d.Submissions, Submission{Queue: queue, Info: info, Fence: fence})
	return nil
}

func (d *Driver) QueuePresent(queue gpu.Queue, info gpu.PresentInfo) error {
	if err := d.call("QueuePresent"); err != nil {
		return err
	}
	if info.WaitSemaphore != 0 {
		if !d.signaled[info.WaitSemaphore] {
			d.violate("present waits on unsignaled semaphore %d", info.WaitSemaphore)
		}
		d.signaled[info.WaitSemaphore] = false
	}
	d.Presents = append(d.Presents, info)
	return nil
}
