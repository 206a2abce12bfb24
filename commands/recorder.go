// Package commands records the static per-framebuffer command buffers.
package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/xlab/linmath"

	"github.com/ironsmile/vkframe/gpu"
)

// ErrAlreadyRecorded is returned when Record is called a second time.
var ErrAlreadyRecorded = errors.New("command buffers already recorded")

// ClearColor is opaque black.
var ClearColor = linmath.Vec4{0, 0, 0, 1}

// Driver is the part of gpu.Driver the recorder needs.
type Driver interface {
	CreateCommandPool(device gpu.Device, info gpu.CommandPoolInfo) (gpu.CommandPool, error)
	DestroyCommandPool(device gpu.Device, pool gpu.CommandPool)
	AllocateCommandBuffers(device gpu.Device, pool gpu.CommandPool, count int) ([]gpu.CommandBuffer, error)

	BeginCommandBuffer(buffer gpu.CommandBuffer, usage gpu.CommandBufferUsage) error
	EndCommandBuffer(buffer gpu.CommandBuffer) error
	CmdBeginRenderPass(buffer gpu.CommandBuffer, info gpu.RenderPassBeginInfo)
	CmdBindPipeline(buffer gpu.CommandBuffer, pipeline gpu.Pipeline)
	CmdDraw(buffer gpu.CommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance uint32)
	CmdEndRenderPass(buffer gpu.CommandBuffer)
}

// Scene is everything a command buffer draws with.
type Scene struct {
	RenderPass   gpu.RenderPass
	Pipeline     gpu.Pipeline
	Framebuffers []gpu.Framebuffer
	Extent       gpu.Extent2D
}

// Recorder owns a command pool and the primary command buffers allocated from
// it, one per framebuffer. The buffers are recorded once and submitted again
// every frame.
type Recorder struct {
	driver  Driver
	device  gpu.Device
	pool    gpu.CommandPool
	buffers []gpu.CommandBuffer
}

// NewRecorder creates a command pool on the queue family. Destroy releases it
// together with the buffers.
func NewRecorder(driver Driver, device gpu.Device, queueFamily uint32) (*Recorder, error) {
	pool, err := driver.CreateCommandPool(device, gpu.CommandPoolInfo{QueueFamily: queueFamily})
	if err != nil {
		return nil, errors.Wrap(err, "createCommandPool")
	}

	return &Recorder{
		driver: driver,
		device: device,
		pool:   pool,
	}, nil
}

func (r *Recorder) Pool() gpu.CommandPool {
	return r.pool
}

// Destroy destroys the pool, which frees the command buffers too.
func (r *Recorder) Destroy() {
	r.driver.DestroyCommandPool(r.device, r.pool)
	r.buffers = nil
}

// Buffers returns the recorded command buffers. Buffer i draws into
// framebuffer i.
func (r *Recorder) Buffers() []gpu.CommandBuffer {
	return r.buffers
}

// Record allocates one primary command buffer per framebuffer and records
// the whole frame into it: begin the render pass clearing to ClearColor,
// bind the pipeline, draw three vertices and end the render pass. The
// buffers may be pending execution more than once at a time.
func (r *Recorder) Record(scene Scene) error {
	if r.buffers != nil {
		return ErrAlreadyRecorded
	}

	buffers, err := r.driver.AllocateCommandBuffers(r.device, r.pool, len(scene.Framebuffers))
	if err != nil {
		return errors.Wrap(err, "allocateCommandBuffers")
	}

	for i, buffer := range buffers {
		if err := r.record(buffer, scene, scene.Framebuffers[i]); err != nil {
			return errors.Wrapf(err, "recordCommandBuffer %d", i)
		}
	}

	r.buffers = buffers
	return nil
}

func (r *Recorder) record(buffer gpu.CommandBuffer, scene Scene, framebuffer gpu.Framebuffer) error {
	err := r.driver.BeginCommandBuffer(buffer, gpu.CommandBufferUsageSimultaneousUse)
	if err != nil {
		return errors.Wrap(err, "cannot add begin command to the buffer")
	}

	r.driver.CmdBeginRenderPass(buffer, gpu.RenderPassBeginInfo{
		RenderPass:  scene.RenderPass,
		Framebuffer: framebuffer,
		RenderArea: gpu.Rect2D{
			Offset: gpu.Offset2D{X: 0, Y: 0},
			Extent: scene.Extent,
		},
		ClearColor: ClearColor,
	})
	r.driver.CmdBindPipeline(buffer, scene.Pipeline)
	r.driver.CmdDraw(buffer, 3, 1, 0, 0)
	r.driver.CmdEndRenderPass(buffer)

	if err := r.driver.EndCommandBuffer(buffer); err != nil {
		return errors.Wrap(err, "recording commands to buffer failed")
	}
	return nil
}
