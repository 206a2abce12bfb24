// Package pipeline assembles an immutable graphics pipeline from separately
// configured fixed-function stages.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ironsmile/vkframe/gpu"
)

// ErrBuilderConsumed is returned by Create on a builder which already
// produced a pipeline.
var ErrBuilderConsumed = errors.New("pipeline builder already consumed")

// ErrPipelineCreation marks errors returned by the driver while creating a
// pipeline or its layout and render pass.
var ErrPipelineCreation = errors.New("pipeline creation failed")

// Stage is a part of the pipeline description a Builder must be given.
type Stage int

const (
	StageShaders Stage = iota
	StageVertexInput
	StageInputAssembly
	StageViewport
	StageRasterizer
	StageMultisample
	StageColorBlend
	StageLayout
	StageRenderPass
)

var stageNames = [...]string{
	StageShaders:       "shader stages",
	StageVertexInput:   "vertex input",
	StageInputAssembly: "input assembly",
	StageViewport:      "viewport",
	StageRasterizer:    "rasterizer",
	StageMultisample:   "multisample",
	StageColorBlend:    "color blend",
	StageLayout:        "layout",
	StageRenderPass:    "render pass",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// MissingStagesError lists every mandatory stage Create found unset.
type MissingStagesError struct {
	Stages []Stage
}

func (e *MissingStagesError) Error() string {
	names := make([]string, len(e.Stages))
	for i, s := range e.Stages {
		names[i] = s.String()
	}
	return "pipeline is missing: " + strings.Join(names, ", ")
}

// Driver is the part of gpu.Driver the builder needs.
type Driver interface {
	CreateGraphicsPipelines(device gpu.Device, infos []gpu.GraphicsPipelineInfo) ([]gpu.Pipeline, error)
}

// Pipeline is a compiled graphics pipeline with the layout and render pass it
// was created for.
type Pipeline struct {
	Handle     gpu.Pipeline
	Layout     gpu.PipelineLayout
	RenderPass gpu.RenderPass
	Stages     []gpu.ShaderStageInfo
	Info       gpu.GraphicsPipelineInfo
}

// Builder accumulates a graphics pipeline description. Every With method
// stores one stage and returns the builder so calls can be chained; a later
// call for the same stage replaces the earlier one. Create validates the
// description and consumes the builder.
type Builder struct {
	shaders       []gpu.ShaderStageInfo
	vertexInput   *gpu.VertexInputState
	inputAssembly *gpu.InputAssemblyState
	viewport      *gpu.ViewportState
	rasterizer    *gpu.RasterizationState
	multisample   *gpu.MultisampleState
	colorBlend    *gpu.ColorBlendState
	dynamicStates []gpu.DynamicState
	layout        gpu.PipelineLayout
	renderPass    gpu.RenderPass

	consumed bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) mutate(method string) {
	if b.consumed {
		panic(errors.AssertionFailedf("pipeline: %s called after Create", method))
	}
}

// WithShaderStage adds a shader stage using module with the "main" entry
// point.
func (b *Builder) WithShaderStage(stage gpu.ShaderStage, module gpu.ShaderModule) *Builder {
	b.mutate("WithShaderStage")
	b.shaders = append(b.shaders, gpu.ShaderStageInfo{
		Stage:  stage,
		Module: module,
		Entry:  "main",
	})
	return b
}

func (b *Builder) WithVertexInputState(state gpu.VertexInputState) *Builder {
	b.mutate("WithVertexInputState")
	b.vertexInput = &state
	return b
}

func (b *Builder) WithInputAssemblyState(state gpu.InputAssemblyState) *Builder {
	b.mutate("WithInputAssemblyState")
	b.inputAssembly = &state
	return b
}

// WithViewport sets a viewport and scissor covering the whole extent.
func (b *Builder) WithViewport(extent gpu.Extent2D) *Builder {
	b.mutate("WithViewport")
	state := ViewportFor(extent)
	b.viewport = &state
	return b
}

func (b *Builder) WithRasterizer(state gpu.RasterizationState) *Builder {
	b.mutate("WithRasterizer")
	b.rasterizer = &state
	return b
}

func (b *Builder) WithMultisample(state gpu.MultisampleState) *Builder {
	b.mutate("WithMultisample")
	b.multisample = &state
	return b
}

func (b *Builder) WithColorBlend(state gpu.ColorBlendState) *Builder {
	b.mutate("WithColorBlend")
	b.colorBlend = &state
	return b
}

// WithDynamicState marks states which are set while recording instead of at
// pipeline creation. It is optional.
func (b *Builder) WithDynamicState(states ...gpu.DynamicState) *Builder {
	b.mutate("WithDynamicState")
	b.dynamicStates = append([]gpu.DynamicState(nil), states...)
	return b
}

func (b *Builder) WithLayout(layout gpu.PipelineLayout) *Builder {
	b.mutate("WithLayout")
	b.layout = layout
	return b
}

func (b *Builder) WithRenderPass(renderPass gpu.RenderPass) *Builder {
	b.mutate("WithRenderPass")
	b.renderPass = renderPass
	return b
}

// Missing returns the mandatory stages which have not been set yet.
func (b *Builder) Missing() []Stage {
	var missing []Stage
	if len(b.shaders) == 0 {
		missing = append(missing, StageShaders)
	}
	if b.vertexInput == nil {
		missing = append(missing, StageVertexInput)
	}
	if b.inputAssembly == nil {
		missing = append(missing, StageInputAssembly)
	}
	if b.viewport == nil {
		missing = append(missing, StageViewport)
	}
	if b.rasterizer == nil {
		missing = append(missing, StageRasterizer)
	}
	if b.multisample == nil {
		missing = append(missing, StageMultisample)
	}
	if b.colorBlend == nil {
		missing = append(missing, StageColorBlend)
	}
	if b.layout == 0 {
		missing = append(missing, StageLayout)
	}
	if b.renderPass == 0 {
		missing = append(missing, StageRenderPass)
	}
	return missing
}

// Create compiles the pipeline and consumes the builder. A description with
// unset stages is a programming error: the returned error carries an
// assertion failure wrapping a *MissingStagesError which lists all of them.
func (b *Builder) Create(driver Driver, device gpu.Device) (*Pipeline, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	if missing := b.Missing(); len(missing) > 0 {
		return nil, errors.WithAssertionFailure(&MissingStagesError{Stages: missing})
	}

	info := gpu.GraphicsPipelineInfo{
		Stages:        b.shaders,
		VertexInput:   *b.vertexInput,
		InputAssembly: *b.inputAssembly,
		Viewport:      *b.viewport,
		Rasterization: *b.rasterizer,
		Multisample:   *b.multisample,
		ColorBlend:    *b.colorBlend,
		DynamicStates: b.dynamicStates,
		Layout:        b.layout,
		RenderPass:    b.renderPass,
		Subpass:       0,
	}

	pipelines, err := driver.CreateGraphicsPipelines(device, []gpu.GraphicsPipelineInfo{info})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "createGraphicsPipeline"), ErrPipelineCreation)
	}
	if len(pipelines) != 1 {
		return nil, errors.AssertionFailedf("createGraphicsPipeline: driver returned %d pipelines for 1 description", len(pipelines))
	}

	return &Pipeline{
		Handle:     pipelines[0],
		Layout:     b.layout,
		RenderPass: b.renderPass,
		Stages:     b.shaders,
		Info:       info,
	}, nil
}
