package pipeline

import (
	"github.com/cockroachdb/errors"

	"github.com/ironsmile/vkframe/gpu"
)

// VertexInput has no bindings and no attributes. The vertex shader generates
// the vertices.
func VertexInput() gpu.VertexInputState {
	return gpu.VertexInputState{}
}

func TriangleList() gpu.InputAssemblyState {
	return gpu.InputAssemblyState{
		Topology:         gpu.TopologyTriangleList,
		PrimitiveRestart: false,
	}
}

// ViewportFor covers extent with one viewport of depth [0, 1] and one
// scissor.
func ViewportFor(extent gpu.Extent2D) gpu.ViewportState {
	return gpu.ViewportState{
		Viewports: []gpu.Viewport{{
			X:        0,
			Y:        0,
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MinDepth: 0,
			MaxDepth: 1,
		}},
		Scissors: []gpu.Rect2D{{
			Offset: gpu.Offset2D{X: 0, Y: 0},
			Extent: extent,
		}},
	}
}

// Rasterizer fills polygons and culls back faces; clockwise triangles face
// front.
func Rasterizer() gpu.RasterizationState {
	return gpu.RasterizationState{
		DepthClamp:        false,
		RasterizerDiscard: false,
		PolygonMode:       gpu.PolygonModeFill,
		CullMode:          gpu.CullModeBack,
		FrontFace:         gpu.FrontFaceClockwise,
		DepthBias:         false,
		LineWidth:         1,
	}
}

func Multisample() gpu.MultisampleState {
	return gpu.MultisampleState{
		Samples:          gpu.SampleCount1,
		SampleShading:    false,
		MinSampleShading: 1,
		AlphaToCoverage:  false,
		AlphaToOne:       false,
	}
}

// ColorBlend writes all channels of a single attachment with blending
// disabled. The blend factors only apply once blending is enabled.
func ColorBlend() gpu.ColorBlendState {
	return gpu.ColorBlendState{
		LogicOpEnable: false,
		LogicOp:       gpu.LogicOpCopy,
		Attachments: []gpu.ColorBlendAttachment{{
			BlendEnable:    false,
			SrcColor:       gpu.BlendFactorSrcColor,
			DstColor:       gpu.BlendFactorOneMinusDstColor,
			ColorOp:        gpu.BlendOpAdd,
			SrcAlpha:       gpu.BlendFactorZero,
			DstAlpha:       gpu.BlendFactorZero,
			AlphaOp:        gpu.BlendOpAdd,
			ColorWriteMask: gpu.ColorComponentRGBA,
		}},
	}
}

// RenderPassInfo describes a single subpass drawing into one colour
// attachment of the given format which is cleared on load and left ready for
// presentation.
func RenderPassInfo(format gpu.Format) gpu.RenderPassInfo {
	return gpu.RenderPassInfo{
		Attachments: []gpu.AttachmentDescription{{
			Format:         format,
			Samples:        gpu.SampleCount1,
			LoadOp:         gpu.LoadOpClear,
			StoreOp:        gpu.StoreOpStore,
			StencilLoadOp:  gpu.LoadOpDontCare,
			StencilStoreOp: gpu.StoreOpDontCare,
			InitialLayout:  gpu.ImageLayoutUndefined,
			FinalLayout:    gpu.ImageLayoutPresentSrc,
		}},
		Subpasses: []gpu.SubpassDescription{{
			ColorAttachments: []gpu.AttachmentReference{{
				Attachment: 0,
				Layout:     gpu.ImageLayoutColorAttachmentOptimal,
			}},
		}},
		Dependencies: []gpu.SubpassDependency{{
			SrcSubpass:    gpu.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  gpu.PipelineStageColorAttachmentOutput,
			SrcAccessMask: 0,
			DstStageMask:  gpu.PipelineStageColorAttachmentOutput,
			DstAccessMask: gpu.AccessColorAttachmentRead | gpu.AccessColorAttachmentWrite,
		}},
	}
}

// ObjectDriver creates the objects a pipeline is built against.
type ObjectDriver interface {
	CreatePipelineLayout(device gpu.Device, info gpu.PipelineLayoutInfo) (gpu.PipelineLayout, error)
	CreateRenderPass(device gpu.Device, info gpu.RenderPassInfo) (gpu.RenderPass, error)
}

// NewLayout creates a layout without descriptor sets or push constants.
func NewLayout(driver ObjectDriver, device gpu.Device) (gpu.PipelineLayout, error) {
	layout, err := driver.CreatePipelineLayout(device, gpu.PipelineLayoutInfo{})
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "createPipelineLayout"), ErrPipelineCreation)
	}
	return layout, nil
}

// NewRenderPass creates the render pass described by RenderPassInfo.
func NewRenderPass(driver ObjectDriver, device gpu.Device, format gpu.Format) (gpu.RenderPass, error) {
	renderPass, err := driver.CreateRenderPass(device, RenderPassInfo(format))
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "createRenderPass"), ErrPipelineCreation)
	}
	return renderPass, nil
}

// Triangle returns a builder with every stage set for drawing the
// shader-generated triangle into extent.
func Triangle(
	vertex, fragment gpu.ShaderModule,
	extent gpu.Extent2D,
	layout gpu.PipelineLayout,
	renderPass gpu.RenderPass,
) *Builder {
	return NewBuilder().
		WithShaderStage(gpu.ShaderStageVertex, vertex).
		WithShaderStage(gpu.ShaderStageFragment, fragment).
		WithVertexInputState(VertexInput()).
		WithInputAssemblyState(TriangleList()).
		WithViewport(extent).
		WithRasterizer(Rasterizer()).
		WithMultisample(Multisample()).
		WithColorBlend(ColorBlend()).
		WithLayout(layout).
		WithRenderPass(renderPass)
}
