package gpu

// Format is a pixel format.
type Format int32

const (
	FormatUndefined     Format = 0
	FormatB8G8R8Unorm   Format = 30
	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50
)

// ColorSpace of a presentable surface.
type ColorSpace int32

const ColorSpaceSrgbNonlinear ColorSpace = 0

// PresentMode is the way a swapchain hands images to the display.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFifo        PresentMode = 2
	PresentModeFifoRelaxed PresentMode = 3
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeFifo:
		return "fifo"
	case PresentModeFifoRelaxed:
		return "fifo-relaxed"
	default:
		return "unknown"
	}
}

// QueueFlags describe what a queue family can execute.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 0x1
	QueueCompute  QueueFlags = 0x2
	QueueTransfer QueueFlags = 0x4
)

// AdapterType is the kind of physical device.
type AdapterType int32

const (
	AdapterOther      AdapterType = 0
	AdapterIntegrated AdapterType = 1
	AdapterDiscrete   AdapterType = 2
	AdapterVirtual    AdapterType = 3
	AdapterCPU        AdapterType = 4
)

func (t AdapterType) String() string {
	switch t {
	case AdapterIntegrated:
		return "integrated"
	case AdapterDiscrete:
		return "discrete"
	case AdapterVirtual:
		return "virtual"
	case AdapterCPU:
		return "cpu"
	default:
		return "other"
	}
}

type SurfaceTransform uint32

const (
	SurfaceTransformIdentity SurfaceTransform = 0x1
	SurfaceTransformRotate90 SurfaceTransform = 0x2
)

type CompositeAlpha uint32

const CompositeAlphaOpaque CompositeAlpha = 0x1

type ImageUsage uint32

const ImageUsageColorAttachment ImageUsage = 0x10

type SharingMode int32

const SharingModeExclusive SharingMode = 0

type ImageViewType int32

const ImageViewType2D ImageViewType = 1

type ComponentSwizzle int32

const ComponentSwizzleIdentity ComponentSwizzle = 0

type ImageAspect uint32

const ImageAspectColor ImageAspect = 0x1

type ShaderStage uint32

const (
	ShaderStageVertex   ShaderStage = 0x01
	ShaderStageFragment ShaderStage = 0x10
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vertex"
	case ShaderStageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

type PrimitiveTopology int32

const (
	TopologyPointList    PrimitiveTopology = 0
	TopologyLineList     PrimitiveTopology = 1
	TopologyLineStrip    PrimitiveTopology = 2
	TopologyTriangleList PrimitiveTopology = 3
)

type PolygonMode int32

const (
	PolygonModeFill  PolygonMode = 0
	PolygonModeLine  PolygonMode = 1
	PolygonModePoint PolygonMode = 2
)

type CullMode uint32

const (
	CullModeNone  CullMode = 0
	CullModeFront CullMode = 0x1
	CullModeBack  CullMode = 0x2
)

type FrontFace int32

const (
	FrontFaceCounterClockwise FrontFace = 0
	FrontFaceClockwise        FrontFace = 1
)

type SampleCount uint32

const SampleCount1 SampleCount = 0x1

type BlendFactor int32

const (
	BlendFactorZero             BlendFactor = 0
	BlendFactorOne              BlendFactor = 1
	BlendFactorSrcColor         BlendFactor = 2
	BlendFactorOneMinusSrcColor BlendFactor = 3
	BlendFactorDstColor         BlendFactor = 4
	BlendFactorOneMinusDstColor BlendFactor = 5
)

type BlendOp int32

const BlendOpAdd BlendOp = 0

type LogicOp int32

const LogicOpCopy LogicOp = 3

type ColorComponents uint32

const (
	ColorComponentR ColorComponents = 0x1
	ColorComponentG ColorComponents = 0x2
	ColorComponentB ColorComponents = 0x4
	ColorComponentA ColorComponents = 0x8

	ColorComponentRGBA = ColorComponentR | ColorComponentG | ColorComponentB | ColorComponentA
)

type DynamicState int32

const (
	DynamicStateViewport DynamicState = 0
	DynamicStateScissor  DynamicState = 1
)

type LoadOp int32

const (
	LoadOpLoad     LoadOp = 0
	LoadOpClear    LoadOp = 1
	LoadOpDontCare LoadOp = 2
)

type StoreOp int32

const (
	StoreOpStore    StoreOp = 0
	StoreOpDontCare StoreOp = 1
)

type ImageLayout int32

const (
	ImageLayoutUndefined              ImageLayout = 0
	ImageLayoutColorAttachmentOptimal ImageLayout = 2
	ImageLayoutPresentSrc             ImageLayout = 1000001002
)

type PipelineStages uint32

const PipelineStageColorAttachmentOutput PipelineStages = 0x400

type AccessFlags uint32

const (
	AccessColorAttachmentRead  AccessFlags = 0x80
	AccessColorAttachmentWrite AccessFlags = 0x100
)

// SubpassExternal refers to operations outside of a render pass.
const SubpassExternal = ^uint32(0)

type CommandBufferUsage uint32

const (
	CommandBufferUsageOneTimeSubmit   CommandBufferUsage = 0x1
	CommandBufferUsageSimultaneousUse CommandBufferUsage = 0x4
)

// Extent2D is a size in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

type Offset2D struct {
	X int32
	Y int32
}

type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}
