package gpu

// InstanceInfo describes the API instance to create.
type InstanceInfo struct {
	ApplicationName string
	EngineName      string
	Layers          []string
	Extensions      []string
}

// AdapterProperties are the identifying properties of a physical device.
type AdapterProperties struct {
	Name string
	Type AdapterType
}

// QueueFamily is one entry of a physical device's queue family list.
type QueueFamily struct {
	Index uint32
	Flags QueueFlags
	Count uint32
}

// SurfaceFormat pairs a pixel format with its colour space.
type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

// SurfaceCapabilities are the limits a surface imposes on swapchains.
type SurfaceCapabilities struct {
	MinImageCount       uint32
	MaxImageCount       uint32
	CurrentExtent       Extent2D
	MinImageExtent      Extent2D
	MaxImageExtent      Extent2D
	SupportedTransforms SurfaceTransform
	CurrentTransform    SurfaceTransform
}

// DeviceInfo describes a logical device with a single queue.
type DeviceInfo struct {
	QueueFamily uint32
	Layers      []string
	Extensions  []string
}

type SwapchainInfo struct {
	Surface        Surface
	MinImageCount  uint32
	Format         SurfaceFormat
	Extent         Extent2D
	ArrayLayers    uint32
	Usage          ImageUsage
	SharingMode    SharingMode
	PreTransform   SurfaceTransform
	CompositeAlpha CompositeAlpha
	PresentMode    PresentMode
	Clipped        bool
}

type ComponentMapping struct {
	R, G, B, A ComponentSwizzle
}

type ImageSubresourceRange struct {
	Aspect         ImageAspect
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

type ImageViewInfo struct {
	Image            Image
	ViewType         ImageViewType
	Format           Format
	Components       ComponentMapping
	SubresourceRange ImageSubresourceRange
}

// PipelineLayoutInfo is empty: no descriptor sets and no push constants are
// supported.
type PipelineLayoutInfo struct{}

type AttachmentDescription struct {
	Format         Format
	Samples        SampleCount
	LoadOp         LoadOp
	StoreOp        StoreOp
	StencilLoadOp  LoadOp
	StencilStoreOp StoreOp
	InitialLayout  ImageLayout
	FinalLayout    ImageLayout
}

type AttachmentReference struct {
	Attachment uint32
	Layout     ImageLayout
}

type SubpassDescription struct {
	ColorAttachments []AttachmentReference
}

type SubpassDependency struct {
	SrcSubpass    uint32
	DstSubpass    uint32
	SrcStageMask  PipelineStages
	DstStageMask  PipelineStages
	SrcAccessMask AccessFlags
	DstAccessMask AccessFlags
}

type RenderPassInfo struct {
	Attachments  []AttachmentDescription
	Subpasses    []SubpassDescription
	Dependencies []SubpassDependency
}

type ShaderStageInfo struct {
	Stage  ShaderStage
	Module ShaderModule
	Entry  string
}

// VertexInputState lists vertex buffer bindings. Only the empty state is
// supported: vertices are generated in the vertex shader.
type VertexInputState struct {
	BindingCount   uint32
	AttributeCount uint32
}

type InputAssemblyState struct {
	Topology         PrimitiveTopology
	PrimitiveRestart bool
}

type ViewportState struct {
	Viewports []Viewport
	Scissors  []Rect2D
}

type RasterizationState struct {
	DepthClamp        bool
	RasterizerDiscard bool
	PolygonMode       PolygonMode
	CullMode          CullMode
	FrontFace         FrontFace
	DepthBias         bool
	LineWidth         float32
}

type MultisampleState struct {
	Samples          SampleCount
	SampleShading    bool
	MinSampleShading float32
	AlphaToCoverage  bool
	AlphaToOne       bool
}

type ColorBlendAttachment struct {
	BlendEnable    bool
	SrcColor       BlendFactor
	DstColor       BlendFactor
	ColorOp        BlendOp
	SrcAlpha       BlendFactor
	DstAlpha       BlendFactor
	AlphaOp        BlendOp
	ColorWriteMask ColorComponents
}

type ColorBlendState struct {
	LogicOpEnable  bool
	LogicOp        LogicOp
	Attachments    []ColorBlendAttachment
	BlendConstants [4]float32
}

// GraphicsPipelineInfo is the complete fixed-function description of one
// graphics pipeline. DynamicStates may be empty.
type GraphicsPipelineInfo struct {
	Stages        []ShaderStageInfo
	VertexInput   VertexInputState
	InputAssembly InputAssemblyState
	Viewport      ViewportState
	Rasterization RasterizationState
	Multisample   MultisampleState
	ColorBlend    ColorBlendState
	DynamicStates []DynamicState
	Layout        PipelineLayout
	RenderPass    RenderPass
	Subpass       uint32
}

type FramebufferInfo struct {
	RenderPass  RenderPass
	Attachments []ImageView
	Width       uint32
	Height      uint32
	Layers      uint32
}

type CommandPoolInfo struct {
	QueueFamily uint32
}

type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	ClearColor  [4]float32
}

// SubmitInfo is a single command buffer submission with one wait and one
// signal semaphore.
type SubmitInfo struct {
	WaitSemaphore   Semaphore
	WaitStage       PipelineStages
	CommandBuffer   CommandBuffer
	SignalSemaphore Semaphore
}

type PresentInfo struct {
	WaitSemaphore Semaphore
	Swapchain     Swapchain
	ImageIndex    uint32
}
