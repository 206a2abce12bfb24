// Package swapchain negotiates and creates the presentation swapchain, its
// image views and the framebuffers drawing into them.
package swapchain

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/teardown"
)

// Driver is the part of gpu.Driver the swapchain needs.
type Driver interface {
	SurfaceFormats(adapter gpu.PhysicalDevice, surface gpu.Surface) ([]gpu.SurfaceFormat, error)
	SurfaceCapabilities(adapter gpu.PhysicalDevice, surface gpu.Surface) (gpu.SurfaceCapabilities, error)
	SurfacePresentModes(adapter gpu.PhysicalDevice, surface gpu.Surface) ([]gpu.PresentMode, error)

	CreateSwapchain(device gpu.Device, info gpu.SwapchainInfo) (gpu.Swapchain, error)
	DestroySwapchain(device gpu.Device, swapchain gpu.Swapchain)
	SwapchainImages(device gpu.Device, swapchain gpu.Swapchain) ([]gpu.Image, error)

	CreateImageView(device gpu.Device, info gpu.ImageViewInfo) (gpu.ImageView, error)
	DestroyImageView(device gpu.Device, view gpu.ImageView)

	CreateFramebuffer(device gpu.Device, info gpu.FramebufferInfo) (gpu.Framebuffer, error)
	DestroyFramebuffer(device gpu.Device, framebuffer gpu.Framebuffer)
}

// FramebufferSizer reports the size of a window's drawable area in pixels.
type FramebufferSizer interface {
	FramebufferSize() (width, height int)
}

// Target is what the swapchain presents to.
type Target struct {
	Adapter gpu.PhysicalDevice
	Device  gpu.Device
	Surface gpu.Surface
	Window  FramebufferSizer
}

// Swapchain is a created swapchain together with the choices made for it.
// There is exactly one view per image.
type Swapchain struct {
	Handle      gpu.Swapchain
	Format      gpu.SurfaceFormat
	Extent      gpu.Extent2D
	PresentMode gpu.PresentMode
	Images      []gpu.Image
	Views       []gpu.ImageView
}

// New creates the swapchain and one view per image. Every created object is
// tracked in arena, the swapchain before its views.
func New(
	driver Driver,
	arena *teardown.Arena,
	target Target,
	logger *slog.Logger,
) (*Swapchain, error) {
	capabilities, err := driver.SurfaceCapabilities(target.Adapter, target.Surface)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain: querying surface capabilities")
	}
	formats, err := driver.SurfaceFormats(target.Adapter, target.Surface)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain: querying surface formats")
	}
	presentModes, err := driver.SurfacePresentModes(target.Adapter, target.Surface)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain: querying present modes")
	}

	surfaceFormat, err := ChooseFormat(formats)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain")
	}

	width, height := 0, 0
	if target.Window != nil {
		width, height = target.Window.FramebufferSize()
	}

	sc := &Swapchain{
		Format:      surfaceFormat,
		Extent:      ChooseExtent(capabilities, width, height),
		PresentMode: ChoosePresentMode(presentModes),
	}
	imageCount := ImageCount(capabilities)

	createInfo := gpu.SwapchainInfo{
		Surface:        target.Surface,
		MinImageCount:  imageCount,
		Format:         sc.Format,
		Extent:         sc.Extent,
		ArrayLayers:    1,
		Usage:          gpu.ImageUsageColorAttachment,
		SharingMode:    gpu.SharingModeExclusive,
		PreTransform:   ChooseTransform(capabilities),
		CompositeAlpha: gpu.CompositeAlphaOpaque,
		PresentMode:    sc.PresentMode,
		Clipped:        true,
	}

	handle, err := driver.CreateSwapchain(target.Device, createInfo)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain")
	}
	sc.Handle = handle
	arena.Track("swapchain", func() {
		driver.DestroySwapchain(target.Device, handle)
	})

	images, err := driver.SwapchainImages(target.Device, handle)
	if err != nil {
		return nil, errors.Wrap(err, "createSwapChain: getting images")
	}
	sc.Images = images

	logger.Debug("swapchain created",
		slog.Int("images", len(images)),
		slog.Int("requestedImages", int(imageCount)),
		slog.Int("width", int(sc.Extent.Width)),
		slog.Int("height", int(sc.Extent.Height)),
		slog.String("presentMode", sc.PresentMode.String()),
		slog.Int("format", int(sc.Format.Format)),
	)

	if err := sc.createImageViews(driver, arena, target.Device); err != nil {
		return nil, err
	}

	return sc, nil
}

func (sc *Swapchain) createImageViews(driver Driver, arena *teardown.Arena, device gpu.Device) error {
	sc.Views = make([]gpu.ImageView, 0, len(sc.Images))

	for i, image := range sc.Images {
		createInfo := gpu.ImageViewInfo{
			Image:    image,
			ViewType: gpu.ImageViewType2D,
			Format:   sc.Format.Format,
			Components: gpu.ComponentMapping{
				R: gpu.ComponentSwizzleIdentity,
				G: gpu.ComponentSwizzleIdentity,
				B: gpu.ComponentSwizzleIdentity,
				A: gpu.ComponentSwizzleIdentity,
			},
			SubresourceRange: gpu.ImageSubresourceRange{
				Aspect:         gpu.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}

		view, err := driver.CreateImageView(device, createInfo)
		if err != nil {
			return errors.Wrapf(err, "createImageViews: image %d", i)
		}
		arena.Track("image-view", func() {
			driver.DestroyImageView(device, view)
		})

		sc.Views = append(sc.Views, view)
	}

	return nil
}

// CreateFramebuffers creates one framebuffer per image view, each with the
// view as its only attachment and the swapchain extent.
func (sc *Swapchain) CreateFramebuffers(
	driver Driver,
	arena *teardown.Arena,
	device gpu.Device,
	renderPass gpu.RenderPass,
) ([]gpu.Framebuffer, error) {
	framebuffers := make([]gpu.Framebuffer, 0, len(sc.Views))

	for i, view := range sc.Views {
		createInfo := gpu.FramebufferInfo{
			RenderPass:  renderPass,
			Attachments: []gpu.ImageView{view},
			Width:       sc.Extent.Width,
			Height:      sc.Extent.Height,
			Layers:      1,
		}

		framebuffer, err := driver.CreateFramebuffer(device, createInfo)
		if err != nil {
			return nil, errors.Wrapf(err, "createFramebuffers: framebuffer %d", i)
		}
		arena.Track("framebuffer", func() {
			driver.DestroyFramebuffer(device, framebuffer)
		})

		framebuffers = append(framebuffers, framebuffer)
	}

	return framebuffers, nil
}
