package swapchain

import (
	"cmp"

	"github.com/cockroachdb/errors"

	"github.com/ironsmile/vkframe/gpu"
)

// UndefinedExtent is the current extent width a surface reports when the
// swapchain decides the size of its images.
const UndefinedExtent = ^uint32(0)

// ChooseFormat returns the first reported format. A surface which reports
// UNDEFINED has no preference and gets B8G8R8_UNORM in the same colour space.
func ChooseFormat(available []gpu.SurfaceFormat) (gpu.SurfaceFormat, error) {
	if len(available) == 0 {
		return gpu.SurfaceFormat{}, errors.New("surface reports no formats")
	}

	format := available[0]
	if format.Format == gpu.FormatUndefined {
		format.Format = gpu.FormatB8G8R8Unorm
	}
	return format, nil
}

// ChoosePresentMode prefers MAILBOX and falls back to FIFO which every
// surface supports.
func ChoosePresentMode(available []gpu.PresentMode) gpu.PresentMode {
	for _, mode := range available {
		if mode == gpu.PresentModeMailbox {
			return mode
		}
	}

	return gpu.PresentModeFifo
}

// ImageCount asks for one image more than the minimum. A maximum of zero
// means there is no limit.
func ImageCount(capabilities gpu.SurfaceCapabilities) uint32 {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// ChooseExtent returns the current extent of the surface unless it is
// undefined. Then the framebuffer size of the window is used, clamped to the
// limits of the surface when it reports any.
func ChooseExtent(capabilities gpu.SurfaceCapabilities, width, height int) gpu.Extent2D {
	if capabilities.CurrentExtent.Width != UndefinedExtent {
		return capabilities.CurrentExtent
	}

	actualExtent := gpu.Extent2D{
		Width:  uint32(max(width, 0)),
		Height: uint32(max(height, 0)),
	}

	if capabilities.MaxImageExtent.Width != 0 {
		actualExtent.Width = clamp(
			actualExtent.Width,
			capabilities.MinImageExtent.Width,
			capabilities.MaxImageExtent.Width,
		)
	}
	if capabilities.MaxImageExtent.Height != 0 {
		actualExtent.Height = clamp(
			actualExtent.Height,
			capabilities.MinImageExtent.Height,
			capabilities.MaxImageExtent.Height,
		)
	}

	return actualExtent
}

// ChooseTransform returns IDENTITY when the surface supports it and the
// current transform otherwise.
func ChooseTransform(capabilities gpu.SurfaceCapabilities) gpu.SurfaceTransform {
	if capabilities.SupportedTransforms&gpu.SurfaceTransformIdentity != 0 {
		return gpu.SurfaceTransformIdentity
	}
	return capabilities.CurrentTransform
}

func clamp[T cmp.Ordered](val, min, max T) T {
	if val < min {
		val = min
	}
	if val > max {
		val = max
	}
	return val
}
