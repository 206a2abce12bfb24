package swapchain_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/swapchain"
)

var _ = Describe("ChooseFormat", func() {
	It("takes the first reported format", func() {
		format, err := swapchain.ChooseFormat([]gpu.SurfaceFormat{
			{Format: gpu.FormatB8G8R8A8Srgb, ColorSpace: gpu.ColorSpaceSrgbNonlinear},
			{Format: gpu.FormatB8G8R8Unorm, ColorSpace: gpu.ColorSpaceSrgbNonlinear},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(format.Format).To(Equal(gpu.FormatB8G8R8A8Srgb))
	})

	It("replaces UNDEFINED with B8G8R8_UNORM", func() {
		format, err := swapchain.ChooseFormat([]gpu.SurfaceFormat{
			{Format: gpu.FormatUndefined, ColorSpace: gpu.ColorSpaceSrgbNonlinear},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(format.Format).To(Equal(gpu.FormatB8G8R8Unorm))
		Expect(format.ColorSpace).To(Equal(gpu.ColorSpaceSrgbNonlinear))
	})

	It("fails without formats", func() {
		_, err := swapchain.ChooseFormat(nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ChoosePresentMode", func() {
	It("prefers mailbox", func() {
		Expect(swapchain.ChoosePresentMode([]gpu.PresentMode{
			gpu.PresentModeFifo, gpu.PresentModeMailbox,
		})).To(Equal(gpu.PresentModeMailbox))
	})

	It("falls back to fifo", func() {
		Expect(swapchain.ChoosePresentMode([]gpu.PresentMode{
			gpu.PresentModeImmediate, gpu.PresentModeFifo,
		})).To(Equal(gpu.PresentModeFifo))
		Expect(swapchain.ChoosePresentMode(nil)).To(Equal(gpu.PresentModeFifo))
	})
})

var _ = DescribeTable("ImageCount",
	func(min, max, expected int) {
		caps := gpu.SurfaceCapabilities{MinImageCount: uint32(min), MaxImageCount: uint32(max)}
		Expect(swapchain.ImageCount(caps)).To(BeEquivalentTo(expected))
	},
	Entry("unbounded", 2, 0, 3),
	Entry("room above the minimum", 2, 3, 3),
	Entry("clamped to the maximum", 3, 3, 3),
	Entry("single image surface", 1, 8, 2),
)

var _ = Describe("ChooseExtent", func() {
	var caps gpu.SurfaceCapabilities

	BeforeEach(func() {
		caps = gpu.SurfaceCapabilities{
			CurrentExtent:  gpu.Extent2D{Width: swapchain.UndefinedExtent, Height: swapchain.UndefinedExtent},
			MinImageExtent: gpu.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: gpu.Extent2D{Width: 4096, Height: 4096},
		}
	})

	It("uses the reported extent", func() {
		caps.CurrentExtent = gpu.Extent2D{Width: 1024, Height: 768}
		Expect(swapchain.ChooseExtent(caps, 800, 600)).To(Equal(gpu.Extent2D{Width: 1024, Height: 768}))
	})

	It("uses the window size when the extent is undefined", func() {
		Expect(swapchain.ChooseExtent(caps, 800, 600)).To(Equal(gpu.Extent2D{Width: 800, Height: 600}))
	})

	It("clamps the window size to the surface limits", func() {
		caps.MinImageExtent = gpu.Extent2D{Width: 640, Height: 480}
		caps.MaxImageExtent = gpu.Extent2D{Width: 1920, Height: 1080}

		Expect(swapchain.ChooseExtent(caps, 100, 5000)).To(Equal(gpu.Extent2D{Width: 640, Height: 1080}))
	})

	It("does not clamp when the surface reports no limits", func() {
		caps.MinImageExtent = gpu.Extent2D{}
		caps.MaxImageExtent = gpu.Extent2D{}

		Expect(swapchain.ChooseExtent(caps, 8000, 6000)).To(Equal(gpu.Extent2D{Width: 8000, Height: 6000}))
	})
})

var _ = Describe("ChooseTransform", func() {
	It("prefers identity", func() {
		caps := gpu.SurfaceCapabilities{
			SupportedTransforms: gpu.SurfaceTransformIdentity | gpu.SurfaceTransformRotate90,
			CurrentTransform:    gpu.SurfaceTransformRotate90,
		}
		Expect(swapchain.ChooseTransform(caps)).To(Equal(gpu.SurfaceTransformIdentity))
	})

	It("keeps the current transform otherwise", func() {
		caps := gpu.SurfaceCapabilities{
			SupportedTransforms: gpu.SurfaceTransformRotate90,
			CurrentTransform:    gpu.SurfaceTransformRotate90,
		}
		Expect(swapchain.ChooseTransform(caps)).To(Equal(gpu.SurfaceTransformRotate90))
	})
})
