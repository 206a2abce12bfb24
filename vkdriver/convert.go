package vkdriver

import (
	"strings"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/ironsmile/vkframe/gpu"
)

// check turns a Vulkan result into an error wrapped with op. Results in
// accept count as success in addition to vk.Success. Errors of a known class
// are marked with the matching gpu sentinel.
func check(res vk.Result, op string, accept ...vk.Result) error {
	if res == vk.Success {
		return nil
	}
	for _, ok := range accept {
		if res == ok {
			return nil
		}
	}

	err := vk.Error(res)
	if err == nil {
		err = errors.Newf("vulkan result %d", int32(res))
	}
	err = errors.Wrap(err, op)

	if class := classify(res); class != nil {
		err = errors.Mark(err, class)
	}
	return err
}

// classify returns the gpu sentinel matching res or nil.
func classify(res vk.Result) error {
	switch res {
	case vk.ErrorOutOfDate:
		return gpu.ErrOutOfDate
	case vk.ErrorSurfaceLost:
		return gpu.ErrSurfaceLost
	case vk.ErrorDeviceLost:
		return gpu.ErrDeviceLost
	case vk.Timeout:
		return gpu.ErrTimeout
	default:
		return nil
	}
}

// cstring returns s terminated with a NUL byte as the loader expects.
func cstring(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func cstrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = cstring(s)
	}
	return out
}

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}

// severity picks the most severe class set in flags.
func severity(flags vk.DebugReportFlags) gpu.Severity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return gpu.SeverityError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return gpu.SeverityWarning
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return gpu.SeverityPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return gpu.SeverityInfo
	default:
		return gpu.SeverityDebug
	}
}

func extent(e gpu.Extent2D) vk.Extent2D {
	return vk.Extent2D{Width: e.Width, Height: e.Height}
}

func fromExtent(e vk.Extent2D) gpu.Extent2D {
	e.Deref()
	return gpu.Extent2D{Width: e.Width, Height: e.Height}
}

func rect(r gpu.Rect2D) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: r.Offset.X, Y: r.Offset.Y},
		Extent: extent(r.Extent),
	}
}
