package engine

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"

	"github.com/ironsmile/vkframe/frame"
	"github.com/ironsmile/vkframe/gpu"
)

const (
	// ValidationLayer is the validation layer shipped with the Vulkan SDK.
	ValidationLayer = "VK_LAYER_KHRONOS_validation"

	SurfaceExtension     = "VK_KHR_surface"
	DebugReportExtension = "VK_EXT_debug_report"
	SwapchainExtension   = "VK_KHR_swapchain"
)

// Config is everything New needs besides the driver and the window.
type Config struct {
	ApplicationName string
	EngineName      string

	// Validation enables ValidationLayers and installs a debug callback
	// forwarding driver messages to Diagnostics.
	Validation       bool
	ValidationLayers []string

	// InstanceExtensions must include the surface extension and the
	// platform's windowing extension. The debug report extension is added
	// when Validation is on.
	InstanceExtensions []string
	DeviceExtensions   []string

	// Diagnostics receives validation messages. A nil sink logs them with
	// the renderer's logger.
	Diagnostics gpu.DiagnosticSink

	VertexShader   []byte
	FragmentShader []byte

	Frame frame.Config
}

// DefaultConfig returns a configuration with validation on and no shaders.
func DefaultConfig() Config {
	return Config{
		ApplicationName:    "vkframe",
		EngineName:         "No Engine",
		Validation:         true,
		ValidationLayers:   []string{ValidationLayer},
		InstanceExtensions: []string{SurfaceExtension},
		DeviceExtensions:   []string{SwapchainExtension},
		Frame:              frame.DefaultConfig(),
	}
}

// Validate reports configuration errors which can be found without a driver.
func (c Config) Validate() error {
	if len(c.VertexShader) == 0 {
		return errors.Mark(errors.New("no vertex shader code"), ErrConfiguration)
	}
	if len(c.FragmentShader) == 0 {
		return errors.Mark(errors.New("no fragment shader code"), ErrConfiguration)
	}
	if c.Validation && len(c.ValidationLayers) == 0 {
		return errors.Mark(errors.New("validation requested without any layers"), ErrConfiguration)
	}
	return nil
}

func (c Config) instanceExtensions() []string {
	extensions := append([]string(nil), c.InstanceExtensions...)
	if c.Validation && !slices.Contains(extensions, DebugReportExtension) {
		extensions = append(extensions, DebugReportExtension)
	}
	return extensions
}

func (c Config) layers() []string {
	if !c.Validation {
		return nil
	}
	return c.ValidationLayers
}
