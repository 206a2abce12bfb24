package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/engine"
	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/logging"
	"github.com/ironsmile/vkframe/shaders"
	"github.com/ironsmile/vkframe/vkdriver"
)

func init() {
	// This is needed to arrange that main() runs on main thread.
	// See documentation for functions that are only allowed to be called
	// from the main thread.
	runtime.LockOSThread()

	flag.BoolVar(&args.debug, "debug", false, "Log at debug level")
	flag.BoolVar(&args.validation, "validation", true, "Enable Vulkan validation layers")
	flag.StringVar(&args.layers, "layers", engine.ValidationLayer,
		"Comma separated validation layers enabled with -validation")
	flag.StringVar(&args.shaders, "shaders", "shaders", "Directory with the compiled shaders")
	flag.StringVar(&args.vert, "vert", shaders.VertexFile, "Vertex shader file within -shaders")
	flag.StringVar(&args.frag, "frag", shaders.FragmentFile, "Fragment shader file within -shaders")
	flag.IntVar(&args.width, "width", 1024, "Window width")
	flag.IntVar(&args.height, "height", 768, "Window height")
	flag.DurationVar(&args.fenceTimeout, "fence-timeout", 0,
		"Maximum wait for a frame's previous submission, 0 waits forever")
	flag.BoolVar(&args.idleAfterPresent, "idle-after-present", true,
		"Wait for the device to go idle after every present")
	flag.StringVar(&args.logFormat, "log-format", string(logging.FormatText), "Log format: text or json")
}

var args struct {
	debug            bool
	validation       bool
	layers           string
	shaders          string
	vert             string
	frag             string
	width            int
	height           int
	fenceTimeout     time.Duration
	idleAfterPresent bool
	logFormat        string
}

func main() {
	flag.Parse()

	format, err := logging.ParseFormat(args.logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, format, args.debug).
		With(slog.String("run", uuid.NewString()))

	if err := run(logger); err != nil {
		logger.Error("fatal", slog.Any("error", err))
		if args.debug {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := shaders.Loader{FS: os.DirFS(args.shaders)}
	vertex, fragment, err := loader.LoadPair(args.vert, args.frag)
	if err != nil {
		return errors.Wrap(err, "loading shaders")
	}
	logger.Debug("shaders loaded",
		slog.Int("vertexSize", len(vertex.Code)),
		slog.Int("fragmentSize", len(fragment.Code)),
	)

	win, err := newWindow(args.width, args.height, title)
	if err != nil {
		return errors.Wrap(err, "initWindow")
	}
	defer win.destroy()

	driver, err := vkdriver.New(glfw.GetVulkanGetInstanceProcAddress())
	if err != nil {
		return err
	}

	renderer, err := engine.New(driver, win, newConfig(win, vertex, fragment), logger)
	if err != nil {
		return errors.Wrap(err, "initVulkan")
	}

	runErr := renderer.Run(ctx, win)
	if runErr != nil {
		runErr = errors.Wrap(runErr, "mainLoop")
	}
	return errors.CombineErrors(runErr, renderer.Close())
}

func newConfig(win *window, vertex, fragment shaders.Shader) engine.Config {
	config := engine.DefaultConfig()
	config.ApplicationName = title
	config.Validation = args.validation
	config.ValidationLayers = splitList(args.layers)
	config.InstanceExtensions = instanceExtensions(win)
	config.VertexShader = vertex.Code
	config.FragmentShader = fragment.Code

	config.Frame.IdleAfterPresent = args.idleAfterPresent
	if args.fenceTimeout > 0 {
		config.Frame.FenceTimeout = uint64(args.fenceTimeout.Nanoseconds())
	} else {
		config.Frame.FenceTimeout = gpu.NoTimeout
	}

	return config
}

// instanceExtensions returns the extensions glfw needs for creating a surface.
// When glfw cannot tell, the surface extension of the build platform is used.
func instanceExtensions(win *window) []string {
	var extensions []string
	for _, name := range win.GetRequiredInstanceExtensions() {
		extensions = append(extensions, strings.TrimRight(name, "\x00"))
	}

	if len(extensions) == 0 {
		extensions = []string{engine.SurfaceExtension, platformSurfaceExtension}
	}
	return extensions
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

const title = "vkframe: Hello Triangle"
