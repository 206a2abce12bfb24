package engine

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/teardown"
)

// ContextDriver is the part of gpu.Driver the context bootstrap needs.
type ContextDriver interface {
	gpu.GlobalDriver
	DestroyInstance(instance gpu.Instance)
	CreateDebugCallback(instance gpu.Instance, sink gpu.DiagnosticSink) (gpu.DebugCallback, error)
	DestroyDebugCallback(instance gpu.Instance, callback gpu.DebugCallback)
}

// ContextConfig selects what the instance is created with.
type ContextConfig struct {
	ApplicationName string
	EngineName      string
	Layers          []string
	Extensions      []string

	// Diagnostics, when set, gets a debug callback installed.
	Diagnostics gpu.DiagnosticSink
}

// Context is the API instance with its enabled layers and debug callback.
type Context struct {
	Instance      gpu.Instance
	DebugCallback gpu.DebugCallback
	Layers        []string
	Extensions    []string
}

// NewContext checks that every requested layer and extension is available,
// creates the instance and installs the debug callback. The instance and the
// callback are tracked in arena in that order.
func NewContext(
	driver ContextDriver,
	arena *teardown.Arena,
	config ContextConfig,
	logger *slog.Logger,
) (*Context, error) {
	availableLayers, err := driver.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "createInstance: enumerating layers")
	}
	availableExtensions, err := driver.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "createInstance: enumerating extensions")
	}

	logger.Debug("instance layers available", slog.Any("layers", availableLayers))
	logger.Debug("instance extensions available", slog.Any("extensions", availableExtensions))

	for _, layer := range config.Layers {
		if !slices.Contains(availableLayers, layer) {
			return nil, errors.Mark(
				errors.Newf("createInstance: layer %s requested but not available", layer),
				ErrConfiguration,
			)
		}
	}
	for _, extension := range config.Extensions {
		if !slices.Contains(availableExtensions, extension) {
			return nil, errors.Mark(
				errors.Newf("createInstance: extension %s required but not available", extension),
				ErrConfiguration,
			)
		}
	}

	instance, err := driver.CreateInstance(gpu.InstanceInfo{
		ApplicationName: config.ApplicationName,
		EngineName:      config.EngineName,
		Layers:          config.Layers,
		Extensions:      config.Extensions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "createInstance")
	}
	arena.Track("instance", func() {
		driver.DestroyInstance(instance)
	})

	ctx := &Context{
		Instance:   instance,
		Layers:     config.Layers,
		Extensions: config.Extensions,
	}

	if config.Diagnostics != nil {
		callback, err := driver.CreateDebugCallback(instance, config.Diagnostics)
		if err != nil {
			return nil, errors.Wrap(err, "setupDebugCallback")
		}
		arena.Track("debug-callback", func() {
			driver.DestroyDebugCallback(instance, callback)
		})
		ctx.DebugCallback = callback
	}

	logger.Debug("instance created",
		slog.Any("layers", config.Layers),
		slog.Any("extensions", config.Extensions),
		slog.Bool("debugCallback", ctx.DebugCallback != 0),
	)

	return ctx, nil
}
