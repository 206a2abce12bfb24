package engine

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/queues"
	"github.com/ironsmile/vkframe/teardown"
)

// SurfaceDriver creates presentation surfaces.
type SurfaceDriver interface {
	CreateSurface(instance gpu.Instance, source gpu.SurfaceSource) (gpu.Surface, error)
	DestroySurface(instance gpu.Instance, surface gpu.Surface)
}

// AdapterDriver enumerates adapters and their queue families.
type AdapterDriver interface {
	PhysicalDevices(instance gpu.Instance) ([]gpu.PhysicalDevice, error)
	AdapterProperties(adapter gpu.PhysicalDevice) gpu.AdapterProperties
	QueueFamilies(adapter gpu.PhysicalDevice) []gpu.QueueFamily
	SurfaceSupport(adapter gpu.PhysicalDevice, family uint32, surface gpu.Surface) (bool, error)
}

// Selection is the chosen adapter. Its graphics and present families are
// always the same one.
type Selection struct {
	Adapter    gpu.PhysicalDevice
	Families   queues.FamilyIndices
	Properties gpu.AdapterProperties
}

// CreateSurface binds the window to a surface of instance and tracks it in
// arena.
func CreateSurface(
	driver SurfaceDriver,
	arena *teardown.Arena,
	instance gpu.Instance,
	source gpu.SurfaceSource,
) (gpu.Surface, error) {
	surface, err := driver.CreateSurface(instance, source)
	if err != nil {
		return 0, errors.Mark(errors.Wrap(err, "createSurface"), ErrSurfaceCreation)
	}
	// Tracked before the device, so teardown destroys the device first and
	// the surface after it. Neither depends on the other.
	arena.Track("surface", func() {
		driver.DestroySurface(instance, surface)
	})
	return surface, nil
}

// SelectAdapter returns the first adapter, in enumeration order, with a
// queue family supporting both graphics and presentation to surface. Adapters
// are not scored.
func SelectAdapter(
	driver AdapterDriver,
	instance gpu.Instance,
	surface gpu.Surface,
	logger *slog.Logger,
) (Selection, error) {
	adapters, err := driver.PhysicalDevices(instance)
	if err != nil {
		return Selection{}, errors.Wrap(err, "pickPhysicalDevice")
	}

	for _, adapter := range adapters {
		properties := driver.AdapterProperties(adapter)

		family, err := queues.FindUnified(driver, adapter, driver.QueueFamilies(adapter), surface)
		if err != nil {
			return Selection{}, errors.Wrapf(err, "pickPhysicalDevice: querying %s", properties.Name)
		}

		if !family.HasValue() {
			logger.Debug("adapter skipped",
				slog.String("name", properties.Name),
				slog.String("type", properties.Type.String()),
			)
			continue
		}

		logger.Info("adapter selected",
			slog.String("name", properties.Name),
			slog.String("type", properties.Type.String()),
			slog.Int("queueFamily", int(family.Get())),
		)
		selection := Selection{
			Adapter:    adapter,
			Properties: properties,
		}
		selection.Families.Graphics.Set(family.Get())
		selection.Families.Present.Set(family.Get())
		return selection, nil
	}

	return Selection{}, errors.Mark(
		errors.Newf("pickPhysicalDevice: none of %d adapters can draw and present", len(adapters)),
		ErrNoSuitableAdapter,
	)
}
