package queues

import (
	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/optional"
)

// FamilyIndices holds the indexes of queue families needed by the program.
type FamilyIndices struct {

	// Graphics is the index of the graphics queue family.
	Graphics optional.Optional[uint32]

	// Present is the index of the queue family used for presenting to the drawing
	// surface.
	Present optional.Optional[uint32]
}

// IsComplete returns true if all families have been set.
func (f *FamilyIndices) IsComplete() bool {
	return f.Graphics.HasValue() && f.Present.HasValue()
}

// IsUnified returns true when a single family does both graphics and
// presentation.
func (f *FamilyIndices) IsUnified() bool {
	return f.IsComplete() && f.Graphics.Get() == f.Present.Get()
}

// SurfaceSupporter answers whether a queue family of an adapter can present to
// a surface.
type SurfaceSupporter interface {
	SurfaceSupport(adapter gpu.PhysicalDevice, family uint32, surface gpu.Surface) (bool, error)
}

// FindUnified returns the first queue family of the adapter which supports
// both graphics and presentation to surface. Families which support only one
// of the two are never combined.
func FindUnified(
	driver SurfaceSupporter,
	adapter gpu.PhysicalDevice,
	families []gpu.QueueFamily,
	surface gpu.Surface,
) (optional.Optional[uint32], error) {
	for _, family := range families {
		if family.Flags&gpu.QueueGraphics == 0 || family.Count == 0 {
			continue
		}

		hasPresent, err := driver.SurfaceSupport(adapter, family.Index, surface)
		if err != nil {
			return optional.Optional[uint32]{}, err
		}

		if hasPresent {
			return optional.Of(family.Index), nil
		}
	}

	return optional.Optional[uint32]{}, nil
}
