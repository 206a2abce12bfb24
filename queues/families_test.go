package queues_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/optional"
	"github.com/ironsmile/vkframe/queues"
)

type presentTable struct {
	present map[uint32]bool
	asked   []uint32
	err     error
}

func (p *presentTable) SurfaceSupport(_ gpu.PhysicalDevice, family uint32, _ gpu.Surface) (bool, error) {
	p.asked = append(p.asked, family)
	return p.present[family], p.err
}

var _ = Describe("FamilyIndices", func() {
	It("is complete only with both families", func() {
		var f queues.FamilyIndices
		Expect(f.IsComplete()).To(BeFalse())

		f.Graphics.Set(1)
		Expect(f.IsComplete()).To(BeFalse())

		f.Present = optional.Of[uint32](2)
		Expect(f.IsComplete()).To(BeTrue())
		Expect(f.IsUnified()).To(BeFalse())

		f.Present.Set(1)
		Expect(f.IsUnified()).To(BeTrue())
	})
})

var _ = Describe("FindUnified", func() {
	var table *presentTable

	BeforeEach(func() {
		table = &presentTable{present: map[uint32]bool{}}
	})

	It("returns the first family doing graphics and presentation", func() {
		table.present[1] = true
		table.present[2] = true
		families := []gpu.QueueFamily{
			{Index: 0, Flags: gpu.QueueCompute, Count: 1},
			{Index: 1, Flags: gpu.QueueGraphics, Count: 1},
			{Index: 2, Flags: gpu.QueueGraphics, Count: 4},
		}

		family, err := queues.FindUnified(table, 1, families, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(family.HasValue()).To(BeTrue())
		Expect(family.Get()).To(BeEquivalentTo(1))
		Expect(table.asked).To(Equal([]uint32{1}))
	})

	It("never combines a graphics family with a different present family", func() {
		table.present[1] = true
		families := []gpu.QueueFamily{
			{Index: 0, Flags: gpu.QueueGraphics, Count: 1},
			{Index: 1, Flags: gpu.QueueTransfer, Count: 1},
		}

		family, err := queues.FindUnified(table, 1, families, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(family.HasValue()).To(BeFalse())
	})

	It("skips families without queues", func() {
		table.present[0] = true
		families := []gpu.QueueFamily{{Index: 0, Flags: gpu.QueueGraphics, Count: 0}}

		family, err := queues.FindUnified(table, 1, families, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(family.HasValue()).To(BeFalse())
		Expect(table.asked).To(BeEmpty())
	})

	It("returns the surface query error", func() {
		table.err = errors.New("surface lost")
		families := []gpu.QueueFamily{{Index: 0, Flags: gpu.QueueGraphics, Count: 1}}

		_, err := queues.FindUnified(table, 1, families, 2)
		Expect(err).To(MatchError("surface lost"))
	})
})
