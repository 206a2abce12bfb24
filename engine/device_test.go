package engine_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ironsmile/vkframe/engine"
	"github.com/ironsmile/vkframe/gpu/gputest"
	"github.com/ironsmile/vkframe/teardown"
)

var _ = Describe("NewDevice", func() {
	var (
		driver *gputest.Driver
		arena  *teardown.Arena
	)

	BeforeEach(func() {
		driver = gputest.NewDriver()
		arena = teardown.New(nil)
	})

	It("creates the device on the unified family", func() {
		var selection engine.Selection
		selection.Families.Graphics.Set(2)
		selection.Families.Present.Set(2)

		device, err := engine.NewDevice(driver, arena, selection, nil, []string{engine.SwapchainExtension})
		Expect(err).NotTo(HaveOccurred())

		Expect(device.QueueFamily).To(BeEquivalentTo(2))
		Expect(driver.DeviceInfo.QueueFamily).To(BeEquivalentTo(2))
		Expect(arena.Kinds()).To(Equal([]teardown.Kind{"device"}))
	})

	It("refuses different graphics and present families", func() {
		var selection engine.Selection
		selection.Families.Graphics.Set(0)
		selection.Families.Present.Set(1)

		_, err := engine.NewDevice(driver, arena, selection, nil, nil)
		Expect(errors.HasAssertionFailure(err)).To(BeTrue())
		Expect(driver.Count("CreateDevice")).To(BeZero())
		Expect(arena.Len()).To(BeZero())
	})

	It("refuses a selection without families", func() {
		_, err := engine.NewDevice(driver, arena, engine.Selection{}, nil, nil)
		Expect(errors.HasAssertionFailure(err)).To(BeTrue())
		Expect(driver.Created).To(BeEmpty())
	})
})
