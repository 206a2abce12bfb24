package gputest_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/gpu/gputest"
)

var _ = Describe("Driver", func() {
	var (
		driver   *gputest.Driver
		instance gpu.Instance
		device   gpu.Device
	)

	BeforeEach(func() {
		driver = gputest.NewDriver()

		var err error
		instance, err = driver.CreateInstance(gpu.InstanceInfo{})
		Expect(err).NotTo(HaveOccurred())
		device, err = driver.CreateDevice(0, gpu.DeviceInfo{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("flags an object destroyed before its users", func() {
		driver.DestroyInstance(instance)

		Expect(driver.Violations).To(ConsistOf(ContainSubstring("still uses it")))
	})

	It("flags a double destroy", func() {
		fence, err := driver.CreateFence(device, true)
		Expect(err).NotTo(HaveOccurred())

		driver.DestroyFence(device, fence)
		driver.DestroyFence(device, fence)

		Expect(driver.Violations).To(ConsistOf(ContainSubstring("not alive")))
	})

	It("flags a fence submitted without a reset", func() {
		fence, err := driver.CreateFence(device, true)
		Expect(err).NotTo(HaveOccurred())

		Expect(driver.QueueSubmit(1, gpu.SubmitInfo{}, fence)).To(Succeed())
		Expect(driver.Violations).To(ContainElement(ContainSubstring("was not reset")))
	})

	It("completes submissions on wait", func() {
		fence, err := driver.CreateFence(device, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(driver.QueueSubmit(1, gpu.SubmitInfo{}, fence)).To(Succeed())
		Expect(driver.Pending(fence)).To(BeTrue())

		Expect(driver.WaitForFence(device, fence, gpu.NoTimeout)).To(Succeed())
		Expect(driver.Pending(fence)).To(BeFalse())
	})

	It("reports a wait nothing will satisfy", func() {
		fence, err := driver.CreateFence(device, false)
		Expect(err).NotTo(HaveOccurred())

		err = driver.WaitForFence(device, fence, gpu.NoTimeout)
		Expect(err).To(HaveOccurred())
		Expect(driver.Violations).To(HaveLen(1))
	})

	It("rejects shader code of a bad size", func() {
		_, err := driver.CreateShaderModule(device, []byte{1, 2, 3, 4, 5})
		Expect(err).To(HaveOccurred())

		_, err = driver.CreateShaderModule(device, []byte{1, 2, 3, 4})
		Expect(err).NotTo(HaveOccurred())
	})
})
