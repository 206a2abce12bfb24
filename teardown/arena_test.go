package teardown_test

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/teardown"
)

var _ = Describe("Arena", func() {
	var (
		arena    *teardown.Arena
		released []string
	)

	track := func(name string) {
		arena.Track(teardown.Kind(name), func() {
			released = append(released, name)
		})
	}

	BeforeEach(func() {
		arena = teardown.New(nil)
		released = nil
	})

	It("releases objects newest first", func() {
		track("instance")
		track("surface")
		track("device")
		track("swapchain")

		Expect(arena.Kinds()).To(Equal([]teardown.Kind{"instance", "surface", "device", "swapchain"}))
		arena.Teardown()

		Expect(released).To(Equal([]string{"swapchain", "device", "surface", "instance"}))
		Expect(arena.Len()).To(BeZero())
	})

	It("does nothing on a second teardown", func() {
		track("instance")
		arena.Teardown()
		arena.Teardown()

		Expect(released).To(Equal([]string{"instance"}))
	})

	It("releases at once what is tracked after teardown", func() {
		arena.Teardown()
		track("fence")

		Expect(released).To(Equal([]string{"fence"}))
		Expect(arena.Len()).To(BeZero())
	})

	It("is usable as a zero value", func() {
		var zero teardown.Arena
		zero.Track("semaphore", func() { released = append(released, "semaphore") })
		zero.Teardown()

		Expect(released).To(ConsistOf("semaphore"))
	})

	It("logs every release at debug level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		arena = teardown.New(logger)
		track("render-pass")
		arena.Teardown()

		Expect(buf.String()).To(ContainSubstring("kind=render-pass"))
		Expect(buf.String()).To(ContainSubstring("level=DEBUG"))
	})
})
