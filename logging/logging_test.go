package logging_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/slog"

	"github.com/ironsmile/vkframe/gpu"
	"github.com/ironsmile/vkframe/logging"
)

var _ = Describe("ParseFormat", func() {
	It("knows text and json", func() {
		Expect(logging.ParseFormat("text")).To(Equal(logging.FormatText))
		Expect(logging.ParseFormat("json")).To(Equal(logging.FormatJSON))
	})

	It("rejects anything else", func() {
		_, err := logging.ParseFormat("xml")
		Expect(err).To(MatchError(ContainSubstring(`unknown log format "xml"`)))
	})
})

var _ = Describe("New", func() {
	It("drops debug records unless asked", func() {
		var buf bytes.Buffer
		logging.New(&buf, logging.FormatText, false).Debug("hidden")
		Expect(buf.String()).To(BeEmpty())

		logging.New(&buf, logging.FormatText, true).Debug("shown")
		Expect(buf.String()).To(ContainSubstring("msg=shown"))
	})

	It("writes json records", func() {
		var buf bytes.Buffer
		logging.New(&buf, logging.FormatJSON, false).Info("hello", slog.Int("frames", 3))

		var record map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
		Expect(record).To(HaveKeyWithValue("msg", "hello"))
		Expect(record).To(HaveKeyWithValue("frames", BeNumerically("==", 3)))
	})
})

var _ = Describe("Sink", func() {
	var (
		buf  bytes.Buffer
		sink *logging.Sink
	)

	BeforeEach(func() {
		buf.Reset()
		sink = logging.NewSink(logging.New(&buf, logging.FormatJSON, true))
	})

	It("logs validation errors at error level", func() {
		sink.Report(gpu.SeverityError, "[Validation] vkDestroyDevice: objects not destroyed")

		var record map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
		Expect(record).To(HaveKeyWithValue("level", "ERROR"))
		Expect(record).To(HaveKeyWithValue("source", "validation"))
		Expect(record).To(HaveKeyWithValue("severity", "error"))
	})

	It("drops informational messages", func() {
		sink.Report(gpu.SeverityInfo, "loader message")
		sink.Report(gpu.SeverityDebug, "debug message")

		Expect(buf.String()).To(BeEmpty())
	})

	It("keeps performance warnings", func() {
		sink.Report(gpu.SeverityPerformance, "suboptimal layout")

		Expect(buf.String()).To(ContainSubstring(`"level":"WARN"`))
	})
})

var _ = Describe("Level", func() {
	It("maps severities onto log levels", func() {
		Expect(logging.Level(gpu.SeverityError)).To(Equal(slog.LevelError))
		Expect(logging.Level(gpu.SeverityWarning)).To(Equal(slog.LevelWarn))
		Expect(logging.Level(gpu.SeverityPerformance)).To(Equal(slog.LevelWarn))
		Expect(logging.Level(gpu.SeverityInfo)).To(Equal(slog.LevelInfo))
		Expect(logging.Level(gpu.SeverityDebug)).To(Equal(slog.LevelDebug))
	})
})
