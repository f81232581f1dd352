package growthbook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

// Some test functions generate warnings in the log. We need to check
// the expected ones, and not miss any unexpected ones.

func handleExpectedWarnings(
	t *testing.T, name string, expectedWarnings map[string]int) {
	warnings, ok := expectedWarnings[name]
	if ok {
		if len(testLogHandler.errors) == 0 && len(testLogHandler.warnings) == warnings {
			testLogHandler.reset()
		} else {
			t.Errorf("expected log warning")
		}
	}
}

// Helper to round variation ranges for comparison with fixed test
// values.
func roundRanges(ranges []BucketRange) []BucketRange {
	result := make([]BucketRange, len(ranges))
	for i, r := range ranges {
		rmin := math.Round(r.Min*1000000) / 1000000
		rmax := math.Round(r.Max*1000000) / 1000000
		result[i] = BucketRange{rmin, rmax}
	}
	return result
}

// Helper to round floating point arrays for test comparison.
func round(vals []float64) []float64 {
	result := make([]float64, len(vals))
	for i, v := range vals {
		result[i] = math.Round(v*1000000) / 1000000
	}
	return result
}

// roundArr is an alias for round, used by table-driven cases that compare
// weight arrays.
func roundArr(vals []float64) []float64 {
	return round(vals)
}

// testLogger builds a fresh logger/handler pair scoped to level, for
// tests that need to assert on log output at a non-default level without
// interfering with the shared package-level testLogHandler.
func testLogger(level slog.Level, t *testing.T) (*slog.Logger, *handler) {
	buf := bytes.Buffer{}
	h := &handler{
		errors:     []map[string]any{},
		warnings:   []map[string]any{},
		buf:        &buf,
		subHandler: slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}),
	}
	return slog.New(h), h
}

var testLogHandler *handler = newHandler()

var testLog *slog.Logger = slog.New(testLogHandler)

// Log handler to capture error and warning messages.
type handler struct {
	errors     []map[string]any
	warnings   []map[string]any
	buf        *bytes.Buffer
	subHandler slog.Handler
}

func newHandler() *handler {
	buf := bytes.Buffer{}
	h := slog.NewJSONHandler(&buf, nil)
	return &handler{
		errors:     []map[string]any{},
		warnings:   []map[string]any{},
		buf:        &buf,
		subHandler: h,
	}
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.subHandler.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	err := h.subHandler.Handle(ctx, r)
	if err != nil {
		return err
	}
	v := map[string]any{}
	err = json.Unmarshal(h.buf.Bytes(), &v)
	h.buf.Reset()
	if err != nil {
		return err
	}
	level, ok := v["level"]
	if !ok {
		return errors.New("no level in log message")
	}
	switch level {
	case "ERROR":
		h.errors = append(h.errors, v)
	case "WARN":
		h.warnings = append(h.warnings, v)
	}
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newSubHandler := h.subHandler.WithAttrs(attrs)
	return &handler{
		errors:     h.errors,
		warnings:   h.warnings,
		buf:        h.buf,
		subHandler: newSubHandler,
	}
}

func (h *handler) WithGroup(name string) slog.Handler {
	newSubHandler := h.subHandler.WithGroup(name)
	return &handler{
		errors:     h.errors,
		warnings:   h.warnings,
		buf:        h.buf,
		subHandler: newSubHandler,
	}
}

func (h *handler) reset() {
	h.errors = []map[string]any{}
	h.warnings = []map[string]any{}
	h.buf.Reset()
}

func (h *handler) allErrors() string {
	ss := []string{}
	for _, e := range h.errors {
		b, err := json.Marshal(e)
		if err == nil {
			ss = append(ss, string(b))
		}
	}
	return strings.Join(ss, ", ")
}

func (h *handler) allWarnings() string {
	ss := []string{}
	for _, e := range h.warnings {
		b, err := json.Marshal(e)
		if err == nil {
			ss = append(ss, string(b))
		}
	}
	return strings.Join(ss, ", ")
}
