package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 0", 0, 3.14159, "3"},
		{"precision 1", 1, 72.25, "72.2"},
		{"negative value", 2, -42.567, "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, createFormatter(tt.precision)(tt.value))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"score": 42}))
	assert.Equal(t, "{\n  \"score\": 42\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"name", "score"}, func(w *csv.Writer) error {
			return w.Write([]string{"lodash", "81"})
		})
		require.NoError(t, err)
		assert.Equal(t, "name,score\nlodash,81\n", buf.String())
	})

	t.Run("row error propagates", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"name"}, func(*csv.Writer) error {
			return errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
	})
}

func TestWriteWithFile(t *testing.T) {
	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "hello")
			return err
		}, "Wrote text")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return errors.New("write failed") }, "Wrote text")
		assert.EqualError(t, err, "write failed")
	})

	t.Run("bad path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/dir/out.txt", func(io.Writer) error { return nil }, "Wrote text")
		assert.Error(t, err)
	})
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"plain risk", levelLabel("critical", false), "Critical"},
		{"empty risk", levelLabel("", false), "Unknown"},
		{"plain grade", gradeLabel(schema.GradeB, false), "B"},
		{"severity without emoji", severityMarker(schema.SeverityHigh, false), "HIGH"},
		{"severity with emoji", severityMarker(schema.SeverityLow, true), "🔵 LOW"},
		{"blank dash", orDash("  "), "-"},
		{"value kept", orDash("MIT"), "MIT"},
		{"days", formatDays(12), "12d"},
		{"unknown days", formatDays(schema.DaysUnknown), "never"},
		{"bus factor", busFactorLabel(schema.MaintainerHealthResult{BusFactor: 2}), "2"},
		{"unknown bus factor", busFactorLabel(schema.MaintainerHealthResult{BusFactorUnknown: true}), "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}
