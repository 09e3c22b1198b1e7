package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	t.Run("Rejects empty prefix", func(t *testing.T) {
		_, err := New("  ", "", &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrEmptyPrefix)
	})

	t.Run("Writes prefix and level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New("coverage", "", &buf)
		assert.NoError(t, err)

		l.Info("ready")
		l.Warning("slow")
		l.Error("broken")

		out := buf.String()
		assert.Contains(t, out, "[COVERAGE] ")
		assert.Contains(t, out, "[INFO] ready")
		assert.Contains(t, out, "[WARNING] slow")
		assert.Contains(t, out, "[ERROR] broken")
	})

	t.Run("Wraps prefix in color", func(t *testing.T) {
		var buf bytes.Buffer
		l, _ := New("app", "\033[32m", &buf)
		l.Info("x")
		assert.Contains(t, buf.String(), "\033[32m[APP] "+colorReset)
	})
}
