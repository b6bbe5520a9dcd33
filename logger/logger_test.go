// file: logger/logger_test.go
package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesJSONFile(t *testing.T) {
	t.Cleanup(func() { _ = InitLogger("") })

	logFile := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, InitLogger(logFile))

	Info.Printf("user=%d logged in", 42)
	Warn.Println("disk almost full")
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, `"msg":"user=42 logged in"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.NotNil(t, Zap())
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { _ = InitLogger("") })
	require.NoError(t, InitLogger(""))

	SetLogLevel("development")
	assert.NotEqual(t, io.Discard, Debug.Writer())

	SetLogLevel("production")
	assert.Equal(t, io.Discard, Debug.Writer())
}
