package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState() func() {
	originalDebug := EnableDebug
	originalForced := forced.Load()
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		forced.Store(originalForced)
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("PHPSYM_DEBUG", "")
	t.Setenv("DEBUG", "")

	EnableDebug = "false"
	SetEnabled(false)
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())

	SetEnabled(true)
	assert.True(t, IsDebugEnabled())
}

func TestIsDebugEnabled_Environment(t *testing.T) {
	defer saveAndRestoreState()()
	EnableDebug = "false"
	SetEnabled(false)

	t.Setenv("DEBUG", "")
	t.Setenv("PHPSYM_DEBUG", "1")
	assert.True(t, IsDebugEnabled())

	t.Setenv("PHPSYM_DEBUG", "")
	t.Setenv("DEBUG", "true")
	assert.True(t, IsDebugEnabled())
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState()()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	Log("TEST", "Hello %s", "World")

	output := buf.String()
	assert.Contains(t, output, "[DEBUG:TEST]")
	assert.Contains(t, output, "Hello World")
}

func TestLog_NoOutputWhenDisabled(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("PHPSYM_DEBUG", "")
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "false"
	SetEnabled(false)
	Log("TEST", "Should not appear")
	Printf("nor this")

	assert.Empty(t, buf.String())
}

func TestLog_NoWriter(t *testing.T) {
	defer saveAndRestoreState()()

	SetDebugOutput(nil)
	EnableDebug = "true"
	assert.NotPanics(t, func() {
		Log("TEST", "dropped")
		Invariant("dropped")
	})
}

func TestLogHelpers(t *testing.T) {
	defer saveAndRestoreState()()

	EnableDebug = "true"

	tests := []struct {
		name    string
		logFunc func(string, ...interface{})
		prefix  string
		message string
	}{
		{"LogIndex", LogIndex, "[DEBUG:INDEX]", "indexed %d classes"},
		{"LogResolve", LogResolve, "[DEBUG:RESOLVE]", "resolving %s"},
		{"LogParse", LogParse, "[DEBUG:PARSE]", "parsed %s"},
		{"LogScan", LogScan, "[DEBUG:SCAN]", "scanning %s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetDebugOutput(&buf)
			tt.logFunc(tt.message, "x")
			assert.Contains(t, buf.String(), tt.prefix)
		})
	}
}

func TestInvariantAlwaysWritten(t *testing.T) {
	defer saveAndRestoreState()()
	t.Setenv("PHPSYM_DEBUG", "")
	t.Setenv("DEBUG", "")

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "false"
	SetEnabled(false)
	Invariant("kind mismatch for %s", "Foo")

	assert.Contains(t, buf.String(), "[INVARIANT] kind mismatch for Foo")
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState()()

	path, err := InitDebugLogFile()
	require.NoError(t, err)
	defer os.Remove(path)

	EnableDebug = "true"
	Log("FILE", "written to file\n")
	require.NoError(t, CloseDebugLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG:FILE] written to file")

	// closing twice is a no-op
	assert.NoError(t, CloseDebugLog())
}
