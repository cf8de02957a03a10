package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetTimestamps(false)
	SetOutput(os.Stderr)
	now = time.Now
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebugAndInfo_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")
	Section("section")

	assert.Zero(t, buf.Len(), "expected no output when verbose is disabled")
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Gateway")

	assert.Equal(t, "\n=== Gateway ===\n", buf.String())
}

func TestInfo(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("indexed %d messages", 42)

	assert.Equal(t, "[INFO] indexed 42 messages\n", buf.String())
}

func TestWarnAndError_AlwaysWritten(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("skipping message %d", 7)
	Error("index failed")

	assert.Equal(t, "[WARN] skipping message 7\n[ERROR] index failed\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetTimestamps(true)
	now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	Warn("late")

	assert.Equal(t, "2024-01-02T03:04:05Z [WARN] late\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	var buf syncBuffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
	// Test passes if no race conditions
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}
