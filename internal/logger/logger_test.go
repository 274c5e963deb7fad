package logger

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// capture enables verbose output into a buffer and restores the defaults
// when the test ends.
func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
		now = time.Now
	})
	return &buf
}

// fixedClock returns times from ticks in order, repeating the last one.
func fixedClock(ticks ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		tick := ticks[i]
		if i < len(ticks)-1 {
			i++
		}
		return tick
	}
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestPackageLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] loaded 3 documents\n"},
		{"info", Info, "[INFO] loaded 3 documents\n"},
		{"warn", Warn, "[WARN] loaded 3 documents\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("loaded %d documents", 3)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestQuietWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("a")
	Info("b")
	Warn("c")
	Section("d")
	op := Start("build_knowledge_graph")
	op.Info("e")
	op.Done("f")

	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)
	Section("Import")
	assert.Equal(t, "\n=== Import ===\n", buf.String())
}

func TestOp_TagsMessages(t *testing.T) {
	buf := capture(t, true)

	op := Start("find_shortest_path")
	assert.Equal(t, "find_shortest_path", op.Name())
	op.Debug("corpus=%d", 9)
	op.Info("hops=%d", 8)
	op.Warn("fetch %s failed", "d3")

	assert.Equal(t,
		"\n=== find_shortest_path ===\n"+
			"[DEBUG] find_shortest_path: corpus=9\n"+
			"[INFO] find_shortest_path: hops=8\n"+
			"[WARN] find_shortest_path: fetch d3 failed\n",
		buf.String())
}

func TestOp_DoneReportsElapsed(t *testing.T) {
	buf := capture(t, true)
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now = fixedClock(t0, t0.Add(1250*time.Millisecond+300*time.Microsecond))

	op := Start("extract_themes")
	buf.Reset()
	op.Done("%d themes", 4)

	assert.Equal(t, "[INFO] extract_themes: 4 themes (1.25s)\n", buf.String())
}

func TestSetOutput(t *testing.T) {
	buf := capture(t, true)
	Info("first")

	var other bytes.Buffer
	SetOutput(&other)
	Info("second")

	assert.Equal(t, "[INFO] first\n", buf.String())
	assert.Equal(t, "[INFO] second\n", other.String())
}
