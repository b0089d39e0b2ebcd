package supervise

import (
	"os"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures sink events for assertions. Mutex only because the
// test goroutine inspects it after Run returns.
type recorder struct {
	mu      sync.Mutex
	started bool
	ended   bool
	updates int
	lines   []string
	// endedLast flips false if any event arrives after EndProcessing.
	endedLast bool
}

func (r *recorder) StartProcessing(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
}

func (r *recorder) UpdateProcessing(_ string, _ int, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if r.ended {
		r.endedLast = false
	}
}

func (r *recorder) ForwardLine(_ string, _ int, _ bool, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
	if r.ended {
		r.endedLast = false
	}
}

func (r *recorder) EndProcessing() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = true
	r.endedLast = true
}

func sh(script string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", script)
}

func TestRunSuccess(t *testing.T) {
	rec := &recorder{}
	out, err := Run(sh("exit 0"), "file", rec, nil)
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Equal(t, 0, out.ExitCode)
	assert.False(t, out.Cancelled)
	assert.True(t, rec.started)
	assert.True(t, rec.ended)
}

func TestRunNonZeroExit(t *testing.T) {
	rec := &recorder{}
	out, err := Run(sh("exit 3"), "file", rec, nil)
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, 3, out.ExitCode)
	assert.False(t, out.Cancelled)
	assert.True(t, rec.ended)
}

func TestRunForwardsOutputLines(t *testing.T) {
	rec := &recorder{}
	out, err := Run(sh("echo to-stdout; echo to-stderr >&2"), "file", rec, nil)
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.ElementsMatch(t, []string{"to-stdout", "to-stderr"}, rec.lines)
	assert.True(t, rec.endedLast, "status line must be cleared after the last event")
}

func TestRunDrainsLinesBeforeExit(t *testing.T) {
	rec := &recorder{}
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, "echo line")
	}
	script := ""
	for _, l := range lines {
		script += l + ";"
	}
	out, err := Run(sh(script+"exit 0"), "file", rec, nil)
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Len(t, rec.lines, 50)
}

func TestRunTicks(t *testing.T) {
	rec := &recorder{}
	_, err := Run(sh("sleep 0.35"), "file", rec, nil)
	require.NoError(t, err)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.GreaterOrEqual(t, rec.updates, 2, "timer should have ticked during a 350ms child")
}

func TestRunCancelPrecedence(t *testing.T) {
	rec := &recorder{}
	interrupt := make(chan os.Signal, 1)
	go func() {
		time.Sleep(150 * time.Millisecond)
		interrupt <- os.Interrupt
	}()

	// sleep dies to SIGINT, producing a signal exit; the outcome must
	// still be Cancelled regardless of that status.
	out, err := Run(exec.Command("sleep", "10"), "file", rec, interrupt)
	require.NoError(t, err)
	assert.True(t, out.Cancelled)
	assert.False(t, out.Success())
	assert.True(t, rec.ended)
}

func TestRunSecondCancelIdempotent(t *testing.T) {
	rec := &recorder{}
	interrupt := make(chan os.Signal, 2)
	go func() {
		time.Sleep(100 * time.Millisecond)
		interrupt <- os.Interrupt
		interrupt <- os.Interrupt
	}()

	out, err := Run(exec.Command("sleep", "10"), "file", rec, interrupt)
	require.NoError(t, err)
	assert.True(t, out.Cancelled)
}

func TestRunCancelledChildDrainsLateOutput(t *testing.T) {
	rec := &recorder{}
	interrupt := make(chan os.Signal, 1)
	go func() {
		time.Sleep(150 * time.Millisecond)
		interrupt <- os.Interrupt
	}()

	// The trap emits a final line after the interrupt arrives; the
	// supervisor must forward it before reporting the outcome.
	out, err := Run(sh(`trap 'echo late-line; exit 9' INT; sleep 10 & wait`), "file", rec, interrupt)
	require.NoError(t, err)
	assert.True(t, out.Cancelled)
	assert.Contains(t, rec.lines, "late-line")
}

func TestRunForwardsOversizedLine(t *testing.T) {
	rec := &recorder{}

	// One 2 MB line followed by a normal one: the reader must pass both
	// through instead of stopping at an internal buffer limit and letting
	// the pipe fill up.
	script := `head -c 2000000 /dev/zero | tr "\0" x; echo; echo tail-line`
	out, err := Run(sh(script), "file", rec, nil)
	require.NoError(t, err)
	assert.True(t, out.Success())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.lines, 2)
	assert.Len(t, rec.lines[0], 2000000)
	assert.Equal(t, "tail-line", rec.lines[1])
}

func TestRunSpawnError(t *testing.T) {
	rec := &recorder{}
	_, err := Run(exec.Command("/nonexistent/binary"), "file", rec, nil)
	assert.Error(t, err)
	assert.False(t, rec.started, "no progress line for a child that never spawned")
}
