package midi

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"strudel-go/pattern"
)

// LiveSink drives a FluidSynth subprocess over its stdin command
// protocol. Because the scheduler queries ahead of real time (§4.4's
// look-ahead), Emit does not send noteon/noteoff immediately — it
// schedules them with time.AfterFunc so they land at their computed
// wall-clock trigger time.
type LiveSink struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu      sync.Mutex
	timers  []*time.Timer
	stopped bool
}

// FindSoundFont locates a .sf2 SoundFont file: customPath if given,
// otherwise a project-local ./soundfonts directory, common user
// locations, then common system locations.
func FindSoundFont(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("midi: soundfont not found: %s", customPath)
	}

	for _, pattern := range []string{"./soundfonts/*.sf2", "./soundfonts/*.SF2"} {
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}

	home, _ := os.UserHomeDir()
	for _, dir := range []string{
		filepath.Join(home, ".local/share/soundfonts"),
		filepath.Join(home, "soundfonts"),
	} {
		if matches, err := filepath.Glob(filepath.Join(dir, "*.sf2")); err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}

	for _, loc := range []string{
		"/usr/share/sounds/sf2/FluidR3_GM.sf2",
		"/usr/share/sounds/sf2/default.sf2",
		"/usr/share/soundfonts/FluidR3_GM.sf2",
		"/usr/share/soundfonts/default.sf2",
	} {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	for _, pattern := range []string{"/usr/share/sounds/sf2/*.sf2", "/usr/share/soundfonts/*.sf2"} {
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}

	return "", fmt.Errorf("midi: no SoundFont (.sf2) found; install fluid-soundfont-gm or pass --soundfont")
}

// NewLiveSink launches FluidSynth in server mode against soundFont and
// returns a sink that can schedule notes against it.
func NewLiveSink(soundFont string) (*LiveSink, error) {
	if _, err := exec.LookPath("fluidsynth"); err != nil {
		return nil, fmt.Errorf("midi: fluidsynth not found: %w", err)
	}
	cmd := exec.Command("fluidsynth",
		"-si", // server mode, read commands from stdin
		"-r", "48000",
		"-g", "1.0",
		soundFont,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("midi: stdin pipe: %w", err)
	}
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("midi: start fluidsynth: %w", err)
	}
	return &LiveSink{cmd: cmd, stdin: stdin}, nil
}

func (l *LiveSink) send(cmd string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	fmt.Fprintf(l.stdin, "%s\n", cmd)
}

// Emit schedules the noteon now (or at t if in the future) and a matching
// noteoff after dur.
func (l *LiveSink) Emit(t time.Time, v pattern.Value, dur time.Duration, ctx pattern.Context) {
	m := v.AsMap()
	notes := notesForValue(m)
	if len(notes) == 0 {
		return
	}
	channel := uint8(0)
	if c, ok := m["channel"]; ok {
		if n, ok := c.Number(); ok {
			channel = uint8(n.Trunc())
		}
	}
	velocity := uint8(100)
	if g, ok := m["gain"]; ok {
		if n, ok := g.Number(); ok {
			velocity = clampVelocity(n.Float64() * 127)
		}
	}

	delay := time.Until(t)
	for _, note := range notes {
		note := note
		l.after(delay, func() {
			l.send(fmt.Sprintf("noteon %d %d %d", channel, note, velocity))
		})
		l.after(delay+dur, func() {
			l.send(fmt.Sprintf("noteoff %d %d", channel, note))
		})
	}
}

func (l *LiveSink) after(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	timer := time.AfterFunc(d, fn)
	l.mu.Lock()
	l.timers = append(l.timers, timer)
	l.mu.Unlock()
}

// Stop cancels any pending note-offs, silences all channels, and shuts
// FluidSynth down, mirroring RealtimePlayer's graceful-then-forced
// shutdown.
func (l *LiveSink) Stop() error {
	l.mu.Lock()
	l.stopped = true
	for _, t := range l.timers {
		t.Stop()
	}
	for ch := 0; ch < 16; ch++ {
		fmt.Fprintf(l.stdin, "cc %d 123 0\n", ch)
	}
	fmt.Fprintln(l.stdin, "quit")
	l.mu.Unlock()

	l.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- l.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		_ = l.cmd.Process.Kill()
		return fmt.Errorf("midi: fluidsynth did not exit, killed")
	}
}
