package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrNoPlayer is returned when no audio player program is installed.
var ErrNoPlayer = errors.New("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")

// Player plays an audio file to completion.
type Player interface {
	Play(ctx context.Context, path string) error
}

// ExecPlayer plays files with the first platform player it finds.
type ExecPlayer struct {
	goos     string
	lookPath func(string) (string, error)
}

// NewExecPlayer creates a player for the current platform.
func NewExecPlayer() *ExecPlayer {
	return &ExecPlayer{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// candidates lists player commands in order of preference; the file path
// is appended to each.
func candidates(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"afplay"}}
	case "windows":
		return [][]string{{"cmd", "/c", "start", "/min"}}
	default:
		// mpg123 first since it handles MP3 files best
		return [][]string{
			{"mpg123", "-q"},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
			{"play", "-q"},
			{"paplay"},
			{"aplay", "-q"},
		}
	}
}

// Play runs the player and waits for it to finish.
func (p *ExecPlayer) Play(ctx context.Context, path string) error {
	for _, c := range candidates(p.goos) {
		bin, err := p.lookPath(c[0])
		if err != nil {
			continue
		}
		args := append(append([]string{}, c[1:]...), path)
		if out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %w: %s", c[0], err, out)
		}
		return nil
	}
	return ErrNoPlayer
}
