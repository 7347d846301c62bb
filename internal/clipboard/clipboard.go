// Package clipboard copies card text to the system clipboard.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard program is installed.
var ErrUnavailable = errors.New("no clipboard program found (install wl-copy, xclip or xsel)")

// commands lists clipboard programs in order of preference.
func commands(goos string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "windows":
		return [][]string{{"cmd", "/c", "clip"}}
	default:
		return [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
}

func find(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	for _, c := range commands(goos) {
		if bin, err := lookPath(c[0]); err == nil {
			return append([]string{bin}, c[1:]...), true
		}
	}
	return nil, false
}

// Write copies text to the system clipboard.
func Write(text string) error {
	c, ok := find(runtime.GOOS, exec.LookPath)
	if !ok {
		return ErrUnavailable
	}
	cmd := exec.Command(c[0], c[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
