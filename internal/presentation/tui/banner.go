package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the hexwire ASCII art banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _                        _          ", "#22d3ee"},
		{"| |__   _____  ____      _(_)_ __ ___ ", "#38bdf8"},
		{"| '_ \\ / _ \\ \\/ /\\ \\ /\\ / / | '__/ _ \\", "#60a5fa"},
		{"| | | |  __/>  <  \\ V  V /| | | |  __/", "#818cf8"},
		{"|_| |_|\\___/_/\\_\\  \\_/\\_/ |_|_|  \\___|", "#a78bfa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status colors msg green when ok and red otherwise.
func Status(ok bool, msg string) string {
	p := termenv.ColorProfile()
	if ok {
		return termenv.String("✔ " + msg).Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String("✘ " + msg).Foreground(p.Color("#ef4444")).Bold().String()
}
