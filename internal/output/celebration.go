package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// printCelebration shows a short sparkle animation for a clean run.
func printCelebration(w io.Writer, msg string) {
	bold := greenStyle.Bold(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	frames := []struct {
		text  string
		delay time.Duration
	}{
		{greenStyle.Render(msg), 150 * time.Millisecond},
		{yellow.Render("✨ " + msg + " ✨"), 250 * time.Millisecond},
		{bold.Render("🎉 " + msg + " 🎉"), 300 * time.Millisecond},
		{greenStyle.Render(msg), 0},
	}

	for i, frame := range frames {
		if i > 0 {
			fmt.Fprint(w, "\r\033[K")
		}
		fmt.Fprint(w, frame.text)
		if frame.delay > 0 {
			time.Sleep(frame.delay)
		}
	}
	fmt.Fprintln(w)
}
