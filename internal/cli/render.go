package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Renderer interface {
	Render(msg string) string
}

// FrameRenderer draws a horizontal rule above and below each message. Message
// lines are never wrapped, so each task stays on one line.
type FrameRenderer struct {
	rule string
}

func NewFrameRenderer(width int) FrameRenderer {
	if width <= 0 {
		width = 60
	}
	return FrameRenderer{rule: strings.Repeat("_", width)}
}

func (r FrameRenderer) Render(msg string) string {
	return lipgloss.JoinVertical(lipgloss.Left, r.rule, msg, r.rule)
}

// PlainRenderer passes messages through untouched, as a chat bubble would show them.
type PlainRenderer struct{}

func (PlainRenderer) Render(msg string) string { return msg }
