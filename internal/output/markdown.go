package output

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

const markdownWidth = 80

// Markdown renders a project description for the terminal. If rendering
// fails the source text is returned unchanged.
func Markdown(src string) string {
	style := glamour.WithAutoStyle()
	if !colorEnabled {
		style = glamour.WithStandardStyle(styles.NoTTYStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
	if err != nil {
		return src + "\n"
	}
	out, err := r.Render(src)
	if err != nil {
		return src + "\n"
	}
	return out
}
