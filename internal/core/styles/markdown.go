package styles

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// MarkdownWidth is the wrap width of rendered task descriptions.
const MarkdownWidth = 80

// markdownPalette is the palette descriptions are rendered with. Nil while
// styles are disabled.
var markdownPalette *Palette

// GlamourStyle returns a Glamour style config derived from p.
func GlamourStyle(p Palette) glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	primary := colorString(p.Primary)
	muted := colorString(p.Muted)
	warning := colorString(p.Warning)

	cfg.Document.Color = muted

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H1.BackgroundColor = nil

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = primary
	cfg.LinkText.Color = primary

	cfg.Code.Color = warning
	cfg.CodeBlock.Color = muted

	noMargin := uint(0)
	cfg.Document.Margin = &noMargin

	return cfg
}

// Markdown renders a task description for the terminal. Text is returned
// unchanged while styles are disabled or when rendering fails.
func Markdown(text string) string {
	if markdownPalette == nil || strings.TrimSpace(text) == "" {
		return text
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(GlamourStyle(*markdownPalette)),
		glamour.WithWordWrap(MarkdownWidth),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw description")
		return text
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw description")
		return text
	}

	return strings.TrimSpace(rendered)
}

func colorString(c lipgloss.TerminalColor) *string {
	s, ok := c.(lipgloss.Color)
	if !ok {
		return nil
	}
	v := string(s)
	return &v
}
