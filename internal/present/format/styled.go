package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mithrel/folio/pkg/api"
	"github.com/mithrel/folio/pkg/blocks"
)

// Styles holds one lipgloss style per block variant.
type Styles struct {
	H1, H2, H3  lipgloss.Style
	Quote       lipgloss.Style
	Code        lipgloss.Style
	Bullet      lipgloss.Style
	Item        lipgloss.Style
	Paragraph   lipgloss.Style
	Placeholder lipgloss.Style
	Meta        lipgloss.Style
	Badge       lipgloss.Style
}

// NewStyles builds styles bound to a renderer for w. With noColor the
// colour profile is forced to ASCII so only layout survives.
func NewStyles(w io.Writer, width int, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	switch {
	case width <= 0:
		width = 80
	case width < 10:
		width = 10
	}
	return Styles{
		H1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).
			Width(width).MarginBottom(1),
		H2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).
			Width(width).MarginBottom(1),
		H3: r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).
			Width(width),
		Quote: r.NewStyle().Italic(true).Foreground(lipgloss.Color("245")).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("33")).
			PaddingLeft(1).Width(width - 2),
		Code: r.NewStyle().Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		Bullet:      r.NewStyle().Foreground(lipgloss.Color("212")),
		Item:        r.NewStyle().Width(width - 2),
		Paragraph:   r.NewStyle().Width(width),
		Placeholder: r.NewStyle().Faint(true).Italic(true),
		Meta:        r.NewStyle().Foreground(lipgloss.Color("241")),
		Badge: r.NewStyle().Foreground(lipgloss.Color("17")).
			Background(lipgloss.Color("153")).Padding(0, 1),
	}
}

// Styled renders blocks with s.
func Styled(s Styles, bs []blocks.Block) string {
	if blocks.IsEmpty(bs) {
		return s.Placeholder.Render(api.NoContentPlaceholder) + "\n"
	}
	parts := make([]string, 0, len(bs))
	for _, blk := range bs {
		switch x := blk.(type) {
		case blocks.Heading:
			switch x.Level {
			case 1:
				parts = append(parts, s.H1.Render(x.Text))
			case 2:
				parts = append(parts, s.H2.Render(x.Text))
			default:
				parts = append(parts, s.H3.Render(x.Text))
			}
		case blocks.Blockquote:
			parts = append(parts, s.Quote.Render(x.Text))
		case blocks.CodeLine:
			parts = append(parts, s.Code.Render(x.Text))
		case blocks.List:
			items := make([]string, len(x.Items))
			for i, it := range x.Items {
				items[i] = lipgloss.JoinHorizontal(lipgloss.Top, s.Bullet.Render("• "), s.Item.Render(it))
			}
			parts = append(parts, strings.Join(items, "\n"))
		case blocks.Paragraph:
			parts = append(parts, s.Paragraph.Render(x.Text))
		}
	}
	return strings.Join(parts, "\n") + "\n"
}

// StyledPost renders a title line, metadata and the body.
func StyledPost(s Styles, p api.Post, bs []blocks.Block) string {
	meta := s.Meta.Render(p.DisplayAuthor()+" · "+p.DisplayDate()) + "  " + s.Badge.Render(p.DisplayCategory())
	return s.H1.Render(p.DisplayTitle()) + "\n" + meta + "\n\n" + Styled(s, bs)
}

func WriteStyledBlocks(w io.Writer, bs []blocks.Block, width int, noColor bool) error {
	_, err := io.WriteString(w, Styled(NewStyles(w, width, noColor), bs))
	return err
}

func WriteStyledPost(w io.Writer, p api.Post, bs []blocks.Block, width int, noColor bool) error {
	_, err := io.WriteString(w, StyledPost(NewStyles(w, width, noColor), p, bs))
	return err
}
