package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/seqsim/internal/sequencer"
)

// Styles are the rendered styles of one theme.
type Styles struct {
	Theme Theme
	Title lipgloss.Style
	Label lipgloss.Style
	Value lipgloss.Style
	Muted lipgloss.Style
	Event lipgloss.Style
	Panel lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Label: lipgloss.NewStyle().Foreground(t.Muted),
		Value: lipgloss.NewStyle().Foreground(t.Text),
		Muted: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Event: lipgloss.NewStyle().Bold(true).Foreground(t.Event),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}

// State renders a playback state with its icon.
func (s Styles) State(st sequencer.State) string {
	var c lipgloss.Color
	var icon string
	switch st {
	case sequencer.PlayingForward:
		c, icon = s.Theme.Playing, "▶"
	case sequencer.PlayingReverse:
		c, icon = s.Theme.Playing, "◀"
	case sequencer.Paused:
		c, icon = s.Theme.Paused, "‖"
	default:
		c, icon = s.Theme.Stopped, "■"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c).Render(icon + " " + st.String())
}

// Box renders content in a titled panel.
func (s Styles) Box(title, content string, width int) string {
	return s.Title.Render(title) + "\n" + s.Panel.Width(width).Render(content)
}

// TimeBar draws a playhead at frac of width. Marks are fractions drawn as
// ticks, such as camera cuts.
func TimeBar(frac float64, width int, marks []float64) string {
	if width < 1 {
		return ""
	}
	frac = clamp01(frac)
	cells := []rune(strings.Repeat("─", width))
	filled := int(frac * float64(width))
	for i := 0; i < filled && i < width; i++ {
		cells[i] = '━'
	}
	for _, m := range marks {
		if i := cellOf(m, width); cells[i] != '━' {
			cells[i] = '┼'
		} else {
			cells[i] = '╋'
		}
	}
	cells[cellOf(frac, width)] = '●'
	return string(cells)
}

// ProgressBar fills width cells in proportion to frac.
func ProgressBar(frac float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(clamp01(frac) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values scaled between their min and max.
func Sparkline(values []float64, width int) string {
	if width < 1 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

func cellOf(frac float64, width int) int {
	return min(int(clamp01(frac)*float64(width)), width-1)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
