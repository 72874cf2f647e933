package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	titleStyle       = lipgloss.NewStyle().Bold(true)
	resultStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

// wordCursor is the typing position inside a tokenized passage.
type wordCursor struct {
	index      int
	input      string
	misspelled bool
}

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles the passage: accepted words are correct, the
// current word is compared against the input rune by rune, the rest is
// pending. Extra input past the end of the current word is shown in red.
func buildStyledRunes(tokens []string, cur wordCursor) []styledRune {
	var out []styledRune
	add := func(r rune, style lipgloss.Style) {
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	for i, token := range tokens {
		if i > 0 {
			add(' ', pendingStyle)
		}
		switch {
		case i < cur.index:
			for _, r := range token {
				add(r, correctStyle)
			}
		case i == cur.index:
			typed := []rune(strings.TrimSuffix(cur.input, " "))
			expected := []rune(token)
			for j, r := range expected {
				switch {
				case j < len(typed) && (cur.misspelled || typed[j] != r):
					add(r, incorrectStyle)
				case j < len(typed):
					add(r, correctStyle)
				case j == len(typed):
					add(r, cursorStyle)
				default:
					add(r, currentWordStyle)
				}
			}
			for _, r := range typed[min(len(typed), len(expected)):] {
				add(r, incorrectStyle)
			}
		default:
			for _, r := range token {
				add(r, pendingStyle)
			}
		}
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or mid-word
// when a single word is wider than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpace := -1
	flush := func(upto, resume int) {
		lines = append(lines, renderStyledRunes(line[:upto]))
		line = append([]styledRune{}, line[resume:]...)
		lineWidth, lastSpace = 0, -1
		for i, item := range line {
			lineWidth += item.width
			if item.isSpace {
				lastSpace = i
			}
		}
	}
	for _, item := range runes {
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				flush(len(line), len(line))
				continue
			}
			if lastSpace >= 0 {
				flush(lastSpace, lastSpace+1)
			} else {
				flush(len(line), len(line))
			}
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
	}
	lines = append(lines, renderStyledRunes(line))
	return strings.Join(lines, "\n")
}

// renderPassage lays out the passage wrapped to width columns.
func renderPassage(tokens []string, cur wordCursor, width int) string {
	return wrapStyledRunes(buildStyledRunes(tokens, cur), width)
}

// renderInput shows the current field value, red while misspelled.
func renderInput(input string, misspelled bool) string {
	style := correctStyle
	if misspelled {
		style = incorrectStyle
	}
	return "> " + style.Render(input) + cursorStyle.Render(" ")
}

func contentWidth(total int) int {
	return max(int(float64(total)*0.70), 1)
}
