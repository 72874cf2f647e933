// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/passage"
	"github.com/verte-zerg/tuirace/internal/race"
)

const (
	tickInterval  = 100 * time.Millisecond
	recordTimeout = 10 * time.Second
)

// tickMsg refreshes live WPM for one attempt. Ticks from an earlier attempt
// are dropped.
type tickMsg struct {
	attempt int
	at      time.Time
}

type recordedMsg struct {
	attempt int
	err     error
}

// Model implements the Bubble Tea solo practice UI.
type Model struct {
	race  *race.Solo
	sink  passage.ResultSink
	clock func() time.Time

	width  int
	height int

	input   string
	warning string
	saved   bool
}

// NewModel constructs a solo practice model. sink may be nil.
func NewModel(r *race.Solo, sink passage.ResultSink) *Model {
	return &Model{race: r, sink: sink, clock: time.Now}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if msg.attempt != m.race.Attempt() || m.race.Phase() != race.PhaseActive {
			return m, nil
		}
		m.race.Tick(msg.at)
		return m, tick(msg.attempt)
	case recordedMsg:
		if msg.attempt != m.race.Attempt() {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("tui: failed to record result: %v", msg.err)
			m.warning = fmt.Sprintf("failed to save result: %v", msg.err)
			return m, nil
		}
		m.saved = true
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		m.restart()
		return m, nil
	}
	if m.race.Phase() == race.PhaseFinished {
		return m, nil
	}
	cmds := typeKey(msg, func() string { return m.input }, func(value string) tea.Cmd {
		if m.race.Phase() == race.PhaseFinished {
			return nil
		}
		return m.apply(value)
	})
	return m, tea.Batch(cmds...)
}

// apply pushes one field value through the race and mirrors the field back.
func (m *Model) apply(value string) tea.Cmd {
	step := m.race.Type(value, m.clock())
	m.input = m.race.CurrentInput()
	var cmds []tea.Cmd
	if step.Started {
		cmds = append(cmds, tick(m.race.Attempt()))
	}
	if step.Record != nil {
		cmds = append(cmds, m.record(*step.Record))
	}
	return tea.Batch(cmds...)
}

func (m *Model) restart() {
	m.race.Reset()
	m.input = ""
	m.warning = ""
	m.saved = false
}

func (m *Model) record(res race.Result) tea.Cmd {
	if m.sink == nil {
		return nil
	}
	sink, p, attempt := m.sink, m.race.Passage(), m.race.Attempt()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return recordedMsg{attempt: attempt, err: sink.RecordSoloAttempt(ctx, p, res)}
	}
}

func tick(attempt int) tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg{attempt: attempt, at: t}
	})
}

// typeKey turns a key press into field edits. Typed runes are applied one
// at a time so pasted text submits word by word; current is re-read after
// each edit because a submission clears the field.
func typeKey(msg tea.KeyMsg, current func() string, apply func(string) tea.Cmd) []tea.Cmd {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		runes := []rune(current())
		if len(runes) == 0 {
			return nil
		}
		return []tea.Cmd{apply(string(runes[:len(runes)-1]))}
	case tea.KeyCtrlW, tea.KeyCtrlU:
		if current() == "" {
			return nil
		}
		return []tea.Cmd{apply("")}
	case tea.KeySpace:
		return []tea.Cmd{apply(current() + " ")}
	case tea.KeyRunes:
		cmds := make([]tea.Cmd, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			cmds = append(cmds, apply(current()+string(r)))
		}
		return cmds
	default:
		return nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	tokens := m.race.Tokens()
	width := 0
	if m.width > 0 {
		width = contentWidth(m.width)
	}
	sections := []string{
		titleStyle.Render(fmt.Sprintf("Practice · %s", difficultyLabel(m.race.Passage().Difficulty))),
		"",
		renderPassage(tokens, wordCursor{
			index:      m.race.Index(),
			input:      m.input,
			misspelled: m.race.Misspelled(),
		}, width),
		"",
	}
	if res, ok := m.race.Result(); ok {
		sections = append(sections, renderResult(res, m.saved))
	} else {
		sections = append(sections, renderInput(m.input, m.race.Misspelled()))
	}
	if m.warning != "" {
		sections = append(sections, "", warningStyle.Render(m.warning))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Width(width).Render(content))
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) renderFooter() string {
	metrics := m.race.Metrics()
	segments := []string{
		fmt.Sprintf("WPM %d", metrics.WPM()),
		"Accuracy " + accuracyLabel(metrics.Accuracy()),
		fmt.Sprintf("Progress %d%%", m.race.Progress()),
		"tab restart · esc quit",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func renderResult(res race.Result, saved bool) string {
	lines := []string{
		titleStyle.Render("Finished!"),
		fmt.Sprintf("%d WPM · %d%% accuracy · %ds", res.WPM, res.Accuracy, res.ElapsedSecs),
	}
	if saved {
		lines = append(lines, footerStyle.Render("result saved"))
	}
	lines = append(lines, footerStyle.Render("press tab to race again"))
	return resultStyle.Render(strings.Join(lines, "\n"))
}

func accuracyLabel(acc int, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d%%", acc)
}

func difficultyLabel(d model.Difficulty) string {
	if d == "" {
		return "custom"
	}
	return string(d)
}
