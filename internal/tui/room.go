package tui

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/room"
	"github.com/verte-zerg/tuirace/internal/stats"
)

const roomBarWidth = 30

// RoomConn is the live link to a multiplayer room.
type RoomConn interface {
	Events() <-chan room.Event
	Send(in room.TypedInput) error
	Close() error
}

// ResultStore persists finished room races.
type ResultStore interface {
	InsertRoomResult(ctx context.Context, r model.RoomResult) (string, error)
}

type roomEventMsg struct{ ev room.Event }

// RoomModel implements the Bubble Tea multiplayer UI.
type RoomModel struct {
	sync    *room.Sync
	conn    RoomConn
	history ResultStore
	clock   func() time.Time

	spinner spinner.Model
	bar     progress.Model

	width   int
	height  int
	warning string
	notice  string
	left    bool
	stored  bool
}

// NewRoomModel builds the room UI over an established connection. history
// may be nil.
func NewRoomModel(s *room.Sync, conn RoomConn, history ResultStore) *RoomModel {
	return &RoomModel{
		sync:    s,
		conn:    conn,
		history: history,
		clock:   time.Now,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(roomBarWidth), progress.WithoutPercentage()),
	}
}

// Notice returns the warning to show after the room closed, if any.
func (m *RoomModel) Notice() string {
	return m.notice
}

// Init implements tea.Model.
func (m *RoomModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.conn.Events()))
}

func waitForEvent(events <-chan room.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return roomEventMsg{ev: room.DisconnectEvent{}}
		}
		return roomEventMsg{ev: ev}
	}
}

// Update implements tea.Model.
func (m *RoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if m.left {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case roomEventMsg:
		return m.handleEvent(msg.ev)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *RoomModel) handleEvent(ev room.Event) (tea.Model, tea.Cmd) {
	out := m.sync.Handle(ev, m.clock())
	if _, ok := ev.(room.ResultsEvent); ok {
		m.storeResults()
	}
	if !out.Leave {
		return m, waitForEvent(m.conn.Events())
	}
	m.left = true
	m.notice = out.Notice
	if err := m.conn.Close(); err != nil {
		// Best-effort close after leaving.
		log.Printf("tui: closing room connection: %v", err)
	}
	if _, ok := m.sync.Results(); ok && m.notice == "" {
		return m, nil
	}
	return m, tea.Quit
}

func (m *RoomModel) storeResults() {
	res, ok := m.sync.Results()
	if !ok || m.stored || m.history == nil {
		return
	}
	m.stored = true
	_, err := m.history.InsertRoomResult(context.Background(), model.RoomResult{
		Difficulty:  m.sync.Difficulty(),
		WPM:         roundInt(res.WPM),
		Accuracy:    roundInt(res.Accuracy),
		ElapsedSecs: roundInt(res.ElapsedTime),
		Placement:   res.Placement,
		FinishedAt:  m.clock(),
	})
	if err != nil {
		log.Printf("tui: failed to store room result: %v", err)
		m.warning = fmt.Sprintf("failed to save result: %v", err)
	}
}

func (m *RoomModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc || m.left {
		if !m.left {
			m.left = true
			if err := m.conn.Close(); err != nil {
				log.Printf("tui: closing room connection: %v", err)
			}
		}
		return m, tea.Quit
	}
	typeKey(msg, func() string { return m.sync.Feedback().Input }, m.apply)
	return m, nil
}

// apply runs one field value through the room and sends the submission, if
// any. Sends happen inline so submissions reach the server in typing order.
func (m *RoomModel) apply(value string) tea.Cmd {
	in, _ := m.sync.Type(value, m.clock())
	if in == nil {
		return nil
	}
	if err := m.conn.Send(*in); err != nil {
		log.Printf("tui: %v", err)
		m.warning = err.Error()
	}
	return nil
}

// View implements tea.Model.
func (m *RoomModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("Room · %s", difficultyLabel(m.sync.Difficulty())))
	tokens := m.sync.Tokens()
	if len(tokens) == 0 {
		return m.place(lipgloss.JoinVertical(lipgloss.Left, title, "",
			m.spinner.View()+" Waiting for room passage..."))
	}

	width := 0
	if m.width > 0 {
		width = contentWidth(m.width)
	}
	fb := m.sync.Feedback()
	sections := []string{
		title + "  " + footerStyle.Render(m.statusLine()),
		"",
		renderPassage(tokens, wordCursor{index: m.sync.Index(), input: fb.Input, misspelled: fb.Misspelled}, width),
		"",
	}
	if m.sync.AcceptsInput() {
		sections = append(sections, renderInput(fb.Input, fb.Misspelled), "")
	}
	sections = append(sections, m.renderPlayers())
	if res, ok := m.sync.Results(); ok {
		sections = append(sections, "", renderRoomResults(res, m.left))
	}
	if m.warning != "" {
		sections = append(sections, "", warningStyle.Render(m.warning))
	}
	return m.place(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *RoomModel) statusLine() string {
	switch m.sync.Phase() {
	case room.PhaseCountdown:
		if sec, ok := m.sync.Countdown(); ok {
			return fmt.Sprintf("starting in %d", sec)
		}
		return "starting soon"
	case room.PhaseActive:
		c := m.sync.Confirmed()
		return fmt.Sprintf("%s  accuracy %s", formatElapsed(m.sync.Elapsed(m.clock())), accuracyLabel(c.Accuracy, c.HasAccuracy))
	default:
		return m.spinner.View() + " waiting for players"
	}
}

func (m *RoomModel) renderPlayers() string {
	players := m.sync.Confirmed().Players
	if len(players) == 0 {
		return footerStyle.Render("no players yet")
	}
	nameWidth := 0
	for _, p := range players {
		nameWidth = max(nameWidth, lipgloss.Width(p.Username))
	}
	lines := make([]string, 0, len(players))
	for _, p := range players {
		place := ""
		if p.Placement > 0 {
			place = " " + stats.Medal(p.Placement)
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %3d WPM %3d%%%s",
			nameWidth, p.Username, m.bar.ViewAs(float64(p.Progress)/100), p.WPM, p.Accuracy, place))
	}
	return strings.Join(lines, "\n")
}

func renderRoomResults(res room.Results, left bool) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Finished %s", stats.Medal(res.Placement))),
		fmt.Sprintf("%d WPM · %d%% accuracy · %ds", roundInt(res.WPM), roundInt(res.Accuracy), roundInt(res.ElapsedTime)),
	}
	if left {
		lines = append(lines, footerStyle.Render("press any key to exit"))
	}
	return resultStyle.Render(strings.Join(lines, "\n"))
}

func (m *RoomModel) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
