package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/race"
)

type fakeSink struct {
	results []race.Result
	err     error
}

func (f *fakeSink) RecordSoloAttempt(_ context.Context, _ model.Passage, res race.Result) error {
	f.results = append(f.results, res)
	return f.err
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestModel(t *testing.T, text string, sink *fakeSink) (*Model, *fakeClock) {
	t.Helper()
	r, err := race.NewSolo(model.Passage{ID: "p1", Text: text, Difficulty: model.Easy})
	require.NoError(t, err)
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var m *Model
	if sink != nil {
		m = NewModel(r, sink)
	} else {
		m = NewModel(r, nil)
	}
	m.clock = clock.Now
	return m, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes cmd and any batched commands, skipping ticks.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c == nil {
				continue
			}
			if m := c(); m != nil {
				if inner, ok := m.(tea.BatchMsg); ok {
					out = append(out, drain(func() tea.Msg { return inner })...)
					continue
				}
				out = append(out, m)
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestModelTypesThroughPassage(t *testing.T) {
	sink := &fakeSink{}
	m, clock := newTestModel(t, "the cat", sink)

	_, cmd := m.Update(runes("the"))
	assert.NotNil(t, cmd)
	assert.Equal(t, race.PhaseActive, m.race.Phase())
	assert.Equal(t, "the", m.input)

	clock.now = clock.now.Add(time.Second)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "", m.input)
	assert.Equal(t, 1, m.race.Index())

	clock.now = clock.now.Add(time.Second)
	_, cmd = m.Update(runes("cat"))
	require.Equal(t, race.PhaseFinished, m.race.Phase())
	for _, msg := range drain(cmd) {
		if rec, ok := msg.(recordedMsg); ok {
			m.Update(rec)
		}
	}
	require.Len(t, sink.results, 1)
	assert.Equal(t, 60, sink.results[0].WPM)
	assert.Equal(t, 100, sink.results[0].Accuracy)
	assert.True(t, m.saved)
	assert.Contains(t, m.View(), "Finished!")
}

func TestModelPasteSubmitsWordByWord(t *testing.T) {
	m, _ := newTestModel(t, "the cat sat", nil)
	m.Update(runes("the cat "))
	assert.Equal(t, 2, m.race.Index())
	assert.Equal(t, "", m.input)
}

func TestModelBackspace(t *testing.T) {
	m, _ := newTestModel(t, "hello", nil)
	m.Update(runes("hel"))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "he", m.input)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "", m.input)
	assert.Equal(t, race.PhaseActive, m.race.Phase())
}

func TestModelRejectedWordClearsField(t *testing.T) {
	m, _ := newTestModel(t, "the cat", nil)
	m.Update(runes("tx"))
	assert.Equal(t, "", m.input)
	assert.True(t, m.race.Misspelled())
	assert.Equal(t, 0, m.race.Index())
}

func TestModelDropsStaleTicks(t *testing.T) {
	m, clock := newTestModel(t, "the cat sat", nil)
	m.Update(runes("the "))
	attempt := m.race.Attempt()

	_, cmd := m.Update(tickMsg{attempt: attempt, at: clock.now.Add(30 * time.Second)})
	assert.NotNil(t, cmd)
	assert.Equal(t, 2, m.race.Metrics().WPM())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd = m.Update(tickMsg{attempt: attempt, at: clock.now.Add(time.Minute)})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.race.Metrics().WPM())
	assert.Equal(t, race.PhaseWaiting, m.race.Phase())
}

func TestModelRecordFailureShowsWarning(t *testing.T) {
	sink := &fakeSink{err: errors.New("offline")}
	m, _ := newTestModel(t, "a", sink)
	_, cmd := m.Update(runes("a"))
	for _, msg := range drain(cmd) {
		if rec, ok := msg.(recordedMsg); ok {
			m.Update(rec)
		}
	}
	assert.False(t, m.saved)
	assert.True(t, strings.Contains(m.View(), "failed to save result: offline"))
}

func TestModelQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, "a", nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
