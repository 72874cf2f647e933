package race

import (
	"time"

	"github.com/verte-zerg/tuirace/internal/model"
)

// Phase is the lifecycle stage of a solo race.
type Phase int

// Solo race phases. Phases only move forward until Reset.
const (
	PhaseWaiting Phase = iota
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Result holds the final stats of a completed attempt.
type Result struct {
	WPM         int
	Accuracy    int
	ElapsedSecs int
	StartedAt   time.Time
	EndedAt     time.Time
}

// Step reports what a single input change did to the race.
type Step struct {
	Verdict   Verdict
	Started   bool
	Submitted bool
	Accepted  bool
	Finished  bool
	// Record is set once per completed attempt and carries the stats to
	// persist.
	Record *Result
}

// Solo drives a single-participant race with local timing.
type Solo struct {
	passage model.Passage
	tokens  []string

	phase      Phase
	index      int
	input      string
	misspelled bool
	metrics    Metrics

	startedAt time.Time
	endedAt   time.Time
	result    *Result
	attempt   int
}

// NewSolo tokenizes the passage and returns a race in the waiting phase.
func NewSolo(p model.Passage) (*Solo, error) {
	tokens, err := Tokenize(p.Text)
	if err != nil {
		return nil, err
	}
	return &Solo{passage: p, tokens: tokens}, nil
}

// Type applies the current contents of the input field.
func (s *Solo) Type(value string, now time.Time) Step {
	var step Step
	switch s.phase {
	case PhaseFinished:
		return step
	case PhaseWaiting:
		if value == "" {
			return step
		}
		s.phase = PhaseActive
		s.startedAt = now
		step.Started = true
	}

	s.input = value
	expected := s.tokens[s.index]
	step.Verdict = Evaluate(expected, value, s.index == len(s.tokens)-1)
	s.misspelled = step.Verdict.Misspelled
	if step.Verdict.ShouldSubmit {
		s.submit(expected, value, now, &step)
	}
	return step
}

func (s *Solo) submit(expected, value string, now time.Time, step *Step) {
	submitted := Submitted(value)
	step.Submitted = true
	s.metrics.Score(ScoreChars(expected, submitted))
	s.input = ""
	if !Accepted(expected, submitted) {
		s.misspelled = true
		return
	}
	step.Accepted = true
	s.misspelled = false
	s.index++
	if s.index == len(s.tokens) {
		s.finish(now, step)
	}
}

func (s *Solo) finish(now time.Time, step *Step) {
	s.endedAt = now
	s.phase = PhaseFinished
	s.metrics.UpdateWPM(s.index, now.Sub(s.startedAt))
	acc, _ := s.metrics.Accuracy()
	s.result = &Result{
		WPM:         s.metrics.WPM(),
		Accuracy:    acc,
		ElapsedSecs: roundInt(s.endedAt.Sub(s.startedAt).Seconds()),
		StartedAt:   s.startedAt,
		EndedAt:     s.endedAt,
	}
	record := *s.result
	step.Finished = true
	step.Record = &record
}

// Tick recomputes live WPM. It has no effect outside the active phase.
func (s *Solo) Tick(now time.Time) int {
	if s.phase != PhaseActive {
		return s.metrics.WPM()
	}
	return s.metrics.UpdateWPM(s.index, now.Sub(s.startedAt))
}

// Reset returns the race to the waiting phase with the same words.
func (s *Solo) Reset() {
	s.phase = PhaseWaiting
	s.index = 0
	s.input = ""
	s.misspelled = false
	s.metrics = Metrics{}
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
	s.result = nil
	s.attempt++
}

// Passage returns the passage being raced.
func (s *Solo) Passage() model.Passage { return s.passage }

// Tokens returns the frozen word sequence.
func (s *Solo) Tokens() []string { return s.tokens }

// Phase returns the current phase.
func (s *Solo) Phase() Phase { return s.phase }

// Index returns the index of the word being typed.
func (s *Solo) Index() int { return s.index }

// CurrentInput returns the text typed for the current word.
func (s *Solo) CurrentInput() string { return s.input }

// Misspelled reports whether the current attempt is highlighted as wrong.
func (s *Solo) Misspelled() bool { return s.misspelled }

// Metrics returns the running counters.
func (s *Solo) Metrics() *Metrics { return &s.metrics }

// Progress returns the completed-word percentage.
func (s *Solo) Progress() int { return Progress(s.index, len(s.tokens)) }

// Attempt identifies the current attempt; it changes on every Reset.
func (s *Solo) Attempt() int { return s.attempt }

// StartedAt returns when typing began, or the zero time while waiting.
func (s *Solo) StartedAt() time.Time { return s.startedAt }

// Result returns the final stats once the race is finished.
func (s *Solo) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
