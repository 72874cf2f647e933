package room

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuirace/internal/auth"
	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/race"
)

// Notices shown when the room is left abnormally.
const (
	NoticeConnectFailed = "failed to connect to room"
	NoticeDisconnected  = "disconnected from room"
	NoticeNoPassage     = "room has no passage"
)

// Feedback is the locally predicted state of the word being typed. It
// changes on every keystroke.
type Feedback struct {
	Input      string
	Misspelled bool
}

// PlayerView is a roster entry rounded for display.
type PlayerView struct {
	Username  string
	WPM       int
	Accuracy  int
	Progress  int
	Placement int
}

// Confirmed is the server-authoritative state. It only changes when an
// inbound event arrives.
type Confirmed struct {
	Index       int
	Accuracy    int
	HasAccuracy bool
	Players     []PlayerView
	Results     *Results
}

// Outcome tells the caller how to react to an event.
type Outcome struct {
	// Leave is set when the user must be taken out of the room.
	Leave bool
	// Notice is a warning to show when leaving, if any.
	Notice string
}

// Sync projects the room event stream and local keystrokes into one view.
// It is not safe for concurrent use; events and input must be applied from
// a single loop.
type Sync struct {
	session    auth.Session
	difficulty model.Difficulty

	phase        Phase
	countdown    int
	hasCountdown bool
	tokens       []string
	startedAt    time.Time
	left         bool

	feedback  Feedback
	confirmed Confirmed
}

// NewSync returns a room projection for the signed-in user.
func NewSync(session auth.Session, difficulty model.Difficulty) *Sync {
	return &Sync{session: session, difficulty: difficulty}
}

// Handle applies an inbound event.
func (s *Sync) Handle(ev Event, now time.Time) Outcome {
	if s.left {
		return Outcome{}
	}
	switch ev := ev.(type) {
	case PhaseEvent:
		s.setPhase(ev.Phase, now)
	case PassageEvent:
		tokens, err := race.Tokenize(ev.Text)
		if err != nil {
			return s.leave(NoticeNoPassage)
		}
		s.tokens = tokens
		s.confirmed.Index = 0
		s.feedback = Feedback{}
	case PlayersEvent:
		if ev.Players != nil {
			s.setPlayers(ev.Players)
		}
	case CountdownEvent:
		s.countdown = ev.Seconds
		s.hasCountdown = true
	case NextWordEvent:
		if !ev.Accepted {
			s.feedback.Misspelled = true
			break
		}
		if s.confirmed.Index < len(s.tokens) {
			s.confirmed.Index++
		}
		s.feedback = Feedback{}
	case ResultsEvent:
		res := ev.Results
		s.confirmed.Results = &res
	case ConnectErrorEvent:
		return s.leave(NoticeConnectFailed)
	case DisconnectEvent:
		if s.confirmed.Results != nil {
			return s.leave("")
		}
		return s.leave(NoticeDisconnected)
	}
	return Outcome{}
}

func (s *Sync) leave(notice string) Outcome {
	s.left = true
	s.startedAt = time.Time{}
	return Outcome{Leave: true, Notice: notice}
}

func (s *Sync) setPhase(p Phase, now time.Time) {
	if p == PhaseActive && s.phase != PhaseActive {
		s.startedAt = now
	}
	if p != PhaseActive {
		s.startedAt = time.Time{}
	}
	s.phase = p
}

func (s *Sync) setPlayers(players []Player) {
	s.confirmed.Players = lo.Map(players, func(p Player, _ int) PlayerView {
		view := PlayerView{
			Username: p.Username,
			WPM:      roundInt(p.WPM),
			Accuracy: roundInt(p.Accuracy),
			Progress: roundInt(p.Progress),
		}
		if p.Placement != nil {
			view.Placement = *p.Placement
		}
		return view
	})
	me, ok := lo.Find(s.confirmed.Players, func(p PlayerView) bool {
		return s.session != nil && p.Username == s.session.Username()
	})
	s.confirmed.Accuracy = me.Accuracy
	s.confirmed.HasAccuracy = ok
}

// Type applies the current contents of the input field. It returns the
// command to send when the input reaches a submission boundary. Input is
// ignored unless the race is active.
func (s *Sync) Type(value string, now time.Time) (*TypedInput, race.Verdict) {
	if !s.AcceptsInput() {
		return nil, race.Verdict{}
	}
	s.feedback.Input = value
	idx := s.confirmed.Index
	verdict := race.Evaluate(s.tokens[idx], value, idx == len(s.tokens)-1)
	s.feedback.Misspelled = verdict.Misspelled
	if !verdict.ShouldSubmit {
		return nil, verdict
	}
	return &TypedInput{
		Word:        strings.TrimSpace(value),
		ElapsedTime: s.Elapsed(now).Seconds(),
	}, verdict
}

// AcceptsInput reports whether keystrokes are currently taken.
func (s *Sync) AcceptsInput() bool {
	return !s.left && s.phase == PhaseActive && s.confirmed.Index < len(s.tokens)
}

// Elapsed returns the time since the race became active, or zero.
func (s *Sync) Elapsed(now time.Time) time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return now.Sub(s.startedAt)
}

// Phase returns the last phase pushed by the server.
func (s *Sync) Phase() Phase { return s.phase }

// Countdown returns the last countdown value, if one was received.
func (s *Sync) Countdown() (int, bool) { return s.countdown, s.hasCountdown }

// Difficulty returns the room's difficulty.
func (s *Sync) Difficulty() model.Difficulty { return s.difficulty }

// Tokens returns the passage words, or nil before a passage arrived.
func (s *Sync) Tokens() []string { return s.tokens }

// Feedback returns the local typing projection.
func (s *Sync) Feedback() Feedback { return s.feedback }

// Confirmed returns the server-confirmed projection.
func (s *Sync) Confirmed() Confirmed { return s.confirmed }

// Index returns the confirmed word index.
func (s *Sync) Index() int { return s.confirmed.Index }

// Results returns the final results once received.
func (s *Sync) Results() (Results, bool) {
	if s.confirmed.Results == nil {
		return Results{}, false
	}
	return *s.confirmed.Results, true
}

// Left reports whether the room was left.
func (s *Sync) Left() bool { return s.left }

func roundInt(v float64) int {
	return int(math.Round(v))
}
