package stats

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/tuirace/internal/model"
)

const (
	terminalWidthBackup = 80
	recentRows          = 10
)

// AttemptLister is the read side of the race history store.
type AttemptLister interface {
	ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts []model.AttemptAggregate
	Window   int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st AttemptLister, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}
	return Report{Attempts: attempts, Window: cfg.CurveWindow}, nil
}

// Render writes the full report sized to width columns.
func (r Report) Render(w io.Writer, width int) error {
	if err := RenderSummary(w, r.Attempts); err != nil {
		return err
	}
	if len(r.Attempts) == 0 {
		return nil
	}
	if err := RenderBreakdown(w, r.Attempts); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Attempts, r.Window, width); err != nil {
		return err
	}
	return RenderRecent(w, r.Attempts, recentRows)
}

// TerminalWidth reports the stdout width, falling back to 80 columns.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
