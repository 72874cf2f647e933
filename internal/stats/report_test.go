package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "tuirace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Minute)
		if _, err := st.InsertSoloAttempt(ctx, model.SoloAttempt{
			PassageID:   "p",
			Difficulty:  model.Easy,
			WPM:         40 + i*10,
			Accuracy:    90,
			ElapsedSecs: 30,
			StartedAt:   start,
			EndedAt:     start.Add(30 * time.Second),
		}); err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}
	if _, err := st.InsertRoomResult(ctx, model.RoomResult{
		Difficulty:  model.Hard,
		WPM:         80,
		Accuracy:    95,
		ElapsedSecs: 20,
		Placement:   1,
		FinishedAt:  base.Add(10 * time.Minute),
	}); err != nil {
		t.Fatalf("insert room result: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(report.Attempts))
	}
	if report.Attempts[0].WPM != 60 || report.Attempts[1].Kind != model.KindRoom {
		t.Fatalf("unexpected attempts: %+v", report.Attempts)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Races: 2 (solo 1, room 1)", "Best WPM: 80", "Room wins: 1", "By Difficulty", "Recent", "🥇"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{}).Render(&buf, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No races found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
