// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuirace/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a set of stored races.
type Summary struct {
	Count       int
	SoloCount   int
	RoomCount   int
	Wins        int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
}

// Summarize computes the summary for attempts.
func Summarize(attempts []model.AttemptAggregate) Summary {
	if len(attempts) == 0 {
		return Summary{}
	}
	var sumWPM, sumAcc int
	s := Summary{Count: len(attempts)}
	for _, a := range attempts {
		sumWPM += a.WPM
		sumAcc += a.Accuracy
		if a.WPM > s.BestWPM {
			s.BestWPM = a.WPM
		}
		switch a.Kind {
		case model.KindRoom:
			s.RoomCount++
			if a.Placement == 1 {
				s.Wins++
			}
		default:
			s.SoloCount++
		}
	}
	s.AvgWPM = float64(sumWPM) / float64(len(attempts))
	s.AvgAccuracy = float64(sumAcc) / float64(len(attempts))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := lo.Min(values), lo.Max(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		out[i] = lo.Sum(values[start:end]) / float64(end-start)
	}
	return out
}

// RenderSummary prints the summary block.
func RenderSummary(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No races found.")
		return err
	}
	s := Summarize(attempts)
	lines := []string{
		"Summary",
		fmt.Sprintf("Races: %d (solo %d, room %d)", s.Count, s.SoloCount, s.RoomCount),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
	}
	if s.RoomCount > 0 {
		lines = append(lines, fmt.Sprintf("Room wins: %d", s.Wins))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints smoothed WPM and accuracy sparklines fitted to width.
func RenderCurves(w io.Writer, attempts []model.AttemptAggregate, window, width int) error {
	if len(attempts) < 2 {
		return nil
	}
	wpms := lo.Map(attempts, func(a model.AttemptAggregate, _ int) float64 { return float64(a.WPM) })
	accs := lo.Map(attempts, func(a model.AttemptAggregate, _ int) float64 { return float64(a.Accuracy) })
	const label = "Accuracy "
	width -= len(label)
	wpms = Downsample(MovingAverage(wpms, window), width)
	accs = Downsample(MovingAverage(accs, window), width)

	lines := []string{
		fmt.Sprintf("Learning Curves (window %d)", max(window, 1)),
		fmt.Sprintf("%-*s%s  %.0f..%.0f", len(label), "WPM", Sparkline(wpms), lo.Min(wpms), lo.Max(wpms)),
		fmt.Sprintf("%s%s  %.0f..%.0f", label, Sparkline(accs), lo.Min(accs), lo.Max(accs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBreakdown prints per-difficulty aggregates.
func RenderBreakdown(w io.Writer, attempts []model.AttemptAggregate) error {
	if len(attempts) == 0 {
		return nil
	}
	groups := lo.GroupBy(attempts, func(a model.AttemptAggregate) model.Difficulty { return a.Difficulty })
	headers := []string{"Difficulty", "Races", "Avg WPM", "Best WPM", "Accuracy"}
	var rows [][]string
	for _, d := range model.Difficulties {
		group, ok := groups[d]
		if !ok {
			continue
		}
		s := Summarize(group)
		rows = append(rows, []string{
			string(d),
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1f", s.AvgWPM),
			fmt.Sprintf("%d", s.BestWPM),
			fmt.Sprintf("%.1f%%", s.AvgAccuracy),
		})
	}
	return writeTable(w, "By Difficulty", headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderRecent prints the most recent attempts, newest first.
func RenderRecent(w io.Writer, attempts []model.AttemptAggregate, n int) error {
	if len(attempts) == 0 || n <= 0 {
		return nil
	}
	tail := attempts[max(0, len(attempts)-n):]
	recent := make([]model.AttemptAggregate, len(tail))
	for i, a := range tail {
		recent[len(tail)-1-i] = a
	}
	headers := []string{"When", "Kind", "Difficulty", "WPM", "Accuracy", "Place"}
	rows := lo.Map(recent, func(a model.AttemptAggregate, _ int) []string {
		place := "-"
		if a.Kind == model.KindRoom && a.Placement > 0 {
			place = Medal(a.Placement)
		}
		return []string{
			a.EndedAt.Local().Format("2006-01-02 15:04"),
			a.Kind,
			string(a.Difficulty),
			fmt.Sprintf("%d", a.WPM),
			fmt.Sprintf("%d%%", a.Accuracy),
			place,
		}
	})
	return writeTable(w, "Recent", headers, rows, map[int]bool{3: true, 4: true})
}

// Medal labels a room placement, using medals for the podium.
func Medal(place int) string {
	switch place {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", place)
	}
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
