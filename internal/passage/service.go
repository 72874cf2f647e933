// Package passage fetches race passages and records finished attempts.
package passage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/race"
)

// ErrNotFound is returned when no passage matches a lookup.
var ErrNotFound = errors.New("passage not found")

// ErrEmptyPassage is returned when a passage has no text.
var ErrEmptyPassage = race.ErrEmptyPassage

// Service looks passages up.
type Service interface {
	ByID(ctx context.Context, id string) (model.Passage, error)
	Random(ctx context.Context, difficulty model.Difficulty) (model.Passage, error)
}

// ResultSink receives the stats of a finished solo attempt.
type ResultSink interface {
	RecordSoloAttempt(ctx context.Context, p model.Passage, res race.Result) error
}

// Load fetches the passage with id, or a random one of the given difficulty
// when id is empty. A passage without text is an error.
func Load(ctx context.Context, svc Service, id string, difficulty model.Difficulty) (model.Passage, error) {
	var (
		p   model.Passage
		err error
	)
	if id != "" {
		p, err = svc.ByID(ctx, id)
	} else {
		p, err = svc.Random(ctx, difficulty)
	}
	if err != nil {
		return model.Passage{}, fmt.Errorf("failed to load passage: %w", err)
	}
	if strings.TrimSpace(p.Text) == "" {
		return model.Passage{}, ErrEmptyPassage
	}
	return p, nil
}

// Fallback tries each service in order, moving on only when a passage is
// not found.
type Fallback []Service

// ByID implements Service.
func (f Fallback) ByID(ctx context.Context, id string) (model.Passage, error) {
	return f.first(func(s Service) (model.Passage, error) { return s.ByID(ctx, id) })
}

// Random implements Service.
func (f Fallback) Random(ctx context.Context, difficulty model.Difficulty) (model.Passage, error) {
	return f.first(func(s Service) (model.Passage, error) { return s.Random(ctx, difficulty) })
}

func (f Fallback) first(fn func(Service) (model.Passage, error)) (model.Passage, error) {
	for _, svc := range f {
		p, err := fn(svc)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return model.Passage{}, err
		}
	}
	return model.Passage{}, ErrNotFound
}

// Sinks fans a result out to several sinks. Every sink is tried.
type Sinks []ResultSink

// RecordSoloAttempt implements ResultSink.
func (s Sinks) RecordSoloAttempt(ctx context.Context, p model.Passage, res race.Result) error {
	var errs []error
	for _, sink := range s {
		if err := sink.RecordSoloAttempt(ctx, p, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
