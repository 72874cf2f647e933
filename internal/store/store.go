// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/passage"
	"github.com/verte-zerg/tuirace/internal/race"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for passages and race history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passages (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS solo_attempts (
			id TEXT PRIMARY KEY,
			passage_id TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			elapsed_secs INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS room_results (
			id TEXT PRIMARY KEY,
			difficulty TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			elapsed_secs INTEGER NOT NULL,
			placement INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passages_difficulty ON passages(difficulty);`,
		`CREATE INDEX IF NOT EXISTS idx_solo_attempts_ended_at ON solo_attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_room_results_finished_at ON room_results(finished_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddPassage stores a new passage and returns it with its assigned id.
func (s *Store) AddPassage(ctx context.Context, text string, difficulty model.Difficulty) (model.Passage, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return model.Passage{}, race.ErrEmptyPassage
	}
	p := model.Passage{ID: uuid.NewString(), Text: text, Difficulty: difficulty}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO passages (id, text, difficulty, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Text, string(p.Difficulty), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return model.Passage{}, err
	}
	return p, nil
}

// ByID implements passage.Service.
func (s *Store) ByID(ctx context.Context, id string) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, text, difficulty FROM passages WHERE id = ?`, id)
	return scanPassage(row)
}

// Random implements passage.Service.
func (s *Store) Random(ctx context.Context, difficulty model.Difficulty) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, difficulty FROM passages WHERE difficulty = ? ORDER BY RANDOM() LIMIT 1`,
		string(difficulty))
	return scanPassage(row)
}

func scanPassage(row *sql.Row) (model.Passage, error) {
	var p model.Passage
	var difficulty string
	if err := row.Scan(&p.ID, &p.Text, &difficulty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Passage{}, passage.ErrNotFound
		}
		return model.Passage{}, err
	}
	p.Difficulty = model.Difficulty(difficulty)
	return p, nil
}

// ListPassages returns stored passages, optionally filtered by difficulty.
func (s *Store) ListPassages(ctx context.Context, difficulty model.Difficulty) ([]model.Passage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, difficulty FROM passages
		 WHERE (? = '' OR difficulty = ?)
		 ORDER BY created_at ASC`, string(difficulty), string(difficulty))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Passage
	for rows.Next() {
		var p model.Passage
		var d string
		if err := rows.Scan(&p.ID, &p.Text, &d); err != nil {
			return nil, err
		}
		p.Difficulty = model.Difficulty(d)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RecordSoloAttempt implements passage.ResultSink.
func (s *Store) RecordSoloAttempt(ctx context.Context, p model.Passage, res race.Result) error {
	_, err := s.InsertSoloAttempt(ctx, model.SoloAttempt{
		PassageID:   p.ID,
		Difficulty:  p.Difficulty,
		WPM:         res.WPM,
		Accuracy:    res.Accuracy,
		ElapsedSecs: res.ElapsedSecs,
		StartedAt:   res.StartedAt,
		EndedAt:     res.EndedAt,
	})
	return err
}

// InsertSoloAttempt stores a completed solo attempt.
func (s *Store) InsertSoloAttempt(ctx context.Context, a model.SoloAttempt) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solo_attempts (id, passage_id, difficulty, wpm, accuracy, elapsed_secs, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.PassageID,
		string(a.Difficulty),
		a.WPM,
		a.Accuracy,
		a.ElapsedSecs,
		a.StartedAt.UTC().Format(timeLayout),
		a.EndedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// InsertRoomResult stores the final results of a multiplayer race.
func (s *Store) InsertRoomResult(ctx context.Context, r model.RoomResult) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO room_results (id, difficulty, wpm, accuracy, elapsed_secs, placement, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		string(r.Difficulty),
		r.WPM,
		r.Accuracy,
		r.ElapsedSecs,
		r.Placement,
		r.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

// ListAttempts returns solo attempts and room results filtered by stats
// config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, string(cfg.Difficulty))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	where := strings.Join(clauses, " AND ")
	query := fmt.Sprintf(`SELECT kind, ended_at, difficulty, wpm, accuracy, placement FROM (
			SELECT 'solo' AS kind, ended_at, difficulty, wpm, accuracy, 0 AS placement FROM solo_attempts
			UNION ALL
			SELECT 'room' AS kind, finished_at AS ended_at, difficulty, wpm, accuracy, placement FROM room_results
		)
		WHERE %s
		ORDER BY ended_at ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt, difficulty string
		if err := rows.Scan(&agg.Kind, &endedAt, &difficulty, &agg.WPM, &agg.Accuracy, &agg.Placement); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Difficulty = model.Difficulty(difficulty)
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}
