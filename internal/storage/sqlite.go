package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/workoutapi/internal/models"
	_ "modernc.org/sqlite"
)

// SQLite persists the document into workouts and records tables, one row per
// entry. Storage order is kept in the position column.
type SQLite struct {
	db *sql.DB
}

var _ Persister = (*SQLite)(nil)

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// One connection keeps writes serialised and the file lock in one place.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		`CREATE TABLE IF NOT EXISTS workouts (
			position     INTEGER PRIMARY KEY,
			id           TEXT NOT NULL,
			name         TEXT NOT NULL,
			mode         TEXT NOT NULL,
			equipment    TEXT NOT NULL,
			exercises    TEXT NOT NULL,
			trainer_tips TEXT NOT NULL,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			position   INTEGER PRIMARY KEY,
			id         TEXT NOT NULL,
			workout    TEXT NOT NULL,
			record     TEXT NOT NULL,
			member_id  TEXT,
			member     TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing sqlite schema: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// Load reads both tables in position order.
func (s *SQLite) Load(ctx context.Context) (*models.Document, error) {
	doc := models.NewDocument()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, mode, equipment, exercises, trainer_tips, created_at, updated_at
		 FROM workouts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w models.Workout
		var equipment, exercises, tips string
		if err := rows.Scan(&w.ID, &w.Name, &w.Mode, &equipment, &exercises, &tips, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		if err := unmarshalList(equipment, &w.Equipment); err != nil {
			return nil, fmt.Errorf("workout %s equipment: %w", w.ID, err)
		}
		if err := unmarshalList(exercises, &w.Exercises); err != nil {
			return nil, fmt.Errorf("workout %s exercises: %w", w.ID, err)
		}
		if err := unmarshalList(tips, &w.TrainerTips); err != nil {
			return nil, fmt.Errorf("workout %s trainer tips: %w", w.ID, err)
		}
		doc.Workouts = append(doc.Workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recRows, err := s.db.QueryContext(ctx,
		`SELECT id, workout, record, member_id, member, created_at, updated_at
		 FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var r models.Record
		var memberID, member sql.NullString
		if err := recRows.Scan(&r.ID, &r.Workout, &r.Record, &memberID, &member, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.MemberID = memberID.String
		r.Member = member.String
		doc.Records = append(doc.Records, r)
	}
	return doc, recRows.Err()
}

// Save replaces the contents of both tables in one transaction.
func (s *SQLite) Save(ctx context.Context, doc *models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM workouts`); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	for i, w := range doc.Workouts {
		equipment, err := json.Marshal(w.Equipment)
		if err != nil {
			return err
		}
		exercises, err := json.Marshal(w.Exercises)
		if err != nil {
			return err
		}
		tips, err := json.Marshal(w.TrainerTips)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO workouts (position, id, name, mode, equipment, exercises, trainer_tips, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, w.ID, w.Name, w.Mode, string(equipment), string(exercises), string(tips), w.CreatedAt, w.UpdatedAt,
		); err != nil {
			return fmt.Errorf("inserting workout %s: %w", w.ID, err)
		}
	}

	for i, r := range doc.Records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (position, id, workout, record, member_id, member, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.ID, r.Workout, r.Record, nullString(r.MemberID), nullString(r.Member), r.CreatedAt, r.UpdatedAt,
		); err != nil {
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func unmarshalList(raw string, dst *[]string) error {
	return json.Unmarshal([]byte(raw), dst)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
