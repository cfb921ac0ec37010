package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/workoutapi/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists the document into the workouts and records tables created
// by the migrations directory.
type Postgres struct {
	Pool *pgxpool.Pool
}

var _ Persister = (*Postgres)(nil)

// OpenPostgres connects a pool to dsn and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Load reads both tables in position order.
func (p *Postgres) Load(ctx context.Context) (*models.Document, error) {
	doc := models.NewDocument()

	rows, err := p.Pool.Query(ctx,
		`SELECT id, name, mode, equipment, exercises, trainer_tips, created_at, updated_at
		 FROM workouts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.Mode, &w.Equipment, &w.Exercises, &w.TrainerTips,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		doc.Workouts = append(doc.Workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recRows, err := p.Pool.Query(ctx,
		`SELECT id, workout, record, member_id, member, created_at, updated_at
		 FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer recRows.Close()

	for recRows.Next() {
		var r models.Record
		var memberID, member *string
		if err := recRows.Scan(&r.ID, &r.Workout, &r.Record, &memberID, &member, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if memberID != nil {
			r.MemberID = *memberID
		}
		if member != nil {
			r.Member = *member
		}
		doc.Records = append(doc.Records, r)
	}
	return doc, recRows.Err()
}

// Save truncates both tables and bulk-copies the document in one transaction.
func (p *Postgres) Save(ctx context.Context, doc *models.Document) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE workouts, records`); err != nil {
		return fmt.Errorf("truncating tables: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"workouts"},
		[]string{"position", "id", "name", "mode", "equipment", "exercises", "trainer_tips", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(doc.Workouts), func(i int) ([]any, error) {
			w := doc.Workouts[i]
			return []any{i, w.ID, w.Name, w.Mode, textArray(w.Equipment), textArray(w.Exercises),
				textArray(w.TrainerTips), w.CreatedAt, w.UpdatedAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("copying workouts: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"records"},
		[]string{"position", "id", "workout", "record", "member_id", "member", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(doc.Records), func(i int) ([]any, error) {
			r := doc.Records[i]
			return []any{i, r.ID, r.Workout, r.Record, optionalText(r.MemberID), optionalText(r.Member),
				r.CreatedAt, r.UpdatedAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("copying records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

// textArray maps nil to an empty array; the columns are NOT NULL.
func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
