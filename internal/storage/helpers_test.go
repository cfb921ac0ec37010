package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/claude/workoutapi/internal/models"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memPersister keeps the last saved document and can be told to fail.
type memPersister struct {
	doc     *models.Document
	saves   int
	failErr error
}

func (m *memPersister) Load(ctx context.Context) (*models.Document, error) {
	if m.doc == nil {
		return models.NewDocument(), nil
	}
	return m.doc.Clone(), nil
}

func (m *memPersister) Save(ctx context.Context, doc *models.Document) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.saves++
	m.doc = doc.Clone()
	return nil
}

func (m *memPersister) Close() error { return nil }

var errDiskFull = errors.New("disk full")

// newTestDB opens a DB over a JSON file in a temp dir, seeded with doc.
func newTestDB(t *testing.T, doc *models.Document) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	p := NewJSONFile(path)
	if doc != nil {
		require.NoError(t, p.Save(context.Background(), doc))
	}
	db, err := New(context.Background(), p, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func heavyDT() models.Workout {
	return models.Workout{
		ID:          "4a3d9aaa-608c-49a7-a004-66305ad4ab50",
		Name:        "Heavy DT",
		Mode:        "5 Rounds For Time",
		Equipment:   []string{"barbell"},
		Exercises:   []string{"12 deadlifts"},
		CreatedAt:   "4/20/2022, 2:21:56 PM",
		UpdatedAt:   "4/20/2022, 2:21:56 PM",
		TrainerTips: []string{"Pace yourself"},
	}
}

func seedDocument() *models.Document {
	return &models.Document{
		Workouts: []models.Workout{
			{
				ID:          "61dbae02-c147-4e28-863c-db7bd402b2d6",
				Name:        "Tommy V",
				Mode:        "For Time",
				Equipment:   []string{"barbell", "rope"},
				Exercises:   []string{"21 thrusters", "12 rope climbs, 15 ft"},
				CreatedAt:   "4/20/2022, 2:21:56 PM",
				UpdatedAt:   "4/20/2022, 2:21:56 PM",
				TrainerTips: []string{"Split the 21 thrusters as needed"},
			},
			{
				ID:          "d8be2362-7b68-4ea4-a1f6-03f8bc4eede7",
				Name:        "Dead Push-Ups",
				Mode:        "AMRAP 10",
				Equipment:   []string{"barbell"},
				Exercises:   []string{"15 deadlifts", "15 hand-release push-ups"},
				CreatedAt:   "1/25/2022, 1:15:44 PM",
				UpdatedAt:   "3/10/2022, 8:21:56 AM",
				TrainerTips: []string{"Deadlifts are meant to be light and fast"},
			},
		},
		Records: []models.Record{
			{ID: "ad75d475-ac57-44f4-a02a-8f6def58ff56", Workout: "61dbae02-c147-4e28-863c-db7bd402b2d6", Record: "160 reps", CreatedAt: "4/20/2022, 2:21:56 PM", UpdatedAt: "4/20/2022, 2:21:56 PM"},
			{ID: "0bff586f-2017-4526-9e52-fe3ea46d55ab", Workout: "d8be2362-7b68-4ea4-a1f6-03f8bc4eede7", Record: "7:23 minutes", MemberID: "11817fb1-03a1-4b4a-8d27-854ac893cf41", Member: "/members/11817fb1-03a1-4b4a-8d27-854ac893cf41", CreatedAt: "4/20/2022, 2:21:56 PM", UpdatedAt: "4/20/2022, 2:21:56 PM"},
			{ID: "b24d2ce1-b3f7-4b5b-9f94-e3b4e77ee2a4", Workout: "61dbae02-c147-4e28-863c-db7bd402b2d6", Record: "8:12 minutes", CreatedAt: "4/21/2022, 9:02:11 AM", UpdatedAt: "4/21/2022, 9:02:11 AM"},
		},
	}
}
