package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryFor(userID uint64, color model.TeamColor, points int, date string, created time.Time) *model.PointEntry {
	uid := userID
	return &model.PointEntry{
		UserID:           &uid,
		Color:            color,
		EventDate:        date,
		EventType:        "academic",
		EventDescription: "test entry",
		NumPoints:        points,
		AddedBy:          userID,
		CreatedTime:      created,
	}
}

func TestCreateAdminAwardDecrementsBudget(t *testing.T) {
	conn := newTestDB(t)
	repo := NewPointRepository(conn)
	ctx := context.Background()

	admin := mustCreateUser(t, conn, &model.User{
		Name: "Ms T", Email: "t@stmarysschool.org", TeacherPoints: 10,
	})

	err := repo.CreateAdminAward(ctx, admin.ID, &model.PointEntry{
		Color:            model.ColorBlue,
		EventDate:        "2024-09-01",
		EventType:        "service",
		EventDescription: "food drive",
		NumPoints:        4,
		AddedBy:          admin.ID,
	})
	require.NoError(t, err)

	var fresh model.User
	require.NoError(t, conn.First(&fresh, admin.ID).Error)
	assert.Equal(t, 6, fresh.TeacherPoints)

	var count int64
	require.NoError(t, conn.Model(&model.PointEntry{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateAdminAwardInsufficientBudget(t *testing.T) {
	conn := newTestDB(t)
	repo := NewPointRepository(conn)
	ctx := context.Background()

	admin := mustCreateUser(t, conn, &model.User{
		Name: "Ms T", Email: "t@stmarysschool.org", TeacherPoints: 10,
	})

	err := repo.CreateAdminAward(ctx, admin.ID, &model.PointEntry{
		Color:            model.ColorWhite,
		EventDate:        "2024-09-01",
		EventType:        "service",
		EventDescription: "too generous",
		NumPoints:        15,
		AddedBy:          admin.ID,
	})
	require.ErrorIs(t, err, ErrInsufficientBudget)

	// Rejected award leaves no partial effect.
	var fresh model.User
	require.NoError(t, conn.First(&fresh, admin.ID).Error)
	assert.Equal(t, 10, fresh.TeacherPoints)

	var count int64
	require.NoError(t, conn.Model(&model.PointEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTeamTotalsSumsPoints(t *testing.T) {
	conn := newTestDB(t)
	repo := NewPointRepository(conn)
	ctx := context.Background()

	u := mustCreateUser(t, conn, &model.User{
		Name: "Alice", Email: "a@stmarysschool.org", Color: colorPtr(model.ColorBlue),
	})
	now := time.Now()
	require.NoError(t, repo.Create(ctx, entryFor(u.ID, model.ColorBlue, 3, "2024-09-01", now)))
	require.NoError(t, repo.Create(ctx, entryFor(u.ID, model.ColorBlue, 2, "2024-09-02", now)))

	totals, err := repo.TeamTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, model.ColorBlue, totals[0].Color)
	assert.Equal(t, 5, totals[0].Points)

	// Idempotent with no intervening writes.
	again, err := repo.TeamTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, totals, again)
}

func TestLeaderboardOrdering(t *testing.T) {
	conn := newTestDB(t)
	repo := NewPointRepository(conn)
	ctx := context.Background()

	now := time.Now()
	alice := mustCreateUser(t, conn, &model.User{Name: "Alice", Email: "a@stmarysschool.org", Color: colorPtr(model.ColorBlue)})
	bob := mustCreateUser(t, conn, &model.User{Name: "Bob", Email: "b@stmarysschool.org", Color: colorPtr(model.ColorWhite)})
	cara := mustCreateUser(t, conn, &model.User{Name: "Cara", Email: "c@stmarysschool.org", Color: colorPtr(model.ColorBlue)})

	require.NoError(t, repo.Create(ctx, entryFor(alice.ID, model.ColorBlue, 2, "2024-09-01", now)))
	require.NoError(t, repo.Create(ctx, entryFor(alice.ID, model.ColorBlue, 3, "2024-09-02", now)))
	require.NoError(t, repo.Create(ctx, entryFor(bob.ID, model.ColorWhite, 9, "2024-09-01", now)))
	require.NoError(t, repo.Create(ctx, entryFor(cara.ID, model.ColorBlue, 5, "2024-09-01", now)))

	rows, err := repo.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, bob.ID, rows[0].UserID)
	assert.Equal(t, 9, rows[0].Points)
	// Tie on 5 points: lower users_id first.
	assert.Equal(t, alice.ID, rows[1].UserID)
	assert.Equal(t, cara.ID, rows[2].UserID)

	limited, err := repo.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, bob.ID, limited[0].UserID)
}

func TestRecentOrderedByDateThenCreated(t *testing.T) {
	conn := newTestDB(t)
	repo := NewPointRepository(conn)
	ctx := context.Background()

	u := mustCreateUser(t, conn, &model.User{Name: "Alice", Email: "a@stmarysschool.org", Color: colorPtr(model.ColorBlue)})

	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, entryFor(u.ID, model.ColorBlue, 1, "2024-09-01", base)))
	require.NoError(t, repo.Create(ctx, entryFor(u.ID, model.ColorBlue, 1, "2024-09-03", base.Add(time.Minute))))
	// Same event date as the first, written later: created_time breaks the tie.
	require.NoError(t, repo.Create(ctx, entryFor(u.ID, model.ColorBlue, 1, "2024-09-01", base.Add(2*time.Minute))))

	rows, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-09-03", rows[0].EventDate)
	assert.Equal(t, "2024-09-01", rows[1].EventDate)
	assert.Equal(t, "2024-09-01", rows[2].EventDate)
}

func TestExportRowsOldestFirstWithNullableRecipient(t *testing.T) {
	conn := newTestDB(t)
	repo := NewPointRepository(conn)
	ctx := context.Background()

	admin := mustCreateUser(t, conn, &model.User{
		Name: "Ms T", Email: "t@stmarysschool.org", Admin: true, TeacherPoints: 50,
	})
	u := mustCreateUser(t, conn, &model.User{Name: "Alice", Email: "a@stmarysschool.org", Color: colorPtr(model.ColorBlue)})

	base := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, entryFor(u.ID, model.ColorBlue, 2, "2024-09-02", base.Add(time.Hour))))
	// Team-only admin award, no recipient.
	require.NoError(t, repo.Create(ctx, &model.PointEntry{
		Color:            model.ColorWhite,
		EventDate:        "2024-09-01",
		EventType:        "service",
		EventDescription: "pep rally",
		NumPoints:        7,
		AddedBy:          admin.ID,
		CreatedTime:      base,
	}))

	rows, err := repo.ExportRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].UserID)
	assert.Nil(t, rows[0].Email)
	assert.Equal(t, "t@stmarysschool.org", rows[0].AddedByEmail)
	assert.Equal(t, 7, rows[0].NumPoints)

	require.NotNil(t, rows[1].UserID)
	assert.Equal(t, u.ID, *rows[1].UserID)
	assert.Equal(t, "a@stmarysschool.org", rows[1].AddedByEmail)

	assert.False(t, rows[1].CreatedTime.Before(rows[0].CreatedTime))
}
