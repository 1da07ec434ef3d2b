package repository

import (
	"context"
	"testing"

	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetOrCreate(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	u, err := repo.GetOrCreate(ctx, "A@stmarysschool.org", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "a@stmarysschool.org", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.Nil(t, u.Color)
	assert.False(t, u.Admin)
	assert.Zero(t, u.TeacherPoints)

	// Second login with different casing resolves to the same row.
	again, err := repo.GetOrCreate(ctx, "a@STMARYSSCHOOL.org", "Alice B")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Alice", again.Name)

	var count int64
	require.NoError(t, conn.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindByEmail(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	mustCreateUser(t, conn, &model.User{Name: "Bob", Email: "bob@stmarysschool.org"})

	u, err := repo.FindByEmail(ctx, "BOB@stmarysschool.org")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)

	_, err = repo.FindByEmail(ctx, "nobody@stmarysschool.org")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignColorOnlyOnce(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	u := mustCreateUser(t, conn, &model.User{Name: "Cara", Email: "cara@stmarysschool.org"})

	assigned, err := repo.AssignColor(ctx, u.ID, model.ColorBlue)
	require.NoError(t, err)
	assert.True(t, assigned)

	// A second assignment is a no-op; the stored color is immutable.
	assigned, err = repo.AssignColor(ctx, u.ID, model.ColorWhite)
	require.NoError(t, err)
	assert.False(t, assigned)

	fresh, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.Color)
	assert.Equal(t, model.ColorBlue, *fresh.Color)
}

func TestFirstAdmin(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	_, err := repo.FirstAdmin(ctx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	mustCreateUser(t, conn, &model.User{Name: "Student", Email: "s@stmarysschool.org"})
	admin := mustCreateUser(t, conn, &model.User{Name: "Head", Email: "head@stmarysschool.org", Admin: true})
	mustCreateUser(t, conn, &model.User{Name: "Later Admin", Email: "later@stmarysschool.org", Admin: true})

	got, err := repo.FirstAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)
}

func TestGrantTeacherPoints(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	u := mustCreateUser(t, conn, &model.User{Name: "Ms T", Email: "t@stmarysschool.org"})

	granted, err := repo.GrantTeacherPoints(ctx, u.ID, 50)
	require.NoError(t, err)
	assert.True(t, granted)

	// A live budget is never reset.
	granted, err = repo.GrantTeacherPoints(ctx, u.ID, 50)
	require.NoError(t, err)
	assert.False(t, granted)

	fresh, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, fresh.TeacherPoints)
}
