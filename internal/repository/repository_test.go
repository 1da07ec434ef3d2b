package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(&model.User{}, &model.PointEntry{}))
	return conn
}

func mustCreateUser(t *testing.T, conn *gorm.DB, u *model.User) *model.User {
	t.Helper()
	require.NoError(t, conn.Create(u).Error)
	return u
}

func colorPtr(c model.TeamColor) *model.TeamColor {
	return &c
}
