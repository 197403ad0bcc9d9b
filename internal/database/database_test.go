package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConnect_SQLiteMigratesAggregates(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: "file:connect_test?mode=memory&cache=shared"}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
	assert.True(t, db.Migrator().HasIndex(&models.Profile{}, "UserID"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	t.Parallel()

	_, isSQLite := Dialector(&config.Config{DBDriver: "sqlite", DBPath: "x.db"}).(*sqlite.Dialector)
	assert.True(t, isSQLite)

	pg, isPostgres := Dialector(&config.Config{
		DBDriver: "postgres", DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n",
	}).(*postgres.Dialector)
	require.True(t, isPostgres)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", pg.Config.DSN)
}

func TestCustomGormLogger_Trace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), sql, errors.New("connection reset"))
	assert.Contains(t, buf.String(), "GORM query error")
	buf.Reset()

	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "GORM slow query")
	buf.Reset()

	l.LogMode(logger.Silent).Trace(ctx, time.Now(), sql, errors.New("ignored"))
	assert.Empty(t, buf.String())
}
