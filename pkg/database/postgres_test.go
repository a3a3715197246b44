package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (gormlogger.Interface, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return newGormLogger(zap.New(core).Sugar(), level), logs
}

func query() (string, int64) {
	return `SELECT * FROM "neos"`, 3
}

func TestGormLoggerWarnLevel(t *testing.T) {
	ctx := context.Background()
	l, logs := newObservedGormLogger(gormlogger.Warn)

	l.Trace(ctx, time.Now(), query, nil)
	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	l.Info(ctx, "connected %s", "db")
	assert.Zero(t, logs.Len(), "fast queries and info stay quiet")

	l.Trace(ctx, time.Now().Add(-2*slowQueryThreshold), query, nil)
	l.Trace(ctx, time.Now(), query, assert.AnError)
	l.Warn(ctx, "pool %d", 4)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Slow query", entries[0].Message)
	assert.Equal(t, `SELECT * FROM "neos"`, entries[0].ContextMap()["sql"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "Query failed", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "pool 4", entries[2].Message)
}

func TestGormLoggerLogMode(t *testing.T) {
	ctx := context.Background()
	base, logs := newObservedGormLogger(gormlogger.Warn)

	base.LogMode(gormlogger.Info).Trace(ctx, time.Now(), query, nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)

	base.LogMode(gormlogger.Silent).Error(ctx, "boom")
	base.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, assert.AnError)
	assert.Equal(t, 1, logs.Len())
}

// closingPool is a pool db.DB() cannot unwrap into *sql.DB
type closingPool struct {
	gorm.ConnPool
	closed bool
}

func (p *closingPool) Close() error {
	p.closed = true
	return nil
}

func TestConfigurePoolFailureCloses(t *testing.T) {
	pool := &closingPool{}
	db := &gorm.DB{Config: &gorm.Config{ConnPool: pool}}

	err := configurePool(db)
	require.Error(t, err)

	Close(db)
	assert.True(t, pool.closed)
}

func TestCloseSQLDB(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), false)
	require.NoError(t, err)
	require.NoError(t, configurePool(db))

	mock.ExpectClose()
	Close(db)
	assert.NoError(t, mock.ExpectationsWereMet())
}
