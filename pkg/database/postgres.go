package database

import (
	"context"
	"fmt"
	"io"
	"time"

	"neowatch/pkg/logger"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = time.Second

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func Connect(config Config) (*gorm.DB, error) {
	db, err := Open(postgres.Open(config.DSN()), config.Debug)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := configurePool(db); err != nil {
		Close(db)
		return nil, err
	}

	logger.Logger.Infow("Database connected", logger.FieldSource, config.Host+":"+config.Port)
	return db, nil
}

func configurePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	// Каталог читается один раз при старте, большой пул не нужен
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// Open wraps gorm.Open with the project logger settings
func Open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(logger.Named("gorm"), level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Close releases the connection pool. It also works when db.DB() cannot
// unwrap the pool.
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
		return
	}
	if closer, ok := db.ConnPool.(io.Closer); ok {
		closer.Close()
	}
}

// gormLogger sends gorm output to zap, keeping gorm's severity
type gormLogger struct {
	log   *zap.SugaredLogger
	level gormlogger.LogLevel
}

func newGormLogger(log *zap.SugaredLogger, level gormlogger.LogLevel) gormlogger.Interface {
	return gormLogger{log: log, level: level}
}

func (l gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	l.level = level
	return l
}

func (l gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Infof(msg, args...)
	}
}

func (l gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warnf(msg, args...)
	}
}

func (l gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Errorf(msg, args...)
	}
}

func (l gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Errorw("Query failed", "sql", sql, "rows", rows,
			logger.FieldDuration, elapsed.Milliseconds(), logger.FieldError, err)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warnw("Slow query", "sql", sql, "rows", rows, logger.FieldDuration, elapsed.Milliseconds())
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debugw("Query", "sql", sql, "rows", rows, logger.FieldDuration, elapsed.Milliseconds())
	}
}
