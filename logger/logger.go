// Package logger configures the process-wide zerolog logger.
package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init sets the global logger and level. Unknown levels fall back to info.
func Init(level string, pretty bool) zerolog.Logger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	// log.Ctx falls back to the global logger for contexts without one attached.
	zerolog.DefaultContextLogger = &log.Logger
	SetLevel(level)
	return log.Logger
}

func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// Gorm routes gorm's SQL logging through zerolog. Queries slower than slow are logged at warn.
type Gorm struct {
	slow  time.Duration
	level gormlogger.LogLevel
}

var _ gormlogger.Interface = (*Gorm)(nil)

func NewGorm(slow time.Duration) *Gorm {
	return &Gorm{slow: slow, level: gormlogger.Warn}
}

func (g *Gorm) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *g
	c.level = level
	return &c
}

func (g *Gorm) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		log.Ctx(ctx).Info().Msgf(msg, args...)
	}
}

func (g *Gorm) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		log.Ctx(ctx).Warn().Msgf(msg, args...)
	}
}

func (g *Gorm) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		log.Ctx(ctx).Error().Msgf(msg, args...)
	}
}

func (g *Gorm) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		log.Ctx(ctx).Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm query failed")
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Ctx(ctx).Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow gorm query")
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		log.Ctx(ctx).Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("gorm query")
	}
}
