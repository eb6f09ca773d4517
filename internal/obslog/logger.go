// Package obslog constructs the structured logger threaded through every
// component constructor in this module.
package obslog

import (
	"fmt"

	"go.uber.org/zap"
)

// Environment selects the zap encoder/level profile to use.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
)

// New builds a *zap.SugaredLogger for the given environment. Production uses
// JSON encoding at info level; development uses console encoding at debug
// level with caller information, matching the two profiles zap ships with.
func New(env Environment) (*zap.SugaredLogger, error) {
	var base *zap.Logger
	var err error

	switch env {
	case Production, "":
		base, err = zap.NewProduction()
	case Development:
		base, err = zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("obslog: unknown environment %q", env)
	}
	if err != nil {
		return nil, fmt.Errorf("obslog: building logger: %w", err)
	}
	return base.Sugar(), nil
}

// Noop returns a logger that discards everything, for use in tests that don't
// want to assert on log output but still need a non-nil logger.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
