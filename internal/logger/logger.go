// Package logger configures the global zap logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces zap's global logger with one matching the environment.
// Production gets sampled JSON output, everything else gets the
// human-readable development encoder.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case "production":
		l, err = zap.NewProduction()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
