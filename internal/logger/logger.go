package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces zap's global logger. Everything else logs through zap.L().
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case "production", "staging":
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
