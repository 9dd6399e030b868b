// Package log holds the process-wide logger. Library packages log through
// Logger only; binaries pick a concrete configuration once at startup.
package log

import (
	"go.uber.org/zap"
)

var Logger = zap.NewNop()

func InitProductionLogger() {
	Logger, _ = zap.NewProduction()
}

func InitDevelopmentLogger() {
	Logger, _ = zap.NewDevelopment()
}
