package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a production logger for "production"/"prod" and a development
// logger for everything else.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "production", "prod":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
