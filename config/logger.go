package config

import (
	"sync"

	"github.com/MonkyMars/gecho"
)

var (
	logger     *gecho.Logger
	loggerOnce sync.Once
)

// InitializeLogger builds the process-wide logger. Callers that need a logger
// without the caller annotation (request logging) use NewLogger directly.
func InitializeLogger() *gecho.Logger {
	loggerOnce.Do(func() {
		logger = NewLogger(true)
	})
	return logger
}

func GetLogger() *gecho.Logger {
	return InitializeLogger()
}

func NewLogger(showCaller bool) *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(showCaller),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel())),
	))
}
