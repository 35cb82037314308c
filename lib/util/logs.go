package util

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SetLogLevel applies the LOG_LEVEL value to logger, falling back to info for unknown values
func SetLogLevel(logger *logrus.Logger, logLevel string) {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}
