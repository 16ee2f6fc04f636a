// Package logging configures the shared logrus logger.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"pennywise/internal/config"
)

// New returns a logger configured from LogConfig. Invalid levels fall back
// to info rather than failing startup.
func New(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.ToLower(cfg.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return log
}
