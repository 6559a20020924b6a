package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the diagnostic logger. Reports meant for the user are printed by
// the commands themselves; the logger only carries warnings and, with
// verbose set, request-level debug output. LOG_LEVEL overrides both.
func New(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(lvl)
		}
	}
	return log
}
