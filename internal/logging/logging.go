// If you are AI: This file configures the process-wide logger.

package logging

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Setup configures the standard logger with the given level.
// Timestamps carry millisecond precision so frame rates can be read off the log.
func Setup(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return nil
}
