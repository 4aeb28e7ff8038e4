package observability

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/pageza/foodwise/backend/config"
)

// ConfigureLogging applies the configured level and format to the standard logrus logger
func ConfigureLogging(cfg config.LoggingConfig, out io.Writer) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logrus.SetLevel(level)

	switch cfg.Format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if out != nil {
		logrus.SetOutput(out)
	}
	return nil
}
