package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

const (
	logLevelFlag  = "loglevel"
	logFormatFlag = "logformat"
)

// RegisterLoggingFlags registers log level and format flags
func RegisterLoggingFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(logLevelFlag, "warn", "set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(logFormatFlag, "text", "set the log format (text, json)")
}

// GetBaseLogger creates a logger writing to the command error stream
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := GetLoggerLevel(cmd)
	if err != nil {
		return nil, err
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format := cmd.Flag(logFormatFlag).Value.String(); format {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), options)
	case "text":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), options)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}

func GetLoggerLevel(cmd *cobra.Command) (slog.Level, error) {
	switch logLevel := cmd.Flag(logLevelFlag).Value.String(); logLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", logLevel)
	}
}
