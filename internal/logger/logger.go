// Package logger builds the application's slog.Logger on top of a
// charmbracelet/log handler.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Prefix string
}

// New returns a slog.Logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	formatter := log.TextFormatter
	if strings.EqualFold(opts.Format, "json") {
		formatter = log.JSONFormatter
	}

	level, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		level = log.InfoLevel
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Level:           level,
		Prefix:          opts.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles())

	return slog.New(handler)
}

// Discard returns a logger that drops every record; used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func styles() *log.Styles {
	s := log.DefaultStyles()

	levelColors := map[log.Level]lipgloss.AdaptiveColor{
		log.DebugLevel: {Light: "#7E57C2", Dark: "#7E57C2"},
		log.InfoLevel:  {Light: "#04B575", Dark: "#04B575"},
		log.WarnLevel:  {Light: "#EE6FF8", Dark: "#EE6FF8"},
		log.ErrorLevel: {Light: "#FF6B6B", Dark: "#FF6B6B"},
	}
	for level, color := range levelColors {
		s.Levels[level] = lipgloss.NewStyle().
			SetString(strings.ToUpper(level.String())).
			Bold(true).
			MaxWidth(5).
			Foreground(color)
	}

	s.Keys["err"] = lipgloss.NewStyle().Foreground(levelColors[log.ErrorLevel])
	s.Values["err"] = lipgloss.NewStyle().Bold(true)
	return s
}
