package initializer

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/kokifi/lottery/pkg/config"
)

var levelStyles = map[log.Level]struct {
	icon  string
	color string
}{
	log.DebugLevel: {"🐛", "#7E57C2"},
	log.InfoLevel:  {"🐔", "#04B575"},
	log.WarnLevel:  {"⚠️", "#F5A623"},
	log.ErrorLevel: {"❌", "#FF6B6B"},
}

// newLogger builds the process logger: a charmbracelet handler behind
// slog. Unknown formats fall back to text.
func newLogger(cfg *config.Log, w io.Writer) *slog.Logger {
	styles := log.DefaultStyles()
	for level, s := range levelStyles {
		color := lipgloss.AdaptiveColor{Light: s.color, Dark: s.color}
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(s.icon).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}
	muted := lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"})
	for _, key := range []string{"context", "userID", "lotteryID", "prefix", "caller"} {
		styles.Keys[key] = muted
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles)
	return slog.New(handler)
}
