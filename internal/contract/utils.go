package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/finscore/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // top tier
	GoodColor      = color.New(color.FgCyan)
	AverageColor   = color.New(color.FgYellow)
	WeakColor      = color.New(color.FgMagenta, color.Bold) // needs improvement
	RiskColor      = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns the tier label of a score. This is the core logic used
// for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	for _, band := range schema.TierBands {
		if score >= band.Min {
			return string(band.Tier)
		}
	}
	return string(schema.TierRisk)
}

// GetColorLabel returns a colored tier label for console output (table).
func GetColorLabel(score float64) string {
	return ColorTier(schema.ScoreTier(GetPlainLabel(score)))
}

// ColorTier colors a tier name.
func ColorTier(tier schema.ScoreTier) string {
	text := string(tier)
	switch tier {
	case schema.TierExcellent:
		return ExcellentColor.Sprint(text)
	case schema.TierGood:
		return GoodColor.Sprint(text)
	case schema.TierAverage:
		return AverageColor.Sprint(text)
	case schema.TierNeedsImprovement:
		return WeakColor.Sprint(text)
	default:
		return RiskColor.Sprint(text)
	}
}

// ColorVerdict colors a comparison verdict.
func ColorVerdict(v schema.Verdict) string {
	switch v {
	case schema.Outperforms:
		return ExcellentColor.Sprint(string(v))
	case schema.Underperforms:
		return RiskColor.Sprint(string(v))
	default:
		return string(v)
	}
}

// ColorPriority colors a recommendation priority.
func ColorPriority(p schema.Priority) string {
	if p == schema.HighPriority {
		return RiskColor.Sprint(string(p))
	}
	return AverageColor.Sprint(string(p))
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

func homeFile(name string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(homeDir, name)
}

// GetStatementDBFilePath returns the path to the SQLite DB file for statement storage.
func GetStatementDBFilePath() string {
	return homeFile(".finscore_statements.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return homeFile(".finscore_cache.db")
}

// GetReportDBFilePath returns the path to the SQLite DB file for report storage.
func GetReportDBFilePath() string {
	return homeFile(".finscore_reports.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
