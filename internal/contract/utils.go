package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/depshield/schema"
	"github.com/mitchellh/go-homedir"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	MediumColor   = color.New(color.FgYellow)              // MediumColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
	InfoColor     = color.New(color.FgGreen)               // InfoColor represents a healthy signal.
)

// severityColors maps each severity to its console color.
var severityColors = map[schema.Severity]*color.Color{
	schema.SeverityCritical: CriticalColor,
	schema.SeverityHigh:     HighColor,
	schema.SeverityMedium:   MediumColor,
	schema.SeverityLow:      LowColor,
	schema.SeverityInfo:     InfoColor,
}

// GetPlainLabel returns the display label of a severity or risk level.
func GetPlainLabel(level string) string {
	if level == "" {
		return "Unknown"
	}
	return strings.ToUpper(level[:1]) + level[1:]
}

// GetColorLabel returns a colored label for console output (table).
// Risk levels share their names with severities, so both are accepted.
func GetColorLabel(level string) string {
	text := GetPlainLabel(level)
	if c, ok := severityColors[schema.Severity(level)]; ok {
		return c.Sprint(text)
	}
	return text
}

// GetGradeColor returns a colored letter grade.
func GetGradeColor(grade schema.Grade) string {
	switch grade {
	case schema.GradeA:
		return InfoColor.Sprint(grade)
	case schema.GradeB:
		return LowColor.Sprint(grade)
	case schema.GradeC:
		return MediumColor.Sprint(grade)
	case schema.GradeD:
		return HighColor.Sprint(grade)
	default:
		return CriticalColor.Sprint(grade)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for registry caching.
func GetCacheDBFilePath() string {
	return homeFile(".depshield_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for scan history.
func GetHistoryDBFilePath() string {
	return homeFile(".depshield_history.db")
}

func homeFile(name string) string {
	home, err := homedir.Dir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
