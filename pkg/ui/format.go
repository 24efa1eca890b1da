package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how command results are rendered.
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output stream.
	FormatAuto Format = iota
	// FormatTerminal is styled, human-oriented output.
	FormatTerminal
	// FormatText is the same output without styling.
	FormatText
	// FormatJSON emits results and errors as JSON documents.
	FormatJSON
	// FormatYAML emits results and errors as YAML documents.
	FormatYAML
)

var formatNames = [...]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// formatAliases maps every accepted --format spelling to its Format.
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// FormatNames lists the canonical format names in declaration order.
func FormatNames() []string {
	return append([]string(nil), formatNames[:]...)
}

// ParseFormat maps a --format value to a Format. Matching ignores case
// and surrounding blanks; unknown values are input errors carrying the
// offending value in the "format" detail.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput,
		"unknown format: %s (expected one of %s)", s, strings.Join(FormatNames(), ", ")).
		WithDetail("format", s)
}

// DetectFormat resolves FormatAuto for output. NO_COLOR, a redirected
// stream or a colorless terminal all give FormatText.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
