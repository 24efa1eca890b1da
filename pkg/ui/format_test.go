package ui_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatAcceptsEveryCanonicalName(t *testing.T) {
	for _, name := range ui.FormatNames() {
		t.Run(name, func(t *testing.T) {
			f, err := ui.ParseFormat(name)
			require.NoError(t, err)
			assert.Equal(t, name, f.String())
		})
	}
}

func TestParseFormatAliases(t *testing.T) {
	tests := map[string]ui.Format{
		"":         ui.FormatAuto,
		"terminal": ui.FormatTerminal,
		"plain":    ui.FormatText,
		"yml":      ui.FormatYAML,
		"YAML":     ui.FormatYAML,
		" json ":   ui.FormatJSON,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := ui.ParseFormat(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseFormatRejectsUnknown(t *testing.T) {
	for _, input := range []string{"xml", "toml", "ini"} {
		t.Run(input, func(t *testing.T) {
			f, err := ui.ParseFormat(input)
			require.Error(t, err)
			assert.Equal(t, ui.FormatAuto, f)
			assert.True(t, errors.IsValidation(err))
			assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
			assert.Equal(t, input, errors.GetErrorDetails(err)["format"])
			assert.Contains(t, err.Error(), "auto, term, text, json, yaml")
		})
	}
}

func TestFormatStringOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown", ui.Format(-1).String())
	assert.Equal(t, "unknown", ui.Format(99).String())
}

func TestFormatNamesIsACopy(t *testing.T) {
	names := ui.FormatNames()
	names[0] = "changed"
	assert.Equal(t, "auto", ui.FormatAuto.String())
}

func TestDetectFormat(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	t.Run("NO_COLOR forces text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(file))
	})

	t.Run("redirected output is text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.Equal(t, ui.FormatText, ui.DetectFormat(file))
	})
}
