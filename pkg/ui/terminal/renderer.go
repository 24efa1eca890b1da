// Package terminal renders human-readable output, styled with lipgloss
// when attached to a color terminal and plain otherwise.
package terminal

import (
	"fmt"
	"io"

	"github.com/arthur-debert/cs01/pkg/core"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/arthur-debert/cs01/pkg/tree"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer writes human-readable output
type Renderer struct {
	output io.Writer
	styled bool

	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	path    lipgloss.Style
	muted   lipgloss.Style
}

// New creates a terminal renderer. When styled is false no escape
// sequences are written.
func New(w io.Writer, styled bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if !styled {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		output:  w,
		styled:  styled,
		success: lr.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD75F"}),
		warning: lr.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"}),
		failure: lr.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}),
		path:    lr.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}),
		muted:   lr.NewStyle().Faint(true),
	}
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.styled {
		return s
	}
	return style.Render(s)
}

// RenderResult renders known result types; anything else is printed
// with its fields.
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *core.InitResult:
		return r.renderInit(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %v\n", r.paint(r.failure, "Error:"), err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderInit(res *core.InitResult) error {
	if res.AlreadyInitialized {
		_, err := fmt.Fprintf(r.output, "%s %s\n",
			r.paint(r.warning, "CS01 repository already exists in"),
			r.paint(r.path, res.Path))
		return err
	}

	kind, note := "standard", fmt.Sprintf(" (with %s directory)", paths.RepoDirName)
	if res.Bare {
		kind, note = "bare", ""
	}

	if res.DryRun {
		if _, err := fmt.Fprintf(r.output, "%s empty %s CS01 repository in %s%s\n",
			r.paint(r.warning, "Would initialize"), kind, r.paint(r.path, res.Path), note); err != nil {
			return err
		}
		for _, a := range res.Actions {
			if err := r.renderAction(a); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(r.output, "%s empty %s CS01 repository in %s%s\n",
		r.paint(r.success, "Initialized"), kind, r.paint(r.path, res.Path), note); err != nil {
		return err
	}
	for _, a := range res.Actions {
		if a.Kind != tree.ActionSkip {
			continue
		}
		if _, err := fmt.Fprintf(r.output, "  %s %s\n",
			r.paint(r.warning, "kept existing"), r.paint(r.path, a.Path)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderAction(a tree.Action) error {
	detail := ""
	if a.Kind == tree.ActionWrite {
		detail = r.paint(r.muted, fmt.Sprintf(" (%d bytes)", a.Bytes))
	}
	_, err := fmt.Fprintf(r.output, "  %-5s %s%s\n", a.Kind, r.paint(r.path, a.Path), detail)
	return err
}
