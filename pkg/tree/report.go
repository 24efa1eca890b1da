package tree

import (
	stderrors "errors"
)

// ActionKind names what happened, or would happen, at a path.
type ActionKind string

const (
	ActionMkdir ActionKind = "mkdir"
	ActionWrite ActionKind = "write"
	ActionSkip  ActionKind = "skip"
)

// Action is one filesystem effect of a materialization.
type Action struct {
	Kind  ActionKind `json:"kind" yaml:"kind"`
	Path  string     `json:"path" yaml:"path"`
	Bytes int        `json:"bytes,omitempty" yaml:"bytes,omitempty"`
}

// Failure is a per-path error that was routed through the error policy.
type Failure struct {
	Path string `json:"path" yaml:"path"`
	Err  error  `json:"-" yaml:"-"`
}

// Report lists what a materialization did. In dry-run mode the actions
// are the ones that would have been performed.
type Report struct {
	DryRun   bool      `json:"dry_run" yaml:"dry_run"`
	Actions  []Action  `json:"actions" yaml:"actions"`
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Err joins every recorded failure, or returns nil if there were none.
func (r *Report) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return stderrors.Join(errs...)
}

// Paths returns the paths of all actions of the given kind, in order.
func (r *Report) Paths(kind ActionKind) []string {
	var out []string
	for _, a := range r.Actions {
		if a.Kind == kind {
			out = append(out, a.Path)
		}
	}
	return out
}

func (r *Report) add(kind ActionKind, path string, bytes int) {
	r.Actions = append(r.Actions, Action{Kind: kind, Path: path, Bytes: bytes})
}
