package layout

import (
	"strings"

	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/ini"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/arthur-debert/cs01/pkg/types"
)

const (
	defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"

	defaultExclude = "# cs01 ls-files --others --exclude-from=.cs01/info/exclude\n" +
		"# Lines that start with '#' are comments.\n" +
		"# For a project mostly in C, the following would be a good set of\n" +
		"# exclude patterns (uncomment them if you want to use them):\n" +
		"# *.[oa]\n" +
		"# *~\n"
)

// SampleHooks are created empty under hooks/.
var SampleHooks = []string{
	"applypatch-msg.sample",
	"commit-msg.sample",
	"fsmonitor-watchman.sample",
	"post-update.sample",
	"pre-applypatch.sample",
	"pre-commit.sample",
	"pre-merge-commit.sample",
	"prepare-commit-msg.sample",
	"pre-push.sample",
	"pre-rebase.sample",
	"pre-receive.sample",
	"push-to-checkout.sample",
	"sendemail-validate.sample",
	"update.sample",
}

// Options selects the shape of the generated repository.
type Options struct {
	// Bare places the control files at the top of the tree instead of
	// under a .CS01 directory.
	Bare bool
	// InitialBranch is the branch HEAD points at. Empty means DefaultBranch.
	InitialBranch string
	// Extra holds additional config sections, shaped like the input of
	// ini.Marshal. Keys of core."" set here are overridden by the ones
	// the layout writes itself.
	Extra map[string]any
}

// Build returns the tree for a new repository.
func Build(opts Options) (types.Node, error) {
	branch := opts.InitialBranch
	if branch == "" {
		branch = DefaultBranch
	}
	if err := ValidateBranchName(branch); err != nil {
		return nil, err
	}

	config, err := Config(opts.Bare, opts.Extra)
	if err != nil {
		return nil, err
	}

	ref := "ref: refs/heads/" + branch

	hooks := types.Dir()
	for _, name := range SampleHooks {
		hooks.Add(name, types.File(""))
	}

	control := types.Dir(
		types.E("HEAD", types.File(ref+"\n")),
		types.E("config", types.File(config)),
		types.E("description", types.File(defaultDescription)),
		types.E("hooks", hooks),
		types.E("info", types.Dir(
			types.E("exclude", types.File(defaultExclude)),
		)),
		types.E("objects", types.Dir(
			types.E("info", types.Dir()),
			types.E("pack", types.Dir()),
		)),
		types.E("refs", types.Dir(
			types.E("heads", refTree(branch, types.File(ref))),
			types.E("tags", types.Dir()),
		)),
	)

	if opts.Bare {
		return control, nil
	}
	return types.Dir(types.E(paths.RepoDirName, control)), nil
}

// refTree nests leaf under one directory per slash-separated component
// of branch except the last.
func refTree(branch string, leaf *types.Leaf) *types.Directory {
	parts := strings.Split(branch, "/")

	var node types.Node = leaf
	for i := len(parts) - 1; i > 0; i-- {
		node = types.Dir(types.E(parts[i], node))
	}
	return types.Dir(types.E(parts[0], node))
}

// Config renders the repository config file.
func Config(bare bool, extra map[string]any) (string, error) {
	core := map[string]any{
		"bare":                    bare,
		"repositoryformatversion": 0,
	}

	cfg := make(map[string]any, len(extra)+1)
	for name, section := range extra {
		cfg[name] = section
	}

	merged, err := mergeCore(extra["core"], core)
	if err != nil {
		return "", err
	}
	cfg["core"] = merged

	return ini.Marshal(cfg)
}

// mergeCore overlays settings onto the bare subsection of an existing
// core section.
func mergeCore(existing any, settings map[string]any) (map[string]any, error) {
	section := map[string]any{}

	switch s := existing.(type) {
	case nil:
	case map[string]any:
		for k, v := range s {
			section[k] = v
		}
	case ini.Section:
		for k, v := range s {
			section[k] = v
		}
	default:
		return nil, errors.New(errors.ErrInvalidInput, "invalid section \"core\": must contain subsection mappings").
			WithDetail("section", "core")
	}

	bareSub := map[string]any{}
	switch s := section[""].(type) {
	case nil:
	case map[string]any:
		for k, v := range s {
			bareSub[k] = v
		}
	case ini.Settings:
		for k, v := range s {
			bareSub[k] = v
		}
	default:
		return nil, errors.New(errors.ErrInvalidInput, "invalid settings for [core]: must be a mapping").
			WithDetail("section", "core")
	}

	for k, v := range settings {
		bareSub[k] = v
	}
	section[""] = bareSub
	return section, nil
}
