package cs01

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cs01/internal/version"
	"github.com/arthur-debert/cs01/pkg/config"
	"github.com/arthur-debert/cs01/pkg/core"
	"github.com/arthur-debert/cs01/pkg/errors"
	"github.com/arthur-debert/cs01/pkg/filesystem"
	"github.com/arthur-debert/cs01/pkg/logging"
	"github.com/arthur-debert/cs01/pkg/paths"
	"github.com/arthur-debert/cs01/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity  int
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:     "cs01",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	// Add all commands
	rootCmd.AddCommand(newInitCmd(loadConfig))
	rootCmd.AddCommand(newGenConfigCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func newInitCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		bare          bool
		initialBranch string
		dryRun        bool
		format        string
	)

	cmd := &cobra.Command{
		Use:     "init [path]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Args:    cobra.MaximumNArgs(1),
		Example: MsgInitExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Flags win over configuration
			if !cmd.Flags().Changed("bare") {
				bare = cfg.Init.Bare
			}
			if !cmd.Flags().Changed("initial-branch") {
				initialBranch = cfg.Init.DefaultBranch
			}
			dirPerms, err := cfg.Write.DirMode()
			if err != nil {
				return err
			}
			filePerms, err := cfg.Write.FileMode()
			if err != nil {
				return err
			}

			var target string
			if len(args) == 1 {
				target = args[0]
			}

			log.Info().
				Str("target", target).
				Bool("bare", bare).
				Str("branch", initialBranch).
				Bool("dryRun", dryRun).
				Msg("Initializing repository")

			result, err := core.InitRepository(core.InitOptions{
				Target:        target,
				Bare:          bare,
				InitialBranch: initialBranch,
				DryRun:        dryRun,
				Extra:         cfg.RepositoryConfig(),
				DirPerms:      dirPerms,
				FilePerms:     filePerms,
			})
			if err != nil {
				return err
			}

			renderer, err := ui.NewRenderer(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, MsgFlagBare)
	cmd.Flags().StringVarP(&initialBranch, "initial-branch", "b", "", MsgFlagInitialBranch)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)

	return cmd
}

func newGenConfigCmd(configPath *string) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent(nil)
			if err != nil {
				return err
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			path := *configPath
			if path == "" {
				path = paths.UserConfigPath()
			}
			if err := writeConfigFile(path, content); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)

	return cmd
}

// writeConfigFile writes content to path unless a file is already there.
func writeConfigFile(path, content string) error {
	fsys := filesystem.NewOS()

	if _, err := fsys.Stat(path); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "config file %s already exists", path).WithPath(path)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).WithPath(path)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(path)).WithPath(path)
	}
	if err := fsys.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).WithPath(path)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man [dir]",
		Short:   MsgManShort,
		Args:    cobra.MaximumNArgs(1),
		GroupID: "misc",
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).WithPath(dir)
			}
			return doc.GenManTree(cmd.Root(), ManHeader(), dir)
		},
	}
}

// ManHeader is shared by the man command and cmd/cs01-manpage.
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "CS01",
		Section: "1",
		Source:  "cs01 " + version.Version,
		Manual:  "cs01 manual",
	}
}
