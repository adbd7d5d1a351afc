package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	slogcontext "github.com/veqryn/slog-context"
	"github.com/viant/buildprune"
	"github.com/viant/buildprune/config"
)

const (
	configFlag       = "config"
	sourceRootFlag   = "source-root"
	artifactRootFlag = "artifact-root"
	sourceExtFlag    = "source-ext"
	artifactExtFlag  = "artifact-ext"
	sentinelFlag     = "sentinel"
	namespaceFlag    = "namespace"
	separatorFlag    = "separator"
	parserFlag       = "parser"
	propagationFlag  = "propagation"
	excludeFlag      = "exclude"
	dryRunFlag       = "dry-run"
)

// New creates the buildprune command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buildprune [project-dir]",
		Short: "Remove compiled artifacts that are out of date relative to their sources",
		Long: `buildprune removes compiled artifacts (e.g. .class files) whose source file is gone or newer,
  and artifacts whose source imports an outdated unit. Defaults follow the Maven or Gradle
  layout of the project found at project-dir.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.Flags()
	flags.String(configFlag, "", "configuration file (.yaml, .yml, .json, .jsonc)")
	flags.StringArray(sourceRootFlag, nil, "source root directory (repeatable)")
	flags.StringArray(artifactRootFlag, nil, "artifact root directory (repeatable)")
	flags.String(sourceExtFlag, "", `source file extension (default ".java")`)
	flags.String(artifactExtFlag, "", `artifact file extension (default ".class")`)
	flags.StringArray(sentinelFlag, nil, "artifact root marker directory name (repeatable)")
	flags.String(namespaceFlag, "", `in-project import prefix, e.g. org.example., "none" accepts every import (default: project group id)`)
	flags.String(separatorFlag, "", `nested unit separator, "none" disables nesting (default "$")`)
	flags.String(parserFlag, "", "source parser: regex or treesitter (default regex)")
	flags.String(propagationFlag, "", "propagation: single or fixpoint (default single)")
	flags.StringArray(excludeFlag, nil, "doublestar glob of source or artifact paths to ignore (repeatable)")
	flags.Bool(dryRunFlag, false, "print outdated artifacts without removing them")
	RegisterLoggingFlags(cmd)
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := GetBaseLogger(cmd)
	if err != nil {
		return err
	}
	ctx := slogcontext.NewCtx(cmd.Context(), logger.With("run", uuid.NewString()))

	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}
	cfg := &config.Config{}
	if location, _ := cmd.Flags().GetString(configFlag); location != "" {
		if cfg, err = config.Load(ctx, location); err != nil {
			return err
		}
	}
	cfg.Merge(flagConfig(cmd.Flags()))
	if cmd.Flags().Changed(dryRunFlag) {
		cfg.DryRun, _ = cmd.Flags().GetBool(dryRunFlag)
	}
	if err = cfg.Resolve(ctx, projectDir); err != nil {
		return err
	}
	_, err = buildprune.New(cfg, cmd.OutOrStdout()).Run(ctx)
	return err
}

// flagConfig collects explicitly set flags as a configuration override
func flagConfig(flags *pflag.FlagSet) *config.Config {
	override := &config.Config{}
	override.Sources.Roots, _ = flags.GetStringArray(sourceRootFlag)
	override.Artifacts.Roots, _ = flags.GetStringArray(artifactRootFlag)
	override.Sources.Extension, _ = flags.GetString(sourceExtFlag)
	override.Artifacts.Extension, _ = flags.GetString(artifactExtFlag)
	override.Sentinels, _ = flags.GetStringArray(sentinelFlag)
	override.Namespace, _ = flags.GetString(namespaceFlag)
	override.Separator, _ = flags.GetString(separatorFlag)
	override.Parser, _ = flags.GetString(parserFlag)
	override.Propagation, _ = flags.GetString(propagationFlag)
	override.DryRun, _ = flags.GetBool(dryRunFlag)
	if excludes, _ := flags.GetStringArray(excludeFlag); len(excludes) > 0 {
		override.Sources.Exclude = excludes
		override.Artifacts.Exclude = excludes
	}
	return override
}
