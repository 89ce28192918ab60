package cmd

import (
	"github.com/drengskapur/fbundle/pkg/bundle"
	"github.com/drengskapur/fbundle/pkg/logging"
	"github.com/drengskapur/fbundle/pkg/version"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const longDescription = `fbundle bundles multiple files into a single output file.

It recursively searches the source directory for files matching the given
glob patterns and writes each one to the output file, prefixed by the
separator and the file's path relative to the source directory.

Patterns are matched case-insensitively against relative paths and are
evaluated in order: the last pattern that matches a file decides whether it
is included. Prefix a pattern with '!' to exclude. Files that match no
pattern are left out.

Examples:
  fbundle -f '---' -g '*.txt'
  fbundle -s ./src -f '// FILE:' -g '**/*.rs' -g '!**/*_test.rs'
  fbundle -n my_bundle -f '===\n' -g '**/*.{js,ts}' -g '!**/node_modules/**'`

// NewRootCommand builds the fbundle command tree.
func NewRootCommand() *cobra.Command {
	args := &bundle.Arguments{}

	rootCmd := &cobra.Command{
		Use:           "fbundle -f <SEP> [-g <GLOB>]...",
		Short:         "fbundle combines files matching glob patterns into a single file",
		Long:          longDescription,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.Setup(args.Verbose, "fbundle", version.Get().Version)
			if err != nil {
				return err
			}
			logger.Debug("Parsed arguments", zap.Any("arguments", args))

			result, err := bundle.Run(args, logger)
			if err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Bundle created at: %s\n", result.OutputPath)
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&args.BundleName, "bundle-name", "n", bundle.DefaultBundleName, "Name of the output bundle file")
	flags.StringVarP(&args.SrcDir, "src-dir", "s", bundle.DefaultSrcDir, "Source directory to search for files")
	flags.StringVarP(&args.OutDir, "out-dir", "o", bundle.DefaultOutDir, "Directory the bundle file is written to")
	flags.StringVarP(&args.DstExt, "dst-ext", "e", bundle.DefaultDstExt, "File extension of the bundle file")
	flags.StringVarP(&args.Separator, "file-sep", "f", "", `Separator written before each file's path ('\n' becomes a newline)`)
	flags.StringArrayVarP(&args.Globs, "src-globs", "g", nil, "Glob pattern selecting files; repeatable, '!' prefix excludes (default \"**\")")
	flags.BoolVarP(&args.Verbose, "verbose", "v", false, "Enable verbose output")
	flags.IntVarP(&args.Jobs, "jobs", "j", 0, "Number of concurrent workers (0 = one per CPU)")
	flags.BoolVar(&args.Sequential, "sequential", false, "Process files one at a time in traversal order")
	flags.BoolVar(&args.RespectIgnoreFiles, "respect-ignore-files", false, "Honor .gitignore files and skip .git directories")
	flags.BoolVar(&args.SkipHidden, "skip-hidden", false, "Skip files and directories whose name starts with '.'")
	flags.BoolVar(&args.SkipInvalidGlobs, "skip-invalid-globs", false, "Warn about and ignore malformed glob patterns instead of failing")
	flags.IntVar(&args.MaxFileSizeKB, "max-size-kb", 0, "Skip files larger than this many KB (0 = no limit)")
	_ = rootCmd.MarkFlagRequired("file-sep")

	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
