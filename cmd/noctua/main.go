// Command noctua loads a pre-built AST fixture, runs the semantic core
// over it, and either reports diagnostics or re-emits source, grounded on
// the teacher's cmd/morfx/main.go (flag-driven Runner) and demo/cmd/main.go
// (cobra command tree with subcommands).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/noctua/internal/cli"
	"github.com/oxhq/noctua/internal/config"
	"github.com/oxhq/noctua/internal/render"
	"github.com/oxhq/noctua/internal/store"
)

func main() {
	if err := newRootCmd(config.LoadConfig()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree against cfg, kept separate from main
// so tests can exercise it without an os.Exit in the way — the same split
// the teacher draws between buildConfigFromFlags and main.
func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		pattern    string
		outDir     string
		dryRun     bool
		verbose    bool
		jsonOutput bool
		stdoutMode bool
		showDiff   bool
		noBody     bool
		noComments bool
		docOnly    bool
		withIDs    bool
		cacheDB    string
	)

	rootCmd := &cobra.Command{
		Use:   "noctua",
		Short: "Semantic core and renderer for a toy systems language",
		Long:  "noctua runs type checking, overload resolution, and source rendering over pre-built AST fixtures.",
	}
	rootCmd.PersistentFlags().StringVar(&cacheDB, "cache-db", cfg.CacheDBPath, "path to the generic-instantiation and diagnostics cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", cfg.Verbose, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", cfg.JSONOutput, "output results as JSON")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [root]",
		Short: "Run semantic analysis over every fixture under root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			db, err := store.Open(cacheDB, false)
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}

			r := &cli.Runner{
				DryRun:      dryRun,
				Verbose:     verbose,
				JSONOutput:  jsonOutput,
				StdoutMode:  stdoutMode,
				RenderWidth: cfg.RenderWidth,
				OutDir:      outDir,
				Store:       store.New(db),
			}
			_, code := r.Analyze(root, pattern)
			if code != 0 {
				return fmt.Errorf("analysis failed for one or more fixtures under %s", root)
			}
			return nil
		},
	}
	analyzeCmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern for fixture discovery (default **/*.nunit.json)")
	analyzeCmd.Flags().StringVar(&outDir, "out", "", "if set, write rendered output alongside each fixture")
	analyzeCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "analyze without writing rendered output")
	analyzeCmd.Flags().BoolVarP(&stdoutMode, "stdout", "s", false, "print rendered output to stdout")

	renderCmd := &cobra.Command{
		Use:   "render <fixture>",
		Short: "Render a single analyzed fixture to source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := render.FlagNone
			if noBody {
				flags |= render.FlagNoBody
			}
			if noComments {
				flags |= render.FlagNoComments
			}
			if docOnly {
				flags |= render.FlagDocComments
			}
			if withIDs {
				flags |= render.FlagIDs
			}

			r := &cli.Runner{Verbose: verbose, JSONOutput: jsonOutput, ShowDiff: showDiff, RenderWidth: cfg.RenderWidth}
			return r.Render(args[0], flags, os.Stdout)
		},
	}
	renderCmd.Flags().BoolVar(&noBody, "no-body", false, "suppress procedure/method/iterator bodies")
	renderCmd.Flags().BoolVar(&noComments, "no-comments", false, "suppress all comments")
	renderCmd.Flags().BoolVar(&docOnly, "doc-comments", false, "keep only doc (##) comments")
	renderCmd.Flags().BoolVar(&withIDs, "ids", false, "append [symbolID] after symbol references")
	renderCmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff against the fixture's own text, if present")

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the generic-instantiation and diagnostics cache",
	}
	cacheInspectCmd := &cobra.Command{
		Use:   "inspect <run-id>",
		Short: "Print every diagnostic recorded for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(cacheDB, false)
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}
			records, err := store.New(db).RunDiagnostics(args[0])
			if err != nil {
				return err
			}
			for _, rec := range records {
				fmt.Printf("%s:%d:%d: %s: %s (%s)\n", rec.File, rec.Line, rec.Col, rec.Severity, rec.Detail, rec.Kind)
			}
			return nil
		},
	}
	cacheCmd.AddCommand(cacheInspectCmd)

	rootCmd.AddCommand(analyzeCmd, renderCmd, cacheCmd)
	return rootCmd
}
