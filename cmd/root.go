package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipdoc/internal/batch"
	"github.com/fakeyudi/snipdoc/internal/config"
	"github.com/fakeyudi/snipdoc/internal/extract"
	"github.com/fakeyudi/snipdoc/internal/filespec"
	"github.com/fakeyudi/snipdoc/internal/gitref"
	"github.com/fakeyudi/snipdoc/internal/report"
	"github.com/fakeyudi/snipdoc/internal/sink"
)

// cfg holds the merged defaults, populated in PersistentPreRunE.
var cfg config.Config

var (
	outputPath string
	trackSize  bool
	sections   []string
	jobPath    string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "snipdoc [flags] <file-spec>...",
	Short: "Assemble file excerpts and git diffs into one markdown document",
	Long: `snipdoc collects whole files, line ranges and git diffs into a single
markdown document, one fenced block per file.

A file spec is a path with an optional selector:

  main.go             the whole file
  main.go:10-20,40-50 line ranges (1-based, inclusive; "10:20" also works)
  main.go:diff        changes against the configured base (default master)
  main.go:diff=A..B   changes between two refs (A...B also accepted)

Every spec is checked before anything is written. If one is invalid the
run fails and the output file is left untouched.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		project, err := config.LoadProject(wd)
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
	RunE: runAssemble,
}

func runAssemble(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	output := outputPath
	track := cfg.TrackSize != nil && *cfg.TrackSize
	if cmd.Flags().Changed("track-size") {
		track = trackSize
	}

	var plan batch.Plan
	if jobPath != "" {
		if len(args) > 0 {
			return errors.New("file specs cannot be combined with --config")
		}
		if len(sections) > 0 {
			return errors.New("--section cannot be combined with --config; set headers in the config document")
		}
		job, err := config.LoadJob(jobPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("output") {
			output = job.Output
		}
		if job.TrackSize != nil && !cmd.Flags().Changed("track-size") {
			track = *job.TrackSize
		}
		plan = batch.FromSections(job.Sections)
	} else {
		if len(args) == 0 {
			cmd.PrintErrln("Usage: " + cmd.UseLine())
			return batch.ErrNoFiles
		}
		plan = batch.FromArgs(args, sections)
	}

	var out sink.Sink
	if output != "" {
		out = sink.NewFile(output)
	} else {
		// Progress lines describe an output file; stdout gets the document only.
		out = sink.NewBuffered(cmd.OutOrStdout())
		track = false
	}

	errw := cmd.ErrOrStderr()
	asm := &batch.Assembler{
		Parser: filespec.Parser{DiffBase: cfg.DiffBase},
		Extractor: &extract.Extractor{
			WorkDir:   wd,
			Git:       &gitref.Validator{WorkDir: wd},
			Languages: cfg.Languages,
		},
		Sink:      out,
		Reporter:  report.New(errw, useColor(errw)),
		TrackSize: track,
	}
	_, err = asm.Run(cmd.Context(), plan)
	return err
}

// useColor reports whether diagnostics written to w should be styled.
func useColor(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged defaults for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&outputPath, "output", "o", "", "append to this file instead of writing to stdout")
	f.BoolVarP(&trackSize, "track-size", "t", false, "print per-file progress and a run summary (with --output)")
	f.StringArrayVarP(&sections, "section", "s", nil, "header for the next file spec (repeatable, Nth header goes before Nth spec)")
	f.StringVarP(&jobPath, "config", "c", "", "read sections and file specs from a JSON or YAML document")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}
