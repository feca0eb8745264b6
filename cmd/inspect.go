package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/snipdoc/internal/budget"
	"github.com/fakeyudi/snipdoc/internal/document"
)

var inspectJSON bool

// inspectReport is the --json shape of inspect.
type inspectReport struct {
	Path    string          `json:"path"`
	Size    int64           `json:"size"`
	Limit   int64           `json:"limit"`
	Percent float64         `json:"percent"`
	Level   string          `json:"level"`
	Units   []document.Unit `json:"units"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <document>",
	Short: "Show the size and contents of an assembled document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			return err
		}

		doc, err := document.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		r := inspectReport{
			Path:    path,
			Size:    doc.Size,
			Limit:   budget.HardLimit,
			Percent: budget.Percent(doc.Size),
			Level:   budget.Classify(doc.Size).String(),
			Units:   doc.Units,
		}
		if r.Units == nil {
			r.Units = []document.Unit{}
		}

		if inspectJSON {
			out, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Printf("Document: %s\n", r.Path)
		cmd.Printf("Size: %d bytes (%.1f%% of %d, %s)\n", r.Size, r.Percent, r.Limit, r.Level)
		cmd.Printf("Units: %d\n", len(r.Units))
		for i, u := range r.Units {
			if u.Section != "" {
				cmd.Printf("  ### %s\n", u.Section)
			}
			sel := ""
			if u.Selector != "" {
				sel = " (" + u.Selector + ")"
			}
			lang := u.Lang
			if lang == "" {
				lang = "-"
			}
			cmd.Printf("  %d. %s%s [%s] %d bytes\n", i+1, u.Path, sel, lang, u.Bytes)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(inspectCmd)
}
