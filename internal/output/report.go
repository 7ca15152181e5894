package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/torosent/legalpub/internal/config"
	"github.com/torosent/legalpub/internal/publish"
	"github.com/torosent/legalpub/internal/tags"
)

// PrintReport outputs a human-readable publish summary.
func PrintReport(w io.Writer, report publish.Report) {
	fmt.Fprintln(w, "\n--- Publish Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", report.RunID)
	if report.DryRun {
		fmt.Fprintln(w, "Mode:              dry run")
	}
	fmt.Fprintf(w, "Files:             %d\n", len(report.Files))
	fmt.Fprintf(w, "Failed:            %d\n", report.Failures())
	fmt.Fprintf(w, "Duration:          %s\n", report.Duration)

	if len(report.Files) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFile Breakdown:")
	for _, f := range report.Files {
		fmt.Fprintf(w, "  - %s: replacements=%d, uploaded=%t, stored=%t", f.Name, f.Replacements, f.Uploaded, f.Stored)
		if f.CID != "" {
			fmt.Fprintf(w, ", cid=%s", f.CID)
		}
		fmt.Fprintln(w)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "      error: %s\n", e)
		}
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, report publish.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, report publish.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// Write renders report in the requested format.
func Write(w io.Writer, format config.OutputFormat, report publish.Report) error {
	switch format {
	case config.OutputJSON:
		return PrintJSONReport(w, report)
	case config.OutputYAML:
		return PrintYAMLReport(w, report)
	case "", config.OutputText:
		PrintReport(w, report)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// PrintCollisions lists tags whose value contains another tag.
func PrintCollisions(w io.Writer, dict *tags.Dictionary, style tags.Style, collisions []tags.Collision) {
	fmt.Fprintf(w, "Tags:              %d (%s)\n", dict.Len(), style)
	if len(collisions) == 0 {
		fmt.Fprintln(w, "No collisions found")
		return
	}
	fmt.Fprintf(w, "Collisions:        %d\n", len(collisions))
	for _, c := range collisions {
		fmt.Fprintf(w, "  - %s contains %s\n", style.Tag(c.Key), style.Tag(c.Contains))
	}
}

// PrintIssues writes one issue per line.
func PrintIssues(w io.Writer, issues []string) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(w, strings.Join(issues, "\n"))
}
