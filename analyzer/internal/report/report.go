package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/obsidianstack/sensorscan/analyzer/internal/config"
	"github.com/obsidianstack/sensorscan/pkg/types"
)

// Write renders rep to w in format. Event detail is dropped unless events is set.
func Write(w io.Writer, rep *types.Report, format string, events bool) error {
	out := *rep
	if !events {
		out.Events = nil
	}

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&out); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
		return nil

	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&out); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		return nil

	case config.FormatText, "":
		return writeText(w, &out)

	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

func writeText(w io.Writer, rep *types.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "readings\t%d\n", rep.Readings)
	for _, kind := range types.Kinds {
		fmt.Fprintf(tw, "%s_count\t%d\n", kind, rep.Count(kind))
	}
	if len(rep.Events) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "TYPE\tSTART\tEND\tTIMESTAMP\tPEAK")
		for _, ev := range rep.Events {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%g\t%.3f\n", ev.Kind, ev.Start, ev.End, ev.Timestamp, ev.Peak)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("report: write text: %w", err)
	}
	return nil
}
