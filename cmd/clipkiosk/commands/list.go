package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bryanchriswhite/clipkiosk/internal/media"
	"github.com/bryanchriswhite/clipkiosk/internal/menu"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List clips in the media directory",
	Long: `List the clips that would become menu buttons, in button order, with
the grid row and column each one is placed at.`,
	Example: `  # List clips in table format (default)
  clipkiosk list

  # List clips in JSON format
  clipkiosk list --format json`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table or json)")
}

type clipEntry struct {
	Index int    `json:"index"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Name  string `json:"name"`
	Path  string `json:"path"`
}

func runList(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sources, err := media.ScanSources(cfg.Media.Dir, cfg.Media.Extension, cfg.Video.Width, cfg.Video.Height, cfg.Video.FrameRate)
	if err != nil {
		return err
	}

	layout := menu.Layout{
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
		Rows:   cfg.Menu.Rows,
		Margin: cfg.Menu.Margin,
		Gap:    cfg.Menu.Gap,
	}
	grid := layout.Build(sources)

	entries := make([]clipEntry, len(grid.Buttons))
	for i, b := range grid.Buttons {
		entries[i] = clipEntry{
			Index: b.Index,
			Row:   b.Row,
			Col:   b.Col,
			Name:  b.Source.Name(),
			Path:  b.Source.Path,
		}
	}

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "table":
		return printClipsTable(entries, grid)
	default:
		return fmt.Errorf("unsupported format: %s (use 'table' or 'json')", listFormat)
	}
}

func printClipsTable(entries []clipEntry, grid menu.Grid) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tROW\tCOL\tNAME\tPATH")
	fmt.Fprintln(w, "-\t---\t---\t----\t----")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", e.Index, e.Row, e.Col, e.Name, e.Path)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal: %d clips in a %dx%d grid\n", len(entries), grid.Rows, grid.Cols)
	return nil
}
