// Package main is the vizkit command line: it renders YAML dashboards to
// SVG or PNG, aggregates datasets and inspects schemas.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spektr-org/vizkit"
	"github.com/spektr-org/vizkit/chart"
	"github.com/spektr-org/vizkit/engine"
	"github.com/spektr-org/vizkit/helpers"
	"github.com/spektr-org/vizkit/render"
	"github.com/spektr-org/vizkit/schema"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "vizkit",
		Short:        "Render data-visualization dashboards",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			vizkit.SetLogger(logger)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log join and scale details")
	root.AddCommand(newRenderCmd(), newAggregateCmd(), newInspectCmd(), newVersionCmd())
	return root
}

// ============================================================================
// RENDER
// ============================================================================

func newRenderCmd() *cobra.Command {
	var (
		outDir string
		format string
		scale  float64
		font   string
		only   []string
	)
	cmd := &cobra.Command{
		Use:   "render [dashboard.yaml]",
		Short: "Render every widget of a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "svg" && format != "png" {
				return fmt.Errorf("invalid format: %s (must be svg or png)", format)
			}
			d, err := LoadDashboard(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			var pngOpts []render.PNGOption
			if scale > 0 {
				pngOpts = append(pngOpts, render.WithScale(scale))
			}
			if font != "" {
				pngOpts = append(pngOpts, render.WithFont(font, 12))
			}
			return renderDashboard(cmd.Context(), d, outDir, format, only, pngOpts)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg, png")
	cmd.Flags().Float64Var(&scale, "scale", 0, "PNG pixel scale")
	cmd.Flags().StringVar(&font, "font", "", "TrueType font for PNG text")
	cmd.Flags().StringSliceVar(&only, "widget", nil, "Render only the named widgets")
	return cmd
}

func renderDashboard(ctx context.Context, d *Dashboard, outDir, format string, only []string, pngOpts []render.PNGOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := helpers.NewReader()
	for _, w := range d.Widgets {
		if len(only) > 0 && !contains(only, w.Name) {
			continue
		}
		c, err := Build(ctx, r, w)
		if err != nil {
			return fmt.Errorf("widget %s: %w", w.Name, err)
		}
		if w.At != nil {
			c.Frame(*w.At)
		} else {
			chart.Settle(c)
		}

		var buf bytes.Buffer
		if err := paint(&buf, c, format, pngOpts); err != nil {
			return fmt.Errorf("widget %s: %w", w.Name, err)
		}
		path := filepath.Join(outDir, w.Name+"."+format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("rendered", "widget", w.Name, "type", w.Type, "path", path, "nodes", c.Root().Count())
	}
	return nil
}

func paint(w io.Writer, c chart.Widget, format string, pngOpts []render.PNGOption) error {
	width, height := c.Size()
	if format == "png" {
		return render.PNG(w, c.Root(), int(width), int(height), pngOpts...)
	}
	return render.SVG(w, c.Root(), int(width), int(height))
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// ============================================================================
// AGGREGATE
// ============================================================================

func newAggregateCmd() *cobra.Command {
	var (
		schemaName  string
		groupBy     []string
		measure     string
		aggregation string
		sortBy      string
		limit       int
		rangeFlag   string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "aggregate [data-uri]",
		Short: "Group a dataset and print one value per group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := Widget{Name: "aggregate", Schema: schemaName}
			sch, err := w.schema()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ds, err := helpers.Load(ctx, args[0], sch)
			if err != nil {
				return err
			}
			view := ds.View()
			if rangeFlag != "" {
				start, end, ok := strings.Cut(rangeFlag, "-")
				if !ok {
					return fmt.Errorf("invalid range: %s (want DD/MM/YYYY-DD/MM/YYYY)", rangeFlag)
				}
				w.Range = &Range{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
				rng, err := w.dateRange()
				if err != nil {
					return err
				}
				view = engine.FilterDateRange(view, ds.Schema.DateDimension(), rng)
			}
			if measure == "" {
				measure = ds.Schema.GetDefaultMeasure()
			}
			groups := engine.GroupAndAggregate(view, groupBy, measure, aggregation, sortBy, limit, ds.Schema.EngineOptions()...)
			return writeGroups(cmd.OutOrStdout(), groups, asJSON)
		},
	}
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Builtin schema name or schema file (inferred when empty)")
	cmd.Flags().StringSliceVarP(&groupBy, "group-by", "g", nil, "Dimensions to group by")
	cmd.Flags().StringVarP(&measure, "measure", "m", "", "Measure to aggregate")
	cmd.Flags().StringVarP(&aggregation, "agg", "a", "sum", "Aggregation: sum, avg, min, max, count")
	cmd.Flags().StringVar(&sortBy, "sort", "value_desc", "Sort: value_desc, value_asc, chronological, label_asc, ...")
	cmd.Flags().IntVar(&limit, "limit", 0, "Keep the first N groups")
	cmd.Flags().StringVar(&rangeFlag, "range", "", "Inclusive date range DD/MM/YYYY-DD/MM/YYYY")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func writeGroups(w io.Writer, groups []engine.Group, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tVALUE\tCOUNT")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", g.Label, chart.Commas(g.Value), g.Count)
		for _, sg := range g.SubGroups {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", sg.Label, chart.Commas(sg.Value), sg.Count)
		}
	}
	return tw.Flush()
}

// ============================================================================
// INSPECT
// ============================================================================

func newInspectCmd() *cobra.Command {
	var schemaName string
	cmd := &cobra.Command{
		Use:   "inspect [data-uri]",
		Short: "Print the schema of a dataset, or of a builtin with --schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if schemaName == "" {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(schema.BuiltinNames(), "\n"))
					return nil
				}
				sch, err := schema.Builtin(schemaName)
				if err != nil {
					return err
				}
				return writeSchema(cmd.OutOrStdout(), sch)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			data, err := helpers.ReadData(ctx, args[0])
			if err != nil {
				return err
			}
			ds, err := helpers.Decode(helpers.FormatOf(args[0]), data, nil)
			if err != nil {
				return err
			}
			logger.Info("inspected", "uri", args[0], "records", len(ds.Records), "fingerprint", fmt.Sprintf("%016x", ds.Fingerprint))
			return writeSchema(cmd.OutOrStdout(), ds.Schema)
		},
	}
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Builtin schema to print")
	return cmd
}

func writeSchema(w io.Writer, sch *schema.Config) error {
	data, err := schema.Marshal(sch)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ============================================================================
// VERSION
// ============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vizkit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vizkit %s\n", vizkit.Version)
		},
	}
}
