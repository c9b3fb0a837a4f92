// Command report prints the sales KPIs of a workbook to the terminal and
// optionally exports the filtered table.
//
//	report -workbook ventas.xlsx -quarter Q1,Q2 -year 2025
//	report -table clients -year 2025 -out clientes.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salespulse/internal/app"
	"salespulse/internal/config"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/sales"
	"salespulse/internal/services"
	"salespulse/internal/validation"
	"salespulse/internal/workbook"
	"salespulse/pkg/contracts/domain"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("Report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type options struct {
	configPath string
	location   string
	variant    string
	table      string
	quarters   string
	months     string
	year       string
	clients    string
	out        string
	format     string
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "path to config.yaml")
	fs.StringVar(&o.location, "workbook", "", "workbook path or gsheets://<spreadsheet id> (defaults to the configured one)")
	fs.StringVar(&o.variant, "variant", "", "dashboard variant: targets or backlog")
	fs.StringVar(&o.table, "table", "sales", "table to report: sales or clients")
	fs.StringVar(&o.quarters, "quarter", "", "comma separated quarters, e.g. Q1,Q2")
	fs.StringVar(&o.months, "month", "", "comma separated month names")
	fs.StringVar(&o.year, "year", "", "year filter")
	fs.StringVar(&o.clients, "client", "", "comma separated client names (clients table)")
	fs.StringVar(&o.out, "out", "", "export file; relative paths go to the exports directory")
	fs.StringVar(&o.format, "format", "", "export format: csv or xlsx (defaults to the -out extension)")
	fs.BoolVar(&o.verbose, "v", false, "log at debug level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.table != "sales" && o.table != "clients" {
		return nil, fmt.Errorf("unknown table %q", o.table)
	}
	return o, nil
}

func split(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.location != "" {
		cfg.Workbook.Location = o.location
	}
	switch o.variant {
	case "":
	case config.VariantTargets, config.VariantBacklog:
		cfg.Dashboard.Variant = o.variant
	default:
		return fmt.Errorf("invalid dashboard variant: %q", o.variant)
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger, err := infrastructure.NewLogger(config.LoggingConfig{Level: level, Output: "console"}, os.Stderr)
	if err != nil {
		return err
	}

	paths := cfg.GetPaths()
	source, err := app.OpenWorkbook(ctx, cfg, paths, logger)
	if err != nil {
		return err
	}
	svc := services.NewDashboardService(cfg, workbook.NewLoader(source, nil, nil, logger), logger)

	if o.table == "clients" {
		return reportClients(ctx, svc, o, paths, logger, stdout)
	}
	return reportSales(ctx, svc, o, paths, logger, stdout)
}

func reportSales(ctx context.Context, svc *services.DashboardService, o *options, paths *config.Paths, logger *slog.Logger, stdout io.Writer) error {
	criteria := sales.PeriodCriteria{
		Quarters: split(o.quarters),
		Months:   split(o.months),
		Year:     strings.TrimSpace(o.year),
	}
	for i, q := range criteria.Quarters {
		criteria.Quarters[i] = sales.NormalizeQuarter(q)
	}

	summary, err := svc.Summary(ctx, criteria)
	if err != nil {
		return err
	}
	records, err := svc.Records(ctx, criteria)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.LatinAmericanSpanish)
	fmt.Fprintf(stdout, "%s (%s, hoja %s)\n\n", summary.Title, summary.Variant, summary.Sheet)
	writeKPIs(p, stdout, summary.KPIs)
	fmt.Fprintln(stdout)
	writeQuarters(p, stdout, summary.Quarters)
	fmt.Fprintln(stdout)
	writeRows(stdout, exporter.SalesHeaders, exporter.SalesRows(records.Records))

	if o.out == "" {
		return nil
	}
	return export(o, paths, logger, stdout, func(w io.Writer, f exporter.Format) error {
		return exporter.New(logger).Sales(w, f, records.Records)
	}, exporter.SalesHeaders, exporter.SalesRows(records.Records))
}

func reportClients(ctx context.Context, svc *services.DashboardService, o *options, paths *config.Paths, logger *slog.Logger, stdout io.Writer) error {
	q := services.ClientQuery{
		Clients: split(o.clients),
		Months:  split(o.months),
		Years:   split(o.year),
	}
	view, err := svc.ClientSales(ctx, q)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.LatinAmericanSpanish)
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Cliente\tVentas\t")
	for _, t := range view.Totals {
		fmt.Fprintf(tw, "%s\t%s\t\n", t.Client, amount(p, t.Amount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	writeRows(stdout, exporter.ClientHeaders, exporter.ClientRows(view.Rows))

	if o.out == "" {
		return nil
	}
	return export(o, paths, logger, stdout, func(w io.Writer, f exporter.Format) error {
		return exporter.New(logger).Clients(w, f, view.Rows)
	}, exporter.ClientHeaders, exporter.ClientRows(view.Rows))
}

// export writes the table to o.out. CSV goes through the CSV writer; other
// formats are rendered by write.
func export(o *options, paths *config.Paths, logger *slog.Logger, stdout io.Writer, write func(io.Writer, exporter.Format) error, headers []string, rows [][]string) error {
	format := o.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(o.out), ".")
	}
	f, err := exporter.ParseFormat(format)
	if err != nil {
		return err
	}

	path := o.out
	if !filepath.IsAbs(path) {
		path = paths.ExportPath(path)
	}
	if err := validation.NewFileValidator(logger).ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	if f == exporter.FormatCSV {
		if _, err := exporter.NewCSVWriter(paths).WriteSimpleCSV(path, headers, rows); err != nil {
			return err
		}
	} else {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		if err := write(file, f); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}

	logger.Info("Export written", slog.String("path", path), slog.String("format", string(f)))
	fmt.Fprintf(stdout, "\nExportado: %s\n", path)
	return nil
}

func amount(p *message.Printer, d decimal.Decimal) string {
	return p.Sprintf("%.2f", d.InexactFloat64())
}

func writeKPIs(p *message.Printer, w io.Writer, k domain.KPIs) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Meta\t%s\n", amount(p, k.TotalTarget))
	fmt.Fprintf(tw, "Facturado\t%s\n", amount(p, k.TotalBilled))
	fmt.Fprintf(tw, "GAP\t%s\n", amount(p, k.TotalGap))
	fmt.Fprintf(tw, "Avance\t%s %%\n", k.AttainmentPct.StringFixed(2))
	fmt.Fprintf(tw, "Periodos\t%d\n", k.Periods)
	tw.Flush()
}

func writeQuarters(p *message.Printer, w io.Writer, quarters []domain.QuarterTotal) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Trimestre\tMeta\tFacturado\tGAP\tAvance %\t")
	for _, q := range quarters {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			q.Quarter, amount(p, q.Target), amount(p, q.TotalBilled), amount(p, q.Gap), q.AttainmentPct.StringFixed(2))
	}
	tw.Flush()
}

func writeRows(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
