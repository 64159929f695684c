package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"imbalance-report/internal/analysis"
	"imbalance-report/internal/config"
	"imbalance-report/internal/data"
	"imbalance-report/internal/logging"
	"imbalance-report/internal/model"
	"imbalance-report/internal/report"
	"imbalance-report/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "report":
		err = cmdReport(ctx, os.Args[2:])
	case "fetch":
		err = cmdFetch(ctx, os.Args[2:])
	case "rank":
		err = cmdRank(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli report --date 2023-10-24 [--to 2023-10-30] [--weekly] [--out output] [--formats txt,json,yaml,csv,png,svg]")
	fmt.Println("  cli report --data prices.json [--config config.yaml]")
	fmt.Println("  cli fetch --date 2023-10-24 [--to 2023-10-30] --out prices.json")
	fmt.Println("  cli rank --from 2023-10-01 --to 2023-10-31 [--limit 10]")
	fmt.Println("  cli rank --data prices/ [--limit 10]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --data, records are fetched from the BMRS system prices endpoint")
	fmt.Println("  - --data accepts comma-separated JSON paths or directories")
}

// setup loads config (defaults when path is empty) and installs the logger.
func setup(cfgPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newClient(cfg *config.Config, logger *slog.Logger) *data.BMRSClient {
	client := data.NewBMRSClient(cfg.Source.BaseURL, cfg.Source.Timeout)
	client.Logger = logger
	return client
}

// loadResponse reads --data paths when given, otherwise fetches from..to.
func loadResponse(ctx context.Context, cfg *config.Config, logger *slog.Logger, dataPaths, from, to string) (*model.SystemPricesResponse, error) {
	if dataPaths != "" {
		return data.LoadSystemPricesPaths(splitPaths(dataPaths))
	}
	if from == "" {
		return nil, fmt.Errorf("either --data or a start date is required")
	}
	return newClient(cfg, logger).FetchRange(ctx, from, to)
}

func cmdReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	date := fs.String("date", "", "Settlement date YYYY-MM-DD")
	to := fs.String("to", "", "Optional: last settlement date (inclusive)")
	dataPaths := fs.String("data", "", "Optional: saved system prices JSON instead of fetching")
	cfgPath := fs.String("config", "", "Optional: path to YAML config")
	weekly := fs.Bool("weekly", false, "Include the weekly cost trend")
	outDir := fs.String("out", "", "Output directory (default from config)")
	formats := fs.String("formats", "", "Comma-separated artifact formats (default from config)")
	_ = fs.Parse(args)

	cfg, logger, err := setup(*cfgPath)
	if err != nil {
		return err
	}

	resp, err := loadResponse(ctx, cfg, logger, *dataPaths, *date, *to)
	if err != nil {
		return err
	}
	intervals, err := model.ParseResponse(resp)
	if err != nil {
		return err
	}
	series := analysis.NewSeries(intervals)

	summary, err := report.Compose(series, *weekly || cfg.Report.IncludeWeeklyTrend)
	if err != nil {
		return err
	}

	settlementDate := *date
	if settlementDate == "" {
		start, _ := series.Window()
		settlementDate = start.Format("2006-01-02")
	}
	if cfg.Store.Path != "" {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.Save(ctx, settlementDate, summary)
		if err != nil {
			return err
		}
		logger.Info("report archived", slog.String("id", id), slog.String("path", cfg.Store.Path))
	}

	w := report.Writer{
		Dir:      cfg.Report.OutputDir,
		Formats:  cfg.Report.Formats,
		Currency: cfg.Report.CurrencySymbol,
	}
	if *outDir != "" {
		w.Dir = *outDir
	}
	if *formats != "" {
		w.Formats = splitPaths(*formats)
		for _, f := range w.Formats {
			if !report.ValidFormat(f) {
				return fmt.Errorf("unknown format %q", f)
			}
		}
	}
	written, err := w.Write(summary, series)
	if err != nil {
		return err
	}

	fmt.Print(report.FormatText(summary, w.Currency))
	fmt.Println("")
	for _, p := range written {
		fmt.Printf("Wrote %s\n", p)
	}
	return nil
}

func cmdFetch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	date := fs.String("date", "", "Settlement date YYYY-MM-DD")
	to := fs.String("to", "", "Optional: last settlement date (inclusive)")
	cfgPath := fs.String("config", "", "Optional: path to YAML config")
	outPath := fs.String("out", "", "Output JSON path")
	_ = fs.Parse(args)

	if *date == "" || *outPath == "" {
		return fmt.Errorf("--date and --out are required")
	}
	cfg, logger, err := setup(*cfgPath)
	if err != nil {
		return err
	}

	resp, err := newClient(cfg, logger).FetchRange(ctx, *date, *to)
	if err != nil {
		return err
	}
	if err := data.SaveSystemPricesJSON(resp, *outPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d records to %s\n", len(resp.Data), *outPath)
	return nil
}

func cmdRank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	from := fs.String("from", "", "First settlement date YYYY-MM-DD")
	to := fs.String("to", "", "Last settlement date YYYY-MM-DD (inclusive)")
	dataPaths := fs.String("data", "", "Optional: comma-separated JSON paths or a directory")
	cfgPath := fs.String("config", "", "Optional: path to YAML config")
	limit := fs.Int("limit", 10, "Number of days to show (0=all)")
	_ = fs.Parse(args)

	cfg, logger, err := setup(*cfgPath)
	if err != nil {
		return err
	}
	resp, err := loadResponse(ctx, cfg, logger, *dataPaths, *from, *to)
	if err != nil {
		return err
	}
	intervals, err := model.ParseResponse(resp)
	if err != nil {
		return err
	}
	ranked, err := analysis.RankDaysByCost(analysis.NewSeries(intervals))
	if err != nil {
		return err
	}
	if *limit > 0 && *limit < len(ranked) {
		ranked = ranked[:*limit]
	}

	fmt.Printf("%-4s %-12s %-14s\n", "rank", "date", "cost")
	for i, d := range ranked {
		fmt.Printf("%-4d %-12s %s%-14s\n", i+1, d.Date.Format("2006-01-02"), cfg.Report.CurrencySymbol, d.Cost.StringFixed(2))
	}
	return nil
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
