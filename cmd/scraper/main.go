package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/greenur/plantbasics/internal/app"
	"github.com/greenur/plantbasics/internal/jobs/scrape"
)

type idList []int64

func (l *idList) String() string {
	parts := make([]string, 0, len(*l))
	for _, id := range *l {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid plant id %q", part)
		}
		*l = append(*l, id)
	}
	return nil
}

func main() {
	var ids idList
	var catalogPath, explain, schedule string
	var force, dryRun bool
	var delay time.Duration
	flag.StringVar(&catalogPath, "catalog", "", "YAML catalog file (defaults to PLANT_CATALOG_FILE, then the built-in catalog)")
	flag.Var(&ids, "id", "catalog id to process (repeatable)")
	flag.BoolVar(&force, "force", false, "reprocess plants that are already stored")
	flag.BoolVar(&dryRun, "dry-run", false, "enrich without writing to the database")
	flag.DurationVar(&delay, "delay", -1, "pause between plants (defaults to SCRAPE_DELAY_MS, then 2s)")
	flag.StringVar(&explain, "explain", "", "print every resolution and classification signal for one common name and exit")
	flag.StringVar(&schedule, "schedule", os.Getenv("SCRAPE_SCHEDULE"), "cron spec (e.g. @weekly) to keep running and rescrape on a schedule")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appOpts := app.Options{ServiceName: "plantbasics-scraper", WithDB: explain == ""}
	if delay >= 0 {
		appOpts.Pacer = scrape.FixedDelay(delay)
	}
	application, err := app.New(ctx, appOpts)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if explain != "" {
		printJSON(application.Pipeline.Explain(ctx, explain))
		return
	}

	catalog, err := application.Catalog(catalogPath)
	if err != nil {
		application.Log.Error("load catalog failed", "error", err)
		application.Close()
		os.Exit(1)
	}

	opts := scrape.Options{
		Catalog: catalog,
		IDs:     ids,
		Force:   force,
		DryRun:  dryRun,
	}
	if schedule != "" {
		sched, err := scrape.NewScheduler(application.Log, schedule, func(ctx context.Context) {
			if _, err := application.Runner.Run(ctx, opts); err != nil {
				application.Log.Error("scheduled scrape failed", "error", err)
			}
			application.PushMetrics(context.Background(), "plantbasics_scraper")
		})
		if err != nil {
			application.Log.Error("invalid schedule", "error", err)
			application.Close()
			os.Exit(1)
		}
		sched.Run(ctx)
		return
	}

	report, err := application.Runner.Run(ctx, opts)
	application.PushMetrics(context.Background(), "plantbasics_scraper")
	if err != nil {
		application.Log.Error("scrape run failed", "error", err)
		application.Close()
		os.Exit(1)
	}
	if dryRun {
		printJSON(report.Records)
	}
	fmt.Printf("added=%d updated=%d failed=%d unresolved=%d\n", report.Added, report.Updated, report.Failed, report.Unresolved)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
