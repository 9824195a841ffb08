// Command ward-report prints the flood-risk ward table to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/mr1hm/ward-risk-dashboard/internal/config"
	"github.com/mr1hm/ward-risk-dashboard/internal/floodapi"
	"github.com/mr1hm/ward-risk-dashboard/internal/logging"
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

type report struct {
	Summary    models.RiskSummary
	Prediction models.Prediction
	Wards      []models.Ward
	Priority   []models.Ward
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	sortKey := flag.String("sort", string(wardstore.SortByRiskScore), "column to sort by")
	order := flag.String("order", string(wardstore.Desc), "asc or desc")
	top := flag.Int("top", cfg.Dashboard.PriorityCount, "size of the priority list")
	baseURL := flag.String("base-url", cfg.Upstream.BaseURL, "flood-risk backend URL")
	hours := flag.Int("hours", cfg.Dashboard.PredictionHours, "prediction window in hours")
	locale := flag.String("locale", cfg.Dashboard.Locale, "collation locale for text columns")
	flag.Parse()

	key, err := wardstore.ParseSortKey(*sortKey)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	ord, err := wardstore.ParseOrder(*order)
	if err != nil {
		logging.Fatalf("%v", err)
	}
	tag, err := language.Parse(*locale)
	if err != nil {
		logging.Fatalf("invalid locale %q: %v", *locale, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := floodapi.New(*baseURL, cfg.Upstream.Timeout)
	rep, err := fetch(ctx, client, *hours, *top)
	if err != nil {
		logging.Fatalf("Failed to load dashboard data: %v", err)
	}

	rep.Wards, err = wardstore.NewSorter(tag).Sort(rep.Wards, key, ord)
	if err != nil {
		logging.Fatalf("%v", err)
	}

	slog.Debug("report loaded", "upstream", client.BaseURL(), "wards", len(rep.Wards), "sort", key, "order", ord)

	if err := write(os.Stdout, rep); err != nil {
		logging.Fatalf("write report: %v", err)
	}
}

type source interface {
	RiskSummary(ctx context.Context) (models.RiskSummary, error)
	Overview(ctx context.Context) (models.Overview, error)
	Prediction(ctx context.Context, hours int) (models.Prediction, error)
}

// fetch fails as soon as any read fails; a partial report is not useful here.
func fetch(ctx context.Context, src source, hours, top int) (report, error) {
	var rep report
	var overview models.Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rep.Summary, err = src.RiskSummary(ctx)
		return err
	})
	g.Go(func() (err error) {
		overview, err = src.Overview(ctx)
		return err
	})
	g.Go(func() (err error) {
		rep.Prediction, err = src.Prediction(ctx, hours)
		return err
	})
	if err := g.Wait(); err != nil {
		return report{}, err
	}

	if err := wardstore.Validate(overview.Wards); err != nil {
		return report{}, err
	}
	rep.Wards = overview.Wards
	rep.Priority = wardstore.PriorityList(overview, top)
	return rep, nil
}

func write(w io.Writer, rep report) error {
	fmt.Fprintf(w, "Total wards: %d  High risk: %d  Medium risk: %d  Active complaints: %d  Predicted floods (%dh): %d\n\n",
		rep.Summary.TotalWards, rep.Summary.HighRiskCount, rep.Summary.MediumRiskCount,
		wardstore.TotalActiveComplaints(rep.Wards), rep.Prediction.Hours, rep.Prediction.PredictedFloods)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tZONE\tRISK\tLEVEL\tDRAINAGE\tCOMPLAINTS")
	for _, ward := range rep.Wards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%d%%\t%d\n",
			ward.ID, ward.Name, ward.Zone, ward.RiskScore,
			wardstore.LevelBand(ward).Label(), ward.DrainageCapacity, ward.ActiveComplaints)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rep.Priority) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nPriority wards:")
	for i, ward := range rep.Priority {
		fmt.Fprintf(w, "%d. %s (%s) %.1f\n", i+1, ward.Name, ward.ID, ward.RiskScore)
	}
	return nil
}
