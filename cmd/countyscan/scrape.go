package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"countyscan/internal/domain"
	"countyscan/internal/notify"
	"countyscan/internal/schedule"
	"countyscan/internal/scrape"
	"countyscan/internal/storage/sqlite"
)

var (
	scrapeNames    []string
	scrapeOutput   string
	scrapeSchedule string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Search Seminole County official records by name",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().StringArrayVar(&scrapeNames, "name", nil, "full name to search, e.g. \"SMITH JOHN\" (repeatable, required)")
	scrapeCmd.Flags().StringVar(&scrapeOutput, "output", "seminole_records.json", "path for the JSON records file")
	scrapeCmd.Flags().StringVar(&scrapeSchedule, "schedule", "", "cron expression for recurring scrapes, e.g. \"0 6 * * *\"")
	scrapeCmd.MarkFlagRequired("name")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := sqlite.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening record store %s: %w", cfg.DBPath, err)
	}
	defer db.Close()

	if scrapeSchedule != "" {
		scheduler, err := schedule.New(cfg, db, scrapeSchedule)
		if err != nil {
			return fmt.Errorf("invalid --schedule %q: %w", scrapeSchedule, err)
		}
		return scheduler.Run(ctx, scrapeNames)
	}

	startedAt := time.Now().In(cfg.Location)
	client := scrape.NewClient(cfg)

	var records []domain.Record
	inserted := 0
	for i, name := range scrapeNames {
		if i > 0 {
			time.Sleep(cfg.ScrapeDelay())
		}

		found, err := client.SearchByName(ctx, name)
		if err != nil {
			return fmt.Errorf("searching %q: %w", name, err)
		}
		log.Printf("scrape query=%q fetched=%d", name, len(found))

		n, err := sqlite.InsertRecords(db, found)
		if err != nil {
			return fmt.Errorf("storing records: %w", err)
		}
		if err := sqlite.InsertScrapeRun(db, name, startedAt, len(found), n); err != nil {
			log.Printf("scrape run audit insert error: %v", err)
		}
		records = append(records, found...)
		inserted += n
	}
	log.Printf("scrape stored new=%d of %d", inserted, len(records))

	notify.New(cfg).RunSummary(strings.Join(scrapeNames, ", "), startedAt, len(records), inserted)

	if records == nil {
		records = []domain.Record{}
	}
	return writeJSONFile(scrapeOutput, records)
}
