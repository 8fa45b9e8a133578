// Package schedule re-runs a name search on a cron schedule, keeping the
// record store current and posting a summary after each activation.
package schedule

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"countyscan/internal/config"
	"countyscan/internal/domain"
	"countyscan/internal/notify"
	"countyscan/internal/scrape"
	"countyscan/internal/storage/sqlite"
)

// Searcher is the scrape surface the scheduler drives.
type Searcher interface {
	SearchByName(ctx context.Context, fullName string) ([]domain.Record, error)
}

type Scheduler struct {
	cfg      config.Config
	client   Searcher
	db       *sql.DB
	notifier *notify.Notifier
	sched    cron.Schedule
	expr     string
	now      func() time.Time
}

// ParseSchedule validates a standard 5-field cron expression
// (minute hour day-of-month month day-of-week).
// Examples: "0 6 * * *" (daily 6am), "0 6 * * 1-5" (weekdays 6am).
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser.Parse(strings.TrimSpace(expr))
}

func New(cfg config.Config, db *sql.DB, expr string) (*Scheduler, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		cfg:      cfg,
		client:   scrape.NewClient(cfg),
		db:       db,
		notifier: notify.New(cfg),
		sched:    sched,
		expr:     strings.TrimSpace(expr),
		now:      time.Now,
	}, nil
}

// Run blocks, firing RunOnce at each cron activation until ctx is done.
func (s *Scheduler) Run(ctx context.Context, names []string) error {
	log.Printf("schedule started cron=%q queries=%d", s.expr, len(names))
	for {
		now := s.now().In(s.cfg.Location)
		next := s.sched.Next(now)
		wait := next.Sub(now)
		log.Printf("schedule next run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		if err := s.RunOnce(ctx, names); err != nil {
			log.Printf("schedule run error: %v", err)
		}
	}
}

// RunOnce performs one scrape activation: search each name, store new
// records, audit the run, notify. Successive searches are spaced by the
// configured scrape delay.
func (s *Scheduler) RunOnce(ctx context.Context, names []string) error {
	startedAt := s.now().In(s.cfg.Location)
	fetched := 0
	inserted := 0

	for i, name := range names {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.ScrapeDelay()):
			}
		}

		records, err := s.client.SearchByName(ctx, name)
		if err != nil {
			return err
		}

		n, err := sqlite.InsertRecords(s.db, records)
		if err != nil {
			return err
		}
		if err := sqlite.InsertScrapeRun(s.db, name, startedAt, len(records), n); err != nil {
			log.Printf("schedule run audit insert error: %v", err)
		}
		fetched += len(records)
		inserted += n
	}

	query := strings.Join(names, ", ")
	log.Printf("schedule run done queries=%q fetched=%d new=%d", query, fetched, inserted)
	s.notifier.RunSummary(query, startedAt, fetched, inserted)
	return nil
}
