// Package notify posts scrape-run summaries to Slack. Notification is
// optional: without a bot token and channel configured every call is a
// logged no-op.
package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/slack-go/slack"

	"countyscan/internal/config"
)

type Notifier struct {
	api     *slack.Client
	channel string
}

// New returns a Notifier, or nil when Slack is not configured. A nil
// Notifier is safe to use.
func New(cfg config.Config) *Notifier {
	if !cfg.SlackConfigured() {
		log.Printf("notify slack not configured, run summaries will only be logged")
		return nil
	}
	return &Notifier{
		api:     slack.New(cfg.SlackBotToken),
		channel: cfg.SlackChannelID,
	}
}

// RunSummary posts a scrape-run summary to the configured channel.
func (n *Notifier) RunSummary(query string, startedAt time.Time, fetched, inserted int) {
	summary := FormatRunSummary(query, startedAt, fetched, inserted)
	if n == nil {
		log.Printf("notify (slack disabled): %s", summary)
		return
	}
	_, _, err := n.api.PostMessage(n.channel, slack.MsgOptionText(summary, false))
	if err != nil {
		log.Printf("notify post error channel=%s: %v", n.channel, err)
		return
	}
	log.Printf("notify posted run summary channel=%s", n.channel)
}

// FormatRunSummary builds the one-line summary posted after each run.
func FormatRunSummary(query string, startedAt time.Time, fetched, inserted int) string {
	return fmt.Sprintf("Records scrape complete: query=%q fetched=%d new=%d (started %s)",
		query, fetched, inserted, startedAt.Format("2006-01-02 15:04 MST"))
}
