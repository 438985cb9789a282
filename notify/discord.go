package notify

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// DiscordSink posts a one-line webhook message when a round completes and
// when the tournament finishes, reusing discordgo's webhook-execute call
// the way cmd/discordbot uses its interaction-response calls. Configured by
// a webhook URL (ID + token) rather than a bot token: no Session.Open is
// needed, since a webhook execute is a single authenticated POST.
type DiscordSink struct {
	session   *discordgo.Session
	webhookID string
	token     string
}

// NewDiscordSink builds a sink posting to the given webhook.
func NewDiscordSink(webhookID, webhookToken string) (*DiscordSink, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("notify.NewDiscordSink: %w", err)
	}
	return &DiscordSink{session: session, webhookID: webhookID, token: webhookToken}, nil
}

func (d *DiscordSink) post(content string) {
	_, err := d.session.WebhookExecute(d.webhookID, d.token, false, &discordgo.WebhookParams{
		Content: content,
	})
	if err != nil {
		log.Printf("notify.DiscordSink: webhook execute failed: %v", err)
	}
}

func (d *DiscordSink) RoundCompleted(round int, standingsTable string) {
	d.post(roundMessage(round, standingsTable))
}

func (d *DiscordSink) TournamentFinished(winner string, standingsTable string, elapsed int) {
	d.post(finishMessage(winner, standingsTable, elapsed))
}

func roundMessage(round int, standingsTable string) string {
	return fmt.Sprintf("Round %d complete.\n```\n%s\n```", round, standingsTable)
}

func finishMessage(winner, standingsTable string, elapsed int) string {
	if winner == "" {
		return fmt.Sprintf("Tournament finished in %ds.\n```\n%s\n```", elapsed, standingsTable)
	}
	return fmt.Sprintf("Tournament finished in %ds. Winner: %s\n```\n%s\n```", elapsed, winner, standingsTable)
}
