package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/discordkit/internal/config"
	"github.com/aleister1102/discordkit/internal/notifier"
	"github.com/aleister1102/discordkit/libs/collector"
	"github.com/aleister1102/discordkit/libs/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	customIDPrefix = "poll"

	actionVote    = "vote"
	actionRetract = "retract"
	actionEnd     = "end"

	reasonEnded    = "ended"
	reasonShutdown = "shutdown"

	requestTimeout = 10 * time.Second
)

// PollSettings is the part of the configuration a single poll uses.
type PollSettings struct {
	Choices     []string
	Duration    time.Duration
	Idle        time.Duration
	MaxVoters   int
	ResultColor string
}

type choiceCount struct {
	Choice string
	Votes  int
}

// Poll is one /poll invocation and the collector gathering its votes.
type Poll struct {
	ID       string
	Question string
	AuthorID string

	settings    PollSettings
	interaction *discordgo.Interaction
	notifier    notifier.Notifier
	logger      zerolog.Logger
	rows        []discord.ActionRow

	mu        sync.Mutex
	votes     map[string]string
	collector *collector.InteractionCollector
}

func newPoll(interaction *discordgo.Interaction, question string, settings PollSettings, n notifier.Notifier, logger zerolog.Logger) *Poll {
	id := uuid.NewString()
	return &Poll{
		ID:          id,
		Question:    question,
		AuthorID:    userID(interaction),
		settings:    settings,
		interaction: interaction,
		notifier:    n,
		logger:      logger.With().Str("poll_id", id).Logger(),
		votes:       make(map[string]string),
	}
}

func (p *Poll) customID(action string) string {
	return strings.Join([]string{customIDPrefix, p.ID, action}, ":")
}

func parseCustomID(customID string) (pollID, action string, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[1] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// message builds the poll announcement with its vote controls.
func (p *Poll) message() (discord.MessagePayload, error) {
	embed, err := discord.NewEmbedBuilder().
		WithTitle(p.Question).
		WithDescription(fmt.Sprintf("Pick an option below. Voting closes <t:%d:R>.", time.Now().Add(p.settings.Duration).Unix())).
		WithColorName("blurple").
		WithFooter(fmt.Sprintf("Poll %s", p.ID[:8]), "").
		WithTimestamp(time.Now()).
		Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}

	menu, err := discord.NewSelectMenuBuilder(p.customID(actionVote)).
		WithPlaceholder("Cast your vote").
		AddValues(p.settings.Choices...).
		Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}
	menuRow, err := discord.NewActionRowBuilder().WithSelectMenu(menu).Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}

	retract, err := discord.NewButtonBuilder().
		WithStyle(discordgo.SecondaryButton).
		WithLabel("Retract vote").
		WithCustomID(p.customID(actionRetract)).
		Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}
	end, err := discord.NewButtonBuilder().
		WithStyleName("danger").
		WithLabel("End poll").
		WithEmoji("🛑").
		WithCustomID(p.customID(actionEnd)).
		Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}
	buttonRow, err := discord.NewActionRowBuilder().AddButtons(retract, end).Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}

	p.rows = []discord.ActionRow{menuRow, buttonRow}
	return discord.NewMessagePayloadBuilder().
		AddEmbed(embed).
		AddComponents(p.rows...).
		WithAllowedMentions().
		Build()
}

// bind starts collecting component interactions on the reply to the
// poll's command interaction.
func (p *Poll) bind(client collector.Client) error {
	opts := collector.InteractionOptions{
		InteractionResponse: p.interaction,
		GuildID:             p.interaction.GuildID,
		InteractionType:     discordgo.InteractionMessageComponent,
	}
	opts.Time = p.settings.Duration
	opts.Idle = p.settings.Idle
	opts.Logger = &p.logger
	opts.Filter = func(i *discordgo.Interaction, _ []*discordgo.Interaction) (bool, error) {
		data := i.MessageComponentData()
		pollID, _, ok := parseCustomID(data.CustomID)
		return ok && pollID == p.ID, nil
	}
	if p.settings.MaxVoters > 0 {
		opts.MaxUsers = lo.ToPtr(p.settings.MaxVoters)
	}

	c, err := collector.NewInteractionCollector(client, opts)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.collector = c
	p.mu.Unlock()

	c.OnCollect(p.handleInteraction)
	c.OnEnd(p.finish)
	return nil
}

// Stop ends the poll early.
func (p *Poll) Stop(reason string) {
	p.mu.Lock()
	c := p.collector
	p.mu.Unlock()
	if c != nil {
		c.Stop(reason)
	}
}

// Done is closed once the poll's collector has ended.
func (p *Poll) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.collector == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return p.collector.Done()
}

// handleInteraction runs on the collector's notification goroutine, so the
// HTTP acknowledgements are sent from their own goroutines.
func (p *Poll) handleInteraction(i *discordgo.Interaction) {
	data := i.MessageComponentData()
	_, action, _ := parseCustomID(data.CustomID)
	voter := userID(i)

	switch action {
	case actionVote:
		if len(data.Values) > 0 {
			p.recordVote(voter, data.Values[0])
		}
	case actionRetract:
		p.retractVote(voter)
	case actionEnd:
		if voter != p.AuthorID {
			go p.replyEphemeral(i, "Only the poll author can end this poll.")
			return
		}
		go p.ack(i, voter)
		p.Stop(reasonEnded)
		return
	default:
		p.logger.Warn().Str("custom_id", data.CustomID).Msg("Unknown poll action")
	}

	go p.ack(i, voter)
}

func (p *Poll) ack(i *discordgo.Interaction, voter string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := p.notifier.DeferUpdate(ctx, i); err != nil {
		p.logger.Error().Err(err).Str("user_id", voter).Msg("Failed to acknowledge interaction")
	}
}

func (p *Poll) replyEphemeral(i *discordgo.Interaction, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	sendEphemeral(ctx, p.notifier, p.logger, i, content)
}

func (p *Poll) recordVote(voter, choice string) {
	if !lo.Contains(p.settings.Choices, choice) {
		p.logger.Warn().Str("choice", choice).Msg("Ignoring vote for unknown choice")
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.votes[voter] = choice
	p.logger.Debug().Str("user_id", voter).Str("choice", choice).Msg("Vote recorded")
}

func (p *Poll) retractVote(voter string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.votes, voter)
}

// results counts votes per choice in the order the choices were offered.
func (p *Poll) results() []choiceCount {
	p.mu.Lock()
	ballots := lo.Values(p.votes)
	p.mu.Unlock()

	return lo.Map(p.settings.Choices, func(choice string, _ int) choiceCount {
		return choiceCount{
			Choice: choice,
			Votes:  lo.CountBy(ballots, func(ballot string) bool { return ballot == choice }),
		}
	})
}

func (p *Poll) resultMessage(reason string) (discord.MessagePayload, error) {
	counts := p.results()
	total := lo.SumBy(counts, func(c choiceCount) int { return c.Votes })
	color := lo.Ternary(p.settings.ResultColor == "", config.DefaultPollResultColor, p.settings.ResultColor)

	builder := discord.NewEmbedBuilder().
		WithTitle(p.Question).
		WithDescription(fmt.Sprintf("Poll closed (%s) with %d vote(s).", reason, total)).
		WithColorName(color).
		WithFooter(fmt.Sprintf("Poll %s", p.ID[:8]), "").
		WithTimestamp(time.Now())
	for _, c := range counts {
		builder.AddField(c.Choice, formatVotes(c.Votes, total), true)
	}

	embed, err := builder.Build()
	if err != nil {
		return discord.MessagePayload{}, err
	}
	return discord.NewMessagePayloadBuilder().
		AddEmbed(embed).
		AddComponents(discord.DisableAll(p.rows)...).
		Build()
}

func (p *Poll) finish(collected []*discordgo.Interaction, reason string) {
	if reason == reasonFailed {
		return
	}
	logger := p.logger.With().Str("reason", reason).Int("interactions", len(collected)).Logger()

	payload, err := p.resultMessage(reason)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build poll results")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if _, err := p.notifier.EditOriginal(ctx, p.interaction, payload); err != nil {
		logger.Error().Err(err).Msg("Failed to publish poll results")
		return
	}
	logger.Info().Msg("Poll closed")
}

func formatVotes(votes, total int) string {
	if total == 0 {
		return "0 votes"
	}
	return fmt.Sprintf("%d vote(s) · %d%%", votes, votes*100/total)
}

func userID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
