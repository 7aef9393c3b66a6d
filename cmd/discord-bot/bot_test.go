package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aleister1102/discordkit/internal/config"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(t *testing.T, cfg *config.Config) (*Bot, *fakeNotifier, *fakeClient) {
	t.Helper()
	n := &fakeNotifier{}
	client := newFakeClient()
	return newBot(staticConfig{cfg: cfg}, n, client, zerolog.Nop()), n, client
}

func startTestPoll(t *testing.T, bot *Bot) *Poll {
	t.Helper()
	poll, err := bot.startPoll(context.Background(), pollCommand("Lunch?", 0), pollRequest{Question: "Lunch?"})
	require.NoError(t, err)
	return poll
}

func TestParsePollOptions(t *testing.T) {
	cmd := pollCommand("Lunch?", 5)
	req, err := parsePollOptions(cmd.ApplicationCommandData().Options)
	require.NoError(t, err)
	assert.Equal(t, "Lunch?", req.Question)
	assert.Equal(t, 5*time.Minute, req.Duration)

	_, err = parsePollOptions(nil)
	assert.Error(t, err)
}

func TestPollSettings(t *testing.T) {
	cfg := config.NewDefaultPollConfig()
	cfg.DefaultDuration = 2 * time.Minute
	cfg.MaxDuration = 10 * time.Minute

	tests := []struct {
		name      string
		requested time.Duration
		want      time.Duration
	}{
		{name: "default", requested: 0, want: 2 * time.Minute},
		{name: "requested", requested: 5 * time.Minute, want: 5 * time.Minute},
		{name: "capped", requested: time.Hour, want: 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pollSettings(cfg, tt.requested).Duration)
		})
	}
}

func TestBot_HandleCommandStartsPoll(t *testing.T) {
	bot, n, client := newTestBot(t, testConfig())

	bot.handleCommand(context.Background(), pollCommand("Lunch?", 3))

	responses := n.callsTo("Respond")
	require.Len(t, responses, 1)
	assert.Len(t, responses[0].payload.Components, 2)
	assert.Len(t, bot.activePolls(), 1)
	assert.Equal(t, 6, client.handlerCount(), "interaction, message, channel and guild handlers")
}

func TestBot_IgnoresComponentInteractions(t *testing.T) {
	bot, n, _ := newTestBot(t, testConfig())

	bot.handleCommand(context.Background(), componentClick("c1", "u1", "poll:x:vote", "Yes"))
	assert.Empty(t, n.callsTo("Respond"))
}

func TestBot_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.CommandsPerMinute = 1
	cfg.RateLimit.BurstLimit = 1
	bot, n, _ := newTestBot(t, cfg)

	bot.handleCommand(context.Background(), pollCommand("First?", 0))
	bot.handleCommand(context.Background(), pollCommand("Second?", 0))

	responses := n.callsTo("Respond")
	require.Len(t, responses, 2)
	assert.Contains(t, responses[1].payload.Content, "Rate limit exceeded")
	assert.Equal(t, discordgo.MessageFlagsEphemeral, responses[1].payload.Flags)
	assert.Len(t, bot.activePolls(), 1)
}

func TestBot_ApplyConfigUpdatesRateLimit(t *testing.T) {
	bot, _, _ := newTestBot(t, testConfig())

	cfg := testConfig()
	cfg.RateLimit.BurstLimit = 42
	bot.ApplyConfig(cfg)

	assert.Equal(t, 42, bot.rateLimiter.Burst())
}

func TestBot_VotesAndEnd(t *testing.T) {
	bot, n, client := newTestBot(t, testConfig())
	poll := startTestPoll(t, bot)

	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c1", "u1", poll.customID(actionVote), "Yes")})
	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c2", "u2", poll.customID(actionVote), "No")})
	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c3", "u2", poll.customID(actionRetract))})
	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c4", "u3", "poll:someone-else:vote", "Yes")})
	require.Eventually(t, func() bool { return len(n.callsTo("DeferUpdate")) == 3 }, time.Second, 5*time.Millisecond)

	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c5", "u1", poll.customID(actionEnd))})
	require.Eventually(t, func() bool { return len(n.callsTo("Respond")) == 2 }, time.Second, 5*time.Millisecond)
	responses := n.callsTo("Respond")
	assert.Contains(t, responses[1].payload.Content, "Only the poll author")

	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c6", "author", poll.customID(actionEnd))})

	select {
	case <-poll.Done():
	case <-time.After(time.Second):
		t.Fatal("poll did not end")
	}
	assert.Eventually(t, func() bool { return len(bot.activePolls()) == 0 }, time.Second, 5*time.Millisecond)

	edits := n.callsTo("EditOriginal")
	require.Len(t, edits, 1)
	assert.Equal(t, "cmd-1", edits[0].interaction.ID)
	embed := edits[0].payload.Embeds[0]
	assert.Contains(t, embed.Description, reasonEnded)
	assert.Equal(t, "1 vote(s) · 100%", embed.Fields[0].Value)
	assert.Equal(t, "0 vote(s) · 0%", embed.Fields[1].Value)
	assert.Equal(t, 0, client.handlerCount())
	assert.Eventually(t, func() bool { return len(n.callsTo("DeferUpdate")) == 4 }, time.Second, 5*time.Millisecond)
	for _, call := range n.callsTo("DeferUpdate") {
		assert.NotEqual(t, "c4", call.interaction.ID, "foreign polls are not acknowledged")
	}
}

func TestBot_SlowAcknowledgementDoesNotHoldVotes(t *testing.T) {
	bot, n, client := newTestBot(t, testConfig())
	release := make(chan struct{})
	n.deferFn = func() { <-release }
	poll := startTestPoll(t, bot)

	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c1", "u1", poll.customID(actionVote), "Yes")})
	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c2", "u2", poll.customID(actionVote), "No")})

	counts := poll.results()
	assert.Equal(t, 1, counts[0].Votes)
	assert.Equal(t, 1, counts[1].Votes)
	assert.Empty(t, n.callsTo("DeferUpdate"))

	close(release)
	assert.Eventually(t, func() bool { return len(n.callsTo("DeferUpdate")) == 2 }, time.Second, 5*time.Millisecond)
}

func TestBot_PollEndsWhenMessageDeleted(t *testing.T) {
	bot, n, client := newTestBot(t, testConfig())
	poll := startTestPoll(t, bot)

	client.emit(&discordgo.MessageDelete{Message: &discordgo.Message{
		ID:          "msg-1",
		Interaction: &discordgo.MessageInteraction{ID: "cmd-1"},
	}})

	<-poll.Done()
	edits := n.callsTo("EditOriginal")
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].payload.Embeds[0].Description, "messageDelete")
}

func TestBot_MaxVoters(t *testing.T) {
	cfg := testConfig()
	cfg.Poll.MaxVoters = 2
	bot, _, client := newTestBot(t, cfg)
	poll := startTestPoll(t, bot)

	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c1", "u1", poll.customID(actionVote), "Yes")})
	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c2", "u1", poll.customID(actionVote), "No")})
	select {
	case <-poll.Done():
		t.Fatal("one voter must not end the poll")
	default:
	}

	client.emit(&discordgo.InteractionCreate{Interaction: componentClick("c3", "u2", poll.customID(actionVote), "Yes")})
	<-poll.Done()
	assert.Equal(t, "userLimit", poll.collector.Reason())
}

func TestBot_StopPolls(t *testing.T) {
	bot, n, _ := newTestBot(t, testConfig())
	first := startTestPoll(t, bot)
	second := startTestPoll(t, bot)

	bot.stopPolls(reasonShutdown)

	<-first.Done()
	<-second.Done()
	assert.Equal(t, reasonShutdown, first.collector.Reason())
	assert.Eventually(t, func() bool { return len(n.callsTo("EditOriginal")) == 2 }, time.Second, 5*time.Millisecond)
}

func TestBot_RespondFailureStopsPoll(t *testing.T) {
	bot, n, client := newTestBot(t, testConfig())
	n.respondFn = func() error { return errors.New("unknown interaction") }

	_, err := bot.startPoll(context.Background(), pollCommand("Lunch?", 0), pollRequest{Question: "Lunch?"})
	assert.Error(t, err)
	assert.Empty(t, bot.activePolls())
	assert.Empty(t, n.callsTo("EditOriginal"))
	assert.Equal(t, 0, client.handlerCount())
}
