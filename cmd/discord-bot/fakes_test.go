package main

import (
	"context"
	"reflect"
	"sync"

	"github.com/aleister1102/discordkit/internal/config"
	"github.com/aleister1102/discordkit/libs/discord"
	"github.com/bwmarrin/discordgo"
)

type notifierCall struct {
	method      string
	interaction *discordgo.Interaction
	payload     discord.MessagePayload
}

type fakeNotifier struct {
	mu        sync.Mutex
	calls     []notifierCall
	respondFn func() error
	deferFn   func()
}

func (f *fakeNotifier) record(method string, i *discordgo.Interaction, payload discord.MessagePayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifierCall{method: method, interaction: i, payload: payload})
}

func (f *fakeNotifier) Respond(_ context.Context, i *discordgo.Interaction, payload discord.MessagePayload) error {
	f.record("Respond", i, payload)
	if f.respondFn != nil {
		return f.respondFn()
	}
	return nil
}

func (f *fakeNotifier) UpdateMessage(_ context.Context, i *discordgo.Interaction, payload discord.MessagePayload) error {
	f.record("UpdateMessage", i, payload)
	return nil
}

func (f *fakeNotifier) DeferUpdate(_ context.Context, i *discordgo.Interaction) error {
	if f.deferFn != nil {
		f.deferFn()
	}
	f.record("DeferUpdate", i, discord.MessagePayload{})
	return nil
}

func (f *fakeNotifier) EditOriginal(_ context.Context, i *discordgo.Interaction, payload discord.MessagePayload) (*discordgo.Message, error) {
	f.record("EditOriginal", i, payload)
	return &discordgo.Message{ID: "msg-1"}, nil
}

func (f *fakeNotifier) SendChannelMessage(_ context.Context, _ string, payload discord.MessagePayload) (*discordgo.Message, error) {
	f.record("SendChannelMessage", nil, payload)
	return &discordgo.Message{}, nil
}

func (f *fakeNotifier) SendWebhook(_ context.Context, _, _ string, payload discord.MessagePayload) (*discordgo.Message, error) {
	f.record("SendWebhook", nil, payload)
	return &discordgo.Message{}, nil
}

func (f *fakeNotifier) callsTo(method string) []notifierCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var calls []notifierCall
	for _, call := range f.calls {
		if call.method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// fakeClient dispatches emitted events to handlers whose event parameter
// type matches.
type fakeClient struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]interface{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{handlers: make(map[int]interface{})}
}

func (f *fakeClient) AddHandler(handler interface{}) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.handlers[id] = handler
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}
}

func (f *fakeClient) Channel(string) (*discordgo.Channel, error) {
	return nil, discordgo.ErrStateNotFound
}

func (f *fakeClient) emit(event interface{}) {
	f.mu.Lock()
	handlers := make([]interface{}, 0, len(f.handlers))
	for _, handler := range f.handlers {
		handlers = append(handlers, handler)
	}
	f.mu.Unlock()

	eventValue := reflect.ValueOf(event)
	for _, handler := range handlers {
		fn := reflect.ValueOf(handler)
		if fn.Type().In(1) != eventValue.Type() {
			continue
		}
		fn.Call([]reflect.Value{reflect.Zero(fn.Type().In(0)), eventValue})
	}
}

func (f *fakeClient) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

type staticConfig struct {
	cfg *config.Config
}

func (s staticConfig) GetConfig() *config.Config {
	return s.cfg
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Discord.Token = "token"
	return cfg
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}}
}

func pollCommand(question string, minutes float64) *discordgo.Interaction {
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "question", Type: discordgo.ApplicationCommandOptionString, Value: question},
	}
	if minutes > 0 {
		options = append(options, &discordgo.ApplicationCommandInteractionDataOption{
			Name: "minutes", Type: discordgo.ApplicationCommandOptionInteger, Value: minutes,
		})
	}
	return &discordgo.Interaction{
		ID:        "cmd-1",
		AppID:     "app-1",
		Token:     "tok",
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Member:    member("author"),
		Data:      discordgo.ApplicationCommandInteractionData{Name: pollCommandName, Options: options},
	}
}

func componentClick(id, userID, customID string, values ...string) *discordgo.Interaction {
	componentType := discordgo.ButtonComponent
	if len(values) > 0 {
		componentType = discordgo.SelectMenuComponent
	}
	return &discordgo.Interaction{
		ID:        id,
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		Member:    member(userID),
		Message: &discordgo.Message{
			ID:          "msg-1",
			ChannelID:   "chan-1",
			Interaction: &discordgo.MessageInteraction{ID: "cmd-1"},
		},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: componentType,
			Values:        values,
		},
	}
}
