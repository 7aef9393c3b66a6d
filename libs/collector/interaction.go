package collector

import (
	"sync"

	"github.com/aleister1102/discordkit/internal/common/errorwrapper"
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// InteractionOptions configures an InteractionCollector. Every identity and
// type field left at its zero value places no constraint on what is collected.
type InteractionOptions struct {
	Options[*discordgo.Interaction]

	Channel   *discordgo.Channel `validate:"-"`
	ChannelID string
	Guild     *discordgo.Guild `validate:"-"`
	GuildID   string
	// Message restricts collection to components attached to this message.
	Message *discordgo.Message `validate:"-"`
	// InteractionResponse is the interaction whose reply carries the components.
	InteractionResponse *discordgo.Interaction `validate:"-"`

	InteractionType discordgo.InteractionType
	ComponentType   discordgo.ComponentType

	// Max stops the collector once this many interactions were accepted.
	Max *int `validate:"omitempty,gte=0"`
	// MaxComponents stops the collector once this many interactions are held.
	MaxComponents *int `validate:"omitempty,gte=0"`
	// MaxUsers stops the collector once this many distinct users interacted.
	MaxUsers *int `validate:"omitempty,gte=0"`

	// Budget defaults to DefaultBudget.
	Budget *ListenerBudget `validate:"-"`
}

// InteractionCollector collects interactions from a Discord client and ends
// itself when a limit is reached or the message, channel or guild it watches
// is deleted. A collector with no stop condition runs until Stop is called.
type InteractionCollector struct {
	*Collector[*discordgo.Interaction]

	client Client
	budget *ListenerBudget
	logger zerolog.Logger

	messageID            string
	messageInteractionID string
	channelID            string
	parentChannelID      string
	guildID              string
	interactionType      discordgo.InteractionType
	componentType        discordgo.ComponentType
	max                  *int
	maxComponents        *int
	maxUsers             *int

	stateMu sync.Mutex
	total   int
	users   map[string]*discordgo.User

	handlersMu sync.Mutex
	removers   []func()
	cleaned    bool
}

// NewInteractionCollector registers the collector's handlers on client and
// starts its timers.
func NewInteractionCollector(client Client, opts InteractionOptions) (*InteractionCollector, error) {
	const section = "interaction_collector"

	if client == nil {
		return nil, errorwrapper.NewConfigurationError(section, "client", "discord client is required")
	}
	if err := validateOptions(section, &opts); err != nil {
		return nil, err
	}

	c := &InteractionCollector{
		client:          client,
		budget:          opts.Budget,
		interactionType: opts.InteractionType,
		componentType:   opts.ComponentType,
		max:             opts.Max,
		maxComponents:   opts.MaxComponents,
		maxUsers:        opts.MaxUsers,
		users:           make(map[string]*discordgo.User),
	}
	if c.budget == nil {
		c.budget = DefaultBudget
	}
	c.resolveIdentity(opts)

	base, err := newCollector[*discordgo.Interaction](c, opts.Options, section)
	if err != nil {
		return nil, err
	}
	c.Collector = base
	c.logger = base.logger.With().Str("component", "InteractionCollector").Logger()

	c.OnCollect(c.recordInteraction)
	c.OnEnd(c.cleanup)

	active := c.budget.Acquire()
	c.logger.Debug().
		Int("active_collectors", active).
		Int("listener_limit", c.budget.Limit()).
		Str("message_id", c.messageID).
		Str("channel_id", c.channelID).
		Str("guild_id", c.guildID).
		Msg("Interaction collector created")

	c.register(c.onInteractionCreate)
	if c.messageID != "" || c.messageInteractionID != "" {
		c.register(c.onMessageDelete)
		c.register(c.onMessageDeleteBulk)
	}
	if c.channelID != "" {
		c.register(c.onChannelDelete)
		c.register(c.onThreadDelete)
	}
	if c.guildID != "" {
		c.register(c.onGuildDelete)
	}

	c.start()
	return c, nil
}

func (c *InteractionCollector) resolveIdentity(opts InteractionOptions) {
	response := opts.InteractionResponse

	switch {
	case opts.Message != nil:
		c.messageID = opts.Message.ID
	case response != nil && response.Message != nil:
		c.messageID = response.Message.ID
	}
	if response != nil {
		c.messageInteractionID = response.ID
	}

	switch {
	case opts.Channel != nil:
		c.channelID = opts.Channel.ID
		if isThread(opts.Channel) {
			c.parentChannelID = opts.Channel.ParentID
		}
	case opts.ChannelID != "":
		c.channelID = opts.ChannelID
	case opts.Message != nil:
		c.channelID = opts.Message.ChannelID
	case response != nil:
		c.channelID = response.ChannelID
	}

	switch {
	case opts.Guild != nil:
		c.guildID = opts.Guild.ID
	case opts.GuildID != "":
		c.guildID = opts.GuildID
	}
}

// register adds handler to the client. A handler that lands after cleanup
// already ran is removed straight away.
func (c *InteractionCollector) register(handler interface{}) {
	remove := c.client.AddHandler(handler)

	c.handlersMu.Lock()
	if c.cleaned {
		c.handlersMu.Unlock()
		remove()
		return
	}
	c.removers = append(c.removers, remove)
	c.handlersMu.Unlock()
}

func (c *InteractionCollector) cleanup(collected []*discordgo.Interaction, reason string) {
	c.handlersMu.Lock()
	if c.cleaned {
		c.handlersMu.Unlock()
		return
	}
	c.cleaned = true
	removers := c.removers
	c.removers = nil
	c.handlersMu.Unlock()

	for _, remove := range removers {
		remove()
	}
	active := c.budget.Release()

	c.logger.Debug().
		Str("reason", reason).
		Int("collected", len(collected)).
		Int("total", c.Total()).
		Int("active_collectors", active).
		Msg("Interaction collector ended")
}

// Collect accepts an interaction only if every configured dimension matches.
// The key is the interaction id.
func (c *InteractionCollector) Collect(interaction *discordgo.Interaction) (string, bool) {
	if !c.matches(interaction) {
		return "", false
	}
	return interaction.ID, true
}

// Dispose matches like Collect, against the collector's current type filters.
func (c *InteractionCollector) Dispose(interaction *discordgo.Interaction) (string, bool) {
	return c.Collect(interaction)
}

func (c *InteractionCollector) matches(interaction *discordgo.Interaction) bool {
	if interaction == nil {
		return false
	}
	if c.interactionType != 0 && interaction.Type != c.interactionType {
		return false
	}
	if c.componentType != 0 {
		data, ok := componentData(interaction)
		if !ok || data.ComponentType != c.componentType {
			return false
		}
	}
	if c.messageID != "" && (interaction.Message == nil || interaction.Message.ID != c.messageID) {
		return false
	}
	if c.messageInteractionID != "" {
		message := interaction.Message
		if message == nil || message.Interaction == nil || message.Interaction.ID != c.messageInteractionID {
			return false
		}
	}
	if c.channelID != "" && interaction.ChannelID != c.channelID {
		return false
	}
	if c.guildID != "" && interaction.GuildID != c.guildID {
		return false
	}
	return true
}

// EndReason reports the first limit reached, checked as Max, MaxComponents
// then MaxUsers.
func (c *InteractionCollector) EndReason() string {
	held := c.Len()

	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	switch {
	case c.max != nil && c.total >= *c.max:
		return ReasonLimit
	case c.maxComponents != nil && held >= *c.maxComponents:
		return ReasonComponentLimit
	case c.maxUsers != nil && len(c.users) >= *c.maxUsers:
		return ReasonUserLimit
	default:
		return ""
	}
}

// Empty resets the total, drops collected interactions and users, then checks
// the limits again. A collector with Max 0 ends immediately.
func (c *InteractionCollector) Empty() {
	c.stateMu.Lock()
	c.total = 0
	c.users = make(map[string]*discordgo.User)
	c.stateMu.Unlock()

	c.clear()
	c.CheckEnd()
}

// Total returns how many interactions were accepted since creation or the last Empty.
func (c *InteractionCollector) Total() int {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.total
}

// Users returns a copy of the users that interacted, keyed by user id.
func (c *InteractionCollector) Users() map[string]*discordgo.User {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return lo.Assign(c.users)
}

func (c *InteractionCollector) recordInteraction(interaction *discordgo.Interaction) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()

	c.total++
	if user := interactionUser(interaction); user != nil {
		c.users[user.ID] = user
	}
}

func (c *InteractionCollector) onInteractionCreate(_ *discordgo.Session, event *discordgo.InteractionCreate) {
	if event == nil || event.Interaction == nil {
		return
	}
	if err := c.HandleCollect(event.Interaction); err != nil {
		c.logger.Error().Err(err).Str("interaction_id", event.ID).Msg("Failed to collect interaction")
	}
}

func (c *InteractionCollector) onMessageDelete(_ *discordgo.Session, event *discordgo.MessageDelete) {
	if event == nil || event.Message == nil {
		return
	}
	if c.messageID != "" && event.ID == c.messageID {
		c.Stop(ReasonMessageDelete)
		return
	}
	if c.messageInteractionID == "" {
		return
	}
	for _, message := range []*discordgo.Message{event.Message, event.BeforeDelete} {
		if message != nil && message.Interaction != nil && message.Interaction.ID == c.messageInteractionID {
			c.Stop(ReasonMessageDelete)
			return
		}
	}
}

func (c *InteractionCollector) onMessageDeleteBulk(_ *discordgo.Session, event *discordgo.MessageDeleteBulk) {
	if event == nil || c.messageID == "" {
		return
	}
	if lo.Contains(event.Messages, c.messageID) {
		c.Stop(ReasonMessageDelete)
	}
}

func (c *InteractionCollector) onChannelDelete(_ *discordgo.Session, event *discordgo.ChannelDelete) {
	if event == nil || event.Channel == nil {
		return
	}
	if event.ID == c.channelID {
		c.Stop(ReasonChannelDelete)
		return
	}
	if parentID := c.threadParentID(); parentID != "" && event.ID == parentID {
		c.Stop(ReasonChannelDelete)
	}
}

func (c *InteractionCollector) onThreadDelete(_ *discordgo.Session, event *discordgo.ThreadDelete) {
	if event == nil || event.Channel == nil {
		return
	}
	if event.ID == c.channelID {
		c.Stop(ReasonThreadDelete)
	}
}

func (c *InteractionCollector) onGuildDelete(_ *discordgo.Session, event *discordgo.GuildDelete) {
	if event == nil || event.Guild == nil || event.Unavailable {
		return
	}
	if event.ID == c.guildID {
		c.Stop(ReasonGuildDelete)
	}
}

// threadParentID returns the parent of the watched channel when it is a
// thread, preferring the value recorded at construction over the state cache.
func (c *InteractionCollector) threadParentID() string {
	if c.parentChannelID != "" {
		return c.parentChannelID
	}
	channel, err := c.client.Channel(c.channelID)
	if err != nil || !isThread(channel) {
		return ""
	}
	return channel.ParentID
}

func isThread(channel *discordgo.Channel) bool {
	if channel == nil {
		return false
	}
	switch channel.Type {
	case discordgo.ChannelTypeGuildNewsThread, discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread:
		return true
	default:
		return false
	}
}

func componentData(interaction *discordgo.Interaction) (discordgo.MessageComponentInteractionData, bool) {
	switch data := interaction.Data.(type) {
	case discordgo.MessageComponentInteractionData:
		return data, true
	case *discordgo.MessageComponentInteractionData:
		if data != nil {
			return *data, true
		}
	}
	return discordgo.MessageComponentInteractionData{}, false
}

func interactionUser(interaction *discordgo.Interaction) *discordgo.User {
	if interaction == nil {
		return nil
	}
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}
