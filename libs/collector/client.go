package collector

import "github.com/bwmarrin/discordgo"

// Client is the part of a Discord session the interaction collector needs:
// handler registration and cached channel lookup.
type Client interface {
	// AddHandler registers a discordgo event handler and returns its remover.
	AddHandler(handler interface{}) func()
	// Channel resolves a channel from the local state cache.
	Channel(channelID string) (*discordgo.Channel, error)
}

type sessionClient struct {
	session *discordgo.Session
}

// NewSessionClient adapts a discordgo session to Client. Collectors remove
// their handlers from inside event callbacks, which needs the session's
// default asynchronous dispatch (SyncEvents false).
func NewSessionClient(session *discordgo.Session) Client {
	return &sessionClient{session: session}
}

func (c *sessionClient) AddHandler(handler interface{}) func() {
	return c.session.AddHandler(handler)
}

func (c *sessionClient) Channel(channelID string) (*discordgo.Channel, error) {
	if c.session.State == nil {
		return nil, discordgo.ErrNilState
	}
	return c.session.State.Channel(channelID)
}
