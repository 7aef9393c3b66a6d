package collector

import (
	"reflect"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// fakeClient routes emitted events to registered handlers by the handler's
// event parameter type, the way discordgo does.
type fakeClient struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]interface{}
	channels map[string]*discordgo.Channel
}

func newFakeClient(channels ...*discordgo.Channel) *fakeClient {
	client := &fakeClient{
		handlers: make(map[int]interface{}),
		channels: make(map[string]*discordgo.Channel),
	}
	for _, channel := range channels {
		client.channels[channel.ID] = channel
	}
	return client
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

func (f *fakeClient) Channel(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	channel, ok := f.channels[channelID]
	if !ok {
		return nil, discordgo.ErrStateNotFound
	}
	return channel, nil
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
