// Package eventbus is a process-wide synchronous publish/subscribe bus used
// to tell independently mounted views that data changed elsewhere. Delivery
// is fire-and-forget to current subscribers only; there is no buffering and
// no replay for late subscribers.
package eventbus

import "sync"

// Channel identifies one event stream on the bus.
type Channel string

const (
	ChannelTasks        Channel = "tasks-update"
	ChannelProjects     Channel = "projects-update"
	ChannelNotes        Channel = "project-notes-update"
	ChannelTaskComments Channel = "task-comments-update"
	ChannelTemplates    Channel = "templates-update"
	ChannelActivity     Channel = "activity-update"
)

// Handler is invoked synchronously on publish.
type Handler func()

// Bus is a listener registry keyed by channel. The zero value is not usable;
// construct with New.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[Channel]map[int]Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[Channel]map[int]Handler)}
}

// Subscription is the handle returned by Subscribe. Every subscriber must
// call Unsubscribe on teardown or its handler leaks.
type Subscription struct {
	bus     *Bus
	channel Channel
	id      int
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if set, ok := s.bus.handlers[s.channel]; ok {
		delete(set, s.id)
	}
}

// Subscribe registers fn on the channel and returns its handle.
func (b *Bus) Subscribe(ch Channel, fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	set, ok := b.handlers[ch]
	if !ok {
		set = make(map[int]Handler)
		b.handlers[ch] = set
	}
	set[b.nextID] = fn
	return &Subscription{bus: b, channel: ch, id: b.nextID}
}

// Publish invokes every handler currently subscribed to the channel.
// Publishing on a channel with no subscribers is a no-op.
func (b *Bus) Publish(ch Channel) {
	b.mu.Lock()
	set := b.handlers[ch]
	fns := make([]Handler, 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
