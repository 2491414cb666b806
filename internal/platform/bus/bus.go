package bus

import "sync"

// Event is one published message.
type Event struct {
	Topic   string
	Payload any
}

// Bus is a small in-process pub/sub fanout. Publish never blocks: a
// subscriber whose buffer is full drops the event instead of stalling the
// publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	buffer      int
}

func New(buffer int) *Bus {
	if buffer < 1 {
		buffer = 16
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		buffer:      buffer,
	}
}

// Subscribe registers for a topic. The returned cancel func removes the
// subscription and closes the channel.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subscribers[topic]
		for idx, sub := range subs {
			if sub == ch {
				b.subscribers[topic] = append(subs[:idx], subs[idx+1:]...)
				close(ch)
				return
			}
		}
	}

	return ch, cancel
}

func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- Event{Topic: topic, Payload: payload}:
		default:
		}
	}
}
