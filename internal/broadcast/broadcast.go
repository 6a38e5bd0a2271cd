package broadcast

import (
	"aimtrainer/internal/events"
	"encoding/json"
	"log"
	"sync"
)

// Message names the payload kind so clients can route it: "state",
// "stats" or "frame". Msg is JSON.
type Message struct {
	Event string
	Msg   string
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool
	done    chan struct{}
	once    sync.Once
}

// NewBroadcaster forwards every bus event to the subscribers until Stop.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan Message]bool),
		done:    make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-b.done:
				return
			case ev := <-bus.StateChanges:
				b.publish("state", ev)
			case ev := <-bus.Scores:
				b.publish("stats", ev)
			case ev := <-bus.Frames:
				b.publish("frame", ev)
			}
		}
	}()
	return b
}

func (b *Broadcaster) Stop() {
	b.once.Do(func() { close(b.done) })
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if _, ok := b.Clients[ch]; !ok {
		return
	}
	delete(b.Clients, ch)
	close(ch)
}

func (b *Broadcaster) Broadcast(event string, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Msg: message}:
		default:
			// skip clients with full data channels
		}
	}
}

func (b *Broadcaster) publish(event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Broadcast] Marshal %s error: %v\n", event, err)
		return
	}
	b.Broadcast(event, string(data))
}
