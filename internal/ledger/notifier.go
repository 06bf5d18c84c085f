package ledger

import (
	"log/slog"
	"sync"

	"github.com/alextreichler/openmarket/internal/models"
)

// Notifier fans committed events out to subscribers. It holds no business
// logic and never blocks the ledger: a subscriber whose buffer is full
// misses the event and has to catch up from Ledger.Events.
type Notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan models.Event
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan models.Event)}
}

// Subscribe returns a channel of events and a cancel func that closes it.
func (n *Notifier) Subscribe(buffer int) (<-chan models.Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan models.Event, buffer)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (n *Notifier) Publish(events ...models.Event) {
	if len(events) == 0 {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, e := range events {
		for id, ch := range n.subs {
			select {
			case ch <- e:
			default:
				slog.Warn("Dropping event for slow subscriber", "subscriber", id, "seq", e.Seq, "kind", e.Kind)
			}
		}
	}
}
