package usecase

import (
	"sync"

	"nexus_pix/internal/domain/entities"
)

// StatusBroker fans webhook readings out to the pollers watching the same
// transaction. Publish never blocks. Each subscriber holds only its latest
// undrained reading, and a buffered terminal reading is never replaced by a
// non-terminal one.
type StatusBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan entities.StatusReading]struct{}
}

func NewStatusBroker() *StatusBroker {
	return &StatusBroker{subs: make(map[string]map[chan entities.StatusReading]struct{})}
}

// Subscribe returns the readings channel for transactionID and the function
// that releases it.
func (b *StatusBroker) Subscribe(transactionID string) (<-chan entities.StatusReading, func()) {
	ch := make(chan entities.StatusReading, 1)

	b.mu.Lock()
	set, ok := b.subs[transactionID]
	if !ok {
		set = make(map[chan entities.StatusReading]struct{})
		b.subs[transactionID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[transactionID], ch)
			if len(b.subs[transactionID]) == 0 {
				delete(b.subs, transactionID)
			}
		})
	}
	return ch, unsubscribe
}

// Publish returns how many subscribers now hold the reading.
func (b *StatusBroker) Publish(r entities.StatusReading) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for ch := range b.subs[r.TransactionID] {
		next, replaced := r, true
		select {
		case prev := <-ch:
			if prev.Status.IsTerminal() && !r.Status.IsTerminal() {
				next, replaced = prev, false
			}
		default:
		}
		// Only publishers send, under mu, so the slot is free here.
		ch <- next
		if replaced {
			delivered++
		}
	}
	return delivered
}

func (b *StatusBroker) Subscribers(transactionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[transactionID])
}
