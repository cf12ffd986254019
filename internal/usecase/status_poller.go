package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"nexus_pix/internal/domain/entities"
)

const (
	DefaultPollInterval = 5 * time.Second
	defaultTickTimeout  = 15 * time.Second
)

// IStatusChecker performs one status read for a transaction.
type IStatusChecker interface {
	RefreshStatus(ctx context.Context, transactionID string) (entities.StatusReading, error)
}

type IStatusWatcher interface {
	Watch(ctx context.Context, transactionID string) <-chan entities.StatusReading
}

// StatusPoller reports a charge's status on a fixed interval until it turns
// terminal or the watcher's context is cancelled. Failed reads are skipped.
// A terminal webhook reading published on the broker ends the watch without
// waiting for the next tick.
type StatusPoller struct {
	checker     IStatusChecker
	broker      *StatusBroker
	interval    time.Duration
	tickTimeout time.Duration
}

var _ IStatusWatcher = (*StatusPoller)(nil)

func NewStatusPoller(checker IStatusChecker, broker *StatusBroker, interval time.Duration) *StatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusPoller{
		checker:     checker,
		broker:      broker,
		interval:    interval,
		tickTimeout: defaultTickTimeout,
	}
}

// Watch starts polling transactionID. The returned channel is closed after the
// first terminal reading or once ctx is done. The first read happens one
// interval after the call.
func (p *StatusPoller) Watch(ctx context.Context, transactionID string) <-chan entities.StatusReading {
	out := make(chan entities.StatusReading)
	go p.run(ctx, strings.TrimSpace(transactionID), out)
	return out
}

func (p *StatusPoller) run(ctx context.Context, id string, out chan<- entities.StatusReading) {
	defer close(out)

	var pushed <-chan entities.StatusReading
	if p.broker != nil && id != "" {
		ch, unsubscribe := p.broker.Subscribe(id)
		defer unsubscribe()
		pushed = ch
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("[pix][poller] watch start transaction_id=%s interval=%s", id, p.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[pix][poller] watch cancelled transaction_id=%s", id)
			return
		case r := <-pushed:
			if !r.Status.IsTerminal() {
				continue
			}
			if p.emit(ctx, out, r) {
				log.Printf("[pix][poller] watch finished by webhook transaction_id=%s status=%s", id, r.Status)
			}
			return
		case <-ticker.C:
		}

		// select picks at random when the ticker and cancellation race.
		if ctx.Err() != nil {
			return
		}

		reading, ok := p.tick(ctx, id)
		if !ok {
			continue
		}
		if !p.emit(ctx, out, reading) {
			return
		}
		if reading.Status.IsTerminal() {
			log.Printf("[pix][poller] watch finished transaction_id=%s status=%s", id, reading.Status)
			return
		}
	}
}

// tick lets a read that has already started finish even if the watcher is
// cancelled meanwhile; its result is then dropped by emit.
func (p *StatusPoller) tick(ctx context.Context, id string) (entities.StatusReading, bool) {
	tickCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.tickTimeout)
	defer cancel()

	reading, err := p.checker.RefreshStatus(tickCtx, id)
	if err != nil {
		log.Printf("[pix][poller] inconclusive tick transaction_id=%s err=%v", id, err)
		return entities.StatusReading{}, false
	}
	reading.Source = entities.ReadingSourcePoll
	return reading, true
}

func (p *StatusPoller) emit(ctx context.Context, out chan<- entities.StatusReading, r entities.StatusReading) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
