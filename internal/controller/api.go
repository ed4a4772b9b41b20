package controller

import (
	"context"
	"sync"

	"github.com/yourusername/tribo-console/internal/backend"
)

// API is the backend surface the engine drives. *backend.Client implements it.
type API interface {
	ListPorts(ctx context.Context) ([]string, error)
	Status(ctx context.Context) (bool, error)
	Connect(ctx context.Context, port string) (backend.Ack, error)
	Disconnect(ctx context.Context) error
	Send(ctx context.Context, command string) (backend.Ack, error)
	GenerateChart(ctx context.Context, offset int) (backend.Ack, error)
	RunAnalysis(ctx context.Context) (backend.Ack, error)
	Shutdown(ctx context.Context) (backend.Ack, error)
	Log(ctx context.Context, since int) (backend.LogResponse, error)
	Listing(ctx context.Context) (backend.Listing, error)
	FetchFile(ctx context.Context, name string) ([]byte, error)
}

var _ API = (*backend.Client)(nil)

// sequencer numbers the requests of one stream so only the latest response is applied.
// Callers hold the owning component's lock around next and latest.
type sequencer struct {
	issued uint64
}

func (s *sequencer) next() uint64 {
	s.issued++
	return s.issued
}

func (s *sequencer) latest(seq uint64) bool {
	return seq == s.issued
}

// outbox delivers view updates outside a component's lock, in the order they were prepared under
// it. A view may block (the terminal UI waits for its event loop), so no component lock is held
// while writing to it. Every ticket taken must be delivered.
type outbox struct {
	mu        sync.Mutex
	cond      *sync.Cond
	issued    uint64
	delivered uint64
}

// take reserves the next delivery slot. Callers hold the owning component's lock.
func (o *outbox) take() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.issued++
	return o.issued
}

// deliver runs fn once every earlier ticket has been delivered. Callers must not hold the owning
// component's lock.
func (o *outbox) deliver(ticket uint64, fn func()) {
	o.mu.Lock()
	if o.cond == nil {
		o.cond = sync.NewCond(&o.mu)
	}
	for o.delivered != ticket-1 {
		o.cond.Wait()
	}
	o.mu.Unlock()

	if fn != nil {
		fn()
	}

	o.mu.Lock()
	o.delivered = ticket
	o.cond.Broadcast()
	o.mu.Unlock()
}

func msgOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
