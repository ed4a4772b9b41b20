package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/tribo-console/internal/backend"
)

var errOffline = &backend.TransportError{Method: "GET", Endpoint: "/api/status", Err: errors.New("connection refused")}

// fakeAPI is a scripted backend. Unset hooks answer with an empty success.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	ports      func() ([]string, error)
	status     func() (bool, error)
	connect    func(port string) (backend.Ack, error)
	disconnect func() error
	send       func(command string) (backend.Ack, error)
	chart      func(offset int) (backend.Ack, error)
	analysis   func() (backend.Ack, error)
	shutdown   func() (backend.Ack, error)
	log        func(since int) (backend.LogResponse, error)
	listing    func() (backend.Listing, error)
	fetch      func(name string) ([]byte, error)
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListPorts(ctx context.Context) ([]string, error) {
	f.record("ports")
	if f.ports == nil {
		return []string{}, nil
	}
	return f.ports()
}

func (f *fakeAPI) Status(ctx context.Context) (bool, error) {
	f.record("status")
	if f.status == nil {
		return false, nil
	}
	return f.status()
}

func (f *fakeAPI) Connect(ctx context.Context, port string) (backend.Ack, error) {
	f.record("connect")
	if f.connect == nil {
		return backend.Ack{OK: true}, nil
	}
	return f.connect(port)
}

func (f *fakeAPI) Disconnect(ctx context.Context) error {
	f.record("disconnect")
	if f.disconnect == nil {
		return nil
	}
	return f.disconnect()
}

func (f *fakeAPI) Send(ctx context.Context, command string) (backend.Ack, error) {
	f.record("send")
	if f.send == nil {
		return backend.Ack{OK: true}, nil
	}
	return f.send(command)
}

func (f *fakeAPI) GenerateChart(ctx context.Context, offset int) (backend.Ack, error) {
	f.record("chart")
	if f.chart == nil {
		return backend.Ack{OK: true}, nil
	}
	return f.chart(offset)
}

func (f *fakeAPI) RunAnalysis(ctx context.Context) (backend.Ack, error) {
	f.record("analysis")
	if f.analysis == nil {
		return backend.Ack{OK: true}, nil
	}
	return f.analysis()
}

func (f *fakeAPI) Shutdown(ctx context.Context) (backend.Ack, error) {
	f.record("shutdown")
	if f.shutdown == nil {
		return backend.Ack{OK: true, Msg: "Server shutting down..."}, nil
	}
	return f.shutdown()
}

func (f *fakeAPI) Log(ctx context.Context, since int) (backend.LogResponse, error) {
	f.record("log")
	if f.log == nil {
		next := since
		return backend.LogResponse{Lines: []string{}, Next: &next}, nil
	}
	return f.log(since)
}

func (f *fakeAPI) Listing(ctx context.Context) (backend.Listing, error) {
	f.record("listing")
	if f.listing == nil {
		return backend.Listing{}, nil
	}
	return f.listing()
}

func (f *fakeAPI) FetchFile(ctx context.Context, name string) ([]byte, error) {
	f.record("fetch")
	if f.fetch == nil {
		return nil, nil
	}
	return f.fetch(name)
}

var _ API = (*fakeAPI)(nil)

func intPtr(v int) *int {
	return &v
}
