package device

import (
	"fmt"
	"sync"

	"github.com/muurk/kasactl/internal/protocol"
)

// fakeQuerier answers requests from a table keyed by "module.method"
type fakeQuerier struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	errs      map[string]error
	requests  []protocol.Request
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		responses: map[string]map[string]any{},
		errs:      map[string]error{},
	}
}

func (f *fakeQuerier) on(module, method string, resp map[string]any) *fakeQuerier {
	f.responses[module+"."+method] = resp
	return f
}

func (f *fakeQuerier) Do(req *protocol.Request) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, *req)
	key := req.Module + "." + req.Method
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if resp, ok := f.responses[key]; ok {
		return resp, nil
	}
	return map[string]any{"err_code": float64(0)}, nil
}

// sent returns the requests for module.method in order
func (f *fakeQuerier) sent(module, method string) []protocol.Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []protocol.Request
	for _, r := range f.requests {
		if r.Module == module && r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeQuerier) dialer() Dialer {
	return func(string) Querier { return f }
}

func (f *fakeQuerier) String() string {
	return fmt.Sprintf("fakeQuerier(%d requests)", len(f.requests))
}
