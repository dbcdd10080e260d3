package dashboard

import (
	"sync"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/pkg/token"
)

type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// View is the dashboard screen state. A fresh view is loading; once data
// has been shown it stays shown across failed refreshes.
type View struct {
	mu         sync.RWMutex
	state      State
	refreshing bool
	payload    *domain.DashboardPayload
	token      token.Info
	tokenOK    bool
}

func NewView() *View { return &View{state: StateLoading} }

func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *View) Refreshing() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refreshing
}

// Payload returns the last successfully loaded data, or nil.
func (v *View) Payload() *domain.DashboardPayload {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.payload
}

// Token returns what could be decoded from the session token, if anything.
func (v *View) Token() (token.Info, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.token, v.tokenOK
}

func (v *View) begin() {
	v.mu.Lock()
	v.state = StateLoading
	v.refreshing = v.payload != nil
	v.mu.Unlock()
}

func (v *View) loaded(p *domain.DashboardPayload, raw string) {
	v.mu.Lock()
	v.payload = p
	v.token, v.tokenOK = token.Inspect(raw)
	v.mu.Unlock()
}

func (v *View) finish() {
	v.mu.Lock()
	v.refreshing = false
	if v.payload != nil {
		v.state = StateLoaded
	} else {
		v.state = StateFailed
	}
	v.mu.Unlock()
}

func (v *View) reset() {
	v.mu.Lock()
	v.state = StateLoading
	v.refreshing = false
	v.payload = nil
	v.token, v.tokenOK = token.Info{}, false
	v.mu.Unlock()
}
