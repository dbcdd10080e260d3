package navigation

import (
	"log/slog"
	"sync"

	"github.com/go-fee-portal/internal/domain"
)

// Router is a replace-only navigation stack: every transition swaps the
// current screen, so there is never a screen to go back to.
type Router struct {
	mu      sync.Mutex
	current domain.Route
	history []domain.Route
	log     *slog.Logger
}

// NewRouter starts on the splash screen.
func NewRouter(log *slog.Logger) *Router {
	start := domain.Route{Screen: domain.ScreenSplash}
	return &Router{current: start, history: []domain.Route{start}, log: log}
}

func (r *Router) Replace(to domain.Route) {
	r.mu.Lock()
	from := r.current
	r.current = to
	r.history = append(r.history, to)
	r.mu.Unlock()

	r.log.Debug("navigate", "from", from.Screen.String(), "to", to.Screen.String())
}

func (r *Router) Current() domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns every route visited, oldest first.
func (r *Router) History() []domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Route, len(r.history))
	copy(out, r.history)
	return out
}
