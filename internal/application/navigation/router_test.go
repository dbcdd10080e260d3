package navigation

import (
	"sync"
	"testing"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestRouter_StartsOnSplash(t *testing.T) {
	r := NewRouter(logging.Discard())
	assert.Equal(t, domain.ScreenSplash, r.Current().Screen)
	assert.Len(t, r.History(), 1)
}

func TestRouter_ReplaceKeepsHistory(t *testing.T) {
	r := NewRouter(logging.Discard())
	r.Replace(domain.Route{Screen: domain.ScreenLogin})
	r.Replace(domain.Route{Screen: domain.ScreenOTP, UserID: "U1"})

	assert.Equal(t, domain.Route{Screen: domain.ScreenOTP, UserID: "U1"}, r.Current())

	h := r.History()
	assert.Equal(t, []domain.Screen{domain.ScreenSplash, domain.ScreenLogin, domain.ScreenOTP},
		[]domain.Screen{h[0].Screen, h[1].Screen, h[2].Screen})

	h[0] = domain.Route{Screen: domain.ScreenDashboard}
	assert.Equal(t, domain.ScreenSplash, r.History()[0].Screen)
}

func TestRouter_ConcurrentReplace(t *testing.T) {
	r := NewRouter(logging.Discard())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Replace(domain.Route{Screen: domain.ScreenLogin})
		}()
	}
	wg.Wait()
	assert.Len(t, r.History(), 51)
}
