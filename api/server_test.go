package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/events"
	"github.com/stretchr/testify/assert"
)

func TestNewServerDisabled(t *testing.T) {
	app.Config.API.Enabled = false

	service := NewServer(&sync.WaitGroup{})

	assert.Equal(t, app.EmptyServiceName, service.Health().Name)
}

func TestServerStartStop(t *testing.T) {
	app.Config.API.ListenAddr = "127.0.0.1:0"
	app.Config.API.ShutdownTimeoutMillis = 1000

	served := &atomic.Int64{}
	served.Store(7)

	var wg sync.WaitGroup
	wg.Add(1)
	s := newServer(&wg, NewHandler(nil, nil, newTestVerifier()), events.NewNoopBus(), served)

	go s.Start()

	assert.Eventually(t, func() bool { return s.Health().Healthy }, time.Second, 10*time.Millisecond)
	assert.Equal(t, ServerName, s.Health().Name)
	assert.Equal(t, int64(7), s.Health().Processed)

	s.Stop()
	wg.Wait()

	assert.False(t, s.Health().Healthy)
	assert.ErrorIs(t, s.server.ListenAndServe(), http.ErrServerClosed)
}
