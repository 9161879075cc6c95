package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/events"
	"github.com/dan13ram/fundraiser-escrow/fundraiser"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/dan13ram/fundraiser-escrow/token"
	log "github.com/sirupsen/logrus"
)

const (
	ServerName = "API"
)

// Server runs the HTTP API as an app.Service
type Server struct {
	server          *http.Server
	bus             events.Bus
	wg              *sync.WaitGroup
	shutdownTimeout time.Duration

	served    *atomic.Int64
	listening atomic.Bool
}

func (s *Server) Start() {
	log.Info("[API] Listening on ", s.server.Addr)
	s.listening.Store(true)

	err := s.server.ListenAndServe()
	s.listening.Store(false)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("[API] Error serving: ", err)
	}

	log.Info("[API] Stopped server")
	s.wg.Done()
}

func (s *Server) Health() models.ServiceHealth {
	now := time.Now()
	return models.ServiceHealth{
		Name:         ServerName,
		LastSyncTime: now,
		NextSyncTime: now,
		Processed:    s.served.Load(),
		Healthy:      s.listening.Load(),
	}
}

func (s *Server) Stop() {
	log.Debug("[API] Stopping server")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error("[API] Error shutting down server: ", err)
	}
	if err := s.bus.Close(); err != nil {
		log.Error("[API] Error closing event bus: ", err)
	}
}

func newServer(wg *sync.WaitGroup, handler *Handler, bus events.Bus, served *atomic.Int64) *Server {
	cfg := app.Config.API
	return &Server{
		server: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      NewRouter(handler, served),
			ReadTimeout:  time.Duration(cfg.ReadTimeoutMillis) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.WriteTimeoutMillis) * time.Millisecond,
		},
		bus:             bus,
		wg:              wg,
		shutdownTimeout: time.Duration(cfg.ShutdownTimeoutMillis) * time.Millisecond,
		served:          served,
	}
}

func NewServer(wg *sync.WaitGroup) app.Service {
	return NewServerWithLastHealth(wg, models.ServiceHealth{})
}

func NewServerWithLastHealth(wg *sync.WaitGroup, lastHealth models.ServiceHealth) app.Service {
	if !app.Config.API.Enabled {
		log.Debug("[API] API disabled")
		return app.NewEmptyService(wg)
	}

	log.Debug("[API] Initializing API")

	programID, err := common.ParseAddress(app.Config.Program.ProgramID)
	if err != nil {
		log.Fatal("[API] Error parsing program id: ", err)
	}

	bus := events.NewBus()
	program := fundraiser.NewProgram(programID, fundraiser.NewStore(), token.NewLedger(), bus)
	ledger := token.NewAtomicLedger(token.NewLedger())
	verifier := NewVerifier(time.Duration(app.Config.API.SignatureTTLMillis)*time.Millisecond, NewSignatureStore())

	served := &atomic.Int64{}
	served.Store(lastHealth.Processed)

	s := newServer(wg, NewHandler(program, ledger, verifier), bus, served)

	log.Info("[API] Initialized API")

	return s
}
