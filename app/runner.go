package app

import (
	"sync"
	"time"

	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"
)

type Runner interface {
	Run()
	Status() models.RunnerStatus
}

// RunnerService calls Run on its runner every interval until stopped
type RunnerService struct {
	name     string
	runner   Runner
	wg       *sync.WaitGroup
	interval time.Duration
	stop     chan bool

	healthMu sync.RWMutex
	health   models.ServiceHealth
}

func (x *RunnerService) Start() {
	log.Infof("[%s] Starting service", x.name)
	stop := false
	for !stop {
		log.Debugf("[%s] Starting run", x.name)

		x.runner.Run()

		x.UpdateHealth()

		log.Debugf("[%s] Finished run, sleeping for %s", x.name, x.interval)

		select {
		case <-x.stop:
			stop = true
			log.Infof("[%s] Stopped service", x.name)
		case <-time.After(x.interval):
		}
	}
	x.wg.Done()
}

func (x *RunnerService) Health() models.ServiceHealth {
	x.healthMu.RLock()
	defer x.healthMu.RUnlock()

	return x.health
}

func (x *RunnerService) UpdateHealth() {
	x.healthMu.Lock()
	defer x.healthMu.Unlock()

	lastSyncTime := time.Now()
	status := x.runner.Status()

	x.health = models.ServiceHealth{
		Name:         x.name,
		LastSyncTime: lastSyncTime,
		NextSyncTime: lastSyncTime.Add(x.interval),
		Processed:    status.Processed,
		Healthy:      true,
	}
}

func (x *RunnerService) Stop() {
	log.Debugf("[%s] Stopping service", x.name)
	x.stop <- true
}

func NewRunnerService(name string, runner Runner, wg *sync.WaitGroup, interval time.Duration) *RunnerService {
	if name == "" || runner == nil || wg == nil || interval <= 0 {
		log.Error("[RUNNER] Invalid parameters for runner service")
		return nil
	}

	return &RunnerService{
		name:     name,
		runner:   runner,
		wg:       wg,
		interval: interval,
		stop:     make(chan bool, 1),
		health: models.ServiceHealth{
			Name:    name,
			Healthy: true,
		},
	}
}
