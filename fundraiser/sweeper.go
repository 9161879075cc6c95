package fundraiser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"
)

const (
	ContributorSweeperName = "CONTRIBUTOR SWEEPER"
)

// ContributorSweeperRunner deletes contributor records left behind by
// fundraisers that were closed by a successful withdrawal
type ContributorSweeperRunner struct {
	store     Store
	processed int64
	timeout   time.Duration
}

func (x *ContributorSweeperRunner) Run() {
	x.Sweep()
}

func (x *ContributorSweeperRunner) Status() models.RunnerStatus {
	return models.RunnerStatus{
		Processed: x.processed,
	}
}

func (x *ContributorSweeperRunner) Sweep() bool {
	log.Debug("[CONTRIBUTOR SWEEPER] Looking for stranded contributors")

	ctx, cancel := context.WithTimeout(context.Background(), x.timeout)
	defer cancel()

	addresses, err := x.store.StrandedFundraisers(ctx)
	if err != nil {
		log.Error("[CONTRIBUTOR SWEEPER] Error finding stranded contributors: ", err)
		return false
	}

	success := true
	for _, address := range addresses {
		var deleted int64
		err := x.store.Atomic(ctx, ResourceID(address), func(ctx context.Context) error {
			// a new fundraiser may have been opened at this address meanwhile
			if _, err := x.store.FindFundraiser(ctx, address); err == nil {
				return nil
			} else if !errors.Is(err, ErrFundraiserNotFound) {
				return err
			}
			var err error
			deleted, err = x.store.DeleteContributorsOf(ctx, address)
			return err
		})
		if err != nil {
			log.WithField("fundraiser", address).Error("[CONTRIBUTOR SWEEPER] Error deleting contributors: ", err)
			success = false
			continue
		}
		x.processed += deleted
		log.WithField("fundraiser", address).WithField("deleted", deleted).Info("[CONTRIBUTOR SWEEPER] Deleted stranded contributors")
	}

	log.Debug("[CONTRIBUTOR SWEEPER] Finished sweep")
	return success
}

func newContributorSweeper(store Store, processed int64) *ContributorSweeperRunner {
	interval := time.Duration(app.Config.ContributorSweeper.IntervalMillis) * time.Millisecond
	return &ContributorSweeperRunner{
		store:     store,
		processed: processed,
		timeout:   interval,
	}
}

func NewContributorSweeper(wg *sync.WaitGroup) app.Service {
	if !app.Config.ContributorSweeper.Enabled {
		log.Debug("[CONTRIBUTOR SWEEPER] Contributor sweeper disabled")
		return app.NewEmptyService(wg)
	}

	log.Debug("[CONTRIBUTOR SWEEPER] Initializing contributor sweeper")

	x := newContributorSweeper(NewStore(), 0)

	log.Info("[CONTRIBUTOR SWEEPER] Initialized contributor sweeper")

	return app.NewRunnerService(ContributorSweeperName, x, wg, x.timeout)
}

func NewContributorSweeperWithLastHealth(wg *sync.WaitGroup, lastHealth models.ServiceHealth) app.Service {
	if !app.Config.ContributorSweeper.Enabled {
		log.Debug("[CONTRIBUTOR SWEEPER] Contributor sweeper disabled")
		return app.NewEmptyService(wg)
	}

	log.Debug("[CONTRIBUTOR SWEEPER] Initializing contributor sweeper with last health")

	x := newContributorSweeper(NewStore(), lastHealth.Processed)

	log.Info("[CONTRIBUTOR SWEEPER] Initialized contributor sweeper")

	return app.NewRunnerService(ContributorSweeperName, x, wg, x.timeout)
}
