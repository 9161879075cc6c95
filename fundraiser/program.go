package fundraiser

import (
	"context"
	"time"

	"github.com/dan13ram/fundraiser-escrow/events"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/dan13ram/fundraiser-escrow/token"
	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
)

// Program executes the fundraiser operations against the store and the
// token ledger. Every operation runs under the fundraiser's lock and commits
// as one transaction.
type Program struct {
	programID solana.PublicKey
	store     Store
	ledger    token.Ledger
	bus       events.Bus
	now       func() time.Time
}

func (p *Program) ProgramID() solana.PublicKey {
	return p.programID
}

// publish runs after commit, a failed publish never fails the operation
func (p *Program) publish(ctx context.Context, event models.Event) {
	if err := p.bus.Publish(ctx, event); err != nil {
		log.WithField("event", event.Type).WithField("fundraiser", event.Fundraiser).Warn("[PROGRAM] Error publishing event: ", err)
	}
}

func NewProgram(programID solana.PublicKey, store Store, ledger token.Ledger, bus events.Bus) *Program {
	if bus == nil {
		bus = events.NewNoopBus()
	}
	return &Program{
		programID: programID,
		store:     store,
		ledger:    ledger,
		bus:       bus,
		now:       time.Now,
	}
}
