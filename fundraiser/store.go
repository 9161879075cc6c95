package fundraiser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"
	lock "github.com/square/mongo-lock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store persists fundraiser and contributor records
type Store interface {
	// Atomic runs fn holding the exclusive lock on resource, inside one transaction
	Atomic(ctx context.Context, resource string, fn func(ctx context.Context) error) error

	FindFundraiser(ctx context.Context, address string) (*models.Fundraiser, error)
	InsertFundraiser(ctx context.Context, fundraiser *models.Fundraiser) error
	AddToCurrentAmount(ctx context.Context, address string, delta int64) error
	DeleteFundraiser(ctx context.Context, address string) error

	FindContributor(ctx context.Context, address string) (*models.Contributor, error)
	AddContribution(ctx context.Context, contributor *models.Contributor, amount uint64) error
	DeleteContributor(ctx context.Context, address string) error
	DeleteContributorsOf(ctx context.Context, fundraiser string) (int64, error)

	// StrandedFundraisers lists fundraiser addresses that still have
	// contributor records but no fundraiser record
	StrandedFundraisers(ctx context.Context) ([]string, error)
}

func ResourceID(address string) string {
	return fmt.Sprintf("%s/%s", models.CollectionFundraisers, address)
}

type mongoStore struct{}

var _ Store = &mongoStore{}

func (s *mongoStore) Atomic(ctx context.Context, resource string, fn func(ctx context.Context) error) error {
	lockID, err := app.DB.XLock(resource)
	if err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return ErrResourceLocked
		}
		return fmt.Errorf("failed to lock %s: %w", resource, err)
	}
	log.Debug("[STORE] Locked ", resource)

	defer func() {
		if err := app.DB.Unlock(lockID); err != nil {
			log.Error("[STORE] Error unlocking ", resource, ": ", err)
		} else {
			log.Debug("[STORE] Unlocked ", resource)
		}
	}()

	return app.DB.WithTransaction(ctx, fn)
}

func (s *mongoStore) FindFundraiser(ctx context.Context, address string) (*models.Fundraiser, error) {
	var fundraiser models.Fundraiser
	err := app.DB.FindOne(ctx, models.CollectionFundraisers, bson.M{"address": address}, &fundraiser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFundraiserNotFound
		}
		return nil, fmt.Errorf("failed to find fundraiser: %w", err)
	}
	return &fundraiser, nil
}

func (s *mongoStore) InsertFundraiser(ctx context.Context, fundraiser *models.Fundraiser) error {
	id, err := app.DB.InsertOne(ctx, models.CollectionFundraisers, fundraiser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyInitialized
		}
		return fmt.Errorf("failed to insert fundraiser: %w", err)
	}
	fundraiser.Id = &id
	return nil
}

// AddToCurrentAmount applies delta, refusing to take current_amount below zero
func (s *mongoStore) AddToCurrentAmount(ctx context.Context, address string, delta int64) error {
	filter := bson.M{"address": address}
	if delta < 0 {
		filter["current_amount"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"current_amount": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	matched, err := app.DB.UpdateOne(ctx, models.CollectionFundraisers, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update fundraiser: %w", err)
	}
	if matched == 0 {
		if delta < 0 {
			return ErrAmountOverflow
		}
		return ErrFundraiserNotFound
	}
	return nil
}

func (s *mongoStore) DeleteFundraiser(ctx context.Context, address string) error {
	deleted, err := app.DB.DeleteOne(ctx, models.CollectionFundraisers, bson.M{"address": address})
	if err != nil {
		return fmt.Errorf("failed to delete fundraiser: %w", err)
	}
	if deleted == 0 {
		return ErrFundraiserNotFound
	}
	return nil
}

func (s *mongoStore) FindContributor(ctx context.Context, address string) (*models.Contributor, error) {
	var contributor models.Contributor
	err := app.DB.FindOne(ctx, models.CollectionContributors, bson.M{"address": address}, &contributor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrContributorNotFound
		}
		return nil, fmt.Errorf("failed to find contributor: %w", err)
	}
	return &contributor, nil
}

// AddContribution creates the contributor record at zero if needed and adds amount
func (s *mongoStore) AddContribution(ctx context.Context, contributor *models.Contributor, amount uint64) error {
	now := time.Now()
	filter := bson.M{"address": contributor.Address}
	update := bson.M{
		"$setOnInsert": bson.M{
			"address":     contributor.Address,
			"fundraiser":  contributor.Fundraiser,
			"contributor": contributor.Contributor,
			"bump":        contributor.Bump,
			"created_at":  now,
		},
		"$inc": bson.M{"amount": int64(amount)},
		"$set": bson.M{"updated_at": now},
	}
	if _, err := app.DB.UpsertOne(ctx, models.CollectionContributors, filter, update); err != nil {
		return fmt.Errorf("failed to upsert contributor: %w", err)
	}
	return nil
}

func (s *mongoStore) DeleteContributor(ctx context.Context, address string) error {
	deleted, err := app.DB.DeleteOne(ctx, models.CollectionContributors, bson.M{"address": address})
	if err != nil {
		return fmt.Errorf("failed to delete contributor: %w", err)
	}
	if deleted == 0 {
		return ErrContributorNotFound
	}
	return nil
}

func (s *mongoStore) DeleteContributorsOf(ctx context.Context, fundraiser string) (int64, error) {
	deleted, err := app.DB.DeleteMany(ctx, models.CollectionContributors, bson.M{"fundraiser": fundraiser})
	if err != nil {
		return 0, fmt.Errorf("failed to delete contributors: %w", err)
	}
	return deleted, nil
}

type strandedFundraiser struct {
	Fundraiser string `bson:"_id"`
}

func (s *mongoStore) StrandedFundraisers(ctx context.Context) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$fundraiser"}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         models.CollectionFundraisers,
			"localField":   "_id",
			"foreignField": "address",
			"as":           "fundraisers",
		}}},
		{{Key: "$match", Value: bson.M{"fundraisers": bson.M{"$size": 0}}}},
		{{Key: "$project", Value: bson.M{"_id": 1}}},
	}

	var results []strandedFundraiser
	if err := app.DB.AggregateMany(ctx, models.CollectionContributors, pipeline, &results); err != nil {
		return nil, fmt.Errorf("failed to aggregate contributors: %w", err)
	}

	addresses := make([]string, 0, len(results))
	for _, result := range results {
		addresses = append(addresses, result.Fundraiser)
	}
	return addresses, nil
}

func NewStore() Store {
	return &mongoStore{}
}
