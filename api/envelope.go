package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/fundraiser"
	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrSignatureExpired = errors.New("signature timestamp outside the accepted window")
	ErrSignatureReused  = errors.New("signature already used")
)

// Envelope is carried by every signed request body
type Envelope struct {
	Signer    string `json:"signer"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// SignatureStore remembers accepted signatures so each is used once
type SignatureStore interface {
	Use(ctx context.Context, signature string, signer string, operation string) error
	Release(ctx context.Context, signature string) error
}

type mongoSignatureStore struct{}

func (s *mongoSignatureStore) Use(ctx context.Context, signature string, signer string, operation string) error {
	used := models.UsedSignature{
		Signature: signature,
		Signer:    signer,
		Operation: operation,
		CreatedAt: time.Now(),
	}
	if _, err := app.DB.InsertOne(ctx, models.CollectionSignatures, used); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSignatureReused
		}
		return fmt.Errorf("failed to record signature: %w", err)
	}
	return nil
}

func (s *mongoSignatureStore) Release(ctx context.Context, signature string) error {
	if _, err := app.DB.DeleteOne(ctx, models.CollectionSignatures, bson.M{"signature": signature}); err != nil {
		return fmt.Errorf("failed to release signature: %w", err)
	}
	return nil
}

func NewSignatureStore() SignatureStore {
	return &mongoSignatureStore{}
}

// Verifier turns a signed envelope into an Authority for one operation
type Verifier struct {
	ttl  time.Duration
	used SignatureStore
	now  func() time.Time
}

func (v *Verifier) Verify(ctx context.Context, operation string, envelope Envelope, fields ...string) (common.Authority, error) {
	signer, err := common.ParseAddress(envelope.Signer)
	if err != nil {
		return common.Authority{}, fmt.Errorf("%w: signer: %s", ErrInvalidRequest, err.Error())
	}

	signed := time.Unix(envelope.Timestamp, 0)
	now := v.now()
	if signed.Before(now.Add(-v.ttl)) || signed.After(now.Add(v.ttl)) {
		return common.Authority{}, ErrSignatureExpired
	}

	signature, err := common.ParseSignature(envelope.Signature)
	if err != nil {
		return common.Authority{}, err
	}

	message := common.SigningMessage(operation, envelope.Timestamp, fields...)
	authority, err := common.NewSignedAuthority(signer, message, signature)
	if err != nil {
		return common.Authority{}, err
	}

	if err := v.used.Use(ctx, signature.String(), signer.String(), operation); err != nil {
		return common.Authority{}, err
	}
	return authority, nil
}

// Release frees the envelope's signature when the operation was turned away
// before it ran, so the same signed request can be retried
func (v *Verifier) Release(ctx context.Context, envelope Envelope, err error) {
	if !errors.Is(err, fundraiser.ErrResourceLocked) {
		return
	}
	signature, perr := common.ParseSignature(envelope.Signature)
	if perr != nil {
		return
	}
	if err := v.used.Release(ctx, signature.String()); err != nil {
		log.WithError(err).WithField("signer", envelope.Signer).Error("[API] Error releasing signature")
	}
}

func NewVerifier(ttl time.Duration, used SignatureStore) *Verifier {
	return &Verifier{
		ttl:  ttl,
		used: used,
		now:  time.Now,
	}
}
