package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionSignatures = "signatures"
)

type UsedSignature struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty"`
	Signature string              `bson:"signature"`
	Signer    string              `bson:"signer"`
	Operation string              `bson:"operation"`
	CreatedAt time.Time           `bson:"created_at"`
}
