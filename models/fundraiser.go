package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionFundraisers  = "fundraisers"
	CollectionContributors = "contributors"
)

// derived view states of a fundraiser, never persisted
const (
	FundraiserStatusOpen      = "open"
	FundraiserStatusEnded     = "ended"
	FundraiserStatusTargetMet = "target_met"
)

type Fundraiser struct {
	Id            *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Address       string              `bson:"address" json:"address"`
	Maker         string              `bson:"maker" json:"maker"`
	MintToRaise   string              `bson:"mint_to_raise" json:"mint_to_raise"`
	Vault         string              `bson:"vault" json:"vault"`
	AmountToRaise uint64              `bson:"amount_to_raise" json:"amount_to_raise"`
	CurrentAmount uint64              `bson:"current_amount" json:"current_amount"`
	TimeStarted   int64               `bson:"time_started" json:"time_started"`
	Duration      uint16              `bson:"duration" json:"duration"`
	Bump          uint8               `bson:"bump" json:"bump"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

type Contributor struct {
	Id          *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Address     string              `bson:"address" json:"address"`
	Fundraiser  string              `bson:"fundraiser" json:"fundraiser"`
	Contributor string              `bson:"contributor" json:"contributor"`
	Amount      uint64              `bson:"amount" json:"amount"`
	Bump        uint8               `bson:"bump" json:"bump"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
