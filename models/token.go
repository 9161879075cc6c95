package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CollectionMints         = "mints"
	CollectionTokenAccounts = "token_accounts"
	CollectionTransfers     = "transfers"
)

// types of ledger movements
const (
	TransferKindTransfer = "transfer"
	TransferKindMintTo   = "mint_to"
)

type Mint struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Address   string              `bson:"address" json:"address"`
	Authority string              `bson:"authority" json:"authority"`
	Decimals  uint8               `bson:"decimals" json:"decimals"`
	Supply    uint64              `bson:"supply" json:"supply"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

type TokenAccount struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Address   string              `bson:"address" json:"address"`
	Owner     string              `bson:"owner" json:"owner"`
	Mint      string              `bson:"mint" json:"mint"`
	Amount    uint64              `bson:"amount" json:"amount"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at" json:"updated_at"`
}

type Transfer struct {
	Id        *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Kind      string              `bson:"kind" json:"kind"`
	Mint      string              `bson:"mint" json:"mint"`
	From      string              `bson:"from" json:"from"`
	To        string              `bson:"to" json:"to"`
	Authority string              `bson:"authority" json:"authority"`
	Amount    uint64              `bson:"amount" json:"amount"`
	Memo      string              `bson:"memo" json:"memo"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
