package models

import "time"

const (
	EventFundraiserInitialized = "fundraiser.initialized"
	EventFundraiserContributed = "fundraiser.contributed"
	EventFundraiserWithdrawn   = "fundraiser.withdrawn"
	EventFundraiserRefunded    = "fundraiser.refunded"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Fundraiser string    `json:"fundraiser"`
	Actor      string    `json:"actor"`
	Amount     uint64    `json:"amount"`
	Total      uint64    `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}
