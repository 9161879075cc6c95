package common

const (
	MinAmountToRaise          uint64 = 3
	MaxContributionPercentage uint64 = 10
	PercentageScaler          uint64 = 100
	SecondsToDays             int64  = 86400

	MaxDecimals uint8 = 18

	FundraiserSeed  = "fundraiser"
	ContributorSeed = "contributor"

	DefaultBIP39Passphrase = ""
	SigningDomain          = "fundraiser-escrow"
)
