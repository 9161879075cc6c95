package fundraiser

// ProgramError is a named, non-retryable rejection of an operation
type ProgramError struct {
	Name    string
	Message string
}

func (e *ProgramError) Error() string {
	return e.Message
}

var (
	ErrInvalidAmount               = &ProgramError{"InvalidAmount", "the amount to raise is below the minimum"}
	ErrContributionTooSmall        = &ProgramError{"ContributionTooSmall", "the contribution is too small"}
	ErrContributionTooBig          = &ProgramError{"ContributionTooBig", "the contribution is too big"}
	ErrFundraiserEnded             = &ProgramError{"FundraiserEnded", "the fundraiser has ended"}
	ErrMaximumContributionsReached = &ProgramError{"MaximumContributionsReached", "the maximum amount of contributions has been reached"}
	ErrTargetNotMet                = &ProgramError{"TargetNotMet", "the target has not been met"}
	ErrTargetMet                   = &ProgramError{"TargetMet", "the target was met"}
	ErrFundraiserNotEnded          = &ProgramError{"FundraiserNotEnded", "the fundraiser has not ended yet"}

	ErrAlreadyInitialized  = &ProgramError{"AlreadyInitialized", "the maker already has a fundraiser"}
	ErrFundraiserNotFound  = &ProgramError{"FundraiserNotFound", "fundraiser not found"}
	ErrContributorNotFound = &ProgramError{"ContributorNotFound", "contributor not found"}
	ErrUnauthorized        = &ProgramError{"Unauthorized", "the signer is not authorized for this fundraiser"}
	ErrAmountOverflow      = &ProgramError{"AmountOverflow", "the amount overflows"}
	ErrResourceLocked      = &ProgramError{"ResourceLocked", "the fundraiser is busy, try again"}
)
