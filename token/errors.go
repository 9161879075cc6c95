package token

import "errors"

var (
	ErrMintNotFound          = errors.New("mint not found")
	ErrAccountNotFound       = errors.New("token account not found")
	ErrOwnerMismatch         = errors.New("authority does not own the source account")
	ErrMintMismatch          = errors.New("token accounts belong to different mints")
	ErrMintAuthorityMismatch = errors.New("authority is not the mint authority")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidAuthority      = errors.New("invalid authority")
	ErrAmountOverflow        = errors.New("amount overflows the ledger")
)
