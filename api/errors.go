package api

import (
	"errors"
	"net/http"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/fundraiser"
	"github.com/dan13ram/fundraiser-escrow/token"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type knownError struct {
	err    error
	name   string
	status int
}

var programStatus = map[*fundraiser.ProgramError]int{
	fundraiser.ErrFundraiserNotFound:  http.StatusNotFound,
	fundraiser.ErrContributorNotFound: http.StatusNotFound,
	fundraiser.ErrUnauthorized:        http.StatusForbidden,
	fundraiser.ErrAlreadyInitialized:  http.StatusConflict,
	fundraiser.ErrResourceLocked:      http.StatusConflict,
}

var knownErrors = []knownError{
	{token.ErrMintNotFound, "MintNotFound", http.StatusNotFound},
	{token.ErrAccountNotFound, "AccountNotFound", http.StatusNotFound},
	{token.ErrOwnerMismatch, "OwnerMismatch", http.StatusForbidden},
	{token.ErrMintAuthorityMismatch, "MintAuthorityMismatch", http.StatusForbidden},
	{token.ErrInvalidAuthority, "InvalidAuthority", http.StatusForbidden},
	{token.ErrMintMismatch, "MintMismatch", http.StatusUnprocessableEntity},
	{token.ErrInsufficientFunds, "InsufficientFunds", http.StatusUnprocessableEntity},
	{token.ErrAmountOverflow, "AmountOverflow", http.StatusUnprocessableEntity},
	{common.ErrInvalidDecimals, "InvalidDecimals", http.StatusBadRequest},
	{common.ErrInvalidSignature, "InvalidSignature", http.StatusUnauthorized},
	{ErrSignatureExpired, "SignatureExpired", http.StatusUnauthorized},
	{ErrSignatureReused, "SignatureReused", http.StatusConflict},
	{ErrInvalidRequest, "InvalidRequest", http.StatusBadRequest},
}

// errorFor maps err to a status and body; anything unknown is a 500
func errorFor(err error) (int, errorResponse) {
	var programErr *fundraiser.ProgramError
	if errors.As(err, &programErr) {
		status, ok := programStatus[programErr]
		if !ok {
			status = http.StatusUnprocessableEntity
		}
		return status, errorResponse{Error: programErr.Name, Message: programErr.Message}
	}

	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			return known.status, errorResponse{Error: known.name, Message: err.Error()}
		}
	}

	return http.StatusInternalServerError, errorResponse{Error: "Internal", Message: "internal error"}
}

func (h *Handler) error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorFor(err)
	entry := log.WithField("path", r.URL.Path).WithField("status", status)
	if status == http.StatusInternalServerError {
		entry.Error("[API] Error handling request: ", err)
	} else {
		entry.Debug("[API] Rejected request: ", err)
	}
	h.json(w, status, body)
}
