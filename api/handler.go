package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/fundraiser"
	"github.com/dan13ram/fundraiser-escrow/models"
	"github.com/dan13ram/fundraiser-escrow/token"
	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
)

// Handler serves the program and the token ledger over HTTP. The ledger
// must commit each call on its own, see token.NewAtomicLedger.
type Handler struct {
	program  *fundraiser.Program
	ledger   token.Ledger
	verifier *Verifier
}

type InitializeRequest struct {
	Envelope
	Mint     string `json:"mint"`
	Amount   uint64 `json:"amount"`
	Duration uint16 `json:"duration"`
}

type ContributeRequest struct {
	Envelope
	Amount uint64 `json:"amount"`
}

type SignedRequest struct {
	Envelope
}

type CreateMintRequest struct {
	Envelope
	Decimals uint8 `json:"decimals"`
}

type CreateAccountRequest struct {
	Owner string `json:"owner"`
}

type MintToRequest struct {
	Envelope
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

type AccountView struct {
	*models.TokenAccount
	Decimals uint8  `json:"decimals"`
	AmountUI string `json:"amount_ui"`
}

func (h *Handler) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	return nil
}

func addressParam(r *http.Request, name string) (solana.PublicKey, error) {
	address, err := common.ParseAddress(chi.URLParam(r, name))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	return address, nil
}

func parseAddress(field string, value string) (solana.PublicKey, error) {
	address, err := common.ParseAddress(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s: %s", ErrInvalidRequest, field, err.Error())
	}
	return address, nil
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req InitializeRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}
	mint, err := parseAddress("mint", req.Mint)
	if err != nil {
		h.error(w, r, err)
		return
	}

	maker, err := h.verifier.Verify(r.Context(), common.OperationInitialize, req.Envelope,
		mint.String(), formatUint(req.Amount), strconv.FormatUint(uint64(req.Duration), 10))
	if err != nil {
		h.error(w, r, err)
		return
	}

	record, err := h.program.Initialize(r.Context(), maker, mint, req.Amount, req.Duration)
	if err != nil {
		h.verifier.Release(r.Context(), req.Envelope, err)
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, record)
}

func (h *Handler) Fundraiser(w http.ResponseWriter, r *http.Request) {
	address, err := addressParam(r, "address")
	if err != nil {
		h.error(w, r, err)
		return
	}
	view, err := h.program.Fundraiser(r.Context(), address)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusOK, view)
}

func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	address, err := addressParam(r, "address")
	if err != nil {
		h.error(w, r, err)
		return
	}
	var req ContributeRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}

	contributor, err := h.verifier.Verify(r.Context(), common.OperationContribute, req.Envelope,
		address.String(), formatUint(req.Amount))
	if err != nil {
		h.error(w, r, err)
		return
	}

	record, err := h.program.Contribute(r.Context(), contributor, address, req.Amount)
	if err != nil {
		h.verifier.Release(r.Context(), req.Envelope, err)
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusOK, record)
}

func (h *Handler) Contributor(w http.ResponseWriter, r *http.Request) {
	address, err := addressParam(r, "address")
	if err != nil {
		h.error(w, r, err)
		return
	}
	contributor, err := addressParam(r, "contributor")
	if err != nil {
		h.error(w, r, err)
		return
	}
	view, err := h.program.Contributor(r.Context(), address, contributor)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusOK, view)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	address, err := addressParam(r, "address")
	if err != nil {
		h.error(w, r, err)
		return
	}
	var req SignedRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}

	maker, err := h.verifier.Verify(r.Context(), common.OperationCheckContributions, req.Envelope, address.String())
	if err != nil {
		h.error(w, r, err)
		return
	}

	withdrawal, err := h.program.CheckContributions(r.Context(), maker, address)
	if err != nil {
		h.verifier.Release(r.Context(), req.Envelope, err)
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusOK, withdrawal)
}

func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	address, err := addressParam(r, "address")
	if err != nil {
		h.error(w, r, err)
		return
	}
	var req SignedRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}

	contributor, err := h.verifier.Verify(r.Context(), common.OperationRefund, req.Envelope, address.String())
	if err != nil {
		h.error(w, r, err)
		return
	}

	result, err := h.program.Refund(r.Context(), contributor, address)
	if err != nil {
		h.verifier.Release(r.Context(), req.Envelope, err)
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusOK, result)
}

func (h *Handler) CreateMint(w http.ResponseWriter, r *http.Request) {
	var req CreateMintRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}

	authority, err := h.verifier.Verify(r.Context(), common.OperationCreateMint, req.Envelope,
		strconv.FormatUint(uint64(req.Decimals), 10))
	if err != nil {
		h.error(w, r, err)
		return
	}

	mint, err := h.ledger.CreateMint(r.Context(), authority, req.Decimals)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, mint)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	mint, err := addressParam(r, "mint")
	if err != nil {
		h.error(w, r, err)
		return
	}
	var req CreateAccountRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		h.error(w, r, err)
		return
	}

	account, err := h.ledger.CreateAccount(r.Context(), owner, mint)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusCreated, account)
}

func (h *Handler) MintTo(w http.ResponseWriter, r *http.Request) {
	mint, err := addressParam(r, "mint")
	if err != nil {
		h.error(w, r, err)
		return
	}
	var req MintToRequest
	if err := decode(r, &req); err != nil {
		h.error(w, r, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		h.error(w, r, err)
		return
	}

	authority, err := h.verifier.Verify(r.Context(), common.OperationMintTo, req.Envelope,
		mint.String(), owner.String(), formatUint(req.Amount))
	if err != nil {
		h.error(w, r, err)
		return
	}

	account, err := h.ledger.MintTo(r.Context(), authority, mint, owner, req.Amount)
	if err != nil {
		h.error(w, r, err)
		return
	}
	h.json(w, http.StatusOK, account)
}

func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	address, err := addressParam(r, "address")
	if err != nil {
		h.error(w, r, err)
		return
	}
	account, err := h.ledger.Account(r.Context(), address)
	if err != nil {
		h.error(w, r, err)
		return
	}

	mintAddress, err := common.ParseAddress(account.Mint)
	if err != nil {
		h.error(w, r, err)
		return
	}
	mint, err := h.ledger.Mint(r.Context(), mintAddress)
	if err != nil {
		h.error(w, r, err)
		return
	}

	h.json(w, http.StatusOK, AccountView{
		TokenAccount: account,
		Decimals:     mint.Decimals,
		AmountUI:     common.FormatAmount(account.Amount, mint.Decimals),
	})
}

func NewHandler(program *fundraiser.Program, ledger token.Ledger, verifier *Verifier) *Handler {
	return &Handler{
		program:  program,
		ledger:   ledger,
		verifier: verifier,
	}
}
