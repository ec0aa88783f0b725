package web

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/akapur/autosplit/internal/payments"
)

// decodeAmount parses a JSON amount exactly, rejecting zero and negatives.
func decodeAmount(raw json.Number) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw.String())
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

type upiPayRequest struct {
	UPI    string      `json:"upi"`
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
	Note   string      `json:"note"`
}

func (s *Server) handlePayUPI(w http.ResponseWriter, r *http.Request) {
	var req upiPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UPI == "" {
		s.writeError(w, http.StatusBadRequest, "upi required")
		return
	}
	amount, ok := decodeAmount(req.Amount)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	name := req.Name
	if name == "" {
		name = "Friend"
	}
	note := req.Note
	if note == "" {
		note = "AutoSplit"
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"upi_link": payments.UPILink(req.UPI, name, amount, note),
	})
}

type venmoPayRequest struct {
	VenmoID string      `json:"venmo_id"`
	Amount  json.Number `json:"amount"`
	Note    string      `json:"note"`
}

func (s *Server) handlePayVenmo(w http.ResponseWriter, r *http.Request) {
	var req venmoPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VenmoID == "" {
		s.writeError(w, http.StatusBadRequest, "venmo_id required")
		return
	}
	amount, ok := decodeAmount(req.Amount)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	note := req.Note
	if note == "" {
		note = "AutoSplit"
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"venmo_link": payments.VenmoLink(req.VenmoID, amount, note),
	})
}

type stripePayRequest struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
}

func (s *Server) handlePayStripe(w http.ResponseWriter, r *http.Request) {
	if s.stripe == nil {
		s.writeError(w, http.StatusServiceUnavailable, "stripe is not configured")
		return
	}

	var req stripePayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, ok := decodeAmount(req.Amount)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	desc := req.Description
	if desc == "" {
		desc = "AutoSplit payment"
	}

	intent, err := s.stripe.CreatePaymentIntent(r.Context(), amount, s.currency, desc)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, "failed to create payment intent")
		s.logger.Error("stripe payment intent failed", "error", err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"client_secret": intent.ClientSecret,
		"stripe_pub":    s.stripePubKey,
	})
}
