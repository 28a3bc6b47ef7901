// Package http holds the JSON API handlers.
package http

import (
	"encoding/json"
	"log"
	"net/http"

	"finhub/internal/domain/link"
)

// singleUserID identifies the hub's only user to the provider.
const singleUserID = "1"

// LinkHandler drives the institution linking flow.
type LinkHandler struct {
	linkService *link.Service
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(linkService *link.Service) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleCreateLinkToken returns a fresh link token for the provider's link UI.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := h.linkService.CreateLinkToken(r.Context(), singleUserID)
	if err != nil {
		log.Printf("Error creating link token: %v", err)
		http.Error(w, "Failed to create link token", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, LinkTokenResponse{LinkToken: token})
}

// HandleExchange swaps a public token for an access token and persists the
// new item.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PublicToken == "" {
		http.Error(w, "publicToken is required", http.StatusBadRequest)
		return
	}

	item, err := h.linkService.ExchangePublicToken(r.Context(), req.PublicToken)
	if err != nil {
		log.Printf("Error exchanging public token: %v", err)
		http.Error(w, "Failed to exchange public token", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
