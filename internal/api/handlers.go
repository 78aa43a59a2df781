/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    Each handler decodes a small JSON request, calls one GameState method and
    answers with the method's result plus a fresh snapshot.

    Key Responsibilities:
    - Input Validation (well-formed JSON, known commodity names)
    - Serialisation (one mutex; the engine itself is single-threaded)
    - Error Mapping (engine rejections become 4xx responses)
*/

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/everforgeworks/power-crude/internal/game"
)

// Request DTOs (Data Transfer Objects)
// Every action names the acting player; the engine checks it is their turn.

type PlayerRequest struct {
	Player int `json:"player"`
}

type SelectRequest struct {
	Player int    `json:"player"`
	Market string `json:"market"` // "regular" (default) or "manufacturing"
	Index  int    `json:"index"`  // Slot in that market, cheapest first
}

type BidRequest struct {
	Player int `json:"player"`
	Amount int `json:"amount"` // Must exceed the current high bid
}

type ProductionRequest struct {
	Player int   `json:"player"`
	Assets []int `json:"assets"` // Indices into the player's owned assets
}

type MarketRequest struct {
	Player int            `json:"player"`
	Order  map[string]int `json:"order"` // Commodity name -> units (negative sells)
}

// ActionResponse wraps the outcome of any accepted action.
type ActionResponse struct {
	Result any           `json:"result"`
	State  game.Snapshot `json:"state"`
}

// PlanResponse is the production and purchase guidance for one player.
type PlanResponse struct {
	Player     int            `json:"player"`
	Producible []int          `json:"producible"`  // Owned asset indices that could run this phase
	Required   game.Stockpile `json:"required"`    // Inputs the player still lacks
	EnergyBuy  int            `json:"energy_buy"`  // Current price per energy unit
	EnergySell int            `json:"energy_sell"` // Refund per unit left after production
}

// Server exposes one game session over HTTP.
type Server struct {
	mu   sync.Mutex      // Serialises every engine call; GameState has no locks of its own
	game *game.GameState // The one session this server hosts
	hub  *Hub            // Optional; nil disables /ws
	log  *slog.Logger
}

// NewServer wires a game to the REST API. hub may be nil.
func NewServer(g *game.GameState, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if hub != nil {
		hub.Attach(g)
	}
	return &Server{game: g, hub: hub, log: logger.With("component", "api")}
}

// Routes builds the router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	// Read-only views
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleGetState).Methods(http.MethodGet)
	api.HandleFunc("/players/{id:[0-9]+}/plan", s.handleGetPlan).Methods(http.MethodGet)
	api.HandleFunc("/standings", s.handleGetStandings).Methods(http.MethodGet)

	// Player actions
	api.HandleFunc("/phase/finish", s.handleFinishPhase).Methods(http.MethodPost)
	api.HandleFunc("/auction/select", s.handleSelect).Methods(http.MethodPost)
	api.HandleFunc("/auction/bid", s.handleBid).Methods(http.MethodPost)
	api.HandleFunc("/auction/pass", s.handlePass).Methods(http.MethodPost)
	api.HandleFunc("/auction/cancel", s.handleCancel).Methods(http.MethodPost)
	api.HandleFunc("/production", s.handleProduce).Methods(http.MethodPost)
	api.HandleFunc("/market", s.handleMarket).Methods(http.MethodPost)

	// Push channel for refresh hints
	if s.hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, s.game.ID, w, r)
		})
	}
	return r
}

// writeJSON sends v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps engine rejections to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrNotYourTurn):
		return http.StatusForbidden
	case errors.Is(err, game.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrPhaseIncomplete),
		errors.Is(err, game.ErrAlreadyActed),
		errors.Is(err, game.ErrAssetLimit),
		errors.Is(err, game.ErrMarketUnavailable),
		errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// decode reads the request body into v, answering 400 on malformed JSON.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// act runs one engine call under the lock and writes the response.
func (s *Server) act(w http.ResponseWriter, name string, fn func() (any, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Engine rejections are ordinary play (out of turn, too poor).
	result, err := fn()
	if err != nil {
		s.log.Info("action rejected", "action", name, "err", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	// Reply with the post-action snapshot.
	writeJSON(w, http.StatusOK, ActionResponse{Result: result, State: s.game.Snapshot()})
}

// handleGetState returns the full snapshot.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

// handleGetPlan answers "what can I run, and what should I buy".
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid player id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	producible, err := s.game.ProducibleAssets(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	required, err := s.game.RequiredCommodities(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	buy, sell := s.game.EnergyPrices()
	writeJSON(w, http.StatusOK, PlanResponse{
		Player:     id,
		Producible: producible,
		Required:   required,
		EnergyBuy:  buy,
		EnergySell: sell,
	})
}

// handleGetStandings returns players ranked for the final score.
func (s *Server) handleGetStandings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.game.Standings())
}

// handleFinishPhase advances the game to the next phase.
func (s *Server) handleFinishPhase(w http.ResponseWriter, r *http.Request) {
	s.act(w, "finish_phase", func() (any, error) {
		return s.game.FinishPhase()
	})
}

// handleSelect puts a lot up for auction.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decode(w, r, &req) {
		return
	}
	// Default to the regular market
	kind := game.RegularMarket
	if req.Market != "" {
		if err := kind.UnmarshalText([]byte(strings.ToLower(req.Market))); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	s.act(w, "auction_select", func() (any, error) {
		return s.game.SelectLot(req.Player, game.Lot{Market: kind, Index: req.Index})
	})
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	var req BidRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "auction_bid", func() (any, error) {
		return s.game.PlaceBid(req.Player, req.Amount)
	})
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "auction_pass", func() (any, error) {
		return s.game.PassAuction(req.Player)
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req PlayerRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "auction_cancel", func() (any, error) {
		return s.game.CancelLot(req.Player)
	})
}

// handleProduce runs the chosen assets for one player.
func (s *Server) handleProduce(w http.ResponseWriter, r *http.Request) {
	var req ProductionRequest
	if !decode(w, r, &req) {
		return
	}
	s.act(w, "produce", func() (any, error) {
		return s.game.ProduceAssets(req.Player, req.Assets)
	})
}

// handleMarket submits one player's whole buy/sell order.
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	var req MarketRequest
	if !decode(w, r, &req) {
		return
	}
	// Resolve display or wire names; "Iron Ore" and "iron_ore" may both
	// appear, so their quantities add up.
	order := make(map[game.Commodity]int, len(req.Order))
	for name, qty := range req.Order {
		c, err := game.ParseCommodity(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		order[c] += qty
	}
	s.act(w, "trade", func() (any, error) {
		return s.game.BuyCommodities(req.Player, order)
	})
}
