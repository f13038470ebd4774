package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/handystore/storefront-bot/internal/conversation"
	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/export"
	"github.com/handystore/storefront-bot/internal/notify"
	"github.com/handystore/storefront-bot/internal/repository"
)

// Handler handles HTTP requests for the application.
type Handler struct {
	engine      *conversation.Engine
	orders      repository.OrderRepository
	exporter    *export.Exporter
	broadcaster *notify.Broadcaster
}

func NewHandler(engine *conversation.Engine, orders repository.OrderRepository, exporter *export.Exporter, broadcaster *notify.Broadcaster) *Handler {
	return &Handler{
		engine:      engine,
		orders:      orders,
		exporter:    exporter,
		broadcaster: broadcaster,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/events", h.handleEvent)
	mux.HandleFunc("GET /api/orders", h.handleGetOrders)
	mux.HandleFunc("GET /api/orders/export", h.handleExportOrders)
	mux.HandleFunc("POST /api/broadcast", h.handleBroadcast)
}

type EventRequest struct {
	UserID   string           `json:"user_id"`
	UserName string           `json:"user_name,omitempty"`
	Text     string           `json:"text,omitempty"`
	Callback *entity.Callback `json:"callback,omitempty"`
}

// handleEvent feeds one chat-transport update into the conversation
// engine and returns the reply the transport should render.
func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	out, err := h.engine.Handle(r.Context(), entity.Inbound{
		UserID:   req.UserID,
		UserName: req.UserName,
		Text:     req.Text,
		Callback: req.Callback,
	})
	if err != nil {
		slog.Error("Failed to handle event", "user_id", req.UserID, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *Handler) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		orders []entity.Order
		err    error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		orders, err = h.orders.ListByUser(ctx, userID)
	} else {
		orders, err = h.orders.ListAll(ctx)
	}
	if err != nil {
		slog.Error("Failed to get orders", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []entity.Order{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

func (h *Handler) handleExportOrders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := h.exporter.WriteCSV(r.Context(), w); err != nil {
		slog.Error("Failed to export orders", "err", err)
	}
}

type BroadcastRequest struct {
	Text string `json:"text"`
}

// handleBroadcast pushes a message to every known buyer.
func (h *Handler) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	report, err := h.broadcaster.SendAll(r.Context(), req.Text)
	if err != nil {
		slog.Error("Failed to broadcast", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// EnableCORS is a middleware to allow the admin dashboard to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
