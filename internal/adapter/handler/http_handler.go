package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/core/service"
	"pizzeria/internal/mw"
)

type HTTPHandler struct {
	coordinator *service.Coordinator
	accounts    *service.AccountService
	reports     *service.ReportingView
	catalog     *domain.Catalog
	jwtSecret   string
	log         *slog.Logger
}

func NewHTTPHandler(coordinator *service.Coordinator, accounts *service.AccountService, reports *service.ReportingView, catalog *domain.Catalog, jwtSecret string, log *slog.Logger) *HTTPHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPHandler{
		coordinator: coordinator,
		accounts:    accounts,
		reports:     reports,
		catalog:     catalog,
		jwtSecret:   jwtSecret,
		log:         log,
	}
}

type placeOrderRequest struct {
	RequestID       string `json:"request_id,omitempty"`
	SectionID       int    `json:"section_id"`
	SubsectionIndex int    `json:"subsection_index"`
	Confirm         bool   `json:"confirm"`
	Delivery        *bool  `json:"delivery,omitempty"`
}

type placeOrderResponse struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	result, err := h.coordinator.PlaceOrder(r.Context(), service.PlacementRequest{
		RequestID:       req.RequestID,
		SectionID:       req.SectionID,
		SubsectionIndex: req.SubsectionIndex,
		Confirm:         req.Confirm,
		Delivery:        req.Delivery,
	})
	if err != nil {
		status := http.StatusInternalServerError
		message := "internal error"

		switch {
		case errors.Is(err, domain.ErrUnknownSection), errors.Is(err, domain.ErrUnknownSubsection):
			status = http.StatusUnprocessableEntity
			message = err.Error()
		case errors.Is(err, domain.ErrInsufficientStock):
			status = http.StatusGone
			message = "sold out"
		case errors.Is(err, domain.ErrDuplicateRequest):
			status = http.StatusConflict
			message = "duplicate request"
		default:
			h.log.Error("place order failed", "error", err)
		}

		writeJSON(w, status, errorResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusOK, placeOrderResponse{
		OrderID: result.OrderID,
		Status:  string(result.Status),
	})
}

type sectionResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (h *HTTPHandler) Sections(w http.ResponseWriter, r *http.Request) {
	sections := h.catalog.Sections()
	out := make([]sectionResponse, 0, len(sections))
	for _, s := range sections {
		out = append(out, sectionResponse{ID: s.ID, Name: s.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

type subsectionResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

func (h *HTTPHandler) Subsections(w http.ResponseWriter, r *http.Request) {
	sectionID, err := strconv.Atoi(chi.URLParam(r, "sectionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid section id"})
		return
	}

	subs, err := h.catalog.Subsections(sectionID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown section"})
		return
	}

	out := make([]subsectionResponse, 0, len(subs))
	for i, name := range subs {
		out = append(out, subsectionResponse{Index: i + 1, Name: name})
	}
	writeJSON(w, http.StatusOK, out)
}

type orderResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

func (h *HTTPHandler) AdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.reports.ListOrders(r.Context())
	if err != nil {
		h.log.Error("list orders failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{ID: o.ID, CreatedAt: o.CreatedAt, Status: string(o.Status)})
	}
	writeJSON(w, http.StatusOK, out)
}

type itemCountResponse struct {
	ItemID int `json:"item_id"`
	Count  int `json:"count"`
}

func (h *HTTPHandler) AdminInventory(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reports.ListInventory(r.Context())
	if err != nil {
		h.log.Error("list inventory failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	out := make([]itemCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, itemCountResponse{ItemID: c.ItemID, Count: c.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Routes mounts every endpoint on a chi router.
func (h *HTTPHandler) Routes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Post("/api/user/register", h.Register)
	r.Post("/api/user/login", h.Login)

	r.Get("/api/catalog/sections", h.Sections)
	r.Get("/api/catalog/sections/{sectionID}/subsections", h.Subsections)

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(h.jwtSecret))

		r.Post("/api/user/nickname", h.SetNickname)
		r.Post("/api/orders", h.PlaceOrder)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin)
			r.Get("/api/admin/orders", h.AdminOrders)
			r.Get("/api/admin/inventory", h.AdminInventory)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
