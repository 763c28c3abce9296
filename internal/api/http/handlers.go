package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type Services struct {
	Activity  service.ActivityService
	Dashboard service.DashboardService
	Return    service.ReturnService
	Lending   service.LendingService
	Fine      service.FineService
}

type Handler struct {
	services *Services
	location *time.Location
	now      func() time.Time
}

// NewHandler builds the dashboard API. location decides "today" for default
// borrow dates.
func NewHandler(services *Services, location *time.Location) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		services: services,
		location: location,
		now:      time.Now,
	}
}

// WithClock replaces the handler's time source.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// NewRouter registers every route under its security name and wraps them in
// the logging, recovery and auth middleware.
func NewRouter(h *Handler, auth *AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger, Recoverer, auth.Handler)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name("Health")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/activity", h.GetActivityFeed).Methods(http.MethodGet).Name("GetActivityFeed")
	api.HandleFunc("/dashboard", h.GetDashboardSummary).Methods(http.MethodGet).Name("GetDashboardSummary")
	api.HandleFunc("/lendings", h.CreateLending).Methods(http.MethodPost).Name("CreateLending")
	api.HandleFunc("/lendings/{id:[0-9]+}/return", h.PreviewReturn).Methods(http.MethodGet).Name("PreviewReturn")
	api.HandleFunc("/lendings/{id:[0-9]+}/return", h.ProcessReturn).Methods(http.MethodPost).Name("ProcessReturn")
	api.HandleFunc("/fines", h.CreateFine).Methods(http.MethodPost).Name("CreateFine")
	api.HandleFunc("/fines/pending", h.ListPendingFines).Methods(http.MethodGet).Name("ListPendingFines")

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetActivityFeed(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("limit %q: %w", raw, domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	auth, _ := AuthFromContext(r.Context())
	feed, err := h.services.Activity.GetActivityFeed(r.Context(), auth, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": feed})
}

func (h *Handler) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	auth, _ := AuthFromContext(r.Context())
	summary, err := h.services.Dashboard.GetSummary(r.Context(), auth, h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type returnResponse struct {
	Outcome *domain.ReturnOutcome `json:"outcome"`
	Warning string                `json:"warning,omitempty"`
	Queued  *bool                 `json:"queued,omitempty"`
}

func (h *Handler) PreviewReturn(w http.ResponseWriter, r *http.Request) {
	id, err := lendingID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	auth, _ := AuthFromContext(r.Context())
	outcome, err := h.services.Return.PreviewReturn(r.Context(), auth, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Outcome: outcome})
}

// ProcessReturn answers 202 when the loan was returned but its fine is still
// outstanding. When the backend gave no clear answer to the return itself
// the error body carries whether the late fine was queued.
func (h *Handler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	id, err := lendingID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	auth, _ := AuthFromContext(r.Context())
	outcome, err := h.services.Return.ProcessReturn(r.Context(), auth, id)

	var partial *domain.PartialFailureError
	if errors.As(err, &partial) && outcome != nil {
		queued := partial.Queued
		writeJSON(w, http.StatusAccepted, returnResponse{
			Outcome: outcome,
			Warning: fmt.Sprintf("loan returned, step %s failed: %v", partial.Step, partial.Err),
			Queued:  &queued,
		})
		return
	}
	if partial != nil && outcome == nil {
		writeUnconfirmed(w, r, partial)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, returnResponse{Outcome: outcome})
}

type createLendingRequest struct {
	MemberID   int32  `json:"member_id"`
	BookID     int32  `json:"book_id"`
	BorrowDate string `json:"borrow_date"`
	DueDate    string `json:"due_date"`
}

func (h *Handler) CreateLending(w http.ResponseWriter, r *http.Request) {
	var req createLendingRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	now := h.now().In(h.location)
	borrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.BorrowDate != "" {
		d, err := time.Parse(time.DateOnly, req.BorrowDate)
		if err != nil {
			writeError(w, r, fmt.Errorf("borrow_date %q: %w", req.BorrowDate, domain.ErrInvalidInput))
			return
		}
		borrow = d
	}
	due, err := time.Parse(time.DateOnly, req.DueDate)
	if err != nil {
		writeError(w, r, fmt.Errorf("due_date %q: %w", req.DueDate, domain.ErrInvalidInput))
		return
	}

	auth, _ := AuthFromContext(r.Context())
	lending, err := h.services.Lending.CreateLending(r.Context(), auth, req.MemberID, req.BookID, borrow, due)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lending)
}

type createFineRequest struct {
	MemberID    int32           `json:"member_id"`
	BookID      *int32          `json:"book_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        domain.FineKind `json:"kind"`
	Description string          `json:"description"`
}

func (h *Handler) CreateFine(w http.ResponseWriter, r *http.Request) {
	var req createFineRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	auth, _ := AuthFromContext(r.Context())
	fine, err := h.services.Fine.CreateFine(r.Context(), auth, domain.FineDraft{
		MemberID:    req.MemberID,
		BookID:      req.BookID,
		Amount:      req.Amount,
		Kind:        req.Kind,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fine)
}

func (h *Handler) ListPendingFines(w http.ResponseWriter, r *http.Request) {
	pending, err := h.services.Fine.ListPendingFines(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending_fines": pending})
}

func lendingID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("lending id %q: %w", raw, domain.ErrInvalidInput)
	}
	return int32(id), nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("request body: %v: %w", err, domain.ErrInvalidInput)
	}
	return nil
}
