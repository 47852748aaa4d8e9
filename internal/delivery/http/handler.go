package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/egannguyen/go-car-showroom/internal/controller"
	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/photo"
	"github.com/egannguyen/go-car-showroom/internal/service"
	"github.com/egannguyen/go-car-showroom/internal/view"
)

// Handler handles HTTP requests for the application.
type Handler struct {
	ctrl *controller.Controller
}

func NewHandler(ctrl *controller.Controller) *Handler {
	return &Handler{
		ctrl: ctrl,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/view", h.handleGetView)
	mux.HandleFunc("GET /api/role", h.handleGetRole)
	mux.HandleFunc("PUT /api/role", h.handleSetRole)
	mux.HandleFunc("POST /api/role/toggle", h.handleToggleRole)
	mux.HandleFunc("PUT /api/tab", h.handleSwitchTab)
	mux.HandleFunc("GET /api/cars", h.handleGetCars)
	mux.HandleFunc("POST /api/cars", h.handleAddCar)
	mux.HandleFunc("PUT /api/cars/{id}", h.handleEditCar)
	mux.HandleFunc("DELETE /api/cars/{id}", h.handleDeleteCar)
	mux.HandleFunc("POST /api/cars/{id}/buy", h.handleBuyCar)
	mux.HandleFunc("GET /api/purchases", h.handleGetPurchases)
}

// ErrorResponse is the body of every failed request. View is the unchanged
// screen the client should keep showing.
type ErrorResponse struct {
	Error string     `json:"error"`
	View  view.Model `json:"view"`
}

type RoleRequest struct {
	Role string `json:"role"`
}

type TabRequest struct {
	Tab string `json:"tab"`
}

type CarRequest struct {
	Model string `json:"model"`
	Price string `json:"price"`
	Photo string `json:"photo"`
}

type BuyRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) handleGetView(w http.ResponseWriter, r *http.Request) {
	m, err := h.ctrl.View(r.Context())
	h.respond(w, m, err, http.StatusOK)
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"role":    h.ctrl.Role(),
		"blocked": h.ctrl.Blocked(),
	})
}

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	m, err := h.ctrl.SetRole(r.Context(), entity.Role(req.Role))
	h.respond(w, m, err, http.StatusOK)
}

func (h *Handler) handleToggleRole(w http.ResponseWriter, r *http.Request) {
	m, err := h.ctrl.ToggleRole(r.Context())
	h.respond(w, m, err, http.StatusOK)
}

func (h *Handler) handleSwitchTab(w http.ResponseWriter, r *http.Request) {
	var req TabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	m, err := h.ctrl.SwitchTab(r.Context(), entity.Tab(req.Tab))
	h.respond(w, m, err, http.StatusOK)
}

func (h *Handler) handleGetCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.ctrl.Cars(r.Context())
	if err != nil {
		slog.Error("Failed to get cars", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

func (h *Handler) handleGetPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.ctrl.Purchases(r.Context())
	if err != nil {
		slog.Error("Failed to get purchases", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}

func (h *Handler) handleAddCar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCarBody)
	req, ph, err := decodeCar(r)
	if err != nil {
		badCarBody(w, err)
		return
	}
	m, err := h.ctrl.AddCar(r.Context(), entity.AddCar{Model: req.Model, Price: req.Price}, ph)
	h.respond(w, m, err, http.StatusCreated)
}

func (h *Handler) handleEditCar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCarBody)
	req, ph, err := decodeCar(r)
	if err != nil {
		badCarBody(w, err)
		return
	}
	cmd := entity.EditCar{CarID: r.PathValue("id"), Model: req.Model, Price: req.Price}
	m, err := h.ctrl.EditCar(r.Context(), cmd, ph)
	h.respond(w, m, err, http.StatusOK)
}

func (h *Handler) handleDeleteCar(w http.ResponseWriter, r *http.Request) {
	var confirm service.Confirmer
	switch strings.ToLower(r.URL.Query().Get("confirm")) {
	case "yes", "true", "1":
		confirm = answer(true)
	case "no", "false", "0":
		confirm = answer(false)
	}
	m, err := h.ctrl.DeleteCar(r.Context(), r.PathValue("id"), confirm)
	h.respond(w, m, err, http.StatusOK)
}

func (h *Handler) handleBuyCar(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cmd := entity.BuyCar{
		CarID:         r.PathValue("id"),
		Name:          req.Name,
		Email:         req.Email,
		PaymentMethod: req.PaymentMethod,
	}
	m, err := h.ctrl.BuyCar(r.Context(), cmd)
	h.respond(w, m, err, http.StatusOK)
}

// maxCarBody caps a car form: one photo plus room for the text fields.
const maxCarBody = photo.MaxSize + 1<<20

func badCarBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

func (h *Handler) respond(w http.ResponseWriter, m view.Model, err error, okStatus int) {
	if err == nil {
		writeJSON(w, okStatus, m)
		return
	}
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: entity.UserMessage(err), View: m})
}

// StatusFor maps a controller error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrActionNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, entity.ErrRoleSelectionRequired):
		return http.StatusLocked
	case errors.Is(err, entity.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// answer is a confirmation already given in the request.
func answer(yes bool) service.Confirmer {
	return service.ConfirmFunc(func(context.Context, string) (bool, error) {
		return yes, nil
	})
}

// decodeCar reads a car form from JSON or multipart. A multipart "photo" file
// is captured asynchronously; a JSON "photo" is taken as a ready reference.
func decodeCar(r *http.Request) (CarRequest, *photo.Future, error) {
	var req CarRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, nil, err
		}
		if req.Photo == "" {
			return req, nil, nil
		}
		return req, photo.Resolved(req.Photo), nil
	}

	if err := r.ParseMultipartForm(photo.MaxSize); err != nil {
		return req, nil, err
	}
	req.Model = r.FormValue("model")
	req.Price = r.FormValue("price")

	file, hdr, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, err
	}
	return req, photo.Capture(file, hdr.Header.Get("Content-Type")), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "err", err)
	}
}

// EnableCORS is a middleware to allow a browser frontend to connect.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
