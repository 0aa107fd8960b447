package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jshop/jshop/internal/shop/app"
	"github.com/jshop/jshop/internal/shop/ports"
)

// Handler exposes the cart and order lifecycle over HTTP.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the lifecycle routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/carts", h.createCart)
		r.Route("/carts/{cartID}", func(r chi.Router) {
			r.Get("/", h.showCart)
			r.Delete("/", h.cancelCart)
			r.Post("/items", h.addItem)
			r.Delete("/items", h.removeItem)
			r.Post("/checkout", h.checkout)
			r.Post("/pay-as-guest", h.payAsGuest)
		})
		r.Get("/orders", h.listOrders)
		r.Route("/orders/{orderID}", func(r chi.Router) {
			r.Delete("/", h.cancelOrder)
			r.Post("/pay", h.pay)
		})
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type lineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.CreateCart(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"cart": cart})
}

func (h *Handler) showCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.ShowCart(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var payload lineRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cart, err := h.service.AddToCart(r.Context(), chi.URLParam(r, "cartID"), payload.ProductID, payload.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	var payload lineRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cart, err := h.service.RemoveFromCart(r.Context(), chi.URLParam(r, "cartID"), payload.ProductID, payload.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *Handler) cancelCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelCart(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// The key is reserved before the checkout runs, so two concurrent
	// requests with the same key cannot both place an order.
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		acquired, err := h.service.ReserveIdempotencyKey(ctx, idemKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !acquired {
			stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if stored != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(stored.StatusCode)
				_, _ = w.Write(stored.Body)
				return
			}
			writeError(w, http.StatusConflict, "a checkout with this idempotency key is in progress")
			return
		}
	}

	order, err := h.service.Checkout(ctx, chi.URLParam(r, "cartID"), payload.Username, payload.Password)
	if err != nil {
		if idemKey != "" {
			_ = h.service.ReleaseIdempotencyKey(ctx, idemKey)
		}
		writeDomainError(w, err)
		return
	}

	body, err := json.Marshal(map[string]any{"order": order})
	if err != nil {
		if idemKey != "" {
			_ = h.service.ReleaseIdempotencyKey(ctx, idemKey)
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if idemKey != "" {
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			OrderID:    order.ID,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.Pay(r.Context(), chi.URLParam(r, "orderID"), payload.Username, payload.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) payAsGuest(w http.ResponseWriter, r *http.Request) {
	var payload guestRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.PayAsGuest(r.Context(), chi.URLParam(r, "cartID"), payload.toDomain())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "orderID"), payload.Username, payload.Password); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var payload credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	orders, err := h.service.ListCustomerOrders(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
