package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/order"
	"storefront/internal/product"

	"github.com/go-chi/chi/v5"
)

const maxBodySize = 1 << 20

type Handler struct {
	products product.Service
	carts    cart.Service
	orders   order.Service
}

func NewHandler(products product.Service, carts cart.Service, orders order.Service) *Handler {
	return &Handler{products: products, carts: carts, orders: orders}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type UpdateQuantityRequestDTO struct {
	Qty int `json:"qty"`
}

type CheckoutResponseDTO struct {
	Receipt *order.Receipt `json:"receipt"`
	Cart    cart.View      `json:"cart"`
	Draft   order.Form     `json:"draft"`
}

// ----------------- Catalog -----------------

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := product.ListQuery{Category: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			respondError(w, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return
		}
		q.Page = page
	}

	listing, err := h.products.List(r.Context(), q)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.products.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// GetSelected returns the product open in the detail view.
func (h *Handler) GetSelected(w http.ResponseWriter, r *http.Request) {
	p, ok := h.products.Selected()
	if !ok {
		respondError(w, http.StatusNotFound, "no_product_selected", "no product is open")
		return
	}
	respondJSON(w, http.StatusOK, product.NewDetail(*p))
}

func (h *Handler) CloseSelected(w http.ResponseWriter, r *http.Request) {
	h.products.CloseDetail()
	w.WriteHeader(http.StatusNoContent)
}

// ----------------- Cart -----------------

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Refresh(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	c, err := h.carts.Add(r.Context(), req.ProductID, req.Qty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusCreated, c)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.carts.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.Qty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Increment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Decrement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Clear(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.respondCart(w, http.StatusOK, c)
}

func (h *Handler) respondCart(w http.ResponseWriter, status int, c cart.Cart) {
	respondJSON(w, status, c.View(h.carts.Loading()))
}

// ----------------- Checkout -----------------

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.Draft())
}

func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var form order.Form
	if !decodeBody(w, r, &form) {
		return
	}
	respondJSON(w, http.StatusOK, h.orders.SaveDraft(form))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form order.Form
	if !decodeBody(w, r, &form) {
		return
	}

	receipt, err := h.orders.Checkout(r.Context(), form)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Receipt: receipt,
		Cart:    h.carts.Snapshot().View(h.carts.Loading()),
		Draft:   h.orders.Draft(),
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	receipts, err := h.orders.Receipts(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, receipts)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
