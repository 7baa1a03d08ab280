package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Gateway is the remote storefront API.
type Gateway interface {
	ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetCart(ctx context.Context) (*Cart, error)
	AddToCart(ctx context.Context, productID string, qty int) error
	UpdateCartItem(ctx context.Context, itemID, productID string, qty int) error
	DeleteCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	calls      metrics.Calls
}

// Stats reports upstream call counts and the breaker state.
type Stats struct {
	metrics.Snapshot
	Breaker string `json:"breaker"`
}

func (c *Client) Stats() Stats {
	return Stats{Snapshot: c.calls.Snapshot(), Breaker: c.breaker.State().String()}
}

var _ Gateway = (*Client)(nil)

// ----------------- Constructor -----------------

// NewClient builds a client for {baseURL}/v2/api/{apiPath}.
func NewClient(baseURL, apiPath string, timeout time.Duration) *Client {
	if baseURL == "" || apiPath == "" {
		logger.L().Warn("shop api base url or path is empty")
	}

	endpoint := fmt.Sprintf("%s/v2/api/%s",
		strings.TrimRight(baseURL, "/"),
		strings.Trim(apiPath, "/"),
	)

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: newBreaker("shop-api"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Refusals (4xx) are answers, not outages. Neither is a caller hanging up.
		IsSuccessful: func(err error) bool {
			if errors.Is(err, errCallerGone) {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// ----------------- Catalog -----------------

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}

	path := "/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var res struct {
		Products   []Product  `json:"products"`
		Pagination Pagination `json:"pagination"`
	}
	if err := c.do(ctx, "list_products", http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}

	if res.Products == nil {
		res.Products = []Product{}
	}
	return &ProductPage{Products: res.Products, Pagination: res.Pagination}, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var res struct {
		Product *Product `json:"product"`
	}
	if err := c.do(ctx, "get_product", http.MethodGet, "/product/"+url.PathEscape(id), nil, &res); err != nil {
		return nil, err
	}
	if res.Product == nil {
		return nil, &APIError{Op: "get_product", Status: http.StatusNotFound, Message: "product not found"}
	}
	return res.Product, nil
}

// ----------------- Cart -----------------

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var res struct {
		Data struct {
			Carts      json.RawMessage `json:"carts"`
			Total      *float64        `json:"total"`
			FinalTotal *float64        `json:"final_total"`
		} `json:"data"`
	}
	if err := c.do(ctx, "get_cart", http.MethodGet, "/cart", nil, &res); err != nil {
		return nil, err
	}

	// carts is not always an array; anything else is an empty cart.
	lines := []CartLine{}
	if len(res.Data.Carts) > 0 {
		if err := json.Unmarshal(res.Data.Carts, &lines); err != nil {
			logger.FromCtx(ctx).Warn("cart payload is not a list, treating as empty", zap.Error(err))
			lines = []CartLine{}
		}
	}

	return &Cart{
		Lines:      lines,
		Total:      res.Data.Total,
		FinalTotal: res.Data.FinalTotal,
	}, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, qty int) error {
	if productID == "" {
		return ErrEmptyID
	}
	payload := cartItemPayload{ProductID: productID, Qty: qty}
	return c.do(ctx, "add_to_cart", http.MethodPost, "/cart", payload, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID, productID string, qty int) error {
	if itemID == "" || productID == "" {
		return ErrEmptyID
	}
	payload := cartItemPayload{ProductID: productID, Qty: qty}
	return c.do(ctx, "update_cart_item", http.MethodPut, "/cart/"+url.PathEscape(itemID), payload, nil)
}

func (c *Client) DeleteCartItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return ErrEmptyID
	}
	return c.do(ctx, "delete_cart_item", http.MethodDelete, "/cart/"+url.PathEscape(itemID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, "clear_cart", http.MethodDelete, "/carts", nil, nil)
}

// ----------------- Order -----------------

func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	var res struct {
		Message string  `json:"message"`
		Total   float64 `json:"total"`
		Created int64   `json:"create_at"`
		OrderID string  `json:"orderId"`
	}
	if err := c.do(ctx, "place_order", http.MethodPost, "/order", req, &res); err != nil {
		return nil, err
	}

	created := time.Now()
	if res.Created > 0 {
		created = time.Unix(res.Created, 0)
	}

	return &OrderResult{
		OrderID:   res.OrderID,
		Total:     res.Total,
		CreatedAt: created,
		Message:   res.Message,
	}, nil
}

// ----------------- Transport -----------------

// do sends one request through the breaker and decodes the body into out.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
	)

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(envelope{Data: payload})
		if err != nil {
			log.Error("failed to marshal request", zap.Error(err))
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
	}

	timer := metrics.StartTimer()
	raw, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, op, method, c.endpoint+path, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.calls.Refused.Inc()
		log.Warn("shop api short-circuited", zap.Error(err))
		return ErrUnavailable
	}
	c.calls.Observe(timer.Duration(), err != nil)
	if err != nil {
		log.Error("shop api request failed", zap.Error(err), zap.Duration("duration", timer.Duration()))
		return err
	}

	log.Debug("shop api request done", zap.Duration("duration", timer.Duration()))

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error("failed decoding response", zap.Error(err))
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, op, method, target string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set(logger.RequestIDHeader, reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, errCallerGone, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	status := parseStatus(raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Op: op, Status: resp.StatusCode, Message: status.message()}
	}
	if status.Success != nil && !*status.Success {
		return nil, &APIError{Op: op, Status: http.StatusUnprocessableEntity, Message: status.message()}
	}

	return raw, nil
}

// responseStatus is the success/message pair every response carries.
type responseStatus struct {
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
}

func parseStatus(raw []byte) responseStatus {
	var s responseStatus
	_ = json.Unmarshal(raw, &s)
	return s
}

// message flattens "message", which is a string or a list of strings.
func (s responseStatus) message() string {
	if len(s.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(s.Message, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(s.Message, &many); err == nil {
		return strings.Join(many, "; ")
	}

	return string(s.Message)
}
