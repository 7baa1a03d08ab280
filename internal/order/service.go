package order

import (
	"context"
	"sync"
	"time"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/shopapi"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Placer submits orders to the remote API.
type Placer interface {
	PlaceOrder(ctx context.Context, req shopapi.OrderRequest) (*shopapi.OrderResult, error)
}

// CartSource is the cart mirror checkout reads from.
type CartSource interface {
	Refresh(ctx context.Context) (cart.Cart, error)
}

// Publisher announces accepted orders.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type Service interface {
	Draft() Form
	SaveDraft(f Form) Form
	Checkout(ctx context.Context, f Form) (*Receipt, error)
	Receipts(ctx context.Context, limit int) ([]*Receipt, error)
}

type service struct {
	placer    Placer
	carts     CartSource
	repo      Repository
	publisher Publisher

	submitting sync.Mutex

	mu    sync.RWMutex
	draft Form
}

// NewService wires checkout. repo and publisher may be nil.
func NewService(placer Placer, carts CartSource, repo Repository, publisher Publisher) Service {
	if repo == nil {
		repo = NopRepository{}
	}
	return &service{
		placer:    placer,
		carts:     carts,
		repo:      repo,
		publisher: publisher,
	}
}

func (s *service) Draft() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

func (s *service) SaveDraft(f Form) Form {
	f = f.Normalize()

	s.mu.Lock()
	s.draft = f
	s.mu.Unlock()

	return f
}

// Checkout validates the form, places the order and clears the draft.
// On any failure the draft keeps what was submitted.
func (s *service) Checkout(ctx context.Context, f Form) (*Receipt, error) {
	if !s.submitting.TryLock() {
		return nil, ErrCheckoutInProgress
	}
	defer s.submitting.Unlock()

	f = s.SaveDraft(f)
	log := logger.FromCtx(ctx).With(zap.String("email", f.Email))

	if verr := f.Validate(); verr != nil {
		log.Info("checkout form rejected", zap.Int("invalid_fields", len(verr.Fields)))
		return nil, verr
	}

	c, err := s.carts.Refresh(ctx)
	if err != nil {
		log.Error("failed to read cart before checkout", zap.Error(err))
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}

	res, err := s.placer.PlaceOrder(ctx, shopapi.OrderRequest{
		User: shopapi.Customer{
			Email:   f.Email,
			Name:    f.Name,
			Tel:     f.Tel,
			Address: f.Address,
		},
		Message: f.Message,
	})
	if err != nil {
		log.Error("failed to place order", zap.Error(err))
		return nil, err
	}

	receipt := newReceipt(res, f, c)
	log = log.With(zap.String("order_id", receipt.OrderID), zap.Float64("total", receipt.Total))
	log.Info("order placed")

	// The remote cart is emptied by the order; bring the mirror along.
	if _, err := s.carts.Refresh(ctx); err != nil {
		log.Warn("failed to refresh cart after checkout", zap.Error(err))
	}

	if receipt.OrderID == "" {
		log.Warn("remote order id missing, receipt not saved", zap.String("number", receipt.Number))
	} else if err := s.repo.SaveReceipt(ctx, receipt); err != nil {
		log.Error("failed to save receipt", zap.Error(err))
	}

	if s.publisher != nil {
		event := PlacedEvent{
			Type:       EventOrderPlaced,
			OrderID:    receipt.OrderID,
			Total:      receipt.Total,
			Email:      receipt.Email,
			Items:      receipt.Items,
			OccurredAt: receipt.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, receipt.OrderID, event); err != nil {
			log.Error("failed to publish order event", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.draft = Form{}
	s.mu.Unlock()

	return receipt, nil
}

func (s *service) Receipts(ctx context.Context, limit int) ([]*Receipt, error) {
	receipts, err := s.repo.ListReceipts(ctx, limit)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list receipts", zap.Error(err))
		return nil, err
	}
	return receipts, nil
}

func newReceipt(res *shopapi.OrderResult, f Form, c cart.Cart) *Receipt {
	items := make([]ReceiptItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, ReceiptItem{
			ProductID: item.ProductID,
			Title:     item.Product.Title,
			Qty:       item.Qty,
			Price:     item.Product.Price,
		})
	}

	total := res.Total
	if total == 0 {
		total = c.FinalTotal()
	}

	created := res.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return &Receipt{
		ID:        uuid.New(),
		Number:    newReceiptNumber(created),
		OrderID:   res.OrderID,
		Total:     total,
		Email:     f.Email,
		Name:      f.Name,
		Tel:       f.Tel,
		Address:   f.Address,
		Message:   f.Message,
		Items:     items,
		CreatedAt: created,
	}
}
