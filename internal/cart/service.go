package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"storefront/internal/logger"
	"storefront/internal/product"
	"storefront/internal/shopapi"

	"go.uber.org/zap"
)

// Remote is the remote cart API.
type Remote interface {
	GetCart(ctx context.Context) (*shopapi.Cart, error)
	AddToCart(ctx context.Context, productID string, qty int) error
	UpdateCartItem(ctx context.Context, itemID, productID string, qty int) error
	DeleteCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

// Service defines the cart mirror. Every mutation is sent to the remote
// cart and followed by a refresh, so the returned Cart is what the server holds.
type Service interface {
	Refresh(ctx context.Context) (Cart, error)
	Snapshot() Cart
	Loading() bool
	Add(ctx context.Context, productID string, qty int) (Cart, error)
	Increment(ctx context.Context, itemID string) (Cart, error)
	Decrement(ctx context.Context, itemID string) (Cart, error)
	SetQuantity(ctx context.Context, itemID string, qty int) (Cart, error)
	Remove(ctx context.Context, itemID string) (Cart, error)
	Clear(ctx context.Context) (Cart, error)
}

type service struct {
	remote Remote

	// loading is held for the whole round trip of one cart action.
	loading atomic.Bool

	mu     sync.RWMutex
	mirror Cart
}

func NewService(remote Remote) Service {
	return &service{remote: remote, mirror: Cart{Items: []Item{}}}
}

func (s *service) Loading() bool {
	return s.loading.Load()
}

func (s *service) Snapshot() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mirror.Clone()
}

// Refresh reads the remote cart into the mirror.
func (s *service) Refresh(ctx context.Context) (Cart, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	return s.refresh(ctx)
}

// Add puts qty of a product in the cart; qty 0 means 1.
func (s *service) Add(ctx context.Context, productID string, qty int) (Cart, error) {
	if qty == 0 {
		qty = product.MinSelectQuantity
	}
	if err := product.ValidateQuantity(qty); err != nil {
		return s.Snapshot(), ErrInvalidQuantity
	}

	return s.mutate(ctx, "add", func(ctx context.Context) error {
		return s.remote.AddToCart(ctx, productID, qty)
	}, zap.String("product_id", productID), zap.Int("qty", qty))
}

func (s *service) Increment(ctx context.Context, itemID string) (Cart, error) {
	return s.adjust(ctx, itemID, 1)
}

// Decrement lowers a line by one. A line at MinQuantity is left alone.
func (s *service) Decrement(ctx context.Context, itemID string) (Cart, error) {
	return s.adjust(ctx, itemID, -1)
}

func (s *service) SetQuantity(ctx context.Context, itemID string, qty int) (Cart, error) {
	if qty < MinQuantity {
		return s.Snapshot(), ErrInvalidQuantity
	}

	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	item, err := s.find(ctx, itemID)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.update(ctx, item, qty)
}

// Remove deletes a line. A line the remote no longer knows is ErrCartItemNotFound.
func (s *service) Remove(ctx context.Context, itemID string) (Cart, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	item, err := s.find(ctx, itemID)
	if err != nil {
		return s.Snapshot(), err
	}

	log := logger.FromCtx(ctx).With(zap.String("action", "remove"), zap.String("item_id", item.ID))

	if err := s.remote.DeleteCartItem(ctx, item.ID); err != nil {
		if shopapi.IsNotFound(err) {
			log.Warn("cart item already gone", zap.Error(err))
			if c, rerr := s.refresh(ctx); rerr != nil {
				return c, rerr
			}
			return s.Snapshot(), ErrCartItemNotFound
		}
		log.Error("cart action failed", zap.Error(err))
		return s.Snapshot(), err
	}
	log.Info("cart action done")

	return s.refresh(ctx)
}

func (s *service) Clear(ctx context.Context) (Cart, error) {
	return s.mutate(ctx, "clear", s.remote.ClearCart)
}

func (s *service) adjust(ctx context.Context, itemID string, delta int) (Cart, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	item, err := s.find(ctx, itemID)
	if err != nil {
		return s.Snapshot(), err
	}

	if delta < 0 && !item.CanDecrement() {
		return s.Snapshot(), ErrQuantityFloor
	}
	return s.update(ctx, item, item.Qty+delta)
}

// update must be called with the loading flag held.
func (s *service) update(ctx context.Context, item Item, qty int) (Cart, error) {
	if err := s.remote.UpdateCartItem(ctx, item.ID, item.ProductID, qty); err != nil {
		logger.FromCtx(ctx).Error("failed to update cart item",
			zap.String("item_id", item.ID),
			zap.Int("qty", qty),
			zap.Error(err),
		)
		return s.Snapshot(), err
	}
	return s.refresh(ctx)
}

func (s *service) mutate(ctx context.Context, action string, call func(context.Context) error, fields ...zap.Field) (Cart, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	log := logger.FromCtx(ctx).With(zap.String("action", action)).With(fields...)

	if err := call(ctx); err != nil {
		log.Error("cart action failed", zap.Error(err))
		return s.Snapshot(), err
	}
	log.Info("cart action done")

	return s.refresh(ctx)
}

// find looks the line up in the mirror, refreshing once if it is not there.
func (s *service) find(ctx context.Context, itemID string) (Item, error) {
	if item, ok := s.Snapshot().Find(itemID); ok {
		return item, nil
	}

	c, err := s.refresh(ctx)
	if err != nil {
		return Item{}, err
	}
	if item, ok := c.Find(itemID); ok {
		return item, nil
	}
	return Item{}, ErrCartItemNotFound
}

func (s *service) refresh(ctx context.Context) (Cart, error) {
	remote, err := s.remote.GetCart(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to refresh cart", zap.Error(err))
		return s.Snapshot(), fmt.Errorf("refresh cart: %w", err)
	}

	c := FromRemote(remote)

	s.mu.Lock()
	s.mirror = c
	s.mu.Unlock()

	return c.Clone(), nil
}

func (s *service) begin() error {
	if !s.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (s *service) end() {
	s.loading.Store(false)
}
