package product

import (
	"context"
	"sync"

	"storefront/internal/logger"
	"storefront/internal/shopapi"

	"go.uber.org/zap"
)

const (
	MinSelectQuantity = 1
	MaxSelectQuantity = 10
)

// Catalog is the part of the remote API the catalog view reads.
type Catalog interface {
	ListProducts(ctx context.Context, q shopapi.ProductQuery) (*shopapi.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*shopapi.Product, error)
}

// Service defines the catalog view.
type Service interface {
	List(ctx context.Context, q ListQuery) (*Listing, error)
	Detail(ctx context.Context, id string) (*Detail, error)
	Selected() (*Product, bool)
	CloseDetail()
}

type service struct {
	catalog Catalog

	mu       sync.RWMutex
	listed   []Product
	selected *Product
}

func NewService(catalog Catalog) Service {
	return &service{catalog: catalog}
}

// List fetches the catalog and keeps it as the current listing.
func (s *service) List(ctx context.Context, q ListQuery) (*Listing, error) {
	log := logger.FromCtx(ctx).With(zap.Int("page", q.Page), zap.String("category", q.Category))

	page, err := s.catalog.ListProducts(ctx, shopapi.ProductQuery{Page: q.Page, Category: q.Category})
	if err != nil {
		log.Error("failed to list products", zap.Error(err))
		return nil, err
	}

	products := FromRemoteList(page.Products)

	s.mu.Lock()
	s.listed = products
	s.mu.Unlock()

	log.Info("catalog listed", zap.Int("count", len(products)))

	return &Listing{
		Products:   products,
		Page:       page.Pagination.CurrentPage,
		TotalPages: page.Pagination.TotalPages,
		HasPrev:    page.Pagination.HasPrev,
		HasNext:    page.Pagination.HasNext,
		Category:   page.Pagination.Category,
	}, nil
}

// Detail opens the product modal. Products not in the current listing are fetched.
func (s *service) Detail(ctx context.Context, id string) (*Detail, error) {
	if id == "" {
		return nil, ErrProductNotFound
	}

	p, ok := s.lookup(id)
	if !ok {
		remote, err := s.catalog.GetProduct(ctx, id)
		if shopapi.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		if err != nil {
			logger.FromCtx(ctx).Error("failed to get product", zap.String("product_id", id), zap.Error(err))
			return nil, err
		}
		p = FromRemote(*remote)
	}

	s.mu.Lock()
	s.selected = &p
	s.mu.Unlock()

	return NewDetail(p), nil
}

// NewDetail pairs a product with the quantity selector.
func NewDetail(p Product) *Detail {
	return &Detail{
		Product:         p,
		QuantityOptions: QuantityOptions(),
		DefaultQuantity: MinSelectQuantity,
	}
}

// Selected returns the product currently open in the modal.
func (s *service) Selected() (*Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return nil, false
	}
	p := *s.selected
	return &p, true
}

func (s *service) CloseDetail() {
	s.mu.Lock()
	s.selected = nil
	s.mu.Unlock()
}

func (s *service) lookup(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.listed {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// QuantityOptions lists the values offered by the quantity selector.
func QuantityOptions() []int {
	opts := make([]int, 0, MaxSelectQuantity)
	for q := MinSelectQuantity; q <= MaxSelectQuantity; q++ {
		opts = append(opts, q)
	}
	return opts
}

func ValidateQuantity(qty int) error {
	if qty < MinSelectQuantity || qty > MaxSelectQuantity {
		return ErrInvalidQuantity
	}
	return nil
}
