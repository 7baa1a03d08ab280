package product

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/shopapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalog is a mock implementation of the Catalog interface
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context, q shopapi.ProductQuery) (*shopapi.ProductPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopapi.ProductPage), args.Error(1)
}

func (m *MockCatalog) GetProduct(ctx context.Context, id string) (*shopapi.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopapi.Product), args.Error(1)
}

func samplePage() *shopapi.ProductPage {
	return &shopapi.ProductPage{
		Products: []shopapi.Product{
			{ID: "p1", Title: "Apple", Price: 80, OriginPrice: 100, Unit: "box", IsEnabled: 1},
			{ID: "p2", Title: "Pear", Price: 50, OriginPrice: 50, Unit: "kg"},
		},
		Pagination: shopapi.Pagination{TotalPages: 2, CurrentPage: 1, HasNext: true},
	}
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc := NewService(catalog)

		catalog.On("ListProducts", ctx, shopapi.ProductQuery{Page: 1, Category: "fruit"}).Return(samplePage(), nil)

		listing, err := svc.List(ctx, ListQuery{Page: 1, Category: "fruit"})
		require.NoError(t, err)
		require.Len(t, listing.Products, 2)
		assert.Equal(t, "Apple", listing.Products[0].Title)
		assert.True(t, listing.Products[0].Enabled)
		assert.True(t, listing.Products[0].OnSale)
		assert.False(t, listing.Products[1].OnSale)
		assert.Equal(t, 2, listing.TotalPages)
		assert.True(t, listing.HasNext)
		catalog.AssertExpectations(t)
	})

	t.Run("RemoteError", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc := NewService(catalog)

		catalog.On("ListProducts", ctx, shopapi.ProductQuery{}).Return(nil, errors.New("boom"))

		_, err := svc.List(ctx, ListQuery{})
		assert.EqualError(t, err, "boom")
	})
}

func TestService_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("FromListing", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc := NewService(catalog)
		catalog.On("ListProducts", ctx, shopapi.ProductQuery{}).Return(samplePage(), nil)

		_, err := svc.List(ctx, ListQuery{})
		require.NoError(t, err)

		detail, err := svc.Detail(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, "Pear", detail.Product.Title)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, detail.QuantityOptions)
		assert.Equal(t, 1, detail.DefaultQuantity)
		catalog.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)

		selected, ok := svc.Selected()
		require.True(t, ok)
		assert.Equal(t, "p2", selected.ID)

		svc.CloseDetail()
		_, ok = svc.Selected()
		assert.False(t, ok)
	})

	t.Run("FallsBackToRemote", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc := NewService(catalog)
		catalog.On("GetProduct", ctx, "p9").Return(&shopapi.Product{ID: "p9", Title: "Plum", Content: "sweet"}, nil)

		detail, err := svc.Detail(ctx, "p9")
		require.NoError(t, err)
		assert.Equal(t, "sweet", detail.Product.Content)
	})

	t.Run("NotFound", func(t *testing.T) {
		catalog := new(MockCatalog)
		svc := NewService(catalog)
		catalog.On("GetProduct", ctx, "nope").
			Return(nil, &shopapi.APIError{Op: "get_product", Status: http.StatusNotFound})

		_, err := svc.Detail(ctx, "nope")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("EmptyID", func(t *testing.T) {
		svc := NewService(new(MockCatalog))

		_, err := svc.Detail(ctx, "")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, ValidateQuantity(1))
	assert.NoError(t, ValidateQuantity(10))
	assert.ErrorIs(t, ValidateQuantity(0), ErrInvalidQuantity)
	assert.ErrorIs(t, ValidateQuantity(11), ErrInvalidQuantity)
}
