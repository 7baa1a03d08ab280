package cart

import (
	"storefront/internal/product"
	"storefront/internal/shopapi"
)

func FromRemote(remote *shopapi.Cart) Cart {
	if remote == nil {
		return Cart{Items: []Item{}}
	}

	items := make([]Item, 0, len(remote.Lines))
	for _, line := range remote.Lines {
		productID := line.ProductID
		if productID == "" {
			productID = line.Product.ID
		}
		items = append(items, Item{
			ID:         line.ID,
			ProductID:  productID,
			Qty:        line.Qty,
			Total:      line.Total,
			FinalTotal: line.FinalTotal,
			Product:    product.FromRemote(line.Product),
		})
	}

	return Cart{
		Items:            items,
		ServerTotal:      remote.Total,
		ServerFinalTotal: remote.FinalTotal,
	}
}
