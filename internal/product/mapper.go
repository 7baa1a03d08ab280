package product

import "storefront/internal/shopapi"

func FromRemote(p shopapi.Product) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		OriginPrice: p.OriginPrice,
		Price:       p.Price,
		Unit:        p.Unit,
		Description: p.Description,
		Content:     p.Content,
		ImageURL:    p.ImageURL,
		ImagesURL:   p.ImagesURL,
		Enabled:     p.IsEnabled == 1,
		OnSale:      p.Price < p.OriginPrice,
	}
}

func FromRemoteList(items []shopapi.Product) []Product {
	out := make([]Product, 0, len(items))
	for _, p := range items {
		out = append(out, FromRemote(p))
	}
	return out
}
