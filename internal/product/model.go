package product

// Product is a catalog entry as shown in the storefront.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	OriginPrice float64  `json:"origin_price"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"image_url"`
	ImagesURL   []string `json:"images_url,omitempty"`
	Enabled     bool     `json:"enabled"`
	OnSale      bool     `json:"on_sale"`
}

type Listing struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	HasPrev    bool      `json:"has_prev"`
	HasNext    bool      `json:"has_next"`
	Category   string    `json:"category,omitempty"`
}

// Detail is the product modal: the product plus the quantity selector.
type Detail struct {
	Product         Product `json:"product"`
	QuantityOptions []int   `json:"quantity_options"`
	DefaultQuantity int     `json:"default_quantity"`
}

type ListQuery struct {
	Page     int
	Category string
}
