package shopapi

import "time"

// Product is a catalog entry as served by the remote API.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	OriginPrice float64  `json:"origin_price"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	IsEnabled   int      `json:"is_enabled"`
	ImageURL    string   `json:"imageUrl"`
	ImagesURL   []string `json:"imagesUrl,omitempty"`
}

type Pagination struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	HasPrev     bool   `json:"has_pre"`
	HasNext     bool   `json:"has_next"`
	Category    string `json:"category"`
}

type ProductPage struct {
	Products   []Product
	Pagination Pagination
}

// ProductQuery narrows a catalog listing. Zero values mean "any".
type ProductQuery struct {
	Page     int
	Category string
}

// CartLine is one line of the remote cart.
type CartLine struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	Qty        int     `json:"qty"`
	Total      float64 `json:"total"`
	FinalTotal float64 `json:"final_total"`
	Product    Product `json:"product"`
}

// Cart is the remote cart. Total and FinalTotal are nil when the server omitted them.
type Cart struct {
	Lines      []CartLine
	Total      *float64
	FinalTotal *float64
}

type Customer struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Tel     string `json:"tel"`
	Address string `json:"address"`
}

type OrderRequest struct {
	User    Customer `json:"user"`
	Message string   `json:"message"`
}

type OrderResult struct {
	OrderID   string
	Total     float64
	CreatedAt time.Time
	Message   string
}

type cartItemPayload struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// envelope wraps every request body: {"data": ...}.
type envelope struct {
	Data any `json:"data"`
}
