package cart

import "storefront/internal/product"

// MinQuantity is the floor a line can be decremented to.
const MinQuantity = 1

// Item is the local copy of one remote cart line.
type Item struct {
	ID         string
	ProductID  string
	Qty        int
	Total      float64
	FinalTotal float64
	Product    product.Product
}

func (i Item) CanDecrement() bool {
	return i.Qty > MinQuantity
}

// LineTotal is qty × unit price, computed locally.
func (i Item) LineTotal() float64 {
	return float64(i.Qty) * i.Product.Price
}

// Cart mirrors the remote cart. Server totals are nil when the server did not report them.
type Cart struct {
	Items            []Item
	ServerTotal      *float64
	ServerFinalTotal *float64
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ComputedTotal is Σ qty × price over all lines.
func (c Cart) ComputedTotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// Total prefers the server total and falls back to ComputedTotal.
func (c Cart) Total() float64 {
	if c.ServerTotal != nil {
		return *c.ServerTotal
	}
	return c.ComputedTotal()
}

// FinalTotal is the discounted total, or Total when the server sent none.
func (c Cart) FinalTotal() float64 {
	if c.ServerFinalTotal != nil {
		return *c.ServerFinalTotal
	}
	return c.Total()
}

func (c Cart) Find(itemID string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

func (c Cart) Clone() Cart {
	out := Cart{Items: make([]Item, len(c.Items))}
	copy(out.Items, c.Items)
	if c.ServerTotal != nil {
		v := *c.ServerTotal
		out.ServerTotal = &v
	}
	if c.ServerFinalTotal != nil {
		v := *c.ServerFinalTotal
		out.ServerFinalTotal = &v
	}
	return out
}

type ItemView struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	Qty          int             `json:"qty"`
	Unit         string          `json:"unit"`
	LineTotal    float64         `json:"line_total"`
	CanDecrement bool            `json:"can_decrement"`
	Product      product.Product `json:"product"`
}

// View is the cart as rendered by the storefront.
type View struct {
	Items      []ItemView `json:"items"`
	Total      float64    `json:"total"`
	FinalTotal float64    `json:"final_total"`
	Empty      bool       `json:"empty"`
	Loading    bool       `json:"loading"`
}

func (c Cart) View(loading bool) View {
	items := make([]ItemView, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, ItemView{
			ID:           item.ID,
			ProductID:    item.ProductID,
			Qty:          item.Qty,
			Unit:         item.Product.Unit,
			LineTotal:    item.LineTotal(),
			CanDecrement: item.CanDecrement(),
			Product:      item.Product,
		})
	}

	return View{
		Items:      items,
		Total:      c.Total(),
		FinalTotal: c.FinalTotal(),
		Empty:      c.IsEmpty(),
		Loading:    loading,
	}
}
