package cart

// Item is one cart line. JSON field names match the storefront wire format
// and the persisted snapshot. Port is the variant label (empty when the
// product has no variants); two lines with the same product but different
// ports coexist.
type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	ImageURL string  `json:"image_url"`
	Port     string  `json:"port,omitempty"`
}

// Key identifies a cart line: same product id, same variant.
type Key struct {
	ProductID string
	Port      string
}

func (i Item) key() Key {
	return Key{ProductID: i.ID, Port: i.Port}
}
