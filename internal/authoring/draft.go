package authoring

import "github.com/Bidhigya/TechGhar/internal/media"

// ProductDraft holds the scalar product fields being authored. The draft
// belongs to exactly one session and is discarded with it.
type ProductDraft struct {
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Brand            string  `json:"brand"`
	SKU              string  `json:"sku"`
	Barcode          string  `json:"barcode"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	ComparePrice     float64 `json:"compare_price"`
	Qty              int     `json:"qty"`
	Status           int     `json:"status"`
	IsFeatured       bool    `json:"is_featured"`
}

// productRequest is the submission payload: the drafted scalars plus the
// checked variant ids and the confirmed staged image ids.
type productRequest struct {
	ProductDraft
	Ports   []string `json:"ports"`
	Gallery []string `json:"gallery"`
}

// productRecord is a saved product as the server returns it.
type productRecord struct {
	ID string `json:"id"`
	ProductDraft
	Ports  []string      `json:"ports"`
	Images []media.Image `json:"product_images"`
}
