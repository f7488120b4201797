// Package stub is an in-memory implementation of the storefront API
// contract. It backs cmd/stubserver for local development and the
// integration-style tests; it is not a production server.
package stub

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type namedRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type imageRecord struct {
	ID  string `json:"id"`
	URL string `json:"image_url"`
}

type productRecord struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Category         string        `json:"category"`
	Brand            string        `json:"brand"`
	SKU              string        `json:"sku"`
	Barcode          string        `json:"barcode"`
	ShortDescription string        `json:"short_description"`
	Description      string        `json:"description"`
	Price            float64       `json:"price"`
	ComparePrice     float64       `json:"compare_price"`
	Qty              int           `json:"qty"`
	Status           int           `json:"status"`
	IsFeatured       bool          `json:"is_featured"`
	Ports            []string      `json:"ports"`
	Images           []imageRecord `json:"product_images"`
	DefaultImage     string        `json:"default_image"`
}

type orderRecord struct {
	ID         string  `json:"id"`
	GrandTotal float64 `json:"grand_total"`
	Status     string  `json:"status"`
}

// Server holds the in-memory catalog state.
type Server struct {
	mu         sync.Mutex
	categories []namedRecord
	brands     []namedRecord
	ports      []namedRecord
	tempImages map[string]imageRecord
	products   map[string]*productRecord
	orders     map[string]orderRecord
}

func NewServer() *Server {
	return &Server{
		categories: []namedRecord{
			{ID: uuid.New().String(), Name: "Laptops"},
			{ID: uuid.New().String(), Name: "Accessories"},
		},
		brands: []namedRecord{
			{ID: uuid.New().String(), Name: "Lenovo"},
			{ID: uuid.New().String(), Name: "Dell"},
		},
		ports: []namedRecord{
			{ID: uuid.New().String(), Name: "USB-C"},
			{ID: uuid.New().String(), Name: "HDMI"},
			{ID: uuid.New().String(), Name: "Thunderbolt"},
		},
		tempImages: make(map[string]imageRecord),
		products:   make(map[string]*productRecord),
		orders:     make(map[string]orderRecord),
	}
}

// Handler builds the chi router for the API contract.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondData(w, map[string]string{"status": "ok"})
	})

	r.Get("/get-profile-details", s.getProfile)
	r.Post("/save-order", s.saveOrder)

	r.Get("/categories", s.listCategories)
	r.Get("/brands", s.listBrands)
	r.Get("/ports", s.listPorts)

	r.Post("/temp-images", s.uploadTempImage)
	r.Post("/save-product-image", s.saveProductImage)
	r.Delete("/delete-product-image/{id}", s.deleteProductImage)
	r.Get("/change-product-default-image", s.changeDefaultImage)

	r.Post("/products", s.createProduct)
	r.Get("/products/{id}", s.getProduct)
	r.Put("/products/{id}", s.updateProduct)

	return r
}
