package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) getProfile(w http.ResponseWriter, _ *http.Request) {
	respondData(w, map[string]string{
		"name":    "Dev User",
		"email":   "dev@example.com",
		"address": "Baneshwor",
		"city":    "Kathmandu",
		"state":   "Bagmati",
		"zip":     "44600",
		"mobile":  "9800000000",
	})
}

type saveOrderRequest struct {
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	GrandTotal    float64           `json:"grand_total"`
	SubTotal      float64           `json:"sub_total"`
	Shipping      float64           `json:"shipping"`
	Discount      float64           `json:"discount"`
	PaymentStatus string            `json:"payment_status"`
	PaymentMethod string            `json:"payment_method"`
	Status        string            `json:"status"`
	Cart          []json.RawMessage `json:"cart"`
}

func (s *Server) saveOrder(w http.ResponseWriter, r *http.Request) {
	var req saveOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, 400, "invalid JSON body")
		return
	}
	if len(req.Cart) == 0 {
		respondError(w, 422, "Your cart is empty")
		return
	}
	if got := req.SubTotal + req.Shipping - req.Discount; got != req.GrandTotal {
		respondError(w, 422, fmt.Sprintf("Grand total mismatch: expected %.2f", got))
		return
	}

	order := orderRecord{
		ID:         uuid.New().String(),
		GrandTotal: req.GrandTotal,
		Status:     req.Status,
	}
	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	respond(w, envelope{Status: 200, Message: "Order placed successfully", ID: order.ID})
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, s.categories)
}

func (s *Server) listBrands(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, s.brands)
}

func (s *Server) listPorts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondData(w, s.ports)
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// readImageField pulls the single binary field off the multipart form and
// validates the extension the way the real backend does.
func readImageField(r *http.Request) (filename string, fieldErr map[string][]string) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return "", map[string][]string{"image": {"The image field is required."}}
	}
	_, header, err := r.FormFile("image")
	if err != nil {
		return "", map[string][]string{"image": {"The image field is required."}}
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", map[string][]string{"image": {"The image must be a file of type: jpg, jpeg, png, gif, webp."}}
	}
	return header.Filename, nil
}

func (s *Server) uploadTempImage(w http.ResponseWriter, r *http.Request) {
	filename, fieldErr := readImageField(r)
	if fieldErr != nil {
		respondError(w, 400, fieldErr)
		return
	}

	img := imageRecord{ID: uuid.New().String()}
	img.URL = "/uploads/temp/" + img.ID + path.Ext(filename)
	s.mu.Lock()
	s.tempImages[img.ID] = img
	s.mu.Unlock()

	respond(w, envelope{Status: 200, Message: "Image uploaded successfully", Data: img})
}

func (s *Server) saveProductImage(w http.ResponseWriter, r *http.Request) {
	filename, fieldErr := readImageField(r)
	if fieldErr != nil {
		respondError(w, 400, fieldErr)
		return
	}
	productID := r.FormValue("product_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		respondError(w, 404, "Product not found")
		return
	}
	img := imageRecord{ID: uuid.New().String()}
	img.URL = "/uploads/products/" + img.ID + path.Ext(filename)
	product.Images = append(product.Images, img)

	respond(w, envelope{Status: 200, Message: "Image saved successfully", Data: img})
}

func (s *Server) deleteProductImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range s.products {
		for i, img := range product.Images {
			if img.ID == id {
				product.Images = append(product.Images[:i], product.Images[i+1:]...)
				respond(w, envelope{Status: 200, Message: "Image deleted successfully"})
				return
			}
		}
	}
	respondError(w, 404, "Image not found")
}

func (s *Server) changeDefaultImage(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("product_id")
	image := r.URL.Query().Get("image")

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		respondError(w, 404, "Product not found")
		return
	}
	product.DefaultImage = image
	respond(w, envelope{Status: 200, Message: "Default image changed successfully"})
}

type productRequest struct {
	productRecord
	Gallery []string `json:"gallery"`
}

// validateProduct returns a Laravel-style field -> messages map, or nil
// when the payload is acceptable.
func validateProduct(req *productRequest) map[string][]string {
	fields := make(map[string][]string)
	if req.Title == "" {
		fields["title"] = append(fields["title"], "The title field is required.")
	}
	if req.Category == "" {
		fields["category"] = append(fields["category"], "The category field is required.")
	}
	if req.Brand == "" {
		fields["brand"] = append(fields["brand"], "The brand field is required.")
	}
	if req.Price <= 0 {
		fields["price"] = append(fields["price"], "The price must be greater than 0.")
	}
	if req.Qty < 1 {
		fields["qty"] = append(fields["qty"], "The qty must be at least 1.")
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, 400, "invalid JSON body")
		return
	}
	if fields := validateProduct(&req); fields != nil {
		respondError(w, 422, fields)
		return
	}

	product := req.productRecord
	product.ID = uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	// Promote staged gallery uploads to committed product images.
	for _, tempID := range req.Gallery {
		if img, ok := s.tempImages[tempID]; ok {
			committed := imageRecord{ID: img.ID, URL: strings.Replace(img.URL, "/temp/", "/products/", 1)}
			product.Images = append(product.Images, committed)
			delete(s.tempImages, tempID)
		}
	}
	s.products[product.ID] = &product

	respond(w, envelope{Status: 200, Message: "Product created successfully", ID: product.ID})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		respondError(w, 404, "Product not found")
		return
	}
	respondData(w, product)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, 400, "invalid JSON body")
		return
	}
	if fields := validateProduct(&req); fields != nil {
		respondError(w, 422, fields)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[id]
	if !ok {
		respondError(w, 404, "Product not found")
		return
	}
	updated := req.productRecord
	updated.ID = id
	updated.Images = existing.Images
	updated.DefaultImage = existing.DefaultImage
	s.products[id] = &updated

	respond(w, envelope{Status: 200, Message: "Product updated successfully", ID: id})
}
