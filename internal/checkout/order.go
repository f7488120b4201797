package checkout

import "github.com/Bidhigya/TechGhar/internal/cart"

// BillingDetails carries the checkout form fields. Field-level validation
// (presence, email shape, numeric zip, 10-digit mobile) happens in the form
// layer before PlaceOrder is called; it is not re-checked here.
type BillingDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Mobile  string `json:"mobile"`
}

// orderRequest is the submission payload. Totals are computed from the live
// cart at submission time, never trusted from stale caller state.
type orderRequest struct {
	BillingDetails
	GrandTotal    float64     `json:"grand_total"`
	SubTotal      float64     `json:"sub_total"`
	Shipping      float64     `json:"shipping"`
	Discount      float64     `json:"discount"`
	PaymentStatus string      `json:"payment_status"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	Cart          []cart.Item `json:"cart"`
}
