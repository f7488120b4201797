package checkout

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Bidhigya/TechGhar/internal/api"
	"github.com/Bidhigya/TechGhar/internal/cart"
)

const (
	// PaymentMethodCOD is the only payment method in this scope; card
	// payments go through a different flow that is not wired yet.
	PaymentMethodCOD = "cod"

	paymentStatusNotPaid = "not_paid"
	orderStatusPending   = "pending"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrSubmitInProgress = errors.New("an order submission is already in progress")
	ErrUnknownPayMethod = errors.New("unknown payment method")
)

// Orchestrator owns the order submission state machine:
// Idle -> Submitting -> {Succeeded, Failed}. While Submitting, repeat
// submissions are rejected, not queued.
type Orchestrator struct {
	client *api.Client
	cart   *cart.Cart

	mu     sync.Mutex
	status Status
}

func NewOrchestrator(client *api.Client, c *cart.Cart) *Orchestrator {
	return &Orchestrator{
		client: client,
		cart:   c,
		status: StatusIdle,
	}
}

// Status returns the current submission state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// PlaceOrder builds an order from the live cart snapshot plus the billing
// form and submits it. On success the cart and its persisted copy are
// cleared and the server-assigned order id is returned for navigation.
//
// A business rejection moves the orchestrator to Failed and leaves the cart
// untouched; the server message is surfaced verbatim through the returned
// error. A transport fault returns the orchestrator to Idle, also leaving
// the cart untouched, so the user may retry manually.
func (o *Orchestrator) PlaceOrder(ctx context.Context, billing BillingDetails, paymentMethod string) (string, error) {
	if paymentMethod != PaymentMethodCOD {
		return "", ErrUnknownPayMethod
	}

	o.mu.Lock()
	if o.status == StatusSubmitting {
		o.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	items := o.cart.Items()
	if len(items) == 0 {
		o.mu.Unlock()
		return "", ErrEmptyCart
	}
	o.status = StatusSubmitting
	o.mu.Unlock()

	var subTotal float64
	for _, item := range items {
		subTotal += item.Price * float64(item.Qty)
	}
	shipping := o.cart.Policy().Cost(subTotal)
	order := orderRequest{
		BillingDetails: billing,
		GrandTotal:     subTotal + shipping,
		SubTotal:       subTotal,
		Shipping:       shipping,
		Discount:       0,
		PaymentStatus:  paymentStatusNotPaid,
		PaymentMethod:  paymentMethod,
		Status:         orderStatusPending,
		Cart:           items,
	}

	env, err := o.client.Post(ctx, "/save-order", order)
	if err != nil {
		o.mu.Lock()
		if api.IsTransport(err) {
			o.status = StatusIdle
		} else {
			o.status = StatusFailed
		}
		o.mu.Unlock()
		return "", err
	}

	if clearErr := o.cart.Clear(ctx); clearErr != nil {
		// The order is placed; a stale persisted cart is a nuisance,
		// not a failure.
		log.Printf("clear cart after order: %v", clearErr)
	}

	o.mu.Lock()
	o.status = StatusSucceeded
	o.mu.Unlock()
	return env.ID.String(), nil
}

// Reset returns a terminal orchestrator to Idle so a new checkout can
// start (e.g. after navigating back to the cart).
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.IsTerminal() {
		o.status = StatusIdle
	}
}
