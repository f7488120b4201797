package stub

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidhigya/TechGhar/internal/api"
	"github.com/Bidhigya/TechGhar/internal/authoring"
	"github.com/Bidhigya/TechGhar/internal/cart"
	"github.com/Bidhigya/TechGhar/internal/checkout"
	"github.com/Bidhigya/TechGhar/internal/media"
	"github.com/Bidhigya/TechGhar/internal/store"
)

func setup(t *testing.T) *api.Client {
	t.Helper()
	server := httptest.NewServer(NewServer().Handler())
	t.Cleanup(server.Close)
	return api.NewClient(server.URL)
}

func TestOrderFlow_EndToEnd(t *testing.T) {
	client := setup(t)
	ctx := context.Background()

	st := store.NewMemoryStore()
	basket := cart.New(ctx, st, cart.ShippingPolicy{FreeAbove: 20000, Fee: 150})
	require.NoError(t, basket.AddItem(ctx, cart.Item{ID: "p1", Title: "Mouse", Price: 1500}))
	require.NoError(t, basket.AddItem(ctx, cart.Item{ID: "p1", Title: "Mouse", Price: 1500}))

	orchestrator := checkout.NewOrchestrator(client, basket)
	orderID, err := orchestrator.PlaceOrder(ctx, checkout.BillingDetails{
		Name: "Asha", Email: "asha@example.com", Address: "Baneshwor",
		City: "Kathmandu", State: "Bagmati", Zip: "44600", Mobile: "9800000000",
	}, checkout.PaymentMethodCOD)

	require.NoError(t, err)
	assert.NotEmpty(t, orderID)
	assert.Empty(t, basket.Items())
}

func TestOrderFlow_GrandTotalMismatchRejected(t *testing.T) {
	client := setup(t)

	env, err := client.Post(context.Background(), "/save-order", map[string]any{
		"grand_total": 999.0,
		"sub_total":   3000.0,
		"shipping":    150.0,
		"discount":    0.0,
		"cart":        []map[string]any{{"id": "p1", "qty": 2}},
	})
	assert.Nil(t, env)

	be, ok := api.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, 422, be.Status)
	assert.Contains(t, be.Message, "Grand total mismatch")
}

func TestAuthoringFlow_EndToEnd(t *testing.T) {
	client := setup(t)
	ctx := context.Background()

	pipeline := media.NewPipeline(client)
	session := authoring.NewSession(client, pipeline)

	ref, err := session.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, ref.Categories)
	require.NotEmpty(t, ref.Brands)
	require.NotEmpty(t, ref.Ports)

	// Stage a gallery image, then author the product around it.
	staged, err := pipeline.StageFile(ctx, "hero.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, staged.ID)
	assert.Contains(t, staged.URL, "/uploads/temp/")

	session.SetDraft(authoring.ProductDraft{
		Title:    "ThinkPad X1 Carbon",
		Category: ref.Categories[0].ID,
		Brand:    ref.Brands[0].ID,
		Price:    185000,
		Qty:      5,
		Status:   1,
	})
	session.TogglePort(ref.Ports[0].ID, true)

	productID, err := session.Submit(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, productID)

	// The staged upload was promoted to a committed product image.
	edit := authoring.NewSession(client, media.NewPipeline(client))
	require.NoError(t, edit.Load(ctx, productID))
	assert.Equal(t, "ThinkPad X1 Carbon", edit.Draft().Title)
	images := edit.CommittedImages()
	require.Len(t, images, 1)
	assert.Contains(t, images[0].URL, "/uploads/products/")

	// Attach another image directly, make it the default, then remove it.
	attached, err := edit.Pipeline().AttachToProduct(ctx, productID, "side.png", strings.NewReader("more-bytes"))
	require.NoError(t, err)

	require.NoError(t, edit.Pipeline().SetDefault(ctx, productID, attached.URL))
	require.NoError(t, edit.Pipeline().RemoveCommitted(ctx, attached.ID))

	require.NoError(t, edit.Load(ctx, productID))
	assert.Len(t, edit.CommittedImages(), 1)
}

func TestAuthoringFlow_ValidationErrors(t *testing.T) {
	client := setup(t)
	session := authoring.NewSession(client, media.NewPipeline(client))
	session.SetDraft(authoring.ProductDraft{Price: -1})

	_, err := session.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "The title field is required.", session.FieldError("title"))
	assert.Equal(t, "The price must be greater than 0.", session.FieldError("price"))
	assert.Equal(t, "The qty must be at least 1.", session.FieldError("qty"))
}

func TestUploadTempImage_RejectsNonImage(t *testing.T) {
	client := setup(t)
	pipeline := media.NewPipeline(client)

	_, err := pipeline.StageFile(context.Background(), "notes.txt", strings.NewReader("text"))

	var rejected *media.UploadRejected
	require.ErrorAs(t, err, &rejected)
	assert.Contains(t, rejected.Reason, "must be a file of type")
	assert.Empty(t, pipeline.Staged())
}

func TestDeleteProductImage_UnknownID(t *testing.T) {
	client := setup(t)

	_, err := client.Delete(context.Background(), "/delete-product-image/ghost")
	be, ok := api.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, 404, be.Status)
}
