package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/Bidhigya/TechGhar/internal/api"
)

// UploadRejected means the server refused a staged file (wrong type, too
// large). The staging set is unchanged; the user may reselect.
type UploadRejected struct {
	Reason string
}

func (e *UploadRejected) Error() string {
	return fmt.Sprintf("upload rejected: %s", e.Reason)
}

// Pipeline manages staged product images from file selection through
// server-confirmed records. Uploads started close together may complete in
// any order; results are merged by server id, never by position.
type Pipeline struct {
	client *api.Client

	mu     sync.Mutex
	byID   map[string]Image
	order  []string
	closed bool
}

func NewPipeline(client *api.Client) *Pipeline {
	return &Pipeline{
		client: client,
		byID:   make(map[string]Image),
	}
}

type imageRecord struct {
	ID  api.ID `json:"id"`
	URL string `json:"image_url"`
}

// StageFile uploads one file to the temporary image endpoint. On success
// the confirmed image joins the staging set; on rejection the set is
// untouched and the server's reason is surfaced.
func (p *Pipeline) StageFile(ctx context.Context, filename string, file io.Reader) (Image, error) {
	env, err := p.client.PostFile(ctx, "/temp-images", "image", filename, file, nil)
	if err != nil {
		if be, ok := api.AsBusiness(err); ok {
			return Image{}, &UploadRejected{Reason: rejectionReason(be)}
		}
		return Image{}, err
	}

	var rec imageRecord
	if err = env.DecodeData(&rec); err != nil {
		return Image{}, &api.TransportError{Op: "POST /temp-images", Err: err}
	}
	if rec.ID == "" || rec.URL == "" {
		return Image{}, &api.TransportError{Op: "POST /temp-images", Err: fmt.Errorf("response missing image id or url")}
	}

	img := Image{ID: rec.ID.String(), URL: rec.URL, State: StateConfirmed}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		// The owning session is gone; drop the response rather than
		// mutate a dead staging set.
		return img, nil
	}
	if _, exists := p.byID[img.ID]; !exists {
		p.order = append(p.order, img.ID)
	}
	p.byID[img.ID] = img
	return img, nil
}

// Staged returns confirmed images in staging order.
func (p *Pipeline) Staged() []Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	images := make([]Image, 0, len(p.order))
	for _, id := range p.order {
		images = append(images, p.byID[id])
	}
	return images
}

// GalleryIDs returns the confirmed image ids in staging order, ready for a
// product submission.
func (p *Pipeline) GalleryIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.order))
	copy(ids, p.order)
	return ids
}

// Discard removes a pre-commit image from the local staging set only. The
// server copy is temporary and unreferenced, so no server call is made.
// Discarding an unknown id is a no-op.
func (p *Pipeline) Discard(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop(id)
}

// RemoveCommitted deletes an image already attached to a saved product.
// Local state changes only after the server acknowledges; on failure the
// image stays listed and the server message propagates.
func (p *Pipeline) RemoveCommitted(ctx context.Context, id string) error {
	if _, err := p.client.Delete(ctx, "/delete-product-image/"+id); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop(id)
	return nil
}

// SetDefault asks the server to mark one image as the product's primary
// image. Pure server-side reassignment; nothing changes locally.
func (p *Pipeline) SetDefault(ctx context.Context, productID, imageURL string) error {
	query := url.Values{"product_id": {productID}, "image": {imageURL}}
	_, err := p.client.Get(ctx, "/change-product-default-image?"+query.Encode())
	return err
}

// AttachToProduct uploads an image straight onto a saved product and
// returns the committed record. Used by the edit flow, where images skip
// staging and attach immediately.
func (p *Pipeline) AttachToProduct(ctx context.Context, productID, filename string, file io.Reader) (Image, error) {
	extra := map[string]string{"product_id": productID}
	env, err := p.client.PostFile(ctx, "/save-product-image", "image", filename, file, extra)
	if err != nil {
		if be, ok := api.AsBusiness(err); ok {
			return Image{}, &UploadRejected{Reason: rejectionReason(be)}
		}
		return Image{}, err
	}

	var rec imageRecord
	if err = env.DecodeData(&rec); err != nil {
		return Image{}, &api.TransportError{Op: "POST /save-product-image", Err: err}
	}
	return Image{ID: rec.ID.String(), URL: rec.URL, State: StateConfirmed}, nil
}

// Close marks the owning session as gone. Responses for in-flight uploads
// that land afterwards are discarded.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// drop removes id from the set and order. Callers hold the lock.
func (p *Pipeline) drop(id string) {
	if _, ok := p.byID[id]; !ok {
		return
	}
	delete(p.byID, id)
	for i, existing := range p.order {
		if existing == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// rejectionReason prefers the per-field message the server attaches to the
// image field, falling back to the plain message.
func rejectionReason(be *api.BusinessError) string {
	if msgs := be.Fields["image"]; len(msgs) > 0 {
		return msgs[0]
	}
	return be.Message
}
