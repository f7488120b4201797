package authoring

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Bidhigya/TechGhar/internal/api"
	"github.com/Bidhigya/TechGhar/internal/media"
)

// Session assembles one product create or edit. It owns the draft, the
// checked variant set, and the staged image pipeline; navigating away means
// dropping the session, draft and all.
type Session struct {
	client   *api.Client
	pipeline *media.Pipeline
	sfg      singleflight.Group // collapses duplicate reference fetches

	mu          sync.Mutex
	ref         ReferenceData
	started     bool
	productID   string // empty while creating
	draft       ProductDraft
	ports       []string
	committed   []media.Image
	fieldErrors map[string][]string
}

func NewSession(client *api.Client, pipeline *media.Pipeline) *Session {
	return &Session{
		client:      client,
		pipeline:    pipeline,
		fieldErrors: make(map[string][]string),
	}
}

// Start fetches categories, brands, and variant options exactly once for
// the session. Repeat calls return the already-fetched data; concurrent
// calls share one round-trip. Nothing else triggers a refetch.
func (s *Session) Start(ctx context.Context) (ReferenceData, error) {
	s.mu.Lock()
	if s.started {
		ref := s.ref
		s.mu.Unlock()
		return ref, nil
	}
	s.mu.Unlock()

	v, err, _ := s.sfg.Do("refdata", func() (interface{}, error) {
		var ref ReferenceData
		if err := s.fetchList(ctx, "/categories", &ref.Categories); err != nil {
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		if err := s.fetchList(ctx, "/brands", &ref.Brands); err != nil {
			return nil, fmt.Errorf("fetch brands: %w", err)
		}
		if err := s.fetchList(ctx, "/ports", &ref.Ports); err != nil {
			return nil, fmt.Errorf("fetch ports: %w", err)
		}
		return ref, nil
	})
	if err != nil {
		return ReferenceData{}, err
	}

	ref := v.(ReferenceData)
	s.mu.Lock()
	s.ref = ref
	s.started = true
	s.mu.Unlock()
	return ref, nil
}

func (s *Session) fetchList(ctx context.Context, path string, out any) error {
	env, err := s.client.Get(ctx, path)
	if err != nil {
		return err
	}
	return env.DecodeData(out)
}

// Load populates the session from a saved product for editing: scalars,
// checked ports, and its committed images.
func (s *Session) Load(ctx context.Context, productID string) error {
	env, err := s.client.Get(ctx, "/products/"+productID)
	if err != nil {
		return err
	}
	var rec productRecord
	if err = env.DecodeData(&rec); err != nil {
		return &api.TransportError{Op: "GET /products/" + productID, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.productID = productID
	s.draft = rec.ProductDraft
	s.ports = append([]string(nil), rec.Ports...)
	s.committed = append([]media.Image(nil), rec.Images...)
	for i := range s.committed {
		s.committed[i].State = media.StateConfirmed
	}
	return nil
}

// Draft returns the current draft values.
func (s *Session) Draft() ProductDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraft replaces the drafted scalars.
func (s *Session) SetDraft(draft ProductDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = draft
}

// TogglePort checks or unchecks one variant option.
func (s *Session) TogglePort(id string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ports {
		if existing == id {
			if !checked {
				s.ports = append(s.ports[:i], s.ports[i+1:]...)
			}
			return
		}
	}
	if checked {
		s.ports = append(s.ports, id)
	}
}

// Ports returns the checked variant option ids.
func (s *Session) Ports() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ports...)
}

// CommittedImages returns the images already attached to the product being
// edited.
func (s *Session) CommittedImages() []media.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]media.Image(nil), s.committed...)
}

// Submit sends the draft. Creates POST /products; edits PUT the product id
// and rely on images already being attached server-side, so the gallery id
// list rides along only on create.
//
// On a field-map rejection every message is routed to its field's error
// slot and the server error is returned; prior slots are cleared first so
// stale messages never linger. Success clears all slots and, on create,
// returns the new product id.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	req := productRequest{
		ProductDraft: s.draft,
		Ports:        append([]string(nil), s.ports...),
	}
	productID := s.productID
	s.mu.Unlock()

	var env *api.Envelope
	var err error
	if productID == "" {
		req.Gallery = s.pipeline.GalleryIDs()
		env, err = s.client.Post(ctx, "/products", req)
	} else {
		env, err = s.client.Put(ctx, "/products/"+productID, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldErrors = make(map[string][]string)
	if err != nil {
		if fields := api.FieldErrors(err); fields != nil {
			for field, messages := range fields {
				s.fieldErrors[field] = append([]string(nil), messages...)
			}
		}
		return "", err
	}

	if productID == "" {
		productID = env.ID.String()
		s.productID = productID
	}
	return productID, nil
}

// FieldError returns the authoritative (first) message for a field, or ""
// when the field has no error.
func (s *Session) FieldError(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if messages := s.fieldErrors[field]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// FieldMessages returns every message the server attached to a field. The
// full list is retained even though only the first is displayed today.
func (s *Session) FieldMessages(field string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fieldErrors[field]...)
}

// Pipeline exposes the session's staged image pipeline.
func (s *Session) Pipeline() *media.Pipeline {
	return s.pipeline
}

// Close discards the session: the draft is dropped and late upload
// responses are ignored.
func (s *Session) Close() {
	s.pipeline.Close()
}
