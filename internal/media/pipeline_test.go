package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidhigya/TechGhar/internal/api"
)

func respond(w http.ResponseWriter, body map[string]any) {
	json.NewEncoder(w).Encode(body)
}

func uploadOK(id, url string) map[string]any {
	return map[string]any{
		"status":  200,
		"message": "Image uploaded successfully",
		"data":    map[string]string{"id": id, "image_url": url},
	}
}

func TestStageFile_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/temp-images", r.URL.Path)
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "x1.png", header.Filename)
		respond(w, uploadOK("img-1", "/uploads/temp/img-1.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	img, err := sut.StageFile(context.Background(), "x1.png", strings.NewReader("png-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "img-1", img.ID)
	assert.Equal(t, "/uploads/temp/img-1.png", img.URL)
	assert.Equal(t, StateConfirmed, img.State)

	staged := sut.Staged()
	require.Len(t, staged, 1)
	assert.Equal(t, []string{"img-1"}, sut.GalleryIDs())
}

func TestStageFile_RejectionLeavesSetUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, map[string]any{
			"status":  400,
			"message": map[string][]string{"image": {"The image must be a file of type: jpg, jpeg, png."}},
		})
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	_, err := sut.StageFile(context.Background(), "notes.txt", strings.NewReader("text"))

	var rejected *UploadRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "The image must be a file of type: jpg, jpeg, png.", rejected.Reason)
	assert.Empty(t, sut.Staged())
}

func TestStageFile_TransportErrorPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	_, err := sut.StageFile(context.Background(), "x1.png", strings.NewReader("png"))

	assert.True(t, api.IsTransport(err))
	assert.Empty(t, sut.Staged())
}

func TestStageFile_OutOfOrderCompletionsMergeByID(t *testing.T) {
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	var pending sync.Once

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("image")
		require.NoError(t, err)
		if header.Filename == "first.png" {
			pending.Do(func() { close(firstArrived) })
			<-releaseFirst // hold the first upload until the second finished
			respond(w, uploadOK("img-first", "/t/first.png"))
			return
		}
		respond(w, uploadOK("img-second", "/t/second.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))

	done := make(chan error, 1)
	go func() {
		_, err := sut.StageFile(context.Background(), "first.png", strings.NewReader("a"))
		done <- err
	}()
	<-firstArrived

	_, err := sut.StageFile(context.Background(), "second.png", strings.NewReader("b"))
	require.NoError(t, err)

	close(releaseFirst)
	require.NoError(t, <-done)

	ids := sut.GalleryIDs()
	assert.ElementsMatch(t, []string{"img-first", "img-second"}, ids)
	assert.Equal(t, "img-second", ids[0], "completion order defines staging order")
}

func TestDiscard_LocalOnly(t *testing.T) {
	var serverCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		serverCalls++
		respond(w, uploadOK("img-1", "/t/1.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	_, err := sut.StageFile(context.Background(), "a.png", strings.NewReader("a"))
	require.NoError(t, err)
	require.Equal(t, 1, serverCalls)

	sut.Discard("img-1")
	assert.Empty(t, sut.Staged())
	assert.Equal(t, 1, serverCalls, "discarding staged images must not call the server")

	// Unknown id is a no-op.
	sut.Discard("ghost")
}

func TestRemoveCommitted_WaitsForAcknowledgment(t *testing.T) {
	var deletedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletedPath = r.URL.Path
			respond(w, map[string]any{"status": 200, "message": "Image deleted successfully"})
			return
		}
		respond(w, uploadOK("img-1", "/t/1.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	_, err := sut.StageFile(context.Background(), "a.png", strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, sut.RemoveCommitted(context.Background(), "img-1"))
	assert.Equal(t, "/delete-product-image/img-1", deletedPath)
	assert.Empty(t, sut.Staged())
}

func TestRemoveCommitted_FailureKeepsImageListed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			respond(w, map[string]any{"status": 500, "message": "Cannot delete default image"})
			return
		}
		respond(w, uploadOK("img-1", "/t/1.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	_, err := sut.StageFile(context.Background(), "a.png", strings.NewReader("a"))
	require.NoError(t, err)

	err = sut.RemoveCommitted(context.Background(), "img-1")
	be, ok := api.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot delete default image", be.Message)
	assert.Len(t, sut.Staged(), 1, "local state must not change before the server acknowledges")
}

func TestSetDefault_SendsReassignmentRequest(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/change-product-default-image", r.URL.Path)
		query = r.URL.RawQuery
		respond(w, map[string]any{"status": 200, "message": "Default image changed successfully"})
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	err := sut.SetDefault(context.Background(), "prod-9", "/uploads/products/img-1.png")

	require.NoError(t, err)
	assert.Contains(t, query, "product_id=prod-9")
	assert.Contains(t, query, "image=%2Fuploads%2Fproducts%2Fimg-1.png")
}

func TestAttachToProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/save-product-image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "prod-9", r.FormValue("product_id"))
		respond(w, uploadOK("img-7", "/uploads/products/img-7.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	img, err := sut.AttachToProduct(context.Background(), "prod-9", "b.png", strings.NewReader("b"))

	require.NoError(t, err)
	assert.Equal(t, "img-7", img.ID)
	assert.Equal(t, StateConfirmed, img.State)
	// Committed images do not join the staging set.
	assert.Empty(t, sut.Staged())
}

func TestStageFile_AfterCloseDiscardsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(w, uploadOK("img-late", "/t/late.png"))
	}))
	defer server.Close()

	sut := NewPipeline(api.NewClient(server.URL))
	sut.Close()

	_, err := sut.StageFile(context.Background(), "late.png", strings.NewReader("z"))
	require.NoError(t, err)
	assert.Empty(t, sut.Staged(), "a closed pipeline must not accumulate state")
}
