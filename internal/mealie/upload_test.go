package mealie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRecipeImage(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "dinner.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("fake jpeg bytes"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/create/image", r.URL.Path)
		assert.Equal(t, "de", r.URL.Query().Get("translateLanguage"))

		require.NoError(t, r.ParseMultipartForm(1 << 20))
		file, header, err := r.FormFile("images")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "dinner.jpg", header.Filename)

		w.Write([]byte(`"recipe-123"`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})
	id, err := client.UploadRecipeImage(context.Background(), imagePath, "de")
	require.NoError(t, err)
	assert.Equal(t, "recipe-123", id)
}

func TestUploadRecipeImageBareIDResponse(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "dinner.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("x"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("recipe-456\n"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})
	id, err := client.UploadRecipeImage(context.Background(), imagePath, "en")
	require.NoError(t, err)
	assert.Equal(t, "recipe-456", id)
}

func TestUploadRecipeImageMissingFile(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:1", Token: "t"})
	_, err := client.UploadRecipeImage(context.Background(), "/does/not/exist.jpg", "de")

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
