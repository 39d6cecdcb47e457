package mealie

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadRecipeImage submits an image file to the OCR-backed create
// endpoint and returns the generated recipe id. translateLanguage is a
// BCP 47 tag hint for the server-side text extraction.
func (c *Client) UploadRecipeImage(ctx context.Context, imagePath, translateLanguage string) (string, error) {
	op := "POST api/recipes/create/image"

	file, err := os.Open(imagePath)
	if err != nil {
		return "", &ValidationError{Msg: "opening image: " + err.Error()}
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.SetBoundary(uuid.New().String()); err != nil {
		return "", err
	}

	part, err := writer.CreateFormFile("images", filepath.Base(imagePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	q := url.Values{"translateLanguage": {translateLanguage}}
	endpoint := c.baseURL + "/api/recipes/create/image?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.status.SetDisconnected()
		return "", &NetworkError{Op: op, Err: err}
	}
	c.status.SetConnected()

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServerError{
			Status: resp.StatusCode,
			Op:     op,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}

	var id string
	if err := json.Unmarshal(respBody, &id); err != nil {
		// Some Mealie versions answer with the bare id instead of a
		// JSON string.
		return strings.Trim(strings.TrimSpace(string(respBody)), `"`), nil
	}
	return id, nil
}
