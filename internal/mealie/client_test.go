package mealie

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaas/mealie-term/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, Token: "secret-token"})
	return client, srv
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth, gotAccept string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		json.NewEncoder(w).Encode(pagedItems[model.ShoppingItem]{})
	})

	_, err := client.FetchItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientUnwrapsPagedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/households/shopping/items", r.URL.Path)
		json.NewEncoder(w).Encode(pagedItems[model.ShoppingItem]{
			Items: []model.ShoppingItem{
				{ID: "a", Note: "Milch"},
				{ID: "b", Note: "Eier", Checked: true},
			},
		})
	})

	items, err := client.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milch", items[0].Note)
	assert.True(t, items[1].Checked)
}

func TestClientErrorTaxonomy(t *testing.T) {
	t.Run("server error carries status and body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		})

		_, err := client.FetchItems(context.Background())
		status, ok := IsServerError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, status)
	})

	t.Run("malformed body is a decode error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		_, err := client.FetchItems(context.Background())
		assert.True(t, IsDecodeError(err))
	})

	t.Run("unreachable host is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // connection refused from here on

		client := NewClient(Config{BaseURL: srv.URL, Token: "t"})
		_, err := client.FetchItems(context.Background())
		assert.True(t, IsNetworkError(err))
	})
}

func TestClientStatusFlips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(pagedItems[model.ShoppingItem]{})
	}))
	t.Cleanup(srv.Close)

	badSrv := httptest.NewServer(http.NotFoundHandler())
	badSrv.Close()

	good := NewClient(Config{BaseURL: srv.URL, Token: "t"})
	bad := NewClient(Config{BaseURL: badSrv.URL, Token: "t"})

	// A client starts connected, degrades on transport failure.
	assert.True(t, bad.Status().Connected())
	_, err := bad.FetchItems(context.Background())
	require.Error(t, err)
	assert.False(t, bad.Status().Connected())

	// Any completed exchange marks connected, server errors included.
	assert.True(t, good.Status().Connected())
	_, err = good.FetchItems(context.Background())
	require.NoError(t, err)
	assert.True(t, good.Status().Connected())
}

func TestServerErrorStillMeansConnected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	client.Status().SetDisconnected()
	_, err := client.FetchItems(context.Background())
	require.Error(t, err)

	// The exchange completed, so the transport is fine.
	assert.True(t, client.Status().Connected())
}

func TestOptionalHeadersOnPublicHost(t *testing.T) {
	// httptest binds to 127.0.0.1, which counts as private; build the
	// header set directly to check the filter.
	public := NewClient(Config{
		BaseURL:         "https://mealie.example.com",
		OptionalHeaders: map[string]string{"X-Proxy-Auth": "v", " ": ""},
	})
	assert.Equal(t, map[string]string{"X-Proxy-Auth": "v"}, public.headers)
}

func TestOptionalHeadersSuppressedOnPrivateHosts(t *testing.T) {
	for _, base := range []string{
		"http://localhost:9000",
		"http://127.0.0.1:9000",
		"http://192.168.1.10",
		"http://10.0.0.5",
		"http://172.16.0.1",
	} {
		c := NewClient(Config{
			BaseURL:         base,
			OptionalHeaders: map[string]string{"X-Proxy-Auth": "v"},
		})
		assert.Empty(t, c.headers, "base %s", base)
	}
}

func TestOptionalHeadersSentOnWire(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Proxy-Auth")
		json.NewEncoder(w).Encode(pagedItems[model.Label]{})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, Token: "t"})
	// Bypass the private-host filter; httptest serves on loopback.
	client.headers = map[string]string{"X-Proxy-Auth": "v"}

	_, err := client.FetchLabels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestUpdateItemSendsFullState(t *testing.T) {
	var got updateItemPayload
	qty := 2.0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/households/shopping/items/a", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateItem(context.Background(), model.ShoppingItem{
		ID:             "a",
		Note:           "Milch",
		Checked:        true,
		ShoppingListID: "list-1",
		Label:          &model.Label{ID: "l1"},
		Quantity:       &qty,
	})
	require.NoError(t, err)

	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "Milch", got.Note)
	assert.True(t, got.Checked)
	assert.Equal(t, "list-1", got.ShoppingListID)
	require.NotNil(t, got.LabelID)
	assert.Equal(t, "l1", *got.LabelID)
	require.NotNil(t, got.Quantity)
	assert.Equal(t, 2.0, *got.Quantity)
}

func TestTrailingSlashTrimmed(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://mealie.example.com/"})
	assert.Equal(t, "https://mealie.example.com", c.baseURL)
}
