package exchangerate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	return NewClient(srv.URL+"/", 2*time.Second, logger)
}

func TestFetchRates_Success(t *testing.T) {
	var gotPath string
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"base":"USD","date":"2026-10-18","time_last_updated":1760745601,"rates":{"USD":1,"EUR":0.92,"GBP":0.79}}`)
	})

	resp, err := client.FetchRates(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "/USD", gotPath)
	assert.Equal(t, "USD", resp.Base)
	assert.Equal(t, "2026-10-18", resp.Date)
	assert.Equal(t, int64(1760745601), resp.TimeLastUpdated)
	assert.Equal(t, map[string]float64{"USD": 1, "EUR": 0.92, "GBP": 0.79}, resp.Rates)
}

func TestFetchRates_NonSuccessStatus(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"result":"error"}`)
	})

	_, err := client.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestFetchRates_MalformedJSON(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"base":"USD","rates":`)
	})

	_, err := client.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse JSON")
}

func TestFetchRates_MissingRates(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"base":"USD","rates":null}`)
	})

	_, err := client.FetchRates(context.Background(), "USD")
	assert.ErrorIs(t, err, ErrMissingRates)
}

func TestFetchRates_EmptyBody(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response body")
}

func TestFetchRates_DeclaredCharset(t *testing.T) {
	payload, err := charmap.Windows1252.NewEncoder().String(`{"base":"EUR","date":"2026-10-18","rates":{"EUR":1,"USD":1.08}}`)
	require.NoError(t, err)

	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=windows-1252")
		_, _ = io.WriteString(w, payload)
	})

	resp, err := client.FetchRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.08, resp.Rates["USD"])
}

func TestFetchRates_UnsupportedCharset(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=x-unknown")
		_, _ = io.WriteString(w, `{"rates":{}}`)
	})

	_, err := client.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported charset")
}

func TestFetchRates_CanceledContext(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"rates":{}}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchRates(ctx, "USD")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchRates_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	client := NewClient(srv.URL, 50*time.Millisecond, logger)

	_, err := client.FetchRates(context.Background(), "USD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch error")
}

func TestDecodeCharset(t *testing.T) {
	body := []byte(`{}`)

	for _, ct := range []string{"", "application/json", "application/json; charset=UTF-8", "not a media type;;"} {
		r, err := decodeCharset(ct, body)
		require.NoError(t, err, ct)
		out, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, body, out)
	}
}
