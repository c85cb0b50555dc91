package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, waits *[]time.Duration, opts ...Option) *Client {
	t.Helper()
	p := Policy{
		MaxAttempts: 5,
		Backoff:     FixedBackoff(2 * time.Second),
		Timer:       newRecordTimer(waits),
	}
	opts = append([]Option{WithPolicy(p)}, opts...)
	return NewClient(Config{TimeoutSeconds: 5}, zap.NewNop(), opts...)
}

func TestClient_Send_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	client := newTestClient(t, &waits)

	resp, err := client.Send(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}, waits, "Should wait between attempts")

	var body struct{ OK bool }
	require.NoError(t, resp.DecodeJSON(&body))
	assert.True(t, body.OK)
}

func TestClient_Send_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"woocommerce_rest_invalid"}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	client := newTestClient(t, &waits)

	_, err := client.Send(context.Background(), Request{URL: srv.URL})
	var ne *NonRetriableError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.StatusBadRequest, ne.StatusCode)
	assert.Contains(t, ne.Body, "woocommerce_rest_invalid")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, waits)
}

func TestClient_Send_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var waits []time.Duration
	client := newTestClient(t, &waits)

	_, err := client.Send(context.Background(), Request{URL: srv.URL})
	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 5, exhausted.Attempts)
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestClient_Send_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "ck_key", user)
		assert.Equal(t, "cs_secret", pass)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		assert.Equal(t, "existing", r.URL.Query().Get("keep"))

		data, _ := io.ReadAll(r.Body)
		var payload map[string]any
		assert.NoError(t, json.Unmarshal(data, &payload))
		assert.Equal(t, "value", payload["field"])

		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	client := newTestClient(t, &waits, WithBasicAuth("ck_key", "cs_secret"))

	_, err := client.Send(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/products?keep=existing",
		Query:  url.Values{"force": {"true"}},
		Body:   map[string]string{"field": "value"},
	})
	assert.NoError(t, err)
}

func TestClient_Send_EncodeFailure(t *testing.T) {
	var waits []time.Duration
	client := newTestClient(t, &waits)

	_, err := client.Send(context.Background(), Request{URL: "http://localhost", Body: make(chan int)})
	var ne *NonRetriableError
	assert.ErrorAs(t, err, &ne)
}

func TestResponse_DecodeJSON_Malformed(t *testing.T) {
	resp := &Response{StatusCode: 200, Body: []byte("<html>maintenance</html>")}
	var v map[string]any
	err := resp.DecodeJSON(&v)
	var ne *NonRetriableError
	assert.ErrorAs(t, err, &ne)
}

func TestClassify(t *testing.T) {
	assert.True(t, IsRetriable(classify(context.DeadlineExceeded)))
	assert.True(t, IsRetriable(classify(io.ErrUnexpectedEOF)))
	assert.False(t, IsRetriable(classify(context.Canceled)))
	assert.False(t, IsRetriable(classify(&url.Error{Op: "Get", URL: "x", Err: io.ErrClosedPipe})))
}
