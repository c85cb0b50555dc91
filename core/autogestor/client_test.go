package autogestor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"autosync/core/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleFeed = `{
  "veiculos": [
    {
      "codigo": 123456,
      "modelo": "Civic",
      "marca": "Honda",
      "ano_modelo": 2021,
      "descricao": "Único dono",
      "preco": {"venda": "129.900,00"},
      "fotos": ["https://img.example/1.jpg", "https://img.example/2.jpg"],
      "cambio": "Automatico",
      "combustivel": "Flex",
      "cor": "Prata",
      "portas": "4",
      "acessorios": ["Ar condicionado", "Airbag"]
    },
    {
      "codigo": "A-77",
      "modelo": "Strada",
      "marca": "Fiat",
      "ano_modelo": "2019",
      "versao": "Strada Freedom 1.3",
      "preco": {"venda": 79900.5},
      "portas": 2
    }
  ]
}`

func newTestTransport() *transport.Client {
	p := transport.Policy{
		MaxAttempts: 3,
		Backoff:     transport.FixedBackoff(0),
	}
	return transport.NewClient(transport.Config{TimeoutSeconds: 5}, zap.NewNop(), transport.WithPolicy(p))
}

func TestFetchVehicles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, newTestTransport(), 0, zap.NewNop())
	vehicles, err := client.FetchVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	civic := vehicles[0]
	assert.Equal(t, "123456", civic.SKU())
	assert.Equal(t, "2021", civic.ModelYear.String())
	assert.Equal(t, "129.900,00", civic.Price.Sale.String())
	assert.Equal(t, 4, int(civic.Doors))
	assert.Equal(t, []string{"Ar condicionado", "Airbag"}, civic.Accessories)

	strada := vehicles[1]
	assert.Equal(t, "A-77", strada.SKU())
	assert.Equal(t, "Strada Freedom 1.3", strada.Version)
	assert.Equal(t, "79900.5", strada.Price.Sale.String())
	assert.True(t, strada.Price.Sale.Numeric)
	assert.False(t, civic.Price.Sale.Numeric)
	assert.Equal(t, 2, int(strada.Doors))
}

func TestFetchVehicles_MissingCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total": 0}`))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, newTestTransport(), 0, nil)
	vehicles, err := client.FetchVehicles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vehicles)
	assert.NotNil(t, vehicles)
}

func TestFetchVehicles_UsesSourceCeiling(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, newTestTransport(), 6, zap.NewNop())
	_, err := client.FetchVehicles(context.Background())

	var exhausted *transport.RetryExhaustedError
	assert.ErrorAs(t, err, &exhausted)
	assert.Equal(t, int32(6), atomic.LoadInt32(&calls))
}

func TestFetchVehicles_NotConfigured(t *testing.T) {
	client := NewClient(Config{}, newTestTransport(), 0, zap.NewNop())
	_, err := client.FetchVehicles(context.Background())
	assert.Error(t, err)
}
