package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_ordering/internal/apperr"
	"github.com/Skotchmaster/food_ordering/pkg/transport"
)

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, apperr.ErrAuth},
		{http.StatusForbidden, apperr.ErrForbidden},
		{http.StatusBadRequest, apperr.ErrValidation},
		{http.StatusUnprocessableEntity, apperr.ErrValidation},
		{http.StatusNotFound, apperr.ErrNotFound},
		{http.StatusConflict, apperr.ErrConflict},
		{http.StatusBadGateway, apperr.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message":"access denied. required roles: ADMIN, MANAGER"}`)
			})

			_, err := NewClient(srv.URL, nil).Orders(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, "access denied. required roles: ADMIN, MANAGER", apperr.Message(err))
		})
	}
}

func TestBearerToken(t *testing.T) {
	var got string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[]`)
	})

	token := "t1"
	c := NewClient(srv.URL+"/", func() string { return token })

	_, err := c.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t1", got)

	_, err = c.WithToken("t2").Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer t2", got)

	token = ""
	_, err = c.Users(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMalformedPayload(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/restaurants":
			_, _ = io.WriteString(w, `{not json`)
		case "/api/orders":
			_, _ = io.WriteString(w, `[{"id":"o1","status":"SHIPPED"}]`)
		}
	})
	c := NewClient(srv.URL, nil)

	_, err := c.Restaurants(context.Background())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.Orders(context.Background())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil).Restaurants(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNetwork)
}

func TestTimeoutIsNetwork(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	c := NewClient(srv.URL, nil)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Menu(context.Background(), "r1")
	assert.ErrorIs(t, err, apperr.ErrNetwork)
}

func TestCreateOrder_SendsPayload(t *testing.T) {
	var got transport.OrderCreate
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"o1","status":"PENDING","total_amount":"25.5","country":"AMERICA","items":[]}`)
	})

	pm := "pm1"
	order, err := NewClient(srv.URL, nil).CreateOrder(context.Background(), transport.OrderCreate{
		Items:           []transport.OrderItemCreate{{MenuItemID: "m1", Quantity: 2}},
		PaymentMethodID: &pm,
	})
	require.NoError(t, err)
	assert.Equal(t, "$25.50", order.FormatTotal())
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.PaymentMethodID)
	assert.Equal(t, "pm1", *got.PaymentMethodID)
}

func TestSearchQuery(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "spice garden", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = io.WriteString(w, `{"data":[{"id":"r1","name":"Spice Garden","country":"INDIA"}],"meta":{"page":2,"size":10,"total":11}}`)
	})

	page, err := NewClient(srv.URL, nil).SearchRestaurants(context.Background(), "spice garden", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Meta.Total)
	assert.Equal(t, "Spice Garden", page.Data[0].Name)
}
