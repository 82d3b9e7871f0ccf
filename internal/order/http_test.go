package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mall-checkout/internal/order"
)

func TestHTTPCreatorCreate(t *testing.T) {
	var received order.SellerRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "ord-1", "orderNumber": "SO-1001", "totalAmount": 125_000},
		})
	}))
	defer srv.Close()

	creator := &order.HTTPCreator{BaseURL: srv.URL, HTTP: srv.Client()}
	created, err := creator.Create(context.Background(), order.SellerRequest{
		UserID:            "user-1",
		ShopID:            "shop-a",
		ShippingAddressID: "addr-1",
		PaymentMethod:     "COD",
		ShippingFee:       12_500,
		Items:             []order.Item{{VariantID: "var-1", Quantity: 2}},
		VoucherIDs:        []string{"v1"},
	})
	require.NoError(t, err)
	require.Equal(t, "ord-1", created.ID)
	require.Equal(t, "SO-1001", created.OrderNumber)
	require.Equal(t, int64(125_000), created.Total)
	require.Equal(t, "shop-a", received.ShopID)
	require.Len(t, received.Items, 1)
}

func TestHTTPCreatorStructuredFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []string{"variant var-9 is out of stock"},
		})
	}))
	defer srv.Close()

	creator := &order.HTTPCreator{BaseURL: srv.URL, HTTP: srv.Client()}
	_, err := creator.Create(context.Background(), order.SellerRequest{ShopID: "shop-a"})
	var submitErr *order.SubmitError
	require.True(t, errors.As(err, &submitErr))
	require.Equal(t, []string{"variant var-9 is out of stock"}, submitErr.Reasons)
}

func TestHTTPCreatorUnparsableFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	creator := &order.HTTPCreator{BaseURL: srv.URL, HTTP: srv.Client()}
	_, err := creator.Create(context.Background(), order.SellerRequest{ShopID: "shop-a"})
	var submitErr *order.SubmitError
	require.True(t, errors.As(err, &submitErr))
	require.Contains(t, submitErr.Error(), "status 500")
}

func TestHTTPCreatorUnwrappedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "ord-2", "orderNumber": "SO-2", "totalAmount": 5000})
	}))
	defer srv.Close()

	creator := &order.HTTPCreator{BaseURL: srv.URL, HTTP: srv.Client()}
	created, err := creator.Create(context.Background(), order.SellerRequest{ShopID: "shop-a"})
	require.NoError(t, err)
	require.Equal(t, "ord-2", created.ID)
}
