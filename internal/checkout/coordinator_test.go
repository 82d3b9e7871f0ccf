package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mall-checkout/internal/checkout"
	"github.com/noah-isme/mall-checkout/internal/order"
)

type creatorStub struct {
	calls []order.SellerRequest
	fn    func(req order.SellerRequest) (order.Created, error)
}

func (c *creatorStub) Create(_ context.Context, req order.SellerRequest) (order.Created, error) {
	c.calls = append(c.calls, req)
	if c.fn != nil {
		return c.fn(req)
	}
	return order.Created{ID: "o-" + req.ShopID, OrderNumber: "N-" + req.ShopID, Total: 1_000}, nil
}

func validSubmission(sellerID, name string) checkout.SellerSubmission {
	return checkout.SellerSubmission{
		SellerID:   sellerID,
		SellerName: name,
		LineIDs:    []string{"line-" + sellerID},
		Request: order.SellerRequest{
			UserID:            "u1",
			ShopID:            sellerID,
			ShippingAddressID: "addr1",
			PaymentMethod:     "COD",
			Items:             []order.Item{{VariantID: "v1", Quantity: 1}},
		},
	}
}

func TestRunAllSucceeded(t *testing.T) {
	creator := &creatorStub{}
	coord := checkout.NewCoordinator(creator, zerolog.Nop())
	require.Equal(t, checkout.StateNotStarted, coord.State())

	res := coord.Run(context.Background(), []checkout.SellerSubmission{
		validSubmission("s1", "North Books"),
		validSubmission("s2", "South Tools"),
	})
	require.Equal(t, checkout.StateAllSucceeded, res.State)
	require.True(t, res.AllSucceeded())
	require.Equal(t, 2, res.Succeeded)
	require.Empty(t, res.FailedSellers)
	require.EqualValues(t, 2_000, res.CreatedTotal)
	require.Equal(t, checkout.StateAllSucceeded, coord.State())
}

func TestRunSubmitsSequentially(t *testing.T) {
	creator := &creatorStub{}
	coord := checkout.NewCoordinator(creator, zerolog.Nop())
	coord.Run(context.Background(), []checkout.SellerSubmission{
		validSubmission("s1", ""),
		validSubmission("s2", ""),
		validSubmission("s3", ""),
	})
	require.Len(t, creator.calls, 3)
	require.Equal(t, "s1", creator.calls[0].ShopID)
	require.Equal(t, "s2", creator.calls[1].ShopID)
	require.Equal(t, "s3", creator.calls[2].ShopID)
}

func TestRunPartialFailure(t *testing.T) {
	creator := &creatorStub{fn: func(req order.SellerRequest) (order.Created, error) {
		if req.ShopID == "s2" {
			return order.Created{}, &order.SubmitError{Reasons: []string{"variant out of stock"}}
		}
		return order.Created{ID: "o1", Total: 150_000}, nil
	}}
	coord := checkout.NewCoordinator(creator, zerolog.Nop())
	res := coord.Run(context.Background(), []checkout.SellerSubmission{
		validSubmission("s1", "North Books"),
		validSubmission("s2", "South Tools"),
	})
	require.Equal(t, checkout.StatePartial, res.State)
	require.False(t, res.AllSucceeded())
	require.Equal(t, 1, res.Succeeded)
	require.Equal(t, []string{"South Tools"}, res.FailedSellers)
	require.EqualValues(t, 150_000, res.CreatedTotal)

	require.True(t, res.Outcomes[0].Success)
	require.False(t, res.Outcomes[1].Success)
	require.Equal(t, []string{"variant out of stock"}, res.Outcomes[1].Reasons)
}

func TestRunAllFailed(t *testing.T) {
	creator := &creatorStub{fn: func(order.SellerRequest) (order.Created, error) {
		return order.Created{}, errors.New("upstream unavailable")
	}}
	coord := checkout.NewCoordinator(creator, zerolog.Nop())
	res := coord.Run(context.Background(), []checkout.SellerSubmission{
		validSubmission("s1", ""),
		validSubmission("s2", ""),
	})
	require.Equal(t, checkout.StateAllFailed, res.State)
	require.Zero(t, res.Succeeded)
	// With no display name the seller id is reported instead.
	require.Equal(t, []string{"s1", "s2"}, res.FailedSellers)
	require.Equal(t, []string{"upstream unavailable"}, res.Outcomes[0].Reasons)
}

func TestRunInvalidSubmissionSkipsCollaborator(t *testing.T) {
	creator := &creatorStub{}
	coord := checkout.NewCoordinator(creator, zerolog.Nop())
	invalid := checkout.SellerSubmission{
		SellerID: "unknown",
		Reasons:  []string{"seller could not be determined for these items"},
	}
	res := coord.Run(context.Background(), []checkout.SellerSubmission{
		invalid,
		validSubmission("s1", ""),
	})
	require.Len(t, creator.calls, 1, "invalid submission must not reach the collaborator")
	require.Equal(t, checkout.StatePartial, res.State)
	require.Equal(t, invalid.Reasons, res.Outcomes[0].Reasons)
}

func TestRunEmptyIsAllFailed(t *testing.T) {
	coord := checkout.NewCoordinator(&creatorStub{}, zerolog.Nop())
	res := coord.Run(context.Background(), nil)
	require.Equal(t, checkout.StateAllFailed, res.State)
	require.Empty(t, res.Outcomes)
}
