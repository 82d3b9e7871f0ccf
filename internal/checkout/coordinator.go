package checkout

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/mall-checkout/internal/order"
	"github.com/noah-isme/mall-checkout/internal/pricing"
)

// State tracks a checkout attempt through submission.
type State string

const (
	StateNotStarted   State = "NOT_STARTED"
	StateSubmitting   State = "SUBMITTING"
	StateAllSucceeded State = "ALL_SUCCEEDED"
	StatePartial      State = "PARTIAL"
	StateAllFailed    State = "ALL_FAILED"
)

// Outcome records one seller's submission result.
type Outcome struct {
	SellerID   string        `json:"sellerId"`
	SellerName string        `json:"sellerName,omitempty"`
	Success    bool          `json:"success"`
	Order      order.Created `json:"order,omitzero"`
	Reasons    []string      `json:"errors,omitempty"`
	LineIDs    []string      `json:"-"`
}

// Result aggregates all seller outcomes of one attempt.
type Result struct {
	State         State         `json:"state"`
	Outcomes      []Outcome     `json:"outcomes"`
	FailedSellers []string      `json:"failedSellers,omitempty"`
	Succeeded     int           `json:"succeeded"`
	CreatedTotal  pricing.Money `json:"-"`
}

// AllSucceeded reports whether every seller order was created.
func (r Result) AllSucceeded() bool {
	return r.State == StateAllSucceeded
}

// Coordinator submits seller requests strictly one at a time and classifies
// the aggregate outcome. It never returns an error for a failed seller;
// failures become per-seller outcomes.
type Coordinator struct {
	Orders order.Creator
	Logger zerolog.Logger

	state State
}

// NewCoordinator returns a coordinator for a single checkout attempt.
func NewCoordinator(orders order.Creator, logger zerolog.Logger) *Coordinator {
	return &Coordinator{Orders: orders, Logger: logger, state: StateNotStarted}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	if c == nil || c.state == "" {
		return StateNotStarted
	}
	return c.state
}

// Run processes the submissions sequentially. Submissions that failed
// validation are recorded as failures without touching the collaborator.
// Each upstream call is awaited before the next begins; there is no
// concurrent fan-out and no retry.
func (c *Coordinator) Run(ctx context.Context, subs []SellerSubmission) Result {
	c.state = StateSubmitting
	result := Result{Outcomes: make([]Outcome, 0, len(subs))}
	for _, sub := range subs {
		outcome := Outcome{SellerID: sub.SellerID, SellerName: sub.SellerName, LineIDs: sub.LineIDs}
		switch {
		case !sub.Valid():
			outcome.Reasons = sub.Reasons
		case c.Orders == nil:
			outcome.Reasons = []string{"order creation is not available"}
		default:
			created, err := c.Orders.Create(ctx, sub.Request)
			if err != nil {
				outcome.Reasons = submissionReasons(err)
			} else {
				outcome.Success = true
				outcome.Order = created
				result.CreatedTotal += created.Total
				result.Succeeded++
			}
		}
		if !outcome.Success {
			name := outcome.SellerName
			if name == "" {
				name = outcome.SellerID
			}
			result.FailedSellers = append(result.FailedSellers, name)
			c.Logger.Warn().
				Str("seller_id", outcome.SellerID).
				Strs("reasons", outcome.Reasons).
				Msg("seller order submission failed")
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	result.State = classify(result)
	c.state = result.State
	return result
}

func classify(r Result) State {
	if len(r.Outcomes) == 0 {
		return StateAllFailed
	}
	switch {
	case r.Succeeded == len(r.Outcomes):
		return StateAllSucceeded
	case r.Succeeded > 0:
		return StatePartial
	default:
		return StateAllFailed
	}
}

func submissionReasons(err error) []string {
	var submitErr *order.SubmitError
	if errors.As(err, &submitErr) && len(submitErr.Reasons) > 0 {
		return submitErr.Reasons
	}
	return []string{err.Error()}
}
