package commands

import (
	"context"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/ports"
)

// QueryRatesCommandHandler fetches the priced service options for the
// session's route. The returned slice keeps the aggregator's order; an
// empty slice means no carrier serves the route and is not an error. A
// failed query leaves the session where it is so the operator can retry.
type QueryRatesCommandHandler struct {
	store ports.SessionStore
	rates ports.RateShoppingClient
}

// NewQueryRatesCommandHandler creates a handler for rate queries.
func NewQueryRatesCommandHandler(store ports.SessionStore, rates ports.RateShoppingClient) QueryRatesCommandHandler {
	return QueryRatesCommandHandler{
		store: store,
		rates: rates,
	}
}

// Handle moves the session onto the rate acquisition step and returns the
// quoted rates.
func (h *QueryRatesCommandHandler) Handle(ctx context.Context, cmd QueryRatesCommand) ([]fulfillment.Rate, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	sess, err := h.store.Get(cmd.SessionID())
	if err != nil {
		return nil, err
	}

	if err := sess.StartRateQuery(); err != nil {
		return nil, err
	}

	q := sess.Quote()
	return h.rates.QueryRates(ctx, q.OriginZip(), q.DestZip(), q.Parcel())
}
