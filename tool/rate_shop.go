package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/shipmesh/core"
	"github.com/hupe1980/shipmesh/order"
)

// RateShopper is the slice of the rate-shop engine this tool needs.
// rateshop.Engine satisfies it; tests can supply a fake.
type RateShopper interface {
	Shop(ctx context.Context, shipment core.ShipmentRequest, filter core.RateFilter) (*core.RateShopResult, error)
}

// OrderGetter resolves an order number to the stored order.
// order.Store satisfies it.
type OrderGetter interface {
	Get(orderNumber string) (core.Order, error)
}

// rateShopArgs documents the model-facing argument schema.
type rateShopArgs struct {
	OrderID          string  `json:"order_id" description:"The unique identifier for the order"`
	MaxPrice         float64 `json:"max_price,omitempty" description:"Maximum price for shipping options, 0 for no limit"`
	DurationValue    int     `json:"duration_value,omitempty" description:"Maximum duration in days for shipping options, 0 for no limit"`
	DurationOperator string  `json:"duration_operator,omitempty" description:"Comparison operator for duration (less_than, less_than_or_equal)"`
}

// NewRateShopTool exposes rate shopping to a function-calling model: it
// resolves the order number to its shipment description and runs the engine
// with the requested price/duration constraints. An unknown order number is
// reported as a normal result (the model relays it to the user); engine
// failures surface as tool errors.
func NewRateShopTool(orders OrderGetter, shopper RateShopper) *FunctionTool {
	return NewFunctionToolFromStruct(
		"rate_shop",
		"Given an order id, return a list of shipping options honoring the maximum price and duration, if provided.",
		rateShopArgs{},
		func(ctx context.Context, args map[string]any) (any, error) {
			orderID, _ := args["order_id"].(string)
			if orderID == "" {
				return nil, fmt.Errorf("order_id is required")
			}

			o, err := orders.Get(orderID)
			if err != nil {
				if errors.Is(err, order.ErrNotFound) {
					return map[string]any{"error": fmt.Sprintf("Order with ID %s not found.", orderID)}, nil
				}
				return nil, err
			}

			filter, err := filterFromArgs(args)
			if err != nil {
				return nil, err
			}

			return shopper.Shop(ctx, o.ShipmentRequest, filter)
		},
	)
}

// filterFromArgs maps the loosely-typed JSON arguments onto a RateFilter.
func filterFromArgs(args map[string]any) (core.RateFilter, error) {
	filter := core.RateFilter{}

	if v, ok := args["max_price"]; ok {
		price, ok := toFloat(v)
		if !ok {
			return core.RateFilter{}, fmt.Errorf("max_price must be a number, got %T", v)
		}
		filter.MaxPrice = price
	}

	if v, ok := args["duration_value"]; ok {
		days, ok := toFloat(v)
		if !ok {
			return core.RateFilter{}, fmt.Errorf("duration_value must be a number, got %T", v)
		}
		filter.DurationThresholdDays = int(days)
	}

	opStr, _ := args["duration_operator"].(string)
	op, err := core.ParseDurationOperator(opStr)
	if err != nil {
		return core.RateFilter{}, err
	}
	filter.DurationOperator = op

	return filter, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
