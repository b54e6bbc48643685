package models

import (
	"math"

	"posledger-backend/utils"
)

// PricingInput is the tagged variant for product pricing: callers supply the
// cost price plus either the sale price, the margin, or both.
type PricingInput struct {
	CostPrice float64
	Price     *float64
	Margin    *float64
}

// marginTolerance bounds the allowed drift between a supplied margin and the
// margin implied by a supplied price when both are given.
const marginTolerance = 0.01

// ResolvePricing turns a PricingInput into a concrete (price, margin) pair.
//
//	price given:  margin = (price - cost) / price * 100
//	margin given: price  = cost * (1 + margin/100)
//	both given:   they must agree within tolerance
//
// The resolved price must exceed the cost price.
func ResolvePricing(in PricingInput) (price, margin float64, err error) {
	if in.CostPrice <= 0 {
		return 0, 0, utils.InvalidArgument("Cost price must be greater than 0")
	}

	switch {
	case in.Price != nil && in.Margin != nil:
		price = *in.Price
		margin = *in.Margin
		if price <= 0 {
			return 0, 0, utils.InvalidArgument("Price must be greater than 0")
		}
		implied := (price - in.CostPrice) / price * 100
		if math.Abs(implied-margin) > marginTolerance {
			return 0, 0, utils.InvalidArgument("Price and profit margin are inconsistent")
		}
	case in.Price != nil:
		price = *in.Price
		if price <= 0 {
			return 0, 0, utils.InvalidArgument("Price must be greater than 0")
		}
		margin = (price - in.CostPrice) / price * 100
	case in.Margin != nil:
		margin = *in.Margin
		price = in.CostPrice * (1 + margin/100)
	default:
		return 0, 0, utils.InvalidArgument("Either price or profit margin is required")
	}

	if price <= in.CostPrice {
		return 0, 0, utils.InvalidArgument("Price must be greater than cost price")
	}
	return price, margin, nil
}
