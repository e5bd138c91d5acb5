package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Address is a postal address in the shape the rate provider expects.
type Address struct {
	Company       string `json:"company,omitempty"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	AddressLine3  string `json:"addressLine3,omitempty"`
	CityTown      string `json:"cityTown"`
	StateProvince string `json:"stateProvince"`
	PostalCode    string `json:"postalCode"`
	CountryCode   string `json:"countryCode"`
}

// Parcel describes the physical package being shipped.
type Parcel struct {
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	DimUnit    string  `json:"dimUnit"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weightUnit"`
}

// ShipmentRequest is the input to rate shopping. The engine forwards it to
// the provider as-is; beyond serialization it does not interpret the fields.
type ShipmentRequest struct {
	DateOfShipment string   `json:"dateOfShipment,omitempty"`
	FromAddress    Address  `json:"fromAddress"`
	ToAddress      Address  `json:"toAddress"`
	Parcel         Parcel   `json:"parcel"`
	ParcelType     string   `json:"parcelType,omitempty"`
	Carriers       []string `json:"carrierAccountIds,omitempty"` // optional carrier allow-list
}

// Order is a customer order as stored in the mock order database. It embeds
// the shipment description used for rate shopping.
type Order struct {
	OrderNumber string `json:"orderNumber"`
	ShipmentRequest
}

// RateQuote is one carrier/service offer returned by the provider. Raw keeps
// the untouched provider payload for fields the core does not interpret.
type RateQuote struct {
	Carrier         string          `json:"carrier"`
	Service         string          `json:"service"`
	TotalCharge     float64         `json:"totalCharge"`
	MinDeliveryDays int             `json:"minDeliveryDays"`
	MaxDeliveryDays int             `json:"maxDeliveryDays"`
	Raw             json.RawMessage `json:"raw,omitempty"`
}

// DurationOperator selects how a delivery-time threshold is compared.
type DurationOperator int

const (
	// DurationLessThan keeps quotes strictly faster than the threshold.
	DurationLessThan DurationOperator = iota
	// DurationLessThanOrEqual keeps quotes at or under the threshold.
	DurationLessThanOrEqual
)

// String returns the wire representation of the operator.
func (op DurationOperator) String() string {
	switch op {
	case DurationLessThan:
		return "less_than"
	case DurationLessThanOrEqual:
		return "less_than_or_equal"
	default:
		return "unknown"
	}
}

// ParseDurationOperator maps the wire representation back to an operator.
// An empty string defaults to less_than_or_equal, matching the provider
// plugin's historical default.
func ParseDurationOperator(s string) (DurationOperator, error) {
	switch strings.TrimSpace(s) {
	case "less_than":
		return DurationLessThan, nil
	case "less_than_or_equal", "":
		return DurationLessThanOrEqual, nil
	default:
		return 0, fmt.Errorf("unknown duration operator %q", s)
	}
}

// RateFilter carries the caller-supplied constraints for rate shopping.
// Zero values mean unconstrained.
type RateFilter struct {
	MaxPrice              float64          `json:"maxPrice"`
	DurationThresholdDays int              `json:"durationThresholdDays"`
	DurationOperator      DurationOperator `json:"durationOperator"`
}

// RateShopResult is the outcome of a rate shop: how many options the
// provider returned, how many survived filtering, and the surviving options
// sorted ascending by total charge.
type RateShopResult struct {
	TotalOptions  int         `json:"totalOptions"`
	FilteredCount int         `json:"filteredCount"`
	Options       []RateQuote `json:"shippingOptions"`
}
