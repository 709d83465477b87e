package http

import (
	"shipment/internal/core/ports"
)

// OpenSessionRequest carries the confirmed quote the session finalizes.
type OpenSessionRequest struct {
	QuoteID        string        `json:"quote_id"`
	CustomerID     string        `json:"customer_id"`
	DestinationID  string        `json:"destination_id"`
	OriginZip      string        `json:"origin_zip"`
	DestinationZip string        `json:"destination_zip"`
	Parcel         ParcelPayload `json:"parcel"`
	SelectedRateID string        `json:"selected_rate_id"`
	PriceWithTax   string        `json:"price_with_tax"`
	Currency       string        `json:"currency"`
}

// ParcelPayload mirrors the parcel part of the quote. Decimals travel as
// strings to avoid float rounding on the wire.
type ParcelPayload struct {
	WeightKg      string  `json:"weight_kg"`
	HeightCm      *string `json:"height_cm,omitempty"`
	LengthCm      *string `json:"length_cm,omitempty"`
	WidthCm       *string `json:"width_cm,omitempty"`
	DeclaredValue *string `json:"declared_value,omitempty"`
}

// OpenSessionResponse returns the opened session identifier.
type OpenSessionResponse struct {
	SessionID string `json:"session_id"`
}

// ChooseFulfillmentRequest picks the fulfillment path.
type ChooseFulfillmentRequest struct {
	Kind string `json:"kind"`
}

// AddressPayload mirrors ports.Address on the wire.
type AddressPayload struct {
	Name         string `json:"name"`
	Company      string `json:"company,omitempty"`
	Street       string `json:"street"`
	StreetNumber string `json:"street_number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
}

func (p AddressPayload) toPort() ports.Address {
	return ports.Address{
		Name:         p.Name,
		Company:      p.Company,
		Street:       p.Street,
		StreetNumber: p.StreetNumber,
		Neighborhood: p.Neighborhood,
		City:         p.City,
		State:        p.State,
		Zip:          p.Zip,
		Country:      p.Country,
		Phone:        p.Phone,
		Email:        p.Email,
	}
}

// PurchaseLabelRequest carries the addresses for the label purchase.
type PurchaseLabelRequest struct {
	Sender    AddressPayload `json:"sender"`
	Recipient AddressPayload `json:"recipient"`
}

// SelectRateRequest echoes back the rate picked from the query result.
type SelectRateRequest struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	ServiceName  string `json:"service_name"`
	ShippingType string `json:"shipping_type"`
	Total        string `json:"total"`
	Currency     string `json:"currency"`
}

// RatePayload is one priced service option in a rate query response.
type RatePayload struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	ServiceName  string `json:"service_name"`
	ShippingType string `json:"shipping_type"`
	Total        string `json:"total"`
	Currency     string `json:"currency"`
}

// QueryRatesResponse lists the priced options in upstream order.
type QueryRatesResponse struct {
	Rates []RatePayload `json:"rates"`
}

// SessionStatusResponse is the polled workflow state.
type SessionStatusResponse struct {
	SessionID          string `json:"session_id"`
	Status             string `json:"status"`
	Kind               string `json:"kind,omitempty"`
	SelectedRateID     string `json:"selected_rate_id,omitempty"`
	TrackingNumber     string `json:"tracking_number,omitempty"`
	ManualDownloadURL  string `json:"manual_download_url,omitempty"`
	AutoCommitArmed    bool   `json:"auto_commit_armed"`
	RemainingSeconds   int    `json:"remaining_seconds"`
	ShipmentID         string `json:"shipment_id,omitempty"`
	CommitFailureCause string `json:"commit_failure_cause,omitempty"`
}

// ErrorResponse is the uniform error payload. Fields carries per-field
// messages for validation failures.
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
