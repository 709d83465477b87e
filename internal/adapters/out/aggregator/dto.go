package aggregator

// Wire representations of the aggregator API payloads. Kept separate from
// the domain model: the upstream contract changes on its own schedule.

type loginRequest struct {
	APIKey string `json:"api_key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type parcelDTO struct {
	WeightKg      string `json:"weight_kg"`
	HeightCm      string `json:"height_cm,omitempty"`
	LengthCm      string `json:"length_cm,omitempty"`
	WidthCm       string `json:"width_cm,omitempty"`
	DeclaredValue string `json:"declared_value,omitempty"`
}

type rateQueryRequest struct {
	ZipFrom string    `json:"zip_from"`
	ZipTo   string    `json:"zip_to"`
	Parcel  parcelDTO `json:"parcel"`
}

type rateDTO struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	ShippingType string `json:"shipping_type"`
	Total        string `json:"total"`
	Currency     string `json:"currency"`
}

type rateQueryResponse struct {
	Rates []rateDTO `json:"rates"`
}

type addressDTO struct {
	Name         string `json:"name"`
	Company      string `json:"company,omitempty"`
	Street       string `json:"street"`
	StreetNumber string `json:"street_number"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email"`
}

type labelPurchaseRequest struct {
	RateID      string     `json:"rate_id"`
	AddressFrom addressDTO `json:"address_from"`
	AddressTo   addressDTO `json:"address_to"`
}

type labelPurchaseResponse struct {
	TrackingNumber string `json:"tracking_number"`
	CreatedAt      string `json:"created_at"`
	Total          string `json:"total"`
	Currency       string `json:"currency"`
	LabelURL       string `json:"label_url"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
