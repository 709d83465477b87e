package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"
)

// DefaultTimeout matches the observed upstream latency envelope. The
// aggregator is slow under load but does answer; a short timeout would
// turn ordinary slowness into spurious failures.
const DefaultTimeout = 60 * time.Second

// RateQueryError reports a failed rate query together with the upstream
// status. A query that succeeds with zero rates is NOT an error.
type RateQueryError struct {
	StatusCode int
	Cause      error
}

func (e *RateQueryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("rate query failed with status %d: %s", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("rate query failed: %s", e.Cause)
}

func (e *RateQueryError) Unwrap() error {
	return e.Cause
}

// Client talks to the aggregator's rate and label endpoints. Implements
// ports.RateShoppingClient and ports.LabelAcquisitionClient.
type Client struct {
	baseURL    string
	auth       *AuthSession
	httpClient *http.Client
}

var (
	_ ports.RateShoppingClient     = (*Client)(nil)
	_ ports.LabelAcquisitionClient = (*Client)(nil)
)

// NewClient creates a Client. A nil httpClient gets the default 60-second
// timeout.
func NewClient(baseURL string, auth *AuthSession, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		auth:       auth,
		httpClient: httpClient,
	}
}

// QueryRates asks for the priced service options on a route. The upstream
// order is preserved. An empty slice means no carrier serves the route and
// is a successful result.
func (c *Client) QueryRates(ctx context.Context, originZip, destZip kernel.ZipCode, parcel quote.Parcel) ([]fulfillment.Rate, error) {
	if err := errors.Join(originZip.Validate(), destZip.Validate(), parcel.Validate()); err != nil {
		return nil, err
	}

	payload := rateQueryRequest{
		ZipFrom: originZip.String(),
		ZipTo:   destZip.String(),
		Parcel:  toParcelDTO(parcel),
	}

	status, body, err := c.postJSON(ctx, "/api/v1/rates", "rate query", payload)
	if err != nil {
		var authErr *errs.AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &RateQueryError{Cause: err}
	}

	if status != http.StatusOK {
		return nil, &RateQueryError{StatusCode: status, Cause: classifyStatus("rate query", status, body)}
	}

	var parsed rateQueryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &RateQueryError{StatusCode: status, Cause: fmt.Errorf("malformed rate response: %w", err)}
	}

	rates := make([]fulfillment.Rate, 0, len(parsed.Rates))
	for _, dto := range parsed.Rates {
		total, err := kernel.NewMoneyFromString(dto.Total, dto.Currency)
		if err != nil {
			return nil, &RateQueryError{StatusCode: status, Cause: fmt.Errorf("rate %q carries a bad total: %w", dto.ID, err)}
		}
		rate, err := fulfillment.NewRate(dto.ID, dto.Carrier, dto.Service, dto.ShippingType, total)
		if err != nil {
			return nil, &RateQueryError{StatusCode: status, Cause: fmt.Errorf("rate %q is malformed: %w", dto.ID, err)}
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

// PurchaseLabel buys a label for a previously queried rate. Upstream
// validation failures surface as *errs.ValidationError with the field-path
// to message mapping intact so the caller can remediate and retry.
func (c *Client) PurchaseLabel(ctx context.Context, sender, recipient ports.Address, rateID string) (*fulfillment.LabelAsset, error) {
	if rateID == "" {
		return nil, errs.NewValueIsRequiredError("rateID")
	}

	payload := labelPurchaseRequest{
		RateID:      rateID,
		AddressFrom: toAddressDTO(sender),
		AddressTo:   toAddressDTO(recipient),
	}

	status, body, err := c.postJSON(ctx, "/api/v1/labels", "label purchase", payload)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		return parseLabelResponse(body)
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		var parsed errorResponse
		if jsonErr := json.Unmarshal(body, &parsed); jsonErr == nil && len(parsed.Errors) > 0 {
			return nil, errs.NewValidationErrorWithCause(parsed.Errors,
				fmt.Errorf("label purchase returned status %d", status))
		}
		return nil, errs.NewValidationErrorWithCause(map[string]string{"request": upstreamMessage(body)},
			fmt.Errorf("label purchase returned status %d", status))
	default:
		return nil, classifyStatus("label purchase", status, body)
	}
}

// postJSON sends an authorized POST and returns the raw response. On a
// 401/403 it invalidates the token, logs in again and retries the call
// exactly once; a second rejection surfaces as an AuthError.
func (c *Client) postJSON(ctx context.Context, path, op string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	token, err := c.auth.Token(ctx)
	if err != nil {
		return 0, nil, err
	}

	status, respBody, err := c.send(ctx, path, token, body)
	if err != nil {
		return 0, nil, errs.NewTransientError(op, 0, err)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.auth.Invalidate()
		token, err = c.auth.Refresh(ctx)
		if err != nil {
			return 0, nil, err
		}
		status, respBody, err = c.send(ctx, path, token, body)
		if err != nil {
			return 0, nil, errs.NewTransientError(op, 0, err)
		}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return 0, nil, errs.NewAuthError(op, fmt.Errorf("still rejected after re-login (status %d)", status))
		}
	}

	return status, respBody, nil
}

func (c *Client) send(ctx context.Context, path, token string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func parseLabelResponse(body []byte) (*fulfillment.LabelAsset, error) {
	var parsed labelPurchaseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errs.NewTransientError("label purchase", 0, fmt.Errorf("malformed label response: %w", err))
	}

	createdAt, err := time.Parse(time.RFC3339, parsed.CreatedAt)
	if err != nil {
		return nil, errs.NewTransientError("label purchase", 0, fmt.Errorf("malformed created_at %q: %w", parsed.CreatedAt, err))
	}

	price, err := kernel.NewMoneyFromString(parsed.Total, parsed.Currency)
	if err != nil {
		return nil, errs.NewTransientError("label purchase", 0, fmt.Errorf("malformed label price: %w", err))
	}

	return fulfillment.NewLabelAsset(parsed.TrackingNumber, createdAt, price, parsed.LabelURL)
}

// classifyStatus maps a non-success status to the error taxonomy: 5xx is
// transient, anything else is a plain upstream rejection.
func classifyStatus(op string, status int, body []byte) error {
	if status >= http.StatusInternalServerError {
		return errs.NewTransientError(op, status, fmt.Errorf("%s", upstreamMessage(body)))
	}
	return fmt.Errorf("%s rejected with status %d: %s", op, status, upstreamMessage(body))
}

func upstreamMessage(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	if len(body) == 0 {
		return "no response body"
	}
	return string(body)
}

func toParcelDTO(parcel quote.Parcel) parcelDTO {
	dto := parcelDTO{WeightKg: parcel.WeightKg().String()}
	if parcel.HeightCm() != nil {
		dto.HeightCm = parcel.HeightCm().String()
	}
	if parcel.LengthCm() != nil {
		dto.LengthCm = parcel.LengthCm().String()
	}
	if parcel.WidthCm() != nil {
		dto.WidthCm = parcel.WidthCm().String()
	}
	if parcel.DeclaredValue() != nil {
		dto.DeclaredValue = parcel.DeclaredValue().Amount().String()
	}
	return dto
}

func toAddressDTO(a ports.Address) addressDTO {
	return addressDTO{
		Name:         a.Name,
		Company:      a.Company,
		Street:       a.Street,
		StreetNumber: a.StreetNumber,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Zip:          a.Zip,
		Country:      a.Country,
		Phone:        a.Phone,
		Email:        a.Email,
	}
}
