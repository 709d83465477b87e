package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"
)

const (
	// MaxCommitAttempts bounds the rate-limited commit, first try included.
	MaxCommitAttempts = 4

	// backoffBase is the wait after the first rate-limited attempt. The
	// wait doubles after each further one: 2s, 4s, 8s.
	backoffBase = 2000 * time.Millisecond

	// DefaultTimeout caps one commit or record-read call.
	DefaultTimeout = 60 * time.Second
)

// CommitOutcomeUnknownError reports a commit whose request left the process
// but whose response never arrived. The backend may or may not have
// persisted the shipment; retrying with the same idempotency key is safe.
type CommitOutcomeUnknownError struct {
	IdempotencyKey string
	Cause          error
}

func (e *CommitOutcomeUnknownError) Error() string {
	return fmt.Sprintf("shipment commit outcome unknown (idempotency key %s): %s", e.IdempotencyKey, e.Cause)
}

func (e *CommitOutcomeUnknownError) Unwrap() error {
	return e.Cause
}

// Client implements the shipment commit and record reading against the
// backend HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
}

var (
	_ ports.ShipmentCommitClient = (*Client)(nil)
	_ ports.RecordReader         = (*Client)(nil)
)

// NewClient creates a backend Client authenticating with a static bearer
// token. A nil httpClient gets a default with DefaultTimeout applied.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		sleep:      sleepContext,
	}
}

type commitResponse struct {
	ShipmentID string `json:"shipment_id"`
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Commit submits the finished shipment as a multipart form, label document
// included. Rate-limit responses are retried with exponential backoff; the
// same idempotency key rides on every attempt so the backend persists at
// most one shipment per logical commit.
func (c *Client) Commit(ctx context.Context, submission ports.ShipmentSubmission) (string, error) {
	if err := validateSubmission(submission); err != nil {
		return "", err
	}

	body, contentType, err := encodeSubmission(submission)
	if err != nil {
		return "", fmt.Errorf("encoding shipment submission: %w", err)
	}

	for attempt := 1; attempt <= MaxCommitAttempts; attempt++ {
		status, respBody, err := c.post(ctx, "/api/v1/shipments", contentType, submission.IdempotencyKey, body)
		if err != nil {
			if isDeadline(err) {
				return "", &CommitOutcomeUnknownError{IdempotencyKey: submission.IdempotencyKey, Cause: err}
			}
			return "", errs.NewTransientError("shipment commit", 0, err)
		}

		switch {
		case status == http.StatusOK || status == http.StatusCreated:
			var parsed commitResponse
			if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.ShipmentID == "" {
				return "", errs.NewTransientError("shipment commit", status,
					fmt.Errorf("malformed commit response"))
			}
			return parsed.ShipmentID, nil

		case status == http.StatusTooManyRequests:
			if attempt == MaxCommitAttempts {
				return "", errs.NewRateLimitError("shipment commit", MaxCommitAttempts)
			}
			wait := backoffBase << (attempt - 1)
			if err := c.sleep(ctx, wait); err != nil {
				return "", err
			}

		case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
			var parsed errorResponse
			if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr == nil && len(parsed.Errors) > 0 {
				return "", errs.NewValidationErrorWithCause(parsed.Errors,
					fmt.Errorf("shipment commit returned status %d", status))
			}
			return "", errs.NewValidationErrorWithCause(map[string]string{"request": string(respBody)},
				fmt.Errorf("shipment commit returned status %d", status))

		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return "", errs.NewAuthError("shipment commit", fmt.Errorf("backend returned status %d", status))

		default:
			return "", errs.NewTransientError("shipment commit", status,
				fmt.Errorf("unexpected status %d", status))
		}
	}

	return "", errs.NewRateLimitError("shipment commit", MaxCommitAttempts)
}

type recordResponse struct {
	Zip string `json:"zip"`
}

// CurrentZips reads the postal codes currently stored on the customer and
// destination records.
func (c *Client) CurrentZips(ctx context.Context, customerID, destinationID kernel.UUID) (kernel.ZipCode, kernel.ZipCode, error) {
	customerZip, err := c.fetchZip(ctx, "/api/v1/customers/"+customerID.String(), "customer", customerID)
	if err != nil {
		return kernel.ZipCode{}, kernel.ZipCode{}, err
	}
	destinationZip, err := c.fetchZip(ctx, "/api/v1/destinations/"+destinationID.String(), "destination", destinationID)
	if err != nil {
		return kernel.ZipCode{}, kernel.ZipCode{}, err
	}
	return customerZip, destinationZip, nil
}

func (c *Client) fetchZip(ctx context.Context, path, kind string, id kernel.UUID) (kernel.ZipCode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return kernel.ZipCode{}, fmt.Errorf("building %s request: %w", kind, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return kernel.ZipCode{}, errs.NewTransientError(kind+" lookup", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return kernel.ZipCode{}, errs.NewTransientError(kind+" lookup", resp.StatusCode, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed recordResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return kernel.ZipCode{}, errs.NewTransientError(kind+" lookup", resp.StatusCode,
				fmt.Errorf("malformed record response: %w", err))
		}
		return kernel.NewZipCode(parsed.Zip)
	case http.StatusNotFound:
		return kernel.ZipCode{}, errs.NewObjectNotFoundError(kind, id.String())
	case http.StatusUnauthorized, http.StatusForbidden:
		return kernel.ZipCode{}, errs.NewAuthError(kind+" lookup", fmt.Errorf("backend returned status %d", resp.StatusCode))
	default:
		return kernel.ZipCode{}, errs.NewTransientError(kind+" lookup", resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func (c *Client) post(ctx context.Context, path, contentType, idempotencyKey string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func validateSubmission(s ports.ShipmentSubmission) error {
	return errors.Join(
		s.QuoteID.Validate(),
		s.CustomerID.Validate(),
		s.DestinationID.Validate(),
		s.PriceWithTax.Validate(),
		requireString("carrier", s.Carrier),
		requireString("trackingNumber", s.TrackingNumber),
		requireString("idempotencyKey", s.IdempotencyKey),
	)
}

func requireString(name, v string) error {
	if v == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func encodeSubmission(s ports.ShipmentSubmission) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"quote_id":        s.QuoteID.String(),
		"customer_id":     s.CustomerID.String(),
		"destination_id":  s.DestinationID.String(),
		"carrier":         s.Carrier,
		"tracking_number": s.TrackingNumber,
		"price_with_tax":  s.PriceWithTax.Amount().StringFixed(2),
		"currency":        s.PriceWithTax.Currency(),
	}
	if s.NetCost != nil {
		fields["net_cost"] = s.NetCost.Amount().StringFixed(2)
	}
	if s.DeclaredValue != nil {
		fields["declared_value"] = s.DeclaredValue.Amount().StringFixed(2)
	}
	if s.LabelRemoteURL != "" {
		fields["label_url"] = s.LabelRemoteURL
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if s.LabelFile != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="label"; filename=%q`, s.LabelFile.Filename()))
		header.Set("Content-Type", s.LabelFile.ContentType())
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(s.LabelFile.Data()); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func isDeadline(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
