package labelstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"time"

	"shipment/internal/core/domain/model/fulfillment"
	"shipment/internal/core/ports"
	"shipment/internal/pkg/errs"
)

const (
	// MaxAttempts bounds the whole download effort, first try included.
	MaxAttempts = 3

	// AttemptTimeout caps one download attempt.
	AttemptTimeout = 30 * time.Second

	// backoffUnit scales the wait between attempts. After the n-th
	// failed attempt the retriever waits n times this unit.
	backoffUnit = 2 * time.Second

	fallbackFilename = "label.pdf"
)

// RetrievalExhaustedError reports that every download attempt failed.
// Cause holds the last attempt's failure. Matches
// ports.ErrRetrievalExhausted so the application layer can tell budget
// exhaustion apart from an aborted request.
type RetrievalExhaustedError struct {
	RemoteURL string
	Attempts  int
	Cause     error
}

func (e *RetrievalExhaustedError) Error() string {
	return fmt.Sprintf("label download from %s failed after %d attempts: %s", e.RemoteURL, e.Attempts, e.Cause)
}

func (e *RetrievalExhaustedError) Unwrap() []error {
	return []error{ports.ErrRetrievalExhausted, e.Cause}
}

// Retriever downloads label documents over plain HTTP GET with a bounded
// retry budget.
type Retriever struct {
	httpClient  *http.Client
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

var _ ports.LabelRetriever = (*Retriever)(nil)

// NewRetriever creates a Retriever. A nil httpClient gets a default with
// the per-attempt timeout applied.
func NewRetriever(httpClient *http.Client) *Retriever {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: AttemptTimeout}
	}
	return &Retriever{
		httpClient:  httpClient,
		maxAttempts: MaxAttempts,
		sleep:       sleepContext,
	}
}

// Download fetches the label document at remoteURL. Failed attempts are
// retried with a growing wait until the budget runs out, at which point a
// *RetrievalExhaustedError is returned and the caller is expected to fall
// back to a manual download.
func (r *Retriever) Download(ctx context.Context, remoteURL string) (fulfillment.LabelFile, error) {
	if remoteURL == "" {
		return fulfillment.LabelFile{}, errs.NewValueIsRequiredError("remoteURL")
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		file, err := r.attempt(ctx, remoteURL)
		if err == nil {
			return file, nil
		}
		lastErr = err

		if attempt < r.maxAttempts {
			wait := time.Duration(attempt) * backoffUnit
			if err := r.sleep(ctx, wait); err != nil {
				return fulfillment.LabelFile{}, err
			}
		}
	}

	return fulfillment.LabelFile{}, &RetrievalExhaustedError{
		RemoteURL: remoteURL,
		Attempts:  r.maxAttempts,
		Cause:     lastErr,
	}
}

func (r *Retriever) attempt(ctx context.Context, remoteURL string) (fulfillment.LabelFile, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return fulfillment.LabelFile{}, fmt.Errorf("building label request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fulfillment.LabelFile{}, errs.NewTransientError("label download", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fulfillment.LabelFile{}, errs.NewTransientError("label download", resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fulfillment.LabelFile{}, errs.NewTransientError("label download", resp.StatusCode, err)
	}
	if len(data) == 0 {
		return fulfillment.LabelFile{}, errs.NewTransientError("label download", resp.StatusCode,
			fmt.Errorf("empty response body"))
	}

	return fulfillment.NewLabelFile(
		inferFilename(resp.Header.Get("Content-Disposition"), remoteURL),
		resp.Header.Get("Content-Type"),
		data,
	)
}

// inferFilename prefers the Content-Disposition header and falls back to
// the last URL path segment.
func inferFilename(disposition, remoteURL string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	if parsed, err := url.Parse(remoteURL); err == nil {
		if name := path.Base(parsed.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}
	return fallbackFilename
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
