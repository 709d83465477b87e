package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"shipment/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

// AuthSession holds the aggregator auth token and refreshes it on demand.
// Refresh runs behind a singleflight group: when several in-flight calls
// find the token expired at the same time, only one login request is made
// and the rest share its result.
type AuthSession struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	group singleflight.Group
	mu    sync.RWMutex
	token string
}

// NewAuthSession creates an AuthSession. No login happens until the first
// Token call.
func NewAuthSession(baseURL, apiKey string, httpClient *http.Client) *AuthSession {
	return &AuthSession{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Token returns the cached token, logging in first when none is held.
func (s *AuthSession) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token, nil
	}
	return s.Refresh(ctx)
}

// Refresh forces a login and caches the fresh token. Concurrent callers
// are collapsed into a single upstream request.
func (s *AuthSession) Refresh(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do("login", func() (any, error) {
		token, err := s.login(ctx)
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.token = token
		s.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next call logs in again.
func (s *AuthSession) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func (s *AuthSession) login(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{APIKey: s.apiKey})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/session", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errs.NewTransientError("aggregator login", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errs.NewAuthError("aggregator login", fmt.Errorf("login returned status %d", resp.StatusCode))
	}

	var parsed loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errs.NewAuthError("aggregator login", fmt.Errorf("malformed login response: %w", err))
	}
	if parsed.Token == "" {
		return "", errs.NewAuthError("aggregator login", fmt.Errorf("login response carried no token"))
	}
	return parsed.Token, nil
}
