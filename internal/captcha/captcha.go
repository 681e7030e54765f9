// Package captcha verifies proof-of-humanity tokens against the Google
// reCAPTCHA siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrTokenRequired is returned when no captcha token was supplied.
	ErrTokenRequired = errors.New("captcha token is required")
	// ErrRejected is returned when the provider rejected the token.
	ErrRejected = errors.New("captcha verification failed")
	// ErrUnavailable is returned when the provider could not be reached.
	ErrUnavailable = errors.New("error verifying captcha")
)

type verifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

type Verifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

func NewVerifier(secret, verifyURL string) *Verifier {
	return &Verifier{
		secret:     secret,
		verifyURL:  verifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks the given proof token. A provider rejection returns
// ErrRejected wrapped with the provider's error codes; transport and decode
// failures return ErrUnavailable.
func (v *Verifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenRequired
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !result.Success {
		reason := "unknown error"
		if len(result.ErrorCodes) > 0 {
			reason = strings.Join(result.ErrorCodes, ", ")
		}
		return fmt.Errorf("%w: %s", ErrRejected, reason)
	}

	return nil
}
