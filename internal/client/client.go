// Package client talks to the JSON API on behalf of the CLI. It holds the
// session provider and the brand campaign store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	campaignhttp "spotlight/contexts/campaign-editorial/campaign-service/transport/http"
	identityhttp "spotlight/contexts/identity-access/identity-service/transport/http"
	onboardinghttp "spotlight/contexts/identity-access/onboarding-service/transport/http"
)

const apiPrefix = "/api/v1"

// APIError is a non-2xx response decoded from the API error body.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.HTTPStatus)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.HTTPStatus, e.Code, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithToken returns a copy authenticated with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.Token = token
	return &clone
}

func (c *Client) SignIn(ctx context.Context, email, password string) (identityhttp.SessionResponse, error) {
	var out identityhttp.SessionResponse
	err := c.do(ctx, http.MethodPost, "/auth/signin", nil, identityhttp.SignInRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) SignUp(ctx context.Context, req identityhttp.SignUpRequest) (identityhttp.SignUpResponse, error) {
	var out identityhttp.SignUpResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", nil, req, &out)
	return out, err
}

func (c *Client) GetSession(ctx context.Context) (identityhttp.SessionResponse, error) {
	var out identityhttp.SessionResponse
	err := c.do(ctx, http.MethodGet, "/auth/session", nil, nil, &out)
	return out, err
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, nil, nil)
}

func (c *Client) ListCampaigns(ctx context.Context, status string) ([]campaignhttp.CampaignDTO, error) {
	path := "/campaigns"
	if status = strings.TrimSpace(status); status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var out campaignhttp.ListCampaignsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) CreateCampaign(ctx context.Context, idempotencyKey string, req campaignhttp.CreateCampaignRequest) (campaignhttp.CreateCampaignResponse, error) {
	var out campaignhttp.CreateCampaignResponse
	err := c.do(ctx, http.MethodPost, "/campaigns", map[string]string{"Idempotency-Key": idempotencyKey}, req, &out)
	return out, err
}

func (c *Client) SubmitApplication(ctx context.Context, idempotencyKey string, req onboardinghttp.SubmitApplicationRequest) (onboardinghttp.SubmitApplicationResponse, error) {
	var out onboardinghttp.SubmitApplicationResponse
	err := c.do(ctx, http.MethodPost, "/influencer-applications", map[string]string{"Idempotency-Key": idempotencyKey}, req, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		var payload identityhttp.ErrorResponse
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
