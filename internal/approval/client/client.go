// Package client provides the HTTP client for the external Approval Service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dsa_portal_backend/internal/approval/transport"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/config"
	"dsa_portal_backend/platform/logger"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP client for the Approval Service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a new Approval Service client.
func New(cfg config.ApprovalConfig, log *logger.Logger) *Client {
	timeout := cfg.GetApprovalTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.GetApprovalBaseURL(), "/"),
		log:        log,
	}
}

// Stage queues the DSA's products for approval.
func (c *Client) Stage(ctx context.Context, dsaID uuid.UUID, products []string) error {
	body := transport.StageRequest{DsaID: dsaID, Products: products}
	return c.post(ctx, "/api/dsa/approval/stage", body, nil)
}

// Authorize approves one product for a DSA on behalf of an approver.
func (c *Client) Authorize(ctx context.Context, dsaID uuid.UUID, productType, approverID string) (transport.AuthorizeResponse, error) {
	body := transport.AuthorizeRequest{DsaID: dsaID, ProductType: productType, UserID: approverID}
	var result transport.AuthorizeResponse
	if err := c.post(ctx, "/api/dsa/approval/authorize", body, &result); err != nil {
		return transport.AuthorizeResponse{}, err
	}
	return result, nil
}

// Verify returns the per-product approval state of a DSA. An empty list is a
// valid result for a DSA with nothing staged.
func (c *Client) Verify(ctx context.Context, dsaID uuid.UUID) ([]transport.ProductApproval, error) {
	body := transport.VerifyRequest{DsaID: dsaID}
	result := make([]transport.ProductApproval, 0)
	if err := c.post(ctx, "/api/dsa/approval/verify", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Pending lists the staged products awaiting the given approver's decision.
func (c *Client) Pending(ctx context.Context, approverID string) ([]transport.PendingApproval, error) {
	path := "/api/dsa/approval/pending/" + url.PathEscape(approverID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperr.Dependency("approval service request failed", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamCall("approval", "pending", err)
		return nil, apperr.Dependency("approval service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("status %d", resp.StatusCode)
		c.log.UpstreamCall("approval", "pending", err)
		return nil, apperr.Dependency("approval service returned an error", err)
	}

	result := make([]transport.PendingApproval, 0)
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.Dependency("approval service response malformed", err)
	}
	return result, nil
}

// Ping checks Approval Service liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/dsa/approval/ping", nil)
	if err != nil {
		return apperr.Dependency("approval service request failed", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Dependency("approval service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.Dependency("approval service returned an error", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return apperr.Dependency("approval service request failed", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return apperr.Dependency("approval service request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamCall("approval", path, err)
		return apperr.Dependency("approval service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("status %d", resp.StatusCode)
		c.log.UpstreamCall("approval", path, err)
		return apperr.Dependency("approval service returned an error", err)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Dependency("approval service response malformed", err)
	}
	return nil
}
