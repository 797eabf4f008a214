package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dsa_portal_backend/internal/approval/transport"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetApprovalBaseURL() string        { return c.baseURL }
func (c testConfig) GetApprovalTimeout() time.Duration { return 2 * time.Second }

func newTestClient(baseURL string) *Client {
	return New(testConfig{baseURL: baseURL}, logger.New("development"))
}

func TestStageSendsProducts(t *testing.T) {
	dsaID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/dsa/approval/stage" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req transport.StageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.DsaID != dsaID || len(req.Products) != 2 {
			t.Errorf("unexpected payload: %+v", req)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server.URL).Stage(context.Background(), dsaID, []string{"VEHICLE", "HOME"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuthorizeDecodesResponse(t *testing.T) {
	dsaID := uuid.New()
	approved := "2026-08-01T10:00:00Z"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dsa/approval/authorize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req transport.AuthorizeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.UserID != "approver7" {
			t.Errorf("userId = %q, want approver7", req.UserID)
		}
		_ = json.NewEncoder(w).Encode(transport.AuthorizeResponse{
			DsaID:        req.DsaID,
			ProductType:  req.ProductType,
			Status:       "APPROVED",
			ApproverID:   req.UserID,
			ApprovedDate: &approved,
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Authorize(context.Background(), dsaID, "VEHICLE", "approver7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != "APPROVED" || result.ApproverID != "approver7" {
		t.Fatalf("unexpected response: %+v", result)
	}
}

func TestVerifyEmptyListIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Verify(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || len(result) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", result)
	}
}

func TestPendingEscapesApproverID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dsa/approval/pending/approver 7" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"dsaId":"` + uuid.Nil.String() + `","productType":"HOME","stagedDate":"2026-08-20"}]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Pending(context.Background(), "approver 7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].ProductType != "HOME" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNon2xxBecomesDependencyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	if err := c.Stage(context.Background(), uuid.New(), []string{"HOME"}); !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := c.Verify(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if err := c.Ping(context.Background()); !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestUnreachableHostBecomesDependencyError(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")

	if err := c.Ping(context.Background()); !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
