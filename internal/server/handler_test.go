package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kapu/snsgen-go/internal/backend"
	"github.com/kapu/snsgen-go/internal/generator"
	"github.com/kapu/snsgen-go/pkg/errors"
	"go.uber.org/zap"
)

type stubBackend struct {
	text string
	err  error
}

func (s *stubBackend) Invoke(_ context.Context, _, _ string) (*backend.InvokeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &backend.InvokeResult{Text: s.text, Provider: "Anthropic", Model: "test-model"}, nil
}

func (s *stubBackend) Ping(_ context.Context) bool { return s.err == nil }

func newTestHandler(b *stubBackend) *Handler {
	gen := generator.NewService(b, zap.NewNop())
	return NewHandler(gen, nil, nil, b, zap.NewNop())
}

const generateBody = `{
	"request_id": "req-123",
	"user_id": "user-1",
	"brand": {"id": "b1", "name": "テスト", "banned_terms": ["絶対"], "must_include": []},
	"inputs": {"prompt": "新商品の告知", "sns": "X", "post_type": "normal"}
}`

const backendJSON = "```json\n{\"main\": \"本文です\", \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\", \"hashtags\": [\"#tag\"]}\n```"

func TestGenerateEndpointSuccess(t *testing.T) {
	h := newTestHandler(&stubBackend{text: backendJSON})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(generateBody))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.RequestID != "req-123" {
		t.Fatalf("request id not echoed: %q", resp.RequestID)
	}
	if resp.Result == nil || resp.Result.Main != "本文です" {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
	if !resp.Checks.Compliant {
		t.Fatalf("expected compliant checks: %+v", resp.Checks)
	}
	if len(resp.VariantChecks) != 3 {
		t.Fatalf("expected per-variant checks, got %v", resp.VariantChecks)
	}
	if resp.Provider != "Anthropic" {
		t.Fatalf("provider metadata missing: %+v", resp)
	}
}

func TestGenerateEndpointAssignsRequestID(t *testing.T) {
	h := newTestHandler(&stubBackend{text: backendJSON})

	body := strings.Replace(generateBody, `"request_id": "req-123",`, "", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.RequestID == "" {
		t.Fatalf("a request id must be assigned when absent")
	}
}

func TestGenerateEndpointConfigurationErrorIs400(t *testing.T) {
	h := newTestHandler(&stubBackend{text: backendJSON})

	body := strings.Replace(generateBody, `"post_type": "normal"`, `"post_type": "reel"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != errors.CodeConfiguration {
		t.Fatalf("unexpected code: %q", resp.Code)
	}
	if resp.Stage != "validate" {
		t.Fatalf("expected validate stage, got %q", resp.Stage)
	}
}

func TestGenerateEndpointBackendErrorIs502(t *testing.T) {
	h := newTestHandler(&stubBackend{
		err: errors.NewBackendError("anthropic API returned status 500", "Anthropic", 500, ""),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(generateBody))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != errors.CodeBackend || resp.Stage != "backend" {
		t.Fatalf("unexpected error envelope: %+v", resp)
	}
}

func TestGenerateEndpointExtractionErrorIs502(t *testing.T) {
	h := newTestHandler(&stubBackend{text: "ただの文章で、JSONはありません。"})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(generateBody))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Code != errors.CodeExtraction || resp.Stage != "extract" {
		t.Fatalf("unexpected error envelope: %+v", resp)
	}
}

func TestGenerateEndpointRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(&stubBackend{text: backendJSON})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHistoryEndpointWithoutStore(t *testing.T) {
	h := newTestHandler(&stubBackend{text: backendJSON})

	req := httptest.NewRequest(http.MethodGet, "/api/history?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a store, got %d", rec.Code)
	}
}

func TestHealthEndpointReflectsBackend(t *testing.T) {
	h := newTestHandler(&stubBackend{text: backendJSON})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 when backend answers, got %d", rec.Code)
	}

	down := newTestHandler(&stubBackend{err: errors.NewBackendError("down", "Anthropic", 503, "")})
	rec = httptest.NewRecorder()
	down.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when backend is down, got %d", rec.Code)
	}
}
