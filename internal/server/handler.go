package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/internal/generator"
	"github.com/kapu/snsgen-go/internal/service/cache"
	"github.com/kapu/snsgen-go/internal/service/history"
	"github.com/kapu/snsgen-go/pkg/errors"
)

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Handler owns the HTTP surface. Cache and store may be nil; generation then
// runs without usage counting or persistence.
type Handler struct {
	generator *generator.Service
	store     *history.Store
	cache     *cache.CacheService
	backend   Pinger
	logger    *zap.Logger
}

func NewHandler(gen *generator.Service, store *history.Store, cacheSvc *cache.CacheService, backend Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		generator: gen,
		store:     store,
		cache:     cacheSvc,
		backend:   backend,
		logger:    logger,
	}
}

type generateRequest struct {
	RequestID string                  `json:"request_id"`
	UserID    string                  `json:"user_id"`
	AccountID string                  `json:"account_id"`
	Brand     domain.BrandProfile     `json:"brand"`
	Inputs    domain.GenerationInputs `json:"inputs"`
}

type generateResponse struct {
	RequestID     string                          `json:"request_id"`
	Result        *domain.GeneratedResult         `json:"result"`
	Checks        domain.QualityReport            `json:"checks"`
	VariantChecks map[string]domain.QualityReport `json:"variant_checks"`
	Provider      string                          `json:"provider"`
	Model         string                          `json:"model"`
	ElapsedMS     int64                           `json:"elapsed_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Stage string `json:"stage,omitempty"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid request body",
			Code:  errors.CodeConfiguration,
		})
		return
	}

	if req.RequestID == "" {
		req.RequestID = newRequestID()
	}

	req.Brand.Normalize()

	ctx := r.Context()
	logger := h.logger.With(zap.String("request_id", req.RequestID))

	// Re-serve a recently completed request with the same ID instead of
	// paying for a second backend call.
	if h.cache != nil {
		if record, ok := h.cache.GetCachedResult(ctx, req.RequestID); ok && record.Result != nil && record.Checks != nil {
			logger.Info("Serving cached generation result")
			h.writeJSON(w, http.StatusOK, generateResponse{
				RequestID: record.RequestID,
				Result:    record.Result,
				Checks:    *record.Checks,
				Provider:  record.Provider,
				Model:     record.Model,
			})
			return
		}
	}

	// A request may carry only the brand ID and lean on the cached profile
	// from a previous call with the full payload.
	if h.cache != nil {
		if req.Brand.Name == "" && req.Brand.ID != "" {
			if cached := h.cache.GetBrandProfile(ctx, req.Brand.ID); cached != nil {
				req.Brand = *cached
				logger.Debug("Brand profile loaded from cache", zap.String("brand_id", req.Brand.ID))
			}
		} else if req.Brand.ID != "" {
			h.cache.SetBrandProfile(ctx, &req.Brand)
		}
	}

	if h.store != nil {
		record := &domain.GenerationRecord{
			RequestID: req.RequestID,
			UserID:    req.UserID,
			AccountID: req.AccountID,
			Platform:  req.Inputs.Platform,
			PostType:  req.Inputs.PostType,
			Inputs:    req.Inputs,
		}
		if err := h.store.SaveRequest(ctx, record); err != nil {
			logger.Error("Failed to record request", zap.Error(err))
		}
		if err := h.store.MarkProcessing(ctx, req.RequestID); err != nil {
			logger.Error("Failed to mark request processing", zap.Error(err))
		}
	}

	if h.cache != nil && req.UserID != "" {
		if _, err := h.cache.IncrementUsage(ctx, req.UserID, time.Now()); err != nil {
			logger.Error("Failed to bump usage counter", zap.Error(err))
		}
	}

	output, err := h.generator.Generate(ctx, &req.Brand, &req.Inputs)
	if err != nil {
		if h.store != nil {
			if storeErr := h.store.MarkFailed(ctx, req.RequestID, err); storeErr != nil {
				logger.Error("Failed to mark request failed", zap.Error(storeErr))
			}
		}
		h.writeError(w, logger, err)
		return
	}

	if h.store != nil {
		if err := h.store.SaveResult(ctx, req.RequestID, output.Result, &output.Checks, output.Provider, output.Model); err != nil {
			logger.Error("Failed to persist result", zap.Error(err))
		}
	}

	if h.cache != nil {
		now := time.Now()
		h.cache.CacheResult(ctx, req.RequestID, &domain.GenerationRecord{
			RequestID:   req.RequestID,
			UserID:      req.UserID,
			AccountID:   req.AccountID,
			Platform:    req.Inputs.Platform,
			PostType:    req.Inputs.PostType,
			Inputs:      req.Inputs,
			Status:      domain.StatusCompleted,
			Result:      output.Result,
			Checks:      &output.Checks,
			Provider:    output.Provider,
			Model:       output.Model,
			CreatedAt:   now,
			CompletedAt: &now,
		})
	}

	h.writeJSON(w, http.StatusOK, generateResponse{
		RequestID:     req.RequestID,
		Result:        output.Result,
		Checks:        output.Checks,
		VariantChecks: output.VariantChecks,
		Provider:      output.Provider,
		Model:         output.Model,
		ElapsedMS:     output.Elapsed.Milliseconds(),
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "history storage not configured",
			Code:  errors.CodeStorage,
		})
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "user_id query parameter is required",
			Code:  errors.CodeConfiguration,
		})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	records, err := h.store.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, h.logger, err)
		return
	}
	if records == nil {
		records = []*domain.GenerationRecord{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"history": records,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	backendOK := h.backend != nil && h.backend.Ping(ctx)
	storeOK := h.store != nil && h.store.Ping(ctx) == nil
	cacheOK := h.cache != nil && h.cache.IsConnected(ctx)

	status := http.StatusOK
	if !backendOK {
		status = http.StatusServiceUnavailable
	}

	h.writeJSON(w, status, map[string]any{
		"backend":   backendOK,
		"database":  storeOK,
		"cache":     cacheOK,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// writeError maps the pipeline's typed errors onto HTTP statuses: caller bugs
// are 400, upstream and extraction failures 502, everything else 500.
func (h *Handler) writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	resp := errorResponse{
		Error: err.Error(),
		Code:  "INTERNAL_ERROR",
	}
	status := http.StatusInternalServerError

	var pipelineErr *generator.PipelineError
	if errors.As(err, &pipelineErr) {
		resp.Stage = pipelineErr.Stage
	}

	if code, mapped := errors.StatusOf(err); code != "" {
		resp.Code = code
		if mapped > 0 {
			status = mapped
		}
	}

	logger.Warn("Request failed",
		zap.String("code", resp.Code),
		zap.String("stage", resp.Stage),
		zap.Int("status", status),
		zap.Error(err),
	)

	h.writeJSON(w, status, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func newRequestID() string {
	return "req_" + strconv.FormatInt(time.Now().UnixNano(), 36)
}
