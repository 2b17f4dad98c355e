// Package generator runs one draft-generation request end to end: resolve the
// platform profile, build the prompt, invoke a backend, extract the structured
// result, and grade every variant. The pipeline is linear and fails whole; a
// stage that errors yields no partial result.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kapu/snsgen-go/internal/backend"
	"github.com/kapu/snsgen-go/internal/constants"
	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/internal/extract"
	"github.com/kapu/snsgen-go/internal/platform"
	"github.com/kapu/snsgen-go/internal/prompt"
	"github.com/kapu/snsgen-go/internal/quality"
	"github.com/kapu/snsgen-go/pkg/errors"
	"go.uber.org/zap"
)

// Backend is the generation call the orchestrator depends on. Satisfied by
// *backend.Manager; tests substitute a stub.
type Backend interface {
	Invoke(ctx context.Context, system, user string) (*backend.InvokeResult, error)
}

// Output is the full product of one invocation: the four variants, the main
// draft's quality report, per-variant reports, and which backend produced it.
type Output struct {
	Result        *domain.GeneratedResult
	Checks        domain.QualityReport
	VariantChecks map[string]domain.QualityReport
	Provider      string
	Model         string
	UsedFallback  bool
	Elapsed       time.Duration
}

// PipelineError tags a failure with the stage it happened in.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func validateInputs(in *domain.GenerationInputs) error {
	if strings.TrimSpace(in.Prompt) == "" {
		return errors.NewConfigurationError("prompt is required", "prompt", "")
	}
	if utf8.RuneCountInString(in.Prompt) > constants.InputLimits.MaxGoalLength {
		return errors.NewConfigurationError(
			fmt.Sprintf("prompt exceeds %d characters", constants.InputLimits.MaxGoalLength),
			"prompt", utf8.RuneCountInString(in.Prompt))
	}
	if utf8.RuneCountInString(in.BaseText) > constants.InputLimits.MaxBaseTextLength {
		return errors.NewConfigurationError(
			fmt.Sprintf("base_text exceeds %d characters", constants.InputLimits.MaxBaseTextLength),
			"base_text", utf8.RuneCountInString(in.BaseText))
	}
	return nil
}

type Service struct {
	backend Backend
	logger  *zap.Logger
}

func NewService(backend Backend, logger *zap.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger,
	}
}

// Generate produces a draft set for one brand and one set of inputs.
func (s *Service) Generate(ctx context.Context, brand *domain.BrandProfile, in *domain.GenerationInputs) (*Output, error) {
	started := time.Now()

	if err := validateInputs(in); err != nil {
		return nil, &PipelineError{Stage: "validate", Err: err}
	}

	profile, err := platform.Profile(in.Platform)
	if err != nil {
		return nil, &PipelineError{Stage: "validate", Err: err}
	}

	if !platform.ValidPostType(in.Platform, in.PostType) {
		return nil, &PipelineError{Stage: "validate", Err: errors.NewConfigurationError(
			fmt.Sprintf("post type %q is not valid for platform %q", string(in.PostType), string(in.Platform)),
			"post_type", string(in.PostType),
		)}
	}

	resolved := *in
	resolved.Options = in.Options.Resolved()

	system, user, err := prompt.Build(brand, &resolved, profile)
	if err != nil {
		return nil, &PipelineError{Stage: "prompt", Err: err}
	}

	s.logger.Info("Generating post drafts",
		zap.String("brand", brand.Name),
		zap.String("sns", in.Platform.String()),
		zap.String("post_type", string(in.PostType)),
		zap.Int("prompt_length", len(user)),
	)

	invoked, err := s.backend.Invoke(ctx, system, user)
	if err != nil {
		return nil, &PipelineError{Stage: "backend", Err: err}
	}

	result, err := extract.Extract(invoked.Text)
	if err != nil {
		return nil, &PipelineError{Stage: "extract", Err: err}
	}

	maxChars := resolved.Options.MaxChars
	checks := quality.Check(result.Main, brand.BannedTerms, maxChars)
	variantChecks := map[string]domain.QualityReport{
		"alt1":       quality.Check(result.Alt1, brand.BannedTerms, maxChars),
		"alt2":       quality.Check(result.Alt2, brand.BannedTerms, maxChars),
		"short_main": quality.Check(result.ShortMain, brand.BannedTerms, maxChars),
	}

	elapsed := time.Since(started)
	s.logger.Info("Draft generation complete",
		zap.String("provider", invoked.Provider),
		zap.String("model", invoked.Model),
		zap.Bool("used_fallback", invoked.UsedFallback),
		zap.Bool("compliant", checks.Compliant),
		zap.Int("char_count", checks.CharCount),
		zap.Duration("elapsed", elapsed),
	)

	return &Output{
		Result:        result,
		Checks:        checks,
		VariantChecks: variantChecks,
		Provider:      invoked.Provider,
		Model:         invoked.Model,
		UsedFallback:  invoked.UsedFallback,
		Elapsed:       elapsed,
	}, nil
}
