package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logger"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Orchestrator walks the tier ladder for each request: primary AI, backup
// AI, then the keyword analyzer. Provider-side trouble of any kind advances
// to the next tier, so a valid request always yields a result. The only
// error a caller can see is InvalidInputError, raised before the first tier.
type Orchestrator struct {
	primary   llm.Provider
	backup    llm.Provider
	validator *Validator
	fallback  *KeywordAnalyzer
	logger    *zap.Logger
}

// NewOrchestrator wires the tier ladder. Either provider may be nil or
// unavailable; the keyword tier covers whatever is left.
func NewOrchestrator(primary, backup llm.Provider, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		primary:   primary,
		backup:    backup,
		validator: NewValidator(log),
		fallback:  NewKeywordAnalyzer(),
		logger:    log,
	}
}

// Analyze runs one match analysis through the tier ladder. Each AI attempt
// is bounded by its provider's own timeout; the keyword tier completes
// locally and cannot fail.
func (o *Orchestrator) Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisResult, error) {
	prompt, err := BuildPrompt(req.ResumeText, req.JobDescription)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	// Provider timeouts alone bound the AI calls; a caller hanging up does
	// not cut the ladder short.
	ctx = context.WithoutCancel(ctx)

	tiers := []struct {
		tier     types.SourceTier
		provider llm.Provider
	}{
		{types.TierPrimary, o.primary},
		{types.TierBackup, o.backup},
	}

	for _, t := range tiers {
		if result, ok := o.tryProvider(ctx, t.tier, t.provider, prompt); ok {
			return result, nil
		}
	}

	o.logger.Info("all AI tiers exhausted, serving keyword analysis",
		zap.String(logger.FieldTier, string(types.TierFallback)),
	)
	return o.fallback.Analyze(req.ResumeText, req.JobDescription), nil
}

// tryProvider attempts one AI tier. A false return means the tier could not
// serve the request, for any reason, and the ladder moves on.
func (o *Orchestrator) tryProvider(ctx context.Context, tier types.SourceTier, provider llm.Provider, prompt string) (types.AnalysisResult, bool) {
	if provider == nil {
		return types.AnalysisResult{}, false
	}

	log := logger.WithFields(o.logger,
		zap.String(logger.FieldTier, string(tier)),
		zap.String(logger.FieldProvider, provider.Name()),
	)

	if !provider.Available() {
		log.Info("provider not configured, skipping tier",
			zap.Error(&ProviderUnavailableError{Provider: provider.Name()}),
		)
		return types.AnalysisResult{}, false
	}

	outcome := provider.Generate(ctx, prompt)
	if !outcome.OK() {
		log.Warn("provider call failed, advancing tier",
			zap.String(logger.FieldFailure, string(outcome.Failure.Kind)),
			zap.Error(&ProviderFailureError{
				Provider: provider.Name(),
				Message:  outcome.Failure.Message,
				Cause:    outcome.Failure.Cause,
			}),
		)
		return types.AnalysisResult{}, false
	}

	result, err := o.validator.Normalize(outcome.Text)
	if err != nil {
		log.Warn("provider response unusable, advancing tier",
			zap.String(logger.FieldFailure, string(llm.FailureMalformed)),
			zap.Error(err),
		)
		return types.AnalysisResult{}, false
	}

	result.SourceTier = tier
	log.Info("analysis served", zap.Int("match_score", result.MatchScore))
	return result, true
}
