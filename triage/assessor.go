package triage

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"parshealth.com/triage/logger"
	"parshealth.com/triage/model"
	"parshealth.com/triage/types"
)

// Assessor scores a vitals record with the guardrail-then-model
// pipeline. Construction fails if either artifact cannot be loaded;
// a caller holding an Assessor can always score.
type Assessor struct {
	model        *model.Model
	preprocessor *model.Preprocessor
	parsLogger   *zerolog.Logger
}

func NewAssessor(modelPath string, preprocessorPath string) (*Assessor, error) {
	parsLogger := logger.NewLogger("Risk Assessor")

	m, err := model.Load(modelPath)
	if err != nil {
		parsLogger.Err(err).Str("model_path", modelPath).Msg("Failed to load scoring model")
		return nil, fmt.Errorf("failed to load scoring model: %w", err)
	}
	p, err := model.LoadPreprocessor(preprocessorPath)
	if err != nil {
		parsLogger.Err(err).Str("preprocessor_path", preprocessorPath).Msg("Failed to load preprocessor")
		return nil, fmt.Errorf("failed to load preprocessor: %w", err)
	}
	if p.OutputLen() != m.FeaturesLen {
		err := fmt.Errorf("preprocessor output length %d does not match model features_len %d", p.OutputLen(), m.FeaturesLen)
		parsLogger.Err(err).Msg("Artifact mismatch")
		return nil, err
	}
	parsLogger.Info().
		Str("model_path", modelPath).
		Int("features_len", m.FeaturesLen).
		Msg("Scoring model loaded")

	return &Assessor{
		model:        m,
		preprocessor: p,
		parsLogger:   &parsLogger,
	}, nil
}

// NewAssessorFromArtifacts builds an assessor from already-loaded
// artifacts. Used by tests and by callers that fetch artifacts from a
// remote store.
func NewAssessorFromArtifacts(m *model.Model, p *model.Preprocessor) (*Assessor, error) {
	if p.OutputLen() != m.FeaturesLen {
		return nil, fmt.Errorf("preprocessor output length %d does not match model features_len %d", p.OutputLen(), m.FeaturesLen)
	}
	parsLogger := logger.NewLogger("Risk Assessor")
	return &Assessor{
		model:        m,
		preprocessor: p,
		parsLogger:   &parsLogger,
	}, nil
}

// Assess runs the two-stage pipeline: guardrails first, model second.
func (a *Assessor) Assess(v types.PatientVitals) (types.RiskAssessment, error) {
	if reasons := EvaluateGuardrails(v); len(reasons) > 0 {
		a.parsLogger.Warn().
			Strs("reasons", reasons).
			Msg("Safety override fired, skipping model")
		return types.RiskAssessment{
			RiskScore: OverrideScore,
			RiskLabel: types.LabelForScore(OverrideScore),
			Details:   buildOverrideRationale(reasons),
		}, nil
	}

	record := buildFeatureRecord(v)
	x, err := a.preprocessor.Transform(record)
	if err != nil {
		a.parsLogger.Err(err).Msg("Feature transform failed")
		return types.RiskAssessment{}, fmt.Errorf("feature transform failed: %w", err)
	}
	score, err := a.model.Predict(x)
	if err != nil {
		a.parsLogger.Err(err).Msg("Model inference failed")
		return types.RiskAssessment{}, fmt.Errorf("model inference failed: %w", err)
	}

	score = math.Round(score*10000) / 10000
	return types.RiskAssessment{
		RiskScore: score,
		RiskLabel: types.LabelForScore(score),
		Details:   buildRationale(v),
	}, nil
}
