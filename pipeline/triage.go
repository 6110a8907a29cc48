package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/rs/zerolog"

	"parshealth.com/triage/dept"
	"parshealth.com/triage/doctors"
	"parshealth.com/triage/embed"
	"parshealth.com/triage/logger"
	"parshealth.com/triage/referral"
	"parshealth.com/triage/triage"
	"parshealth.com/triage/types"
)

// Pipeline is the worker-facing shape of the triage service: push a
// request in, receive the result on the returned channel.
type Pipeline func(Request) <-chan Result

type Params struct {
	ResourceDir   string        `json:"resource_dir"`
	TaxonomyPath  string        `json:"taxonomy_path"`
	BucketSeconds int64         `json:"bucket_seconds"`
	LookupTimeout time.Duration `json:"lookup_timeout"`
	Store         doctors.Store `json:"-"`
}

// GetDefaultParams resolves artifact locations under the resource
// directory: triage/model.json, triage/preprocessor.json and the
// embeddings/ encoder pool.
func GetDefaultParams(resourceDir string, store doctors.Store) Params {
	return Params{
		ResourceDir:   resourceDir,
		BucketSeconds: embed.DefaultBucketSeconds,
		LookupTimeout: referral.DefaultLookupTimeout,
		Store:         store,
	}
}

// Service wires the risk assessor, the department classifier and the
// referral resolver. All state is read-only after New returns.
type Service struct {
	assessor   *triage.Assessor
	classifier *dept.Classifier
	resolver   *referral.Resolver
	now        func() time.Time
	parsLogger *zerolog.Logger
}

func New(params Params) (*Service, error) {
	parsLogger := logger.NewLogger("Triage pipeline")
	errLogger := parsLogger.With().Caller().Logger()
	parsLogger.Info().
		Interface("params", params).
		Msg("Starting triage pipeline (see parameters in 'params' field)")

	// A failed artifact load leaves scoring unavailable but keeps the
	// complaint classifier and referral paths serving.
	modelPath := path.Join(params.ResourceDir, "triage", "model.json")
	preprocessorPath := path.Join(params.ResourceDir, "triage", "preprocessor.json")
	assessor, err := triage.NewAssessor(modelPath, preprocessorPath)
	if err != nil {
		errLogger.Err(err).
			Str("model_path", modelPath).
			Msg("Failed to create risk assessor, scoring will be unavailable")
		assessor = nil
	}

	taxonomy := types.DefaultTaxonomy()
	if params.TaxonomyPath != "" {
		taxonomy, err = types.LoadTaxonomy(params.TaxonomyPath)
		if err != nil {
			errLogger.Err(err).
				Str("taxonomy_path", params.TaxonomyPath).
				Msg("Failed to load department taxonomy")
			return nil, err
		}
	}

	embeddingsDir := path.Join(params.ResourceDir, "embeddings")
	pool, err := embed.LoadPool(embeddingsDir)
	if err != nil {
		// Missing pool directory degrades to keyword matching only.
		parsLogger.Warn().Err(err).
			Str("embeddings_dir", embeddingsDir).
			Msg("Could not load encoder pool, keyword matching only")
		pool = nil
	}

	classifier, err := dept.NewClassifier(taxonomy, pool, params.BucketSeconds)
	if err != nil {
		errLogger.Err(err).Msg("Failed to create department classifier")
		return nil, err
	}

	return &Service{
		assessor:   assessor,
		classifier: classifier,
		resolver:   referral.NewResolver(params.Store, params.LookupTimeout),
		now:        time.Now,
		parsLogger: &parsLogger,
	}, nil
}

// NewFromComponents wires already-built components. Used by tests and
// callers that manage artifact loading themselves. A nil clock means
// wall time.
func NewFromComponents(
	assessor *triage.Assessor,
	classifier *dept.Classifier,
	resolver *referral.Resolver,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	parsLogger := logger.NewLogger("Triage pipeline")
	return &Service{
		assessor:   assessor,
		classifier: classifier,
		resolver:   resolver,
		now:        now,
		parsLogger: &parsLogger,
	}
}

// ErrModelUnavailable signals that scoring artifacts never loaded.
// The API layer maps it to a service-unavailable response; a score is
// never fabricated in its place.
var ErrModelUnavailable = errors.New("scoring model is not loaded")

// ModelLoaded reports whether the scoring pipeline can serve requests.
func (s *Service) ModelLoaded() bool {
	return s.assessor != nil
}

// Process runs one triage request end to end: score the vitals, pick
// the referral reason, resolve the department and the doctor roster.
// When no chief complaint was given the assessment rationale doubles
// as the referral reason.
func (s *Service) Process(ctx context.Context, request Request) Result {
	if s.assessor == nil {
		return Result{Err: ErrModelUnavailable}
	}
	assessment, err := s.assessor.Assess(request.Vitals)
	if err != nil {
		return Result{Err: fmt.Errorf("risk assessment failed: %w", err)}
	}

	reason := request.Vitals.ChiefComplaint
	if reason == "" {
		reason = assessment.Details
	}
	department := s.classifier.Classify(reason, s.now())

	return Result{
		Assessment: assessment,
		Referral:   s.resolver.Resolve(ctx, department),
	}
}

// SelfCheckIn handles the non-emergency walk-in path: a fixed LOW
// assessment with the department derived from the symptom text alone.
func (s *Service) SelfCheckIn(ctx context.Context, request CheckInRequest) Result {
	department := s.classifier.Classify(request.Symptoms, s.now())

	details := fmt.Sprintf(
		"Self check-in completed. Based on '%s', we recommend visiting %s.",
		request.Symptoms,
		department.DisplayName(),
	)
	return Result{
		Assessment: types.RiskAssessment{
			RiskScore: 0.1,
			RiskLabel: types.RiskLow,
			Details:   details,
		},
		Referral: s.resolver.Resolve(ctx, department),
	}
}

// Pipeline adapts the service to the channel shape the worker
// consumes.
func (s *Service) Pipeline() Pipeline {
	return func(request Request) <-chan Result {
		resultCh := make(chan Result, 1)
		go func() {
			defer close(resultCh)
			resultCh <- s.Process(context.Background(), request)
		}()
		return resultCh
	}
}
