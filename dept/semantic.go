package dept

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"parshealth.com/triage/embed"
	"parshealth.com/triage/logger"
	"parshealth.com/triage/types"
)

// MatchOutcome is the explicit result of a semantic match attempt.
// A failed attempt carries the error for logging; the caller composes
// the keyword fallback instead of the error propagating upward.
type MatchOutcome struct {
	Department types.Department
	Similarity float64
	Encoder    string
	Err        error
}

func (o MatchOutcome) OK() bool {
	return o.Err == nil
}

// semanticMatcher holds the encoder pool and, per encoder, the
// precomputed embeddings of the department descriptions. All state is
// read-only after construction, so concurrent matching needs no
// locking.
type semanticMatcher struct {
	taxonomy      types.Taxonomy
	pool          []*embed.Encoder
	embeddings    [][][]float64 // [encoder][department][dim]
	bucketSeconds int64
	parsLogger    *zerolog.Logger
}

func newSemanticMatcher(taxonomy types.Taxonomy, pool []*embed.Encoder, bucketSeconds int64) (*semanticMatcher, error) {
	parsLogger := logger.NewLogger("Semantic matcher")

	embeddings := make([][][]float64, 0, len(pool))
	for _, encoder := range pool {
		deptVectors := make([][]float64, 0, len(taxonomy.Entries))
		for _, entry := range taxonomy.Entries {
			vector, err := encoder.Encode(entry.Description)
			if err != nil {
				parsLogger.Err(err).
					Str("encoder", encoder.Name).
					Str("department", string(entry.Department)).
					Msg("Failed to embed department description")
				return nil, fmt.Errorf("failed to embed description for %s: %w", entry.Department, err)
			}
			deptVectors = append(deptVectors, vector)
		}
		embeddings = append(embeddings, deptVectors)
	}

	return &semanticMatcher{
		taxonomy:      taxonomy,
		pool:          pool,
		embeddings:    embeddings,
		bucketSeconds: bucketSeconds,
		parsLogger:    &parsLogger,
	}, nil
}

// match encodes the complaint with the encoder active at the given
// time and picks the department whose description embedding is most
// similar. The best score wins regardless of sign; on a full tie the
// first taxonomy entry is picked.
func (m *semanticMatcher) match(complaint string, now time.Time) MatchOutcome {
	idx := embed.ActiveIndex(len(m.pool), m.bucketSeconds, now)
	if idx < 0 {
		return MatchOutcome{Err: errors.New("empty encoder pool")}
	}
	encoder := m.pool[idx]

	vector, err := encoder.Encode(complaint)
	if err != nil {
		return MatchOutcome{Encoder: encoder.Name, Err: fmt.Errorf("encode failed: %w", err)}
	}

	best := -1
	bestScore := 0.0
	for i, deptVector := range m.embeddings[idx] {
		score, err := embed.Cosine(vector, deptVector)
		if err != nil {
			return MatchOutcome{Encoder: encoder.Name, Err: fmt.Errorf("similarity failed: %w", err)}
		}
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return MatchOutcome{Encoder: encoder.Name, Err: errors.New("empty taxonomy")}
	}

	entry := m.taxonomy.Entries[best]
	return MatchOutcome{
		Department: types.DepartmentFromDescription(entry.Description),
		Similarity: bestScore,
		Encoder:    encoder.Name,
	}
}
