package referral

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"parshealth.com/triage/doctors"
	"parshealth.com/triage/logger"
	"parshealth.com/triage/types"
)

// DefaultLookupTimeout bounds the doctor store query. Expiry counts as
// a failed lookup and triggers the placeholder fallback.
const DefaultLookupTimeout = 3 * time.Second

// placeholderDoctor is returned when the roster cannot be fetched. A
// referral must always carry something actionable; an empty list or an
// error would fail the whole triage response over a roster hiccup.
var placeholderDoctor = types.Doctor{
	Name:       "Dr. House (Mock)",
	Experience: 10,
	Available:  true,
}

type Resolver struct {
	store      doctors.Store
	timeout    time.Duration
	parsLogger *zerolog.Logger
}

func NewResolver(store doctors.Store, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	parsLogger := logger.NewLogger("Referral resolver")
	return &Resolver{
		store:      store,
		timeout:    timeout,
		parsLogger: &parsLogger,
	}
}

// Resolve packages the department with its doctor roster. Lookup
// failures degrade to a single placeholder entry; Resolve never
// returns an error and never an empty doctor list.
func (r *Resolver) Resolve(ctx context.Context, department types.Department) types.Referral {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	docs, err := r.store.ByDepartment(lookupCtx, department)
	if err != nil {
		r.parsLogger.Err(err).
			Str("department", string(department)).
			Msg("Doctor lookup failed, substituting placeholder")
		docs = []types.Doctor{placeholderDoctor}
	}
	if len(docs) == 0 {
		docs = []types.Doctor{placeholderDoctor}
	}

	return types.Referral{
		Department: department,
		Doctors:    docs,
	}
}
