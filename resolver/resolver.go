package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/imobly/go-core/apiclient"
	"github.com/imobly/go-core/dtos"
	"github.com/imobly/go-core/utils"
)

// AddressDraft is the slice of a creation form the resolver is allowed to
// touch. A successful lookup overwrites these four fields and nothing else;
// the form keeps whatever else the user typed.
type AddressDraft struct {
	Address string
	City    string
	State   string
	CEP     string
}

// Outcome tells the caller what a Submit did.
type Outcome int

const (
	// OutcomeIncomplete: the code did not have eight digits; no lookup ran.
	OutcomeIncomplete Outcome = iota
	// OutcomeDuplicate: same code as the last completed lookup; skipped.
	OutcomeDuplicate
	// OutcomeApplied: lookup succeeded and the draft was updated.
	OutcomeApplied
	// OutcomeStale: a lookup submitted later already completed; this result
	// was discarded and the draft left alone.
	OutcomeStale
	// OutcomeNotFound: the directory has no such code. Expected and
	// low-severity; the caller shows a notice and manual entry continues.
	OutcomeNotFound
	// OutcomeFailed: lookup error other than not-found. The same code may
	// be resubmitted.
	OutcomeFailed
)

// Resolver maps completed postal codes to address/city/state via the
// backend's directory proxy. It is form-agnostic: any flow needing address
// autofill hands it a draft and gets the same behavior.
type Resolver struct {
	api *apiclient.Client

	mu            sync.Mutex
	nextSeq       uint64
	latestDone    uint64
	lastCompleted string
}

func New(api *apiclient.Client) *Resolver {
	return &Resolver{api: api}
}

// Submit takes the postal code as currently typed and, when it is complete
// and new, performs exactly one lookup. Overlapping submissions are allowed;
// the most recently submitted lookup's result wins regardless of the order
// responses arrive in.
func (r *Resolver) Submit(ctx context.Context, raw string, draft *AddressDraft) (Outcome, error) {
	code := NormalizeCEP(raw)
	if !CompleteCEP(code) {
		return OutcomeIncomplete, nil
	}

	r.mu.Lock()
	if code == r.lastCompleted {
		r.mu.Unlock()
		return OutcomeDuplicate, nil
	}
	r.nextSeq++
	seq := r.nextSeq
	r.mu.Unlock()

	var result dtos.CEPResult
	err := r.api.Get(ctx, "/api/imoveis/buscar-cep/"+code, &result)

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.latestDone {
		return OutcomeStale, nil
	}

	switch {
	case err == nil:
		r.latestDone = seq
		r.lastCompleted = code
		draft.Address = result.Address
		draft.City = result.City
		draft.State = result.State
		draft.CEP = result.CEP
		return OutcomeApplied, nil
	case errors.Is(err, apiclient.ErrNotFound):
		r.latestDone = seq
		r.lastCompleted = code
		utils.Logger.Debugf("CEP %s not found", FormatCEP(code))
		return OutcomeNotFound, nil
	default:
		// Transport or server trouble: the code is not marked completed so
		// the user can trigger the same lookup again.
		return OutcomeFailed, fmt.Errorf("cep lookup: %w", err)
	}
}
