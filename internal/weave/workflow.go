// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weave

import "fmt"

// Phase is one state of the weave workflow. The pipeline moves a motif
// through scan, confirmation, generation, review, and application; each
// transition is explicit so a run can be resumed at any phase.
type Phase string

const (
	// PhaseScan is the initial state before any scan has run.
	PhaseScan Phase = "scan"

	// PhaseScanning means a scan is in progress.
	PhaseScanning Phase = "scanning"

	// PhaseConfirm means candidates exist and await user confirmation.
	PhaseConfirm Phase = "confirm"

	// PhaseGenerating means batches are being dispatched to the backend.
	PhaseGenerating Phase = "generating"

	// PhaseReview means variants exist and await accept/reject decisions.
	PhaseReview Phase = "review"

	// PhaseApplying means accepted variants are being written to the archive.
	PhaseApplying Phase = "applying"

	// PhaseDone is the terminal state after a successful apply.
	PhaseDone Phase = "done"

	// PhaseEmpty is the terminal state when a scan found no candidates or a
	// generate run produced no usable rewrites.
	PhaseEmpty Phase = "empty"
)

// transitions lists the legal next phases for each phase. A scan that finds
// nothing goes straight to empty, as does a generate run that yields no
// usable rewrites; review can loop back to generating when the reviewer
// rejects everything and wants a fresh batch.
var transitions = map[Phase][]Phase{
	PhaseScan:       {PhaseScanning},
	PhaseScanning:   {PhaseConfirm, PhaseEmpty},
	PhaseConfirm:    {PhaseGenerating, PhaseScan},
	PhaseGenerating: {PhaseReview, PhaseEmpty},
	PhaseReview:     {PhaseApplying, PhaseGenerating},
	PhaseApplying:   {PhaseDone},
	PhaseDone:       nil,
	PhaseEmpty:      nil,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	_, ok := transitions[p]
	return ok
}

// Terminal reports whether the workflow is finished at p.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseEmpty
}

// Advance checks that moving from p to next is legal and returns next.
func (p Phase) Advance(next Phase) (Phase, error) {
	if !p.Valid() {
		return p, fmt.Errorf("unknown phase %q", p)
	}
	for _, legal := range transitions[p] {
		if next == legal {
			return next, nil
		}
	}
	return p, fmt.Errorf("illegal transition %s -> %s", p, next)
}
