/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"github.com/google/uuid"
	"github.com/piprate/json-gold/ld"
)

// SubmissionLocation says where a generated submission is carried.
type SubmissionLocation string

const (
	// SubmissionLocationPresentation embeds the submission in the presentation.
	SubmissionLocationPresentation SubmissionLocation = "PRESENTATION"
	// SubmissionLocationExternal carries the submission outside the
	// presentation, e.g. as a DIDComm attachment.
	SubmissionLocationExternal SubmissionLocation = "EXTERNAL"
)

// EvaluationOptions is a holder of options applied when evaluating credentials
// against a definition.
type EvaluationOptions struct {
	// HolderDIDs are DIDs the wallet controls, used by the subject binding checks.
	HolderDIDs []string
	// LimitDisclosureSignatureSuites are proof types that support selective disclosure.
	LimitDisclosureSignatureSuites []string
	// RestrictToFormats is a caller-imposed claim format allow-list,
	// intersected with the definition's.
	RestrictToFormats *Format
	// RestrictToDIDMethods restricts issuer DID methods.
	RestrictToDIDMethods []string
	// PresentationSubmission is a pre-existing submission to evaluate
	// against; when nil one is generated.
	PresentationSubmission *PresentationSubmission
	// GeneratePresentationSubmission forces generation even when a submission
	// is embedded in the input.
	GeneratePresentationSubmission bool
	// SubmissionLocation says where a generated submission is carried.
	SubmissionLocation SubmissionLocation
	// UUIDSource produces submission IDs; defaults to uuid.NewString.
	UUIDSource func() string
	// DocumentLoader, when set, enables JSON-LD expansion fallback in schema
	// URI matching.
	DocumentLoader ld.DocumentLoader
}

// EvaluationOpt sets an evaluation option.
type EvaluationOpt func(*EvaluationOptions)

// WithHolderDIDs sets the DIDs the wallet controls.
func WithHolderDIDs(dids ...string) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.HolderDIDs = dids
	}
}

// WithLimitDisclosureSignatureSuites sets the proof types that support
// selective disclosure.
func WithLimitDisclosureSignatureSuites(suites ...string) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.LimitDisclosureSignatureSuites = suites
	}
}

// WithRestrictToFormats restricts accepted claim formats beyond the
// definition's own format map.
func WithRestrictToFormats(format *Format) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.RestrictToFormats = format
	}
}

// WithRestrictToDIDMethods restricts accepted issuer DID methods.
func WithRestrictToDIDMethods(methods ...string) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.RestrictToDIDMethods = methods
	}
}

// WithPresentationSubmission supplies a pre-existing submission to evaluate
// against instead of generating one.
func WithPresentationSubmission(submission *PresentationSubmission) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.PresentationSubmission = submission
	}
}

// WithGeneratePresentationSubmission forces submission generation even when
// the evaluated presentation embeds one.
func WithGeneratePresentationSubmission() EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.GeneratePresentationSubmission = true
	}
}

// WithSubmissionLocation says where a generated submission is carried.
func WithSubmissionLocation(location SubmissionLocation) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.SubmissionLocation = location
	}
}

// WithUUIDSource overrides the submission ID source, e.g. for deterministic tests.
func WithUUIDSource(source func() string) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.UUIDSource = source
	}
}

// WithDocumentLoader enables JSON-LD expansion fallback during v1 schema URI
// matching.
func WithDocumentLoader(loader ld.DocumentLoader) EvaluationOpt {
	return func(o *EvaluationOptions) {
		o.DocumentLoader = loader
	}
}

func newEvaluationOptions(opts []EvaluationOpt) *EvaluationOptions {
	options := &EvaluationOptions{
		SubmissionLocation: SubmissionLocationPresentation,
		UUIDSource:         uuid.NewString,
	}

	for _, opt := range opts {
		opt(options)
	}

	return options
}
