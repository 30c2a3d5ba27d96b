/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"fmt"

	"github.com/TBD54566975/PEX/verifiable"
)

// Status is the severity of a handler check result.
type Status string

const (
	// StatusInfo marks a passed check.
	StatusInfo Status = "info"
	// StatusWarn marks a violated preferred directive.
	StatusWarn Status = "warn"
	// StatusError marks a violated required constraint.
	StatusError Status = "error"
)

var statusRank = map[Status]int{StatusInfo: 0, StatusWarn: 1, StatusError: 2}

// worse returns the higher-severity of two statuses.
func (s Status) worse(other Status) Status {
	if statusRank[other] > statusRank[s] {
		return other
	}

	return s
}

// HandlerCheckResult is one entry of the evaluation log, keyed by the
// JSONPath of the input descriptor within the definition and the JSONPath of
// the credential within the candidate set.
type HandlerCheckResult struct {
	InputDescriptorPath      string      `json:"input_descriptor_path"`
	VerifiableCredentialPath string      `json:"verifiable_credential_path"`
	Evaluator                string      `json:"evaluator"`
	Status                   Status      `json:"status"`
	Message                  string      `json:"message,omitempty"`
	Payload                  interface{} `json:"payload,omitempty"`
}

// fieldPayload is the payload shape of FilterEvaluation and
// PredicateRelatedField results.
type fieldPayload struct {
	Result *pathValue `json:"result"`
	// FieldID links the result back to the constraint field, for is_holder
	// and same_subject resolution.
	FieldID string `json:"field_id,omitempty"`
	// fieldIndex is the field's position within the descriptor's constraints.
	fieldIndex int
}

// pathValue is a concrete path and the value found there.
type pathValue struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
	// keyPath is the same path in gjson/sjson dotted syntax, for projection.
	keyPath string
}

func descriptorPath(i int) string {
	return fmt.Sprintf("$.input_descriptors[%d]", i)
}

func credentialPath(j int) string {
	return fmt.Sprintf("$.verifiableCredential[%d]", j)
}

// pairOf recovers the (descriptor, credential) indices a result addresses.
func pairOf(entry *HandlerCheckResult) (int, int, bool) {
	var i, j int

	if _, err := fmt.Sscanf(entry.InputDescriptorPath, "$.input_descriptors[%d]", &i); err != nil {
		return 0, 0, false
	}

	if _, err := fmt.Sscanf(entry.VerifiableCredentialPath, "$.verifiableCredential[%d]", &j); err != nil {
		return 0, 0, false
	}

	return i, j, true
}

// resultLog is the append-only sequence of handler check results produced
// during one evaluation. It is the only mutable structure of an evaluation
// and is discarded once results are emitted.
type resultLog struct {
	entries []*HandlerCheckResult
}

func (l *resultLog) add(results ...*HandlerCheckResult) {
	l.entries = append(l.entries, results...)
}

// byEvaluator returns entries of the named evaluator, in insertion order.
func (l *resultLog) byEvaluator(name string) []*HandlerCheckResult {
	var out []*HandlerCheckResult

	for _, entry := range l.entries {
		if entry.Evaluator == name {
			out = append(out, entry)
		}
	}

	return out
}

// forPair returns entries addressing the (descriptor i, credential j) pair.
func (l *resultLog) forPair(i, j int) []*HandlerCheckResult {
	dPath, cPath := descriptorPath(i), credentialPath(j)

	var out []*HandlerCheckResult

	for _, entry := range l.entries {
		if entry.InputDescriptorPath == dPath && entry.VerifiableCredentialPath == cPath {
			out = append(out, entry)
		}
	}

	return out
}

// verdict is the aggregated status of a pair: the maximum severity across all
// of the pair's entries.
func (l *resultLog) verdict(i, j int) Status {
	status := StatusInfo

	for _, entry := range l.forPair(i, j) {
		status = status.worse(entry.Status)
	}

	return status
}

// Checked is a summary line surfaced in evaluation results.
type Checked struct {
	Tag     string `json:"tag"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// EvaluationResults is the aggregated outcome of evaluating credentials
// against a presentation definition.
type EvaluationResults struct {
	// Value is the synthesized (or supplied) presentation submission, nil on
	// hard failure.
	Value    *PresentationSubmission
	Warnings []*Checked
	Errors   []*Checked
	// VerifiableCredential holds the input credentials in input order, each
	// replaced by its limit-disclosure projection where one was produced.
	VerifiableCredential []*verifiable.Credential
	// AreRequiredCredentialsPresent is info on success, warn when only
	// preferred directives were violated, error on hard failure.
	AreRequiredCredentialsPresent Status
}

// SelectResults reports which credentials can satisfy a definition.
type SelectResults struct {
	AreRequiredCredentialsPresent Status
	// VerifiableCredential holds only the matching credentials, in input
	// order, projected where limit disclosure applies.
	VerifiableCredential []*verifiable.Credential
	Warnings             []*Checked
	Errors               []*Checked
}

// VerifiablePresentationResult is the outcome of building and signing a
// presentation.
type VerifiablePresentationResult struct {
	// VerifiablePresentation is the signing callback's result, embedded
	// verbatim.
	VerifiablePresentation interface{}
	Presentation           *verifiable.Presentation
	PresentationSubmission *PresentationSubmission
	SubmissionLocation     SubmissionLocation
}
