/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"github.com/TBD54566975/PEX/verifiable"
)

// evaluationClient owns one evaluation run: the definition, the working
// credential set, and the result log the handler chain appends to. A fresh
// client is constructed per call; nothing is shared between evaluations.
type evaluationClient struct {
	pd   *PresentationDefinition
	opts *EvaluationOptions

	// originals are the input credentials; credentials is the working set
	// where limit-disclosure projections replace entries.
	originals   []*verifiable.Credential
	credentials []*verifiable.Credential
	projected   map[int]bool

	log *resultLog
}

func newEvaluationClient(pd *PresentationDefinition, vcs []*verifiable.Credential,
	opts *EvaluationOptions) *evaluationClient {
	working := make([]*verifiable.Credential, len(vcs))
	copy(working, vcs)

	return &evaluationClient{
		pd:          pd,
		opts:        opts,
		originals:   vcs,
		credentials: working,
		projected:   map[int]bool{},
		log:         &resultLog{},
	}
}

// run executes the handler chain in its fixed order. Handler errors are
// programmer errors (invalid path expressions, contract violations) —
// constraint failures land in the log instead.
func (ec *evaluationClient) run() error {
	for _, h := range evaluationChain() {
		if err := h.evaluate(ec); err != nil {
			return err
		}
	}

	logger.Debugf("evaluated %d descriptors against %d credentials: %d log entries",
		len(ec.pd.InputDescriptors), len(ec.credentials), len(ec.log.entries))

	return nil
}

// candidates returns, per descriptor index, the credential indices whose
// aggregated verdict is below error severity.
func (ec *evaluationClient) candidates() [][]int {
	out := make([][]int, len(ec.pd.InputDescriptors))

	for _, entry := range ec.log.byEvaluator(markForSubmissionName) {
		i, j, ok := pairOf(entry)
		if !ok {
			continue
		}

		out[i] = append(out[i], j)
	}

	return out
}

// checked collects log entries of the given severity as summary lines.
func (ec *evaluationClient) checked(status Status) []*Checked {
	var out []*Checked

	for _, entry := range ec.log.entries {
		if entry.Status == status {
			out = append(out, &Checked{
				Tag:     entry.Evaluator,
				Status:  entry.Status,
				Message: entry.Message,
			})
		}
	}

	return out
}

// pairWarned reports whether the (i, j) pair logged any warn entry.
func (ec *evaluationClient) pairWarned(i, j int) bool {
	for _, entry := range ec.log.forPair(i, j) {
		if entry.Status == StatusWarn {
			return true
		}
	}

	return false
}
