/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/PEX/verifiable"
)

func TestResultLog_VerdictIsMaxSeverity(t *testing.T) {
	log := &resultLog{}

	log.add(
		&HandlerCheckResult{
			InputDescriptorPath:      descriptorPath(0),
			VerifiableCredentialPath: credentialPath(0),
			Evaluator:                filterEvaluationName,
			Status:                   StatusInfo,
		},
		&HandlerCheckResult{
			InputDescriptorPath:      descriptorPath(0),
			VerifiableCredentialPath: credentialPath(0),
			Evaluator:                isHolderName,
			Status:                   StatusWarn,
		},
		&HandlerCheckResult{
			InputDescriptorPath:      descriptorPath(0),
			VerifiableCredentialPath: credentialPath(1),
			Evaluator:                filterEvaluationName,
			Status:                   StatusError,
		},
	)

	require.Equal(t, StatusWarn, log.verdict(0, 0))
	require.Equal(t, StatusError, log.verdict(0, 1))
	require.Equal(t, StatusInfo, log.verdict(1, 0))
}

func TestEvaluationClient_ChainOrderObservable(t *testing.T) {
	pref := Required

	pd := &PresentationDefinition{
		ID: "chain-order",
		InputDescriptors: []*InputDescriptor{{
			ID:     "d1",
			Schema: []*Schema{{URI: verifiable.ContextURI}},
			Constraints: &Constraints{
				SubjectIsIssuer: &pref,
				Fields: []*Field{{
					Path: []string{"$.credentialSubject.id"},
				}},
			},
		}},
	}

	vc, err := verifiable.ParseCredential(map[string]interface{}{
		"@context":          []interface{}{verifiable.ContextURI},
		"type":              []interface{}{verifiable.VCType},
		"issuer":            "did:x:1",
		"credentialSubject": map[string]interface{}{"id": "did:x:1"},
	})
	require.NoError(t, err)

	ec := newEvaluationClient(pd, []*verifiable.Credential{vc}, newEvaluationOptions(nil))
	require.NoError(t, ec.run())

	// Results appear in chain order: schema match, field evaluation, subject
	// binding, final mark.
	var order []string
	for _, entry := range ec.log.entries {
		order = append(order, entry.Evaluator)
	}

	require.Equal(t, []string{
		uriEvaluationName,
		filterEvaluationName,
		subjectIsIssuerName,
		markForSubmissionName,
	}, order)

	require.Equal(t, [][]int{{0}}, ec.candidates())
}
