/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/PEX/presexch"
	"github.com/TBD54566975/PEX/verifiable"
)

func namePD(t *testing.T) *presexch.PresentationDefinition {
	t.Helper()

	return &presexch.PresentationDefinition{
		ID: uuid.NewString(),
		InputDescriptors: []*presexch.InputDescriptor{{
			ID:     "name_descriptor",
			Schema: contextSchema(),
			Constraints: &presexch.Constraints{
				Fields: []*presexch.Field{{
					Path: []string{"$.credentialSubject.name"},
				}},
			},
		}},
	}
}

func TestPresentationFrom(t *testing.T) {
	pd := namePD(t)

	vcs := []*verifiable.Credential{
		newVC(t, map[string]interface{}{"id": "did:example:1", "other": "claim"}, ""),
		newVC(t, map[string]interface{}{"id": "did:example:2", "name": "Jesse"}, ""),
	}

	vp, submission, err := pd.PresentationFrom(vcs,
		presexch.WithHolderDIDs("did:example:2"))
	require.NoError(t, err)

	require.Contains(t, vp.Context, verifiable.ContextURI)
	require.Contains(t, vp.Context, presexch.PresentationSubmissionJSONLDContextIRI)
	require.Contains(t, vp.Type, verifiable.VPType)
	require.Contains(t, vp.Type, presexch.PresentationSubmissionJSONLDType)
	require.Equal(t, "did:example:2", vp.Holder)

	// Only the chosen credential is carried, re-indexed from zero.
	require.Len(t, vp.Credentials, 1)
	require.Len(t, submission.DescriptorMap, 1)
	require.Equal(t, "name_descriptor", submission.DescriptorMap[0].ID)
	require.Equal(t, "$.verifiableCredential[0]", submission.DescriptorMap[0].Path)
	require.Equal(t, pd.ID, submission.DefinitionID)

	// The submission path resolves to the chosen credential inside the
	// marshaled presentation.
	vpObj, err := vp.JSONObject()
	require.NoError(t, err)

	creds, ok := vpObj["verifiableCredential"].([]interface{})
	require.True(t, ok)
	require.Len(t, creds, 1)

	subject := creds[0].(map[string]interface{})["credentialSubject"].(map[string]interface{})
	require.Equal(t, "Jesse", subject["name"])

	t.Run("round trip through EvaluatePresentation", func(t *testing.T) {
		results, evalErr := pd.EvaluatePresentation(vp)
		require.NoError(t, evalErr)
		require.Equal(t, presexch.StatusInfo, results.AreRequiredCredentialsPresent)
		require.Equal(t, submission, results.Value)
	})

	t.Run("external location omits the embedded submission", func(t *testing.T) {
		externalVP, externalPS, extErr := pd.PresentationFrom(vcs,
			presexch.WithSubmissionLocation(presexch.SubmissionLocationExternal))
		require.NoError(t, extErr)
		require.NotNil(t, externalPS)
		require.NotContains(t, externalVP.CustomFields, "presentation_submission")
	})

	t.Run("nothing satisfies", func(t *testing.T) {
		_, _, noneErr := pd.PresentationFrom([]*verifiable.Credential{
			newVC(t, map[string]interface{}{"id": "did:example:3"}, ""),
		})
		require.ErrorIs(t, noneErr, presexch.ErrNoCredentials)
	})
}

func TestVerifiablePresentationFrom(t *testing.T) {
	pd := namePD(t)

	vcs := []*verifiable.Credential{
		newVC(t, map[string]interface{}{"id": "did:example:1", "name": "Jesse"}, ""),
	}

	t.Run("callback result embedded verbatim", func(t *testing.T) {
		sign := func(_ context.Context, vp *verifiable.Presentation) (interface{}, error) {
			bits, err := json.Marshal(vp)
			require.NoError(t, err)

			return "signed:" + string(bits[:4]), nil
		}

		result, err := pd.VerifiablePresentationFrom(context.Background(), vcs, sign)
		require.NoError(t, err)
		require.NotNil(t, result.Presentation)
		require.NotNil(t, result.PresentationSubmission)
		require.Equal(t, presexch.SubmissionLocationPresentation, result.SubmissionLocation)
		require.Contains(t, result.VerifiablePresentation.(string), "signed:")
	})

	t.Run("missing callback", func(t *testing.T) {
		_, err := pd.VerifiablePresentationFrom(context.Background(), vcs, nil)
		require.Error(t, err)
	})
}

func TestSelectFrom(t *testing.T) {
	pd := namePD(t)

	vcs := []*verifiable.Credential{
		newVC(t, map[string]interface{}{"id": "did:example:1", "other": "claim"}, ""),
		newVC(t, map[string]interface{}{"id": "did:example:2", "name": "Jesse"}, ""),
	}

	results, err := pd.SelectFrom(vcs)
	require.NoError(t, err)

	require.Equal(t, presexch.StatusInfo, results.AreRequiredCredentialsPresent)
	require.Len(t, results.VerifiableCredential, 1)

	subject := results.VerifiableCredential[0].JSONObject()["credentialSubject"].(map[string]interface{})
	require.Equal(t, "Jesse", subject["name"])
}

func TestPresentationSubmissionFrom(t *testing.T) {
	pd := namePD(t)

	t.Run("success", func(t *testing.T) {
		ps, err := pd.PresentationSubmissionFrom([]*verifiable.Credential{
			newVC(t, map[string]interface{}{"id": "did:example:1", "name": "Jesse"}, ""),
		})
		require.NoError(t, err)
		require.NoError(t, ps.Validate())
		require.Equal(t, pd.ID, ps.DefinitionID)
	})

	t.Run("failure", func(t *testing.T) {
		_, err := pd.PresentationSubmissionFrom([]*verifiable.Credential{
			newVC(t, map[string]interface{}{"id": "did:example:1"}, ""),
		})
		require.ErrorIs(t, err, presexch.ErrNoCredentials)
	})
}

func TestEvaluateCredentials_IsHolder(t *testing.T) {
	newPD := func(directive presexch.Preference) *presexch.PresentationDefinition {
		return &presexch.PresentationDefinition{
			ID: uuid.NewString(),
			InputDescriptors: []*presexch.InputDescriptor{{
				ID:     "bound",
				Schema: contextSchema(),
				Constraints: &presexch.Constraints{
					IsHolder: []*presexch.Holder{{
						FieldID:   []string{"subject_field"},
						Directive: &directive,
					}},
					Fields: []*presexch.Field{{
						ID:   "subject_field",
						Path: []string{"$.credentialSubject.id"},
					}},
				},
			}},
		}
	}

	vc := newVC(t, map[string]interface{}{"id": "did:example:holder"}, "")

	t.Run("holder controls the subject", func(t *testing.T) {
		results, err := newPD(presexch.Required).EvaluateCredentials(
			[]*verifiable.Credential{vc},
			presexch.WithHolderDIDs("did:example:holder"))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusInfo, results.AreRequiredCredentialsPresent)
	})

	t.Run("required directive without the DID fails", func(t *testing.T) {
		results, err := newPD(presexch.Required).EvaluateCredentials(
			[]*verifiable.Credential{vc},
			presexch.WithHolderDIDs("did:example:somebody-else"))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusError, results.AreRequiredCredentialsPresent)
	})

	t.Run("preferred directive degrades to a warning", func(t *testing.T) {
		results, err := newPD(presexch.Preferred).EvaluateCredentials(
			[]*verifiable.Credential{vc},
			presexch.WithHolderDIDs("did:example:somebody-else"))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusWarn, results.AreRequiredCredentialsPresent)
		require.NotEmpty(t, results.Warnings)
	})
}

func TestEvaluateCredentials_DIDRestriction(t *testing.T) {
	pd := namePD(t)

	vc := newVC(t, map[string]interface{}{"id": "did:example:1", "name": "Jesse"}, "")

	t.Run("issuer method allowed", func(t *testing.T) {
		results, err := pd.EvaluateCredentials([]*verifiable.Credential{vc},
			presexch.WithRestrictToDIDMethods("example"))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusInfo, results.AreRequiredCredentialsPresent)
	})

	t.Run("issuer method rejected", func(t *testing.T) {
		results, err := pd.EvaluateCredentials([]*verifiable.Credential{vc},
			presexch.WithRestrictToDIDMethods("key"))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusError, results.AreRequiredCredentialsPresent)
	})
}

func TestEvaluateCredentials_FormatRestriction(t *testing.T) {
	vc := newVC(t, map[string]interface{}{"id": "did:example:1", "name": "Jesse"},
		"Ed25519Signature2018")

	t.Run("definition format honored", func(t *testing.T) {
		pd := namePD(t)
		pd.Format = &presexch.Format{
			LdpVC: &presexch.LdpType{ProofType: []string{"Ed25519Signature2018"}},
		}

		results, err := pd.EvaluateCredentials([]*verifiable.Credential{vc})
		require.NoError(t, err)
		require.Equal(t, presexch.StatusInfo, results.AreRequiredCredentialsPresent)
	})

	t.Run("definition format rejects foreign proof type", func(t *testing.T) {
		pd := namePD(t)
		pd.Format = &presexch.Format{
			LdpVC: &presexch.LdpType{ProofType: []string{"JsonWebSignature2020"}},
		}

		results, err := pd.EvaluateCredentials([]*verifiable.Credential{vc})
		require.NoError(t, err)
		require.Equal(t, presexch.StatusError, results.AreRequiredCredentialsPresent)
	})

	t.Run("caller restriction intersects", func(t *testing.T) {
		pd := namePD(t)
		pd.Format = &presexch.Format{
			LdpVC: &presexch.LdpType{ProofType: []string{"Ed25519Signature2018"}},
		}

		results, err := pd.EvaluateCredentials([]*verifiable.Credential{vc},
			presexch.WithRestrictToFormats(&presexch.Format{
				LdpVC: &presexch.LdpType{ProofType: []string{"BbsBlsSignature2020"}},
			}))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusError, results.AreRequiredCredentialsPresent)
	})
}

func TestEvaluateCredentials_ProvidedSubmission(t *testing.T) {
	pd := namePD(t)

	vcs := []*verifiable.Credential{
		newVC(t, map[string]interface{}{"id": "did:example:1", "name": "Jesse"}, ""),
	}

	t.Run("valid submission accepted", func(t *testing.T) {
		results, err := pd.EvaluateCredentials(vcs,
			presexch.WithPresentationSubmission(&presexch.PresentationSubmission{
				ID:           uuid.NewString(),
				DefinitionID: pd.ID,
				DescriptorMap: []*presexch.InputDescriptorMapping{{
					ID:     "name_descriptor",
					Format: "ldp_vc",
					Path:   "$.verifiableCredential[0]",
				}},
			}))
		require.NoError(t, err)
		require.Equal(t, presexch.StatusInfo, results.AreRequiredCredentialsPresent)
	})

	t.Run("unknown descriptor id rejected", func(t *testing.T) {
		_, err := pd.EvaluateCredentials(vcs,
			presexch.WithPresentationSubmission(&presexch.PresentationSubmission{
				ID:           uuid.NewString(),
				DefinitionID: pd.ID,
				DescriptorMap: []*presexch.InputDescriptorMapping{{
					ID:     "bogus",
					Format: "ldp_vc",
					Path:   "$.verifiableCredential[0]",
				}},
			}))
		require.Error(t, err)
	})

	t.Run("mismatched definition id rejected", func(t *testing.T) {
		_, err := pd.EvaluateCredentials(vcs,
			presexch.WithPresentationSubmission(&presexch.PresentationSubmission{
				ID:            uuid.NewString(),
				DefinitionID:  "some-other-definition",
				DescriptorMap: []*presexch.InputDescriptorMapping{},
			}))
		require.Error(t, err)
	})
}
