/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/PEX/presexch"
)

func TestPresentationDefinition_Version(t *testing.T) {
	v1 := &presexch.PresentationDefinition{
		ID: uuid.NewString(),
		InputDescriptors: []*presexch.InputDescriptor{{
			ID:     "d1",
			Schema: []*presexch.Schema{{URI: "https://example.org/schema"}},
		}},
	}
	require.Equal(t, presexch.V1, v1.Version())

	v2 := &presexch.PresentationDefinition{
		ID: uuid.NewString(),
		InputDescriptors: []*presexch.InputDescriptor{{
			ID: "d1",
		}},
	}
	require.Equal(t, presexch.V2, v2.Version())
}

func TestPresentationDefinition_ValidateSchema(t *testing.T) {
	t.Run("valid v1", func(t *testing.T) {
		strType := "string"
		requiredPref := presexch.Required

		pd := &presexch.PresentationDefinition{
			ID:   uuid.NewString(),
			Name: "Age check",
			InputDescriptors: []*presexch.InputDescriptor{{
				ID:     "age_descriptor",
				Schema: []*presexch.Schema{{URI: "https://example.org/schema", Required: true}},
				Constraints: &presexch.Constraints{
					LimitDisclosure: &requiredPref,
					Fields: []*presexch.Field{{
						Path:      []string{"$.credentialSubject.birthDate"},
						Predicate: &requiredPref,
						Filter: &presexch.Filter{
							Type:   &strType,
							Format: "date",
						},
					}},
				},
			}},
		}

		require.NoError(t, pd.ValidateSchema())
	})

	t.Run("valid v2 with optional field", func(t *testing.T) {
		pd := &presexch.PresentationDefinition{
			ID: uuid.NewString(),
			InputDescriptors: []*presexch.InputDescriptor{{
				ID: "profile",
				Constraints: &presexch.Constraints{
					Fields: []*presexch.Field{{
						Path:     []string{"$.credentialSubject.nickname"},
						Optional: true,
					}},
				},
			}},
		}

		require.NoError(t, pd.ValidateSchema())
	})

	t.Run("missing input descriptors", func(t *testing.T) {
		pd := &presexch.PresentationDefinition{ID: uuid.NewString()}
		require.Error(t, pd.ValidateSchema())
	})

	t.Run("missing id", func(t *testing.T) {
		pd := &presexch.PresentationDefinition{
			InputDescriptors: []*presexch.InputDescriptor{{ID: "d1"}},
		}
		require.Error(t, pd.ValidateSchema())
	})

	t.Run("parses from JSON", func(t *testing.T) {
		raw := `{
			"id": "32f54163-7166-48f1-93d8-ff217bdb0653",
			"submission_requirements": [{
				"name": "Banking Information",
				"rule": "pick",
				"count": 1,
				"from": "A"
			}],
			"input_descriptors": [{
				"id": "banking_input",
				"group": ["A"],
				"schema": [{"uri": "https://bank-standards.example.com/customer.json"}],
				"constraints": {
					"fields": [{
						"path": ["$.credentialSubject.accountNumber"],
						"filter": {"type": "string", "pattern": "^[0-9]{10}$"}
					}]
				}
			}]
		}`

		pd := &presexch.PresentationDefinition{}
		require.NoError(t, json.Unmarshal([]byte(raw), pd))
		require.NoError(t, pd.ValidateSchema())
		require.Equal(t, presexch.V1, pd.Version())
		require.Equal(t, 1, pd.SubmissionRequirements[0].Count)
	})
}

func TestPresentationSubmission_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ps := &presexch.PresentationSubmission{
			ID:           uuid.NewString(),
			DefinitionID: uuid.NewString(),
			DescriptorMap: []*presexch.InputDescriptorMapping{{
				ID:     "banking_input",
				Format: "ldp_vc",
				Path:   "$.verifiableCredential[0]",
			}},
		}

		require.NoError(t, ps.Validate())
	})

	t.Run("missing format", func(t *testing.T) {
		ps := &presexch.PresentationSubmission{
			ID:           uuid.NewString(),
			DefinitionID: uuid.NewString(),
			DescriptorMap: []*presexch.InputDescriptorMapping{{
				ID:   "banking_input",
				Path: "$.verifiableCredential[0]",
			}},
		}

		require.Error(t, ps.Validate())
	})

	t.Run("nested path", func(t *testing.T) {
		ps := &presexch.PresentationSubmission{
			ID:           uuid.NewString(),
			DefinitionID: uuid.NewString(),
			DescriptorMap: []*presexch.InputDescriptorMapping{{
				ID:     "banking_input",
				Format: "ldp_vp",
				Path:   "$",
				PathNested: &presexch.InputDescriptorMapping{
					ID:     "banking_input",
					Format: "ldp_vc",
					Path:   "$.verifiableCredential[0]",
				},
			}},
		}

		require.NoError(t, ps.Validate())
	})
}
