/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresentation_MarshalRoundTrip(t *testing.T) {
	vc, err := ParseCredential(map[string]interface{}{
		"@context":          []interface{}{ContextURI},
		"type":              []interface{}{VCType},
		"issuer":            "did:example:issuer",
		"credentialSubject": map[string]interface{}{"id": "did:example:subject"},
	})
	require.NoError(t, err)

	vp := NewPresentation(vc)
	vp.ID = "urn:uuid:vp-1"
	vp.Holder = "did:example:subject"
	vp.CustomFields = map[string]interface{}{
		"presentation_submission": map[string]interface{}{
			"id":             "sub-1",
			"definition_id":  "def-1",
			"descriptor_map": []interface{}{},
		},
	}

	bits, err := json.Marshal(vp)
	require.NoError(t, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(bits, &obj))

	require.Equal(t, "urn:uuid:vp-1", obj["id"])
	require.Equal(t, "did:example:subject", obj["holder"])
	require.Contains(t, obj, "presentation_submission")
	require.Len(t, obj["verifiableCredential"], 1)

	parsed, err := ParsePresentation(obj)
	require.NoError(t, err)

	require.Equal(t, vp.ID, parsed.ID)
	require.Equal(t, vp.Holder, parsed.Holder)
	require.Len(t, parsed.Credentials, 1)
	require.Equal(t, "did:example:issuer", parsed.Credentials[0].IssuerID())
	require.Contains(t, parsed.CustomFields, "presentation_submission")
}

func TestParsePresentation_JWTCredentialEntry(t *testing.T) {
	token := makeUnverifiedJWT(t, map[string]interface{}{
		"iss": "did:example:issuer",
		"vc": map[string]interface{}{
			"@context": []interface{}{ContextURI},
			"type":     []interface{}{VCType},
		},
	})

	vp, err := ParsePresentation(map[string]interface{}{
		"@context":             []interface{}{ContextURI},
		"type":                 []interface{}{VPType},
		"verifiableCredential": []interface{}{token},
	})
	require.NoError(t, err)

	require.Len(t, vp.Credentials, 1)
	require.True(t, vp.Credentials[0].IsJWT())
	require.Equal(t, "did:example:issuer", vp.Credentials[0].IssuerID())
}
