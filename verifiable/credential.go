/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifiable wraps W3C Verifiable Credentials and Presentations for
// Presentation Exchange evaluation. A credential keeps its original envelope
// (JWT compact serialization or JSON-LD object) alongside one decoded claim
// view, so a single JSONPath syntax addresses claims regardless of envelope.
package verifiable

import (
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	// ContextURI is the required JSON-LD context of credentials and presentations.
	ContextURI = "https://www.w3.org/2018/credentials/v1"
	// VCType is the required type of credentials.
	VCType = "VerifiableCredential"
	// VPType is the required type of presentations.
	VPType = "VerifiablePresentation"

	// FormatJWTVC denotes a credential enveloped in a JWT with a `vc` claim.
	FormatJWTVC = "jwt_vc"
	// FormatLDPVC denotes a JSON-LD credential with an embedded proof.
	FormatLDPVC = "ldp_vc"
)

// Credential is a wrapped verifiable credential.
type Credential struct {
	claims map[string]interface{}
	jwt    string
	alg    string
}

// ParseCredential wraps a raw credential. Accepted inputs: a JWT compact
// serialization (string), JSON bytes, an already-decoded JSON object, or an
// existing *Credential (returned as is).
func ParseCredential(raw interface{}) (*Credential, error) {
	switch cred := raw.(type) {
	case *Credential:
		return cred, nil
	case string:
		return parseJWTCredential(cred)
	case []byte:
		if looksLikeJWT(string(cred)) {
			return parseJWTCredential(string(cred))
		}

		var claims map[string]interface{}
		if err := json.Unmarshal(cred, &claims); err != nil {
			return nil, errors.Wrap(err, "credential is neither JSON nor JWT")
		}

		return &Credential{claims: claims}, nil
	case map[string]interface{}:
		return &Credential{claims: copyJSON(cred)}, nil
	default:
		return nil, errors.Errorf("unsupported credential type %T", raw)
	}
}

// JSONObject returns the decoded claim view of the credential. The returned
// map is the credential's own view; callers must not modify it.
func (vc *Credential) JSONObject() map[string]interface{} {
	return vc.claims
}

// IsJWT reports whether the credential arrived in a JWT envelope.
func (vc *Credential) IsJWT() bool {
	return vc.jwt != ""
}

// JWT returns the original compact serialization, or "" for JSON-LD credentials.
func (vc *Credential) JWT() string {
	return vc.jwt
}

// Alg returns the JWS algorithm of a JWT credential, or "".
func (vc *Credential) Alg() string {
	return vc.alg
}

// Format returns the claim format designation of the envelope.
func (vc *Credential) Format() string {
	if vc.IsJWT() {
		return FormatJWTVC
	}

	return FormatLDPVC
}

// Contexts returns the credential's @context entries that are strings.
func (vc *Credential) Contexts() []string {
	return stringsOf(vc.claims["@context"])
}

// Types returns the credential's type entries.
func (vc *Credential) Types() []string {
	return stringsOf(vc.claims["type"])
}

// SchemaIDs returns the ids of credentialSchema entries.
func (vc *Credential) SchemaIDs() []string {
	switch schema := vc.claims["credentialSchema"].(type) {
	case map[string]interface{}:
		if id, ok := schema["id"].(string); ok {
			return []string{id}
		}
	case []interface{}:
		var ids []string

		for _, entry := range schema {
			if m, ok := entry.(map[string]interface{}); ok {
				if id, ok := m["id"].(string); ok {
					ids = append(ids, id)
				}
			}
		}

		return ids
	}

	return nil
}

// IssuerID returns the issuer identifier, whether issuer is a string or an object.
func (vc *Credential) IssuerID() string {
	switch issuer := vc.claims["issuer"].(type) {
	case string:
		return issuer
	case map[string]interface{}:
		id, _ := issuer["id"].(string)
		return id
	}

	return ""
}

// SubjectIDs returns the ids of all credential subjects.
func (vc *Credential) SubjectIDs() []string {
	switch subject := vc.claims["credentialSubject"].(type) {
	case string:
		return []string{subject}
	case map[string]interface{}:
		if id, ok := subject["id"].(string); ok {
			return []string{id}
		}
	case []interface{}:
		var ids []string

		for _, entry := range subject {
			if m, ok := entry.(map[string]interface{}); ok {
				if id, ok := m["id"].(string); ok {
					ids = append(ids, id)
				}
			}
		}

		return ids
	}

	return nil
}

// ProofTypes returns the type of each embedded proof.
func (vc *Credential) ProofTypes() []string {
	switch proof := vc.claims["proof"].(type) {
	case map[string]interface{}:
		if t, ok := proof["type"].(string); ok {
			return []string{t}
		}
	case []interface{}:
		var types []string

		for _, entry := range proof {
			if m, ok := entry.(map[string]interface{}); ok {
				if t, ok := m["type"].(string); ok {
					types = append(types, t)
				}
			}
		}

		return types
	}

	return nil
}

// WithClaims returns a copy of the credential whose claim view is replaced,
// keeping the original envelope. Used for limit-disclosure projections.
func (vc *Credential) WithClaims(claims map[string]interface{}) *Credential {
	return &Credential{claims: claims, jwt: vc.jwt, alg: vc.alg}
}

// MarshalJSON marshals the decoded claim view; a JWT credential marshals to
// its original compact serialization.
func (vc *Credential) MarshalJSON() ([]byte, error) {
	if vc.IsJWT() {
		return json.Marshal(vc.jwt)
	}

	return json.Marshal(vc.claims)
}

func stringsOf(val interface{}) []string {
	switch v := val.(type) {
	case string:
		return []string{v}
	case []interface{}:
		var out []string

		for _, entry := range v {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}

		return out
	}

	return nil
}

// copyJSON deep-copies a JSON object via a marshal round trip.
func copyJSON(src map[string]interface{}) map[string]interface{} {
	bits, err := json.Marshal(src)
	if err != nil {
		return src
	}

	dst := make(map[string]interface{}, len(src))
	if err := json.Unmarshal(bits, &dst); err != nil {
		return src
	}

	return dst
}
