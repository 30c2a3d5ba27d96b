/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Presentation is a verifiable presentation bundling credentials for a verifier.
type Presentation struct {
	Context      []string
	ID           string
	Type         []string
	Holder       string
	Credentials  []*Credential
	CustomFields map[string]interface{}
}

// NewPresentation returns a presentation with the base context and type.
func NewPresentation(creds ...*Credential) *Presentation {
	return &Presentation{
		Context:     []string{ContextURI},
		Type:        []string{VPType},
		Credentials: creds,
	}
}

// ParsePresentation wraps a decoded presentation object, wrapping each entry
// of verifiableCredential in turn.
func ParsePresentation(raw map[string]interface{}) (*Presentation, error) {
	vp := &Presentation{
		Context:      stringsOf(raw["@context"]),
		Type:         stringsOf(raw["type"]),
		CustomFields: map[string]interface{}{},
	}

	if id, ok := raw["id"].(string); ok {
		vp.ID = id
	}

	if holder, ok := raw["holder"].(string); ok {
		vp.Holder = holder
	}

	creds, _ := raw["verifiableCredential"].([]interface{})
	for i, entry := range creds {
		cred, err := ParseCredential(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "presentation credential %d", i)
		}

		vp.Credentials = append(vp.Credentials, cred)
	}

	for key, val := range raw {
		switch key {
		case "@context", "id", "type", "holder", "verifiableCredential":
		default:
			vp.CustomFields[key] = val
		}
	}

	return vp, nil
}

// MarshalJSON marshals the presentation with custom fields folded in.
func (vp *Presentation) MarshalJSON() ([]byte, error) {
	obj := map[string]interface{}{
		"@context": vp.Context,
		"type":     vp.Type,
	}

	if vp.ID != "" {
		obj["id"] = vp.ID
	}

	if vp.Holder != "" {
		obj["holder"] = vp.Holder
	}

	creds := make([]interface{}, len(vp.Credentials))

	for i, cred := range vp.Credentials {
		if cred.IsJWT() {
			creds[i] = cred.JWT()
		} else {
			creds[i] = cred.JSONObject()
		}
	}

	obj["verifiableCredential"] = creds

	for key, val := range vp.CustomFields {
		if _, clash := obj[key]; !clash {
			obj[key] = val
		}
	}

	return json.Marshal(obj)
}

// JSONObject returns the presentation as a decoded JSON object.
func (vp *Presentation) JSONObject() (map[string]interface{}, error) {
	bits, err := json.Marshal(vp)
	if err != nil {
		return nil, errors.Wrap(err, "marshal presentation")
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(bits, &obj); err != nil {
		return nil, errors.Wrap(err, "unmarshal presentation")
	}

	return obj, nil
}
