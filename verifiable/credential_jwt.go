/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"encoding/json"
	"strings"
	"time"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/pkg/errors"
)

// parseJWTCredential decodes a JWT-enveloped credential without verifying its
// signature. Registered claims are folded into the `vc` claim so the decoded
// view has canonical claim locations regardless of envelope.
func parseJWTCredential(token string) (*Credential, error) {
	jws, err := jose.ParseSigned(token)
	if err != nil {
		return nil, errors.Wrap(err, "parse JWT credential")
	}

	payload := jws.UnsafePayloadWithoutVerification()

	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.Wrap(err, "decode JWT payload")
	}

	var alg string
	if len(jws.Signatures) > 0 {
		alg = jws.Signatures[0].Header.Algorithm
	}

	return &Credential{
		claims: jwtClaimsToCredential(claims),
		jwt:    token,
		alg:    alg,
	}, nil
}

// jwtClaimsToCredential maps the registered JWT claims onto the credential
// object per the VC data model JWT encoding rules.
func jwtClaimsToCredential(claims map[string]interface{}) map[string]interface{} {
	vc, ok := claims["vc"].(map[string]interface{})
	if !ok {
		vc = make(map[string]interface{})
	}

	vc = copyJSON(vc)

	if iss, ok := claims["iss"].(string); ok && iss != "" {
		if _, present := vc["issuer"]; !present {
			vc["issuer"] = iss
		}
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if _, present := vc["id"]; !present {
			vc["id"] = jti
		}
	}

	if sub, ok := claims["sub"].(string); ok && sub != "" {
		switch subject := vc["credentialSubject"].(type) {
		case map[string]interface{}:
			if _, present := subject["id"]; !present {
				subject["id"] = sub
			}
		case nil:
			vc["credentialSubject"] = map[string]interface{}{"id": sub}
		}
	}

	if ts, ok := numericDate(claims["nbf"]); ok {
		vc["issuanceDate"] = ts
	} else if ts, ok := numericDate(claims["iat"]); ok {
		if _, present := vc["issuanceDate"]; !present {
			vc["issuanceDate"] = ts
		}
	}

	if ts, ok := numericDate(claims["exp"]); ok {
		if _, present := vc["expirationDate"]; !present {
			vc["expirationDate"] = ts
		}
	}

	return vc
}

func numericDate(val interface{}) (string, bool) {
	seconds, ok := val.(float64)
	if !ok {
		return "", false
	}

	return time.Unix(int64(seconds), 0).UTC().Format(time.RFC3339), true
}

// looksLikeJWT reports whether raw could be a JWS compact serialization.
func looksLikeJWT(raw string) bool {
	raw = strings.TrimSpace(raw)

	return !strings.HasPrefix(raw, "{") && strings.Count(raw, ".") == 2
}
