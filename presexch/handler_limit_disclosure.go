/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// mandatoryFields always survive a limit-disclosure projection.
var mandatoryFields = []string{
	"@context", "type", "id", "issuer", "issuanceDate", "expirationDate",
	"credentialSchema", "credentialStatus",
}

// evaluateLimitDisclosure projects credentials down to the disclosed claim
// paths for descriptors that demand limited disclosure, provided the
// credential's signature suite supports selective disclosure.
func (ec *evaluationClient) evaluateLimitDisclosure() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		if descriptor.Constraints == nil || descriptor.Constraints.LimitDisclosure == nil {
			continue
		}

		directive := *descriptor.Constraints.LimitDisclosure
		if directive != Required && directive != Preferred {
			continue
		}

		for j := range ec.credentials {
			result := &HandlerCheckResult{
				InputDescriptorPath:      descriptorPath(i),
				VerifiableCredentialPath: credentialPath(j),
				Evaluator:                limitDisclosureName,
			}

			supported := len(lo.Intersect(
				ec.originals[j].ProofTypes(), ec.opts.LimitDisclosureSignatureSuites)) > 0

			if !supported {
				if directive == Required {
					result.Status = StatusError
					result.Message = "Limit disclosure required but signature suite does not support it"
				} else {
					result.Status = StatusWarn
					result.Message = "Limit disclosure preferred but signature suite does not support it"
				}

				ec.log.add(result)

				continue
			}

			disclosed, err := ec.project(i, j)
			if err != nil {
				return err
			}

			result.Status = StatusInfo
			result.Message = "Credential limited to disclosed paths"
			result.Payload = map[string]interface{}{"disclosed_paths": disclosed}
			ec.log.add(result)
		}
	}

	return nil
}

// project replaces the working credential with a copy stripped to the claim
// paths surfaced by field evaluation plus the structurally mandatory fields.
// Returns the disclosed paths.
func (ec *evaluationClient) project(i, j int) ([]string, error) {
	disclosures := ec.disclosuresFor(i, j)

	original := ec.originals[j].JSONObject()

	originalBytes, err := json.Marshal(original)
	if err != nil {
		return nil, errors.Wrap(err, "marshal credential")
	}

	var base map[string]interface{}

	if ec.projected[j] {
		// Another descriptor already projected this credential; merge into
		// the existing projection instead of starting over.
		base = ec.credentials[j].JSONObject()
	} else {
		base = make(map[string]interface{})

		for _, key := range mandatoryFields {
			if val, ok := original[key]; ok {
				base[key] = val
			}
		}

		if subject, ok := original["credentialSubject"].(map[string]interface{}); ok {
			if id, ok := subject["id"]; ok {
				base["credentialSubject"] = map[string]interface{}{"id": id}
			}
		}
	}

	baseBytes, err := json.Marshal(base)
	if err != nil {
		return nil, errors.Wrap(err, "marshal projection")
	}

	var disclosedPaths []string

	for _, disclosure := range disclosures {
		if disclosure.keyPath == "" {
			continue
		}

		if !gjson.GetBytes(originalBytes, disclosure.keyPath).Exists() {
			continue
		}

		baseBytes, err = sjson.SetBytes(baseBytes, disclosure.keyPath, disclosure.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "set disclosed path %s", disclosure.Path)
		}

		disclosedPaths = append(disclosedPaths, disclosure.Path)
	}

	projected := make(map[string]interface{})
	if err := json.Unmarshal(baseBytes, &projected); err != nil {
		return nil, errors.Wrap(err, "unmarshal projection")
	}

	ec.credentials[j] = ec.originals[j].WithClaims(projected)
	ec.projected[j] = true

	return disclosedPaths, nil
}

// disclosuresFor collects the concrete paths surfaced for the pair by field
// and predicate evaluation, with predicate conversions taking precedence so
// that a preferred predicate discloses `true` rather than the raw value.
func (ec *evaluationClient) disclosuresFor(i, j int) []*pathValue {
	byPath := map[string]*pathValue{}

	var order []string

	for _, evaluator := range []string{filterEvaluationName, predicateEvaluationName} {
		for _, entry := range ec.log.byEvaluator(evaluator) {
			entryI, entryJ, ok := pairOf(entry)
			if !ok || entryI != i || entryJ != j || entry.Status != StatusInfo {
				continue
			}

			payload, ok := entry.Payload.(*fieldPayload)
			if !ok || payload.Result == nil {
				continue
			}

			if _, seen := byPath[payload.Result.Path]; !seen {
				order = append(order, payload.Result.Path)
			}

			byPath[payload.Result.Path] = payload.Result
		}
	}

	out := make([]*pathValue, 0, len(order))
	for _, path := range order {
		out = append(out, byPath[path])
	}

	return out
}
