/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

// evaluatePredicates converts filter outcomes of predicate fields into
// Boolean assertions. A `preferred` predicate irreversibly replaces the
// extracted value with `true` in a copy of the payload — the verifier learns
// only that the predicate held, never the underlying value. A `required`
// predicate copies the payload as-is. The source credential is never touched.
func (ec *evaluationClient) evaluatePredicates() error {
	for _, entry := range ec.log.byEvaluator(filterEvaluationName) {
		if entry.Status != StatusInfo {
			continue
		}

		payload, ok := entry.Payload.(*fieldPayload)
		if !ok || payload.Result == nil {
			continue
		}

		i, _, ok := pairOf(entry)
		if !ok {
			continue
		}

		fields := descriptorFields(ec.pd.InputDescriptors[i])
		if payload.fieldIndex >= len(fields) {
			continue
		}

		field := fields[payload.fieldIndex]
		if field.Predicate == nil {
			continue
		}

		converted := &fieldPayload{
			Result: &pathValue{
				Path:    payload.Result.Path,
				Value:   payload.Result.Value,
				keyPath: payload.Result.keyPath,
			},
			FieldID:    payload.FieldID,
			fieldIndex: payload.fieldIndex,
		}

		if *field.Predicate == Preferred {
			converted.Result.Value = true
		}

		ec.log.add(&HandlerCheckResult{
			InputDescriptorPath:      entry.InputDescriptorPath,
			VerifiableCredentialPath: entry.VerifiableCredentialPath,
			Evaluator:                predicateEvaluationName,
			Status:                   StatusInfo,
			Message:                  "Input candidate valid for presentation submission",
			Payload:                  converted,
		})
	}

	return nil
}
