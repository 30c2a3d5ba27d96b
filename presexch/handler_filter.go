/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

// evaluateFilters runs the input descriptor field constraints: for every
// (descriptor, credential) pair, each field's paths are tried in order until
// one yields a value, and the field's filter is applied to the first value
// found.
func (ec *evaluationClient) evaluateFilters() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		fields := descriptorFields(descriptor)

		for j, credential := range ec.credentials {
			if len(fields) == 0 {
				ec.log.add(&HandlerCheckResult{
					InputDescriptorPath:      descriptorPath(i),
					VerifiableCredentialPath: credentialPath(j),
					Evaluator:                filterEvaluationName,
					Status:                   StatusInfo,
					Message:                  "Input candidate has no field constraints to satisfy",
				})

				continue
			}

			for fieldIdx, field := range fields {
				result, err := checkField(field, fieldIdx, credential.JSONObject(), i, j)
				if err != nil {
					return err
				}

				ec.log.add(result)
			}
		}
	}

	return nil
}

func descriptorFields(descriptor *InputDescriptor) []*Field {
	if descriptor.Constraints == nil {
		return nil
	}

	return descriptor.Constraints.Fields
}

//nolint:gocyclo
func checkField(field *Field, fieldIdx int, credential map[string]interface{},
	i, j int) (*HandlerCheckResult, error) {
	result := &HandlerCheckResult{
		InputDescriptorPath:      descriptorPath(i),
		VerifiableCredentialPath: credentialPath(j),
		Evaluator:                filterEvaluationName,
	}

	// Paths are alternatives: the first expression with at least one hit wins.
	var hit *match

	for _, path := range field.Path {
		hits, err := extract(credential, path)
		if err != nil {
			return nil, err
		}

		if len(hits) > 0 {
			hit = hits[0]
			break
		}
	}

	if hit == nil {
		if field.Optional {
			result.Status = StatusInfo
			result.Message = "Field is optional and not present in the input candidate"

			return result, nil
		}

		result.Status = StatusError
		result.Message = "Input candidate does not contain property"

		return result, nil
	}

	payload := &fieldPayload{
		Result: &pathValue{
			Path:    hit.JSONPath,
			Value:   hit.Value,
			keyPath: hit.KeyPath,
		},
		FieldID:    field.ID,
		fieldIndex: fieldIdx,
	}

	if field.Filter == nil {
		result.Status = StatusInfo
		result.Message = "Input candidate valid for presentation submission"
		result.Payload = payload

		return result, nil
	}

	filterOutcome, err := matchFilter(field.Filter, hit.Value)
	if err != nil {
		return nil, err
	}

	if !filterOutcome.Matched {
		result.Status = StatusError
		result.Message = "Input candidate failed filter evaluation: " + hit.JSONPath

		return result, nil
	}

	payload.Result.Value = filterOutcome.Value
	result.Status = StatusInfo
	result.Message = "Input candidate valid for presentation submission"
	result.Payload = payload

	return result, nil
}
