/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"github.com/samber/lo"
)

// evaluateSubjectIsIssuer checks the self-issuance constraint: the credential
// subject must be the credential issuer.
func (ec *evaluationClient) evaluateSubjectIsIssuer() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		if descriptor.Constraints == nil || descriptor.Constraints.SubjectIsIssuer == nil {
			continue
		}

		directive := *descriptor.Constraints.SubjectIsIssuer

		for j, credential := range ec.credentials {
			result := &HandlerCheckResult{
				InputDescriptorPath:      descriptorPath(i),
				VerifiableCredentialPath: credentialPath(j),
				Evaluator:                subjectIsIssuerName,
			}

			issuer := credential.IssuerID()

			if issuer != "" && stringsContain(credential.SubjectIDs(), issuer) {
				result.Status = StatusInfo
				result.Message = "Input candidate subject is its issuer"
			} else if directive == Required {
				result.Status = StatusError
				result.Message = "Input candidate subject is not its issuer"
			} else {
				result.Status = StatusWarn
				result.Message = "Input candidate subject is preferred to be its issuer"
			}

			ec.log.add(result)
		}
	}

	return nil
}

// evaluateSameSubject checks that all credentials matched to a same_subject
// field group resolve to one subject.
func (ec *evaluationClient) evaluateSameSubject() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		if descriptor.Constraints == nil {
			continue
		}

		for _, holder := range descriptor.Constraints.SameSubject {
			involved := ec.credentialsForFieldIDs(holder.FieldID)
			if len(involved) == 0 {
				continue
			}

			var subjects []string
			for _, j := range involved {
				subjects = append(subjects, ec.credentials[j].SubjectIDs()...)
			}

			subjects = lo.Uniq(subjects)

			status, message := StatusInfo, "Input candidates share one subject"

			if len(subjects) > 1 {
				if holder.Directive != nil && *holder.Directive == Preferred {
					status, message = StatusWarn, "Input candidates are preferred to share one subject"
				} else {
					status, message = StatusError, "Input candidates do not share one subject"
				}
			}

			for _, j := range involved {
				ec.log.add(&HandlerCheckResult{
					InputDescriptorPath:      descriptorPath(i),
					VerifiableCredentialPath: credentialPath(j),
					Evaluator:                sameSubjectName,
					Status:                   status,
					Message:                  message,
				})
			}
		}
	}

	return nil
}

// evaluateIsHolder checks that the wallet controls the subject of credentials
// matched to an is_holder field group.
func (ec *evaluationClient) evaluateIsHolder() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		if descriptor.Constraints == nil {
			continue
		}

		for _, holder := range descriptor.Constraints.IsHolder {
			for _, j := range ec.credentialsForFieldIDs(holder.FieldID) {
				result := &HandlerCheckResult{
					InputDescriptorPath:      descriptorPath(i),
					VerifiableCredentialPath: credentialPath(j),
					Evaluator:                isHolderName,
				}

				held := len(lo.Intersect(ec.credentials[j].SubjectIDs(), ec.opts.HolderDIDs)) > 0

				if held {
					result.Status = StatusInfo
					result.Message = "Input candidate subject is controlled by the holder"
				} else if holder.Directive != nil && *holder.Directive == Preferred {
					result.Status = StatusWarn
					result.Message = "Input candidate subject is preferred to be controlled by the holder"
				} else {
					result.Status = StatusError
					result.Message = "Input candidate subject is not controlled by the holder"
				}

				ec.log.add(result)
			}
		}
	}

	return nil
}

// credentialsForFieldIDs returns the credential indices with a passing field
// evaluation on any of the given field ids, across all descriptors.
func (ec *evaluationClient) credentialsForFieldIDs(fieldIDs []string) []int {
	var out []int

	for _, entry := range ec.log.byEvaluator(filterEvaluationName) {
		if entry.Status != StatusInfo {
			continue
		}

		payload, ok := entry.Payload.(*fieldPayload)
		if !ok || payload.FieldID == "" || !stringsContain(fieldIDs, payload.FieldID) {
			continue
		}

		_, j, ok := pairOf(entry)
		if !ok {
			continue
		}

		out = append(out, j)
	}

	return lo.Uniq(out)
}
