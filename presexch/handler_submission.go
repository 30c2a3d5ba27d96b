/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

// markForSubmission reduces the log to per-pair verdicts: a pair with no
// error-severity entries is a submission candidate.
func (ec *evaluationClient) markForSubmission() error {
	for i := range ec.pd.InputDescriptors {
		for j := range ec.credentials {
			if ec.log.verdict(i, j) == StatusError {
				continue
			}

			ec.log.add(&HandlerCheckResult{
				InputDescriptorPath:      descriptorPath(i),
				VerifiableCredentialPath: credentialPath(j),
				Evaluator:                markForSubmissionName,
				Status:                   StatusInfo,
				Message:                  "The input candidate is eligible for submission",
			})
		}
	}

	return nil
}
