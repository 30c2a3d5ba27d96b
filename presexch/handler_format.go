/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"strings"

	"github.com/samber/lo"

	"github.com/TBD54566975/PEX/verifiable"
)

// evaluateFormats checks each credential's envelope format and algorithm or
// proof type against the definition's format map, or the descriptor's own
// format map when one is present (v2).
func (ec *evaluationClient) evaluateFormats() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		format := descriptor.Format
		if format == nil {
			format = ec.pd.Format
		}

		if format == nil {
			continue
		}

		for j, credential := range ec.credentials {
			ec.log.add(checkFormat(formatEvaluationName, format, credential, i, j))
		}
	}

	return nil
}

// evaluateFormatRestriction applies the caller-imposed format allow-list,
// which intersects with the definition's: a credential must pass both.
func (ec *evaluationClient) evaluateFormatRestriction() error {
	if ec.opts.RestrictToFormats == nil {
		return nil
	}

	for i := range ec.pd.InputDescriptors {
		for j, credential := range ec.credentials {
			ec.log.add(checkFormat(formatRestrictionName, ec.opts.RestrictToFormats, credential, i, j))
		}
	}

	return nil
}

func checkFormat(evaluator string, format *Format, credential *verifiable.Credential, i, j int) *HandlerCheckResult {
	result := &HandlerCheckResult{
		InputDescriptorPath:      descriptorPath(i),
		VerifiableCredentialPath: credentialPath(j),
		Evaluator:                evaluator,
	}

	if formatAllows(format, credential) {
		result.Status = StatusInfo
		result.Message = "Input candidate format is allowed"

		return result
	}

	result.Status = StatusError
	result.Message = "Input candidate format or algorithm is not in the allow-list"

	return result
}

func formatAllows(format *Format, credential *verifiable.Credential) bool {
	if credential.IsJWT() {
		var algs []string

		for _, jwt := range []*JwtType{format.Jwt, format.JwtVC, format.JwtVCJson} {
			if jwt != nil {
				algs = append(algs, jwt.Alg...)
			}
		}

		return stringsContain(algs, credential.Alg())
	}

	var proofTypes []string

	for _, ldp := range []*LdpType{format.Ldp, format.LdpVC} {
		if ldp != nil {
			proofTypes = append(proofTypes, ldp.ProofType...)
		}
	}

	return len(lo.Intersect(proofTypes, credential.ProofTypes())) > 0
}

// evaluateDIDRestriction rejects credentials whose issuer DID method is not
// in the caller-supplied allow-list.
func (ec *evaluationClient) evaluateDIDRestriction() error {
	if len(ec.opts.RestrictToDIDMethods) == 0 {
		return nil
	}

	for i := range ec.pd.InputDescriptors {
		for j, credential := range ec.credentials {
			result := &HandlerCheckResult{
				InputDescriptorPath:      descriptorPath(i),
				VerifiableCredentialPath: credentialPath(j),
				Evaluator:                didRestrictionName,
			}

			method := didMethod(credential.IssuerID())
			if method != "" && stringsContain(ec.opts.RestrictToDIDMethods, method) {
				result.Status = StatusInfo
				result.Message = "Issuer DID method is allowed"
			} else {
				result.Status = StatusError
				result.Message = "Issuer DID method is not in the allow-list"
			}

			ec.log.add(result)
		}
	}

	return nil
}

func didMethod(did string) string {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) < 3 || parts[0] != "did" {
		return ""
	}

	return parts[1]
}
