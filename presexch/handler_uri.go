/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"github.com/piprate/json-gold/ld"

	"github.com/TBD54566975/PEX/verifiable"
)

// evaluateURIs is the v1 URI/schema handler: the credential's @context, type
// and credentialSchema URIs must include every schema entry marked required;
// a schema list with no required entries must be matched by at least one URI.
func (ec *evaluationClient) evaluateURIs() error {
	for i, descriptor := range ec.pd.InputDescriptors {
		if len(descriptor.Schema) == 0 {
			continue
		}

		for j, credential := range ec.credentials {
			ec.log.add(checkSchemaURIs(descriptor.Schema, credential, ec.opts.DocumentLoader, i, j))
		}
	}

	return nil
}

func checkSchemaURIs(schemas []*Schema, credential *verifiable.Credential,
	loader ld.DocumentLoader, i, j int) *HandlerCheckResult {
	credURIs := credentialURIs(credential)

	if loader != nil {
		credURIs = append(credURIs, expandedTypeIRIs(credential, loader)...)
	}

	result := &HandlerCheckResult{
		InputDescriptorPath:      descriptorPath(i),
		VerifiableCredentialPath: credentialPath(j),
		Evaluator:                uriEvaluationName,
	}

	anyRequired, anyMatched := false, false

	for _, schema := range schemas {
		matched := stringsContain(credURIs, schema.URI)

		if schema.Required {
			anyRequired = true

			if !matched {
				result.Status = StatusError
				result.Message = "Input candidate does not satisfy the required schema uris"

				return result
			}
		}

		if matched {
			anyMatched = true
		}
	}

	if !anyRequired && !anyMatched {
		result.Status = StatusError
		result.Message = "Input candidate does not match any schema uri"

		return result
	}

	result.Status = StatusInfo
	result.Message = "Input candidate satisfies the schema uris"

	return result
}

// credentialURIs gathers every URI a v1 schema entry can match against:
// contexts, types, credentialSchema ids, and context#type combinations.
func credentialURIs(credential *verifiable.Credential) []string {
	contexts := credential.Contexts()
	types := credential.Types()

	uris := make([]string, 0, len(contexts)+len(types))
	uris = append(uris, contexts...)
	uris = append(uris, types...)
	uris = append(uris, credential.SchemaIDs()...)

	for _, context := range contexts {
		for _, t := range types {
			uris = append(uris, context+"#"+t)
		}
	}

	return uris
}

// expandedTypeIRIs expands the credential as JSON-LD and returns the @type
// IRIs of the expanded document. Expansion failure means no extra URIs.
func expandedTypeIRIs(credential *verifiable.Credential, loader ld.DocumentLoader) []string {
	proc := ld.NewJsonLdProcessor()

	options := ld.NewJsonLdOptions("")
	options.DocumentLoader = loader

	expanded, err := proc.Expand(credential.JSONObject(), options)
	if err != nil {
		logger.Debugf("json-ld expansion failed during schema matching: %s", err.Error())

		return nil
	}

	var iris []string

	for _, node := range expanded {
		obj, ok := node.(map[string]interface{})
		if !ok {
			continue
		}

		typesVal, ok := obj["@type"].([]interface{})
		if !ok {
			continue
		}

		for _, t := range typesVal {
			if iri, ok := t.(string); ok {
				iris = append(iris, iri)
			}
		}
	}

	return iris
}
