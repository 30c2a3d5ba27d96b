/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"errors"
	"strings"

	"github.com/mitchellh/mapstructure"
	pkgerrors "github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// PresentationSubmission is the container for the descriptor_map:
// https://identity.foundation/presentation-exchange/#presentation-submission.
type PresentationSubmission struct {
	// ID unique resource identifier.
	ID     string `json:"id,omitempty"`
	Locale string `json:"locale,omitempty"`
	// DefinitionID links the submission to its definition and must be the id value of a valid Presentation Definition.
	DefinitionID  string                    `json:"definition_id,omitempty"`
	DescriptorMap []*InputDescriptorMapping `json:"descriptor_map"`
}

// InputDescriptorMapping maps an InputDescriptor to a verifiable credential pointed to by the JSONPath in `Path`.
type InputDescriptorMapping struct {
	ID         string                  `json:"id,omitempty"`
	Format     string                  `json:"format,omitempty"`
	Path       string                  `json:"path,omitempty"`
	PathNested *InputDescriptorMapping `json:"path_nested,omitempty"`
}

// Validate validates the submission document against its JSON Schema.
func (ps *PresentationSubmission) Validate() error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(SubmissionJSONSchema),
		gojsonschema.NewGoLoader(struct {
			PS *PresentationSubmission `json:"presentation_submission"`
		}{PS: ps}),
	)
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	resultErrors := result.Errors()

	errs := make([]string, len(resultErrors))
	for i := range resultErrors {
		errs[i] = resultErrors[i].String()
	}

	return errors.New(strings.Join(errs, ","))
}

// parseSubmission decodes a presentation_submission value as found in a
// typeless presentation object.
func parseSubmission(untyped interface{}) (*PresentationSubmission, error) {
	switch submission := untyped.(type) {
	case *PresentationSubmission:
		return submission, nil
	case PresentationSubmission:
		return &submission, nil
	case map[string]interface{}:
		ps := &PresentationSubmission{}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: "json",
			Result:  ps,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "create submission decoder")
		}

		if err := decoder.Decode(submission); err != nil {
			return nil, pkgerrors.Wrap(err, "decode presentation submission")
		}

		return ps, nil
	default:
		return nil, pkgerrors.Errorf("missing '%s' on verifiable presentation", submissionProperty)
	}
}
