/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// All rule`s value.
	All Selection = "all"
	// Pick rule`s value.
	Pick Selection = "pick"

	// Required preference`s value.
	Required Preference = "required"
	// Preferred preference`s value.
	Preferred Preference = "preferred"
)

// Version tags the Presentation Exchange revision a definition conforms to.
type Version string

const (
	// V1 definitions carry a schema list per input descriptor.
	V1 Version = "v1"
	// V2 definitions constrain envelopes through format maps only.
	V2 Version = "v2"
)

type (
	// Selection can be "all" or "pick".
	Selection string
	// Preference can be "required" or "preferred".
	Preference string
	// StrOrInt type that defines string or integer.
	StrOrInt interface{}
)

// Format describes PresentationDefinition`s Format field.
type Format struct {
	Jwt       *JwtType `json:"jwt,omitempty"`
	JwtVC     *JwtType `json:"jwt_vc,omitempty"`
	JwtVCJson *JwtType `json:"jwt_vc_json,omitempty"`
	JwtVP     *JwtType `json:"jwt_vp,omitempty"`
	Ldp       *LdpType `json:"ldp,omitempty"`
	LdpVC     *LdpType `json:"ldp_vc,omitempty"`
	LdpVP     *LdpType `json:"ldp_vp,omitempty"`
}

// JwtType contains alg.
type JwtType struct {
	Alg []string `json:"alg,omitempty"`
}

// LdpType contains proof_type.
type LdpType struct {
	ProofType []string `json:"proof_type,omitempty"`
}

// PresentationDefinition presentation definitions (https://identity.foundation/presentation-exchange/).
type PresentationDefinition struct {
	// ID unique resource identifier.
	ID string `json:"id,omitempty"`
	// Name human-friendly name that describes what the Presentation Definition pertains to.
	Name string `json:"name,omitempty"`
	// Purpose describes the purpose for which the Presentation Definition’s inputs are being requested.
	Purpose string `json:"purpose,omitempty"`
	Locale  string `json:"locale,omitempty"`
	// Format is an object with one or more properties matching the registered Claim Format Designations
	// (jwt, jwt_vc, jwt_vp, etc.) to inform the Holder of the claim format configurations the Verifier can process.
	Format *Format `json:"format,omitempty"`
	// Frame is the JSON-LD frame used when deriving selective-disclosure proofs.
	Frame map[string]interface{} `json:"frame,omitempty"`
	// SubmissionRequirements must conform to the Submission Requirement Format.
	// If not present, all inputs listed in the InputDescriptors array are required for submission.
	SubmissionRequirements []*SubmissionRequirement `json:"submission_requirements,omitempty"`
	InputDescriptors       []*InputDescriptor       `json:"input_descriptors,omitempty"`
}

// SubmissionRequirement describes input that must be submitted via a Presentation Submission
// to satisfy Verifier demands.
type SubmissionRequirement struct {
	Name       string                   `json:"name,omitempty"`
	Purpose    string                   `json:"purpose,omitempty"`
	Rule       Selection                `json:"rule,omitempty"`
	Count      int                      `json:"count,omitempty"`
	Min        int                      `json:"min,omitempty"`
	Max        int                      `json:"max,omitempty"`
	From       string                   `json:"from,omitempty"`
	FromNested []*SubmissionRequirement `json:"from_nested,omitempty"`
}

// InputDescriptor input descriptors.
type InputDescriptor struct {
	ID       string                 `json:"id,omitempty"`
	Group    []string               `json:"group,omitempty"`
	Name     string                 `json:"name,omitempty"`
	Purpose  string                 `json:"purpose,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	// Schema is the v1 schema URI list; v2 descriptors use Format instead.
	Schema      []*Schema    `json:"schema,omitempty"`
	Format      *Format      `json:"format,omitempty"`
	Constraints *Constraints `json:"constraints,omitempty"`
}

// Schema input descriptor schema.
type Schema struct {
	URI      string `json:"uri,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Holder describes Constraints`s  holder object.
type Holder struct {
	FieldID   []string    `json:"field_id,omitempty"`
	Directive *Preference `json:"directive,omitempty"`
}

// Constraints describes InputDescriptor`s Constraints field.
type Constraints struct {
	LimitDisclosure *Preference `json:"limit_disclosure,omitempty"`
	SubjectIsIssuer *Preference `json:"subject_is_issuer,omitempty"`
	IsHolder        []*Holder   `json:"is_holder,omitempty"`
	SameSubject     []*Holder   `json:"same_subject,omitempty"`
	Fields          []*Field    `json:"fields,omitempty"`
}

// Field describes Constraints`s Fields field.
type Field struct {
	Path      []string    `json:"path,omitempty"`
	ID        string      `json:"id,omitempty"`
	Purpose   string      `json:"purpose,omitempty"`
	Filter    *Filter     `json:"filter,omitempty"`
	Predicate *Preference `json:"predicate,omitempty"`
	// Optional marks a v2 field whose absence does not fail the descriptor.
	Optional bool `json:"optional,omitempty"`
}

// Filter describes filter.
type Filter struct {
	Type             *string                `json:"type,omitempty"`
	Format           string                 `json:"format,omitempty"`
	Pattern          string                 `json:"pattern,omitempty"`
	Minimum          StrOrInt               `json:"minimum,omitempty"`
	Maximum          StrOrInt               `json:"maximum,omitempty"`
	MinLength        int                    `json:"minLength,omitempty"`
	MaxLength        int                    `json:"maxLength,omitempty"`
	ExclusiveMinimum StrOrInt               `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum StrOrInt               `json:"exclusiveMaximum,omitempty"`
	Const            StrOrInt               `json:"const,omitempty"`
	Enum             []StrOrInt             `json:"enum,omitempty"`
	Not              map[string]interface{} `json:"not,omitempty"`
	// Bounds on `format: date|date-time|time` values, compared lexicographically.
	FormatMinimum          string `json:"formatMinimum,omitempty"`
	FormatMaximum          string `json:"formatMaximum,omitempty"`
	FormatExclusiveMinimum string `json:"formatExclusiveMinimum,omitempty"`
	FormatExclusiveMaximum string `json:"formatExclusiveMaximum,omitempty"`
}

// Version returns the Presentation Exchange revision of the definition: V1
// when any descriptor carries a schema list, V2 otherwise.
func (pd *PresentationDefinition) Version() Version {
	for _, descriptor := range pd.InputDescriptors {
		if len(descriptor.Schema) > 0 {
			return V1
		}
	}

	return V2
}

// ValidateSchema validates the presentation definition document against the
// JSON Schema of its revision.
func (pd *PresentationDefinition) ValidateSchema() error {
	schema := DefinitionJSONSchemaV2
	if pd.Version() == V1 {
		schema = DefinitionJSONSchemaV1
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(struct {
			PD *PresentationDefinition `json:"presentation_definition"`
		}{PD: pd}),
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

func (pd *PresentationDefinition) inputDescriptor(id string) *InputDescriptor {
	for i := range pd.InputDescriptors {
		if pd.InputDescriptors[i].ID == id {
			return pd.InputDescriptors[i]
		}
	}

	return nil
}
