/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/PaesslerAG/gval"
	"github.com/PaesslerAG/jsonpath"
	"github.com/pkg/errors"

	"github.com/TBD54566975/PEX/verifiable"
)

// SignPresentationFn signs a presentation. The evaluation core never signs
// anything itself: the callback's result is embedded verbatim.
type SignPresentationFn func(ctx context.Context, vp *verifiable.Presentation) (interface{}, error)

// EvaluateCredentials evaluates the candidate credentials against the
// definition and synthesizes a presentation submission from the outcome.
// Constraint failures are collected in the results; only malformed inputs
// return an error.
func (pd *PresentationDefinition) EvaluateCredentials(vcs []*verifiable.Credential,
	opts ...EvaluationOpt) (*EvaluationResults, error) {
	options := newEvaluationOptions(opts)

	ec, err := pd.evaluate(vcs, options)
	if err != nil {
		return nil, err
	}

	if options.PresentationSubmission != nil && !options.GeneratePresentationSubmission {
		return pd.evaluateAgainstSubmission(ec, options.PresentationSubmission, nil)
	}

	return pd.aggregate(ec, options)
}

// EvaluatePresentation evaluates a presentation's credentials against the
// definition. A submission embedded in the presentation is evaluated as is
// unless generation is forced.
func (pd *PresentationDefinition) EvaluatePresentation(vp *verifiable.Presentation,
	opts ...EvaluationOpt) (*EvaluationResults, error) {
	options := newEvaluationOptions(opts)

	ec, err := pd.evaluate(vp.Credentials, options)
	if err != nil {
		return nil, err
	}

	submission := options.PresentationSubmission

	if submission == nil && !options.GeneratePresentationSubmission {
		if embedded, ok := vp.CustomFields[submissionProperty]; ok {
			if err := checkJSONLDContextType(vp); err != nil {
				return nil, err
			}

			submission, err = parseSubmission(embedded)
			if err != nil {
				return nil, err
			}
		}
	}

	if submission != nil {
		vpObj, err := vp.JSONObject()
		if err != nil {
			return nil, err
		}

		return pd.evaluateAgainstSubmission(ec, submission, vpObj)
	}

	return pd.aggregate(ec, options)
}

// SelectFrom reports which of the candidate credentials can satisfy the
// definition, applying limit-disclosure projections where they are demanded.
func (pd *PresentationDefinition) SelectFrom(vcs []*verifiable.Credential,
	opts ...EvaluationOpt) (*SelectResults, error) {
	options := newEvaluationOptions(opts)

	ec, err := pd.evaluate(vcs, options)
	if err != nil {
		return nil, err
	}

	results, err := pd.aggregate(ec, options)
	if err != nil {
		return nil, err
	}

	candidates := ec.candidates()

	matched := map[int]bool{}

	for i := range candidates {
		for _, j := range candidates[i] {
			matched[j] = true
		}
	}

	selectResults := &SelectResults{
		AreRequiredCredentialsPresent: results.AreRequiredCredentialsPresent,
		Warnings:                      results.Warnings,
		Errors:                        results.Errors,
	}

	for j := range vcs {
		if matched[j] {
			selectResults.VerifiableCredential = append(selectResults.VerifiableCredential, ec.credentials[j])
		}
	}

	return selectResults, nil
}

// PresentationSubmissionFrom synthesizes the submission mapping descriptors
// to the given credentials. Fails with ErrNoCredentials when the credentials
// cannot satisfy the definition.
func (pd *PresentationDefinition) PresentationSubmissionFrom(vcs []*verifiable.Credential,
	opts ...EvaluationOpt) (*PresentationSubmission, error) {
	results, err := pd.EvaluateCredentials(vcs, opts...)
	if err != nil {
		return nil, err
	}

	if results.AreRequiredCredentialsPresent == StatusError || results.Value == nil {
		return nil, ErrNoCredentials
	}

	return results.Value, nil
}

// PresentationFrom builds an unsigned presentation holding the chosen
// credentials and, unless the submission location is external, the embedded
// submission.
func (pd *PresentationDefinition) PresentationFrom(vcs []*verifiable.Credential,
	opts ...EvaluationOpt) (*verifiable.Presentation, *PresentationSubmission, error) {
	options := newEvaluationOptions(opts)

	ec, err := pd.evaluate(vcs, options)
	if err != nil {
		return nil, nil, err
	}

	candidates := ec.candidates()

	sel, err := pd.resolveSelection(candidates)
	if err != nil {
		return nil, nil, err
	}

	if len(sel.errors) > 0 {
		return nil, nil, ErrNoCredentials
	}

	sel.assignment = minimalAssignment(sel.descriptors, candidates)

	// Only the chosen credentials are carried, re-indexed in ascending input order.
	var chosen []int
	for _, j := range sel.assignment {
		chosen = append(chosen, j)
	}

	chosen = uniqueSorted(chosen)

	position := make(map[int]int, len(chosen))
	for k, j := range chosen {
		position[j] = k
	}

	submission := pd.submission(sel, options,
		func(j int) int { return position[j] },
		func(j int) string { return ec.credentials[j].Format() })

	vp := verifiable.NewPresentation()
	vp.Context = append(vp.Context, PresentationSubmissionJSONLDContextIRI)
	vp.Type = append(vp.Type, PresentationSubmissionJSONLDType)

	for _, j := range chosen {
		vp.Credentials = append(vp.Credentials, ec.credentials[j])
	}

	if len(options.HolderDIDs) > 0 {
		vp.Holder = options.HolderDIDs[0]
	}

	if options.SubmissionLocation == SubmissionLocationPresentation {
		vp.CustomFields = map[string]interface{}{submissionProperty: submission}
	}

	return vp, submission, nil
}

// VerifiablePresentationFrom builds the presentation and hands it to the
// signing callback; the callback's result is embedded verbatim.
func (pd *PresentationDefinition) VerifiablePresentationFrom(ctx context.Context,
	vcs []*verifiable.Credential, sign SignPresentationFn,
	opts ...EvaluationOpt) (*VerifiablePresentationResult, error) {
	if sign == nil {
		return nil, errors.New("signing callback is required")
	}

	options := newEvaluationOptions(opts)

	vp, submission, err := pd.PresentationFrom(vcs, opts...)
	if err != nil {
		return nil, err
	}

	signed, err := sign(ctx, vp)
	if err != nil {
		return nil, errors.Wrap(err, "signing callback")
	}

	return &VerifiablePresentationResult{
		VerifiablePresentation: signed,
		Presentation:           vp,
		PresentationSubmission: submission,
		SubmissionLocation:     options.SubmissionLocation,
	}, nil
}

// evaluate validates the definition, wraps the run, and executes the chain.
func (pd *PresentationDefinition) evaluate(vcs []*verifiable.Credential,
	options *EvaluationOptions) (*evaluationClient, error) {
	if err := pd.ValidateSchema(); err != nil {
		return nil, err
	}

	ec := newEvaluationClient(pd, vcs, options)

	if err := ec.run(); err != nil {
		return nil, err
	}

	return ec, nil
}

// aggregate projects the evaluation log into results, synthesizing the
// submission when the selection succeeds.
func (pd *PresentationDefinition) aggregate(ec *evaluationClient,
	options *EvaluationOptions) (*EvaluationResults, error) {
	candidates := ec.candidates()

	sel, err := pd.resolveSelection(candidates)
	if err != nil {
		return nil, err
	}

	results := &EvaluationResults{
		Warnings:             ec.checked(StatusWarn),
		Errors:               ec.checked(StatusError),
		VerifiableCredential: ec.credentials,
	}

	if len(sel.errors) > 0 {
		results.Errors = append(results.Errors, sel.errors...)
		results.AreRequiredCredentialsPresent = StatusError

		return results, nil
	}

	sel.assignment = minimalAssignment(sel.descriptors, candidates)

	status := StatusInfo

	for d, j := range sel.assignment {
		if ec.pairWarned(d, j) {
			status = StatusWarn
		}
	}

	results.AreRequiredCredentialsPresent = status
	results.Value = pd.submission(sel, options,
		func(j int) int { return j },
		func(j int) string { return ec.credentials[j].Format() })

	return results, nil
}

// evaluateAgainstSubmission checks a caller- or presentation-supplied
// submission: every mapping must address a known descriptor and resolve to a
// credential whose pair verdict is below error severity.
func (pd *PresentationDefinition) evaluateAgainstSubmission(ec *evaluationClient,
	submission *PresentationSubmission, vpObj map[string]interface{}) (*EvaluationResults, error) {
	results := &EvaluationResults{
		Value:                submission,
		Warnings:             ec.checked(StatusWarn),
		Errors:               ec.checked(StatusError),
		VerifiableCredential: ec.credentials,
	}

	if submission.DefinitionID != "" && pd.ID != "" && submission.DefinitionID != pd.ID {
		return nil, errors.Errorf("submission definition_id %q does not match definition %q",
			submission.DefinitionID, pd.ID)
	}

	indexOf := make(map[string]int, len(pd.InputDescriptors))
	for i, descriptor := range pd.InputDescriptors {
		indexOf[descriptor.ID] = i
	}

	status := StatusInfo

	for _, mapping := range submission.DescriptorMap {
		i, ok := indexOf[mapping.ID]
		if !ok {
			return nil, errors.Errorf(
				"a %s ID was found that did not match the `id` property of any input descriptor: %s",
				descriptorMapProperty, mapping.ID)
		}

		j, err := ec.resolveMappedCredential(mapping, vpObj)
		if err != nil {
			return nil, err
		}

		verdict := ec.log.verdict(i, j)
		status = status.worse(verdict)

		if verdict == StatusError {
			results.Errors = append(results.Errors, &Checked{
				Tag:     "SubmissionSynthesis",
				Status:  StatusError,
				Message: fmt.Sprintf("submitted credential does not satisfy input descriptor %s", mapping.ID),
			})
		}
	}

	results.AreRequiredCredentialsPresent = status
	if status == StatusError {
		results.Value = nil
	}

	return results, nil
}

// resolveMappedCredential resolves a descriptor mapping to a credential index
// in the working set, following path_nested to the innermost path.
func (ec *evaluationClient) resolveMappedCredential(mapping *InputDescriptorMapping,
	vpObj map[string]interface{}) (int, error) {
	innermost := mapping
	for innermost.PathNested != nil {
		innermost = innermost.PathNested
	}

	var j int
	if _, err := fmt.Sscanf(innermost.Path, "$.verifiableCredential[%d]", &j); err == nil {
		if j < 0 || j >= len(ec.credentials) {
			return 0, errors.Errorf("descriptor mapping path out of range: %s", innermost.Path)
		}

		return j, nil
	}

	if vpObj == nil {
		return 0, errors.Errorf("cannot resolve descriptor mapping path %s without a presentation", innermost.Path)
	}

	resolved, err := selectByPath(gval.Full(jsonpath.PlaceholderExtension()), vpObj, mapping)
	if err != nil {
		return 0, err
	}

	for idx, credential := range ec.originals {
		if reflect.DeepEqual(resolved, credential.JSONObject()) ||
			reflect.DeepEqual(resolved, credential.JWT()) {
			return idx, nil
		}
	}

	return 0, errors.Errorf("descriptor mapping path %s does not address a submitted credential", mapping.Path)
}

// [The Input Descriptor Mapping Object] MUST include a path property, and its value MUST be a JSONPath
// string expression that selects the credential to be submit in relation to the identified Input Descriptor
// identified, when executed against the top-level of the object the Presentation Submission is embedded within.
func selectByPath(builder gval.Language, root interface{}, mapping *InputDescriptorMapping) (interface{}, error) {
	current := root

	for {
		path, err := builder.NewEvaluable(mapping.Path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build new json path evaluator")
		}

		current, err = path(context.TODO(), current)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to evaluate json path [%s]", mapping.Path)
		}

		if mapping.PathNested == nil {
			return current, nil
		}

		mapping = mapping.PathNested
	}
}

func checkJSONLDContextType(vp *verifiable.Presentation) error {
	if !stringsContain(vp.Context, PresentationSubmissionJSONLDContextIRI) &&
		!stringsContain(vp.Context, CredentialApplicationJSONLDContextIRI) {
		return errors.Errorf("input verifiable presentation must have json-ld context %s or %s",
			PresentationSubmissionJSONLDContextIRI, CredentialApplicationJSONLDContextIRI)
	}

	if !stringsContain(vp.Type, PresentationSubmissionJSONLDType) &&
		!stringsContain(vp.Type, CredentialApplicationJSONLDType) {
		return errors.Errorf("input verifiable presentation must have json-ld type %s or %s",
			PresentationSubmissionJSONLDType, CredentialApplicationJSONLDType)
	}

	return nil
}

func uniqueSorted(indices []int) []int {
	seen := map[int]bool{}

	var out []int

	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true

			out = append(out, idx)
		}
	}

	sort.Ints(out)

	return out
}
