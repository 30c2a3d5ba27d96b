/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/TBD54566975/PEX/presexch/internal/requirementlogic"
)

// selection is the outcome of resolving submission requirements against the
// candidate pairs: which descriptors must be answered, and by which
// credentials.
type selection struct {
	// descriptors are the chosen descriptor indices, ascending.
	descriptors []int
	// assignment maps chosen descriptor index to credential index.
	assignment map[int]int
	// errors are unsatisfied requirements; non-empty means hard failure.
	errors []*Checked
}

// resolveSelection computes the descriptor set demanded by the definition's
// submission requirements, or all descriptors when none are declared. The
// returned error flags a malformed definition (e.g. an unknown group name);
// unsatisfiable requirements are collected instead.
func (pd *PresentationDefinition) resolveSelection(candidates [][]int) (*selection, error) {
	sel := &selection{}

	satisfiable := requirementlogic.StringSet{}

	for i, descriptor := range pd.InputDescriptors {
		if len(candidates[i]) > 0 {
			satisfiable.Add(descriptor.ID)
		}
	}

	if len(pd.SubmissionRequirements) == 0 {
		for i, descriptor := range pd.InputDescriptors {
			if len(candidates[i]) == 0 {
				sel.errors = append(sel.errors, &Checked{
					Tag:     "SubmissionSynthesis",
					Status:  StatusError,
					Message: fmt.Sprintf("no credential satisfies input descriptor %s", descriptor.ID),
				})

				continue
			}

			sel.descriptors = append(sel.descriptors, i)
		}

		return sel, nil
	}

	groups := pd.descriptorGroups()

	indexOf := make(map[string]int, len(pd.InputDescriptors))
	for i, descriptor := range pd.InputDescriptors {
		indexOf[descriptor.ID] = i
	}

	var chosenIDs []string

	for _, requirement := range pd.SubmissionRequirements {
		logic, err := requirementlogic.New(toRequirement(requirement), groups)
		if err != nil {
			return nil, errors.Wrap(err, "invalid submission requirements")
		}

		ids, resolveErr := logic.Resolve(satisfiable)
		if resolveErr != nil {
			sel.errors = append(sel.errors, &Checked{
				Tag:     "SubmissionSynthesis",
				Status:  StatusError,
				Message: resolveErr.Error(),
			})

			continue
		}

		if !logic.IsSatisfiedBy(requirementlogic.InitFromSlice(ids)) {
			logger.Debugf("requirement %q resolution is not self-consistent", requirement.Name)
		}

		chosenIDs = append(chosenIDs, ids...)
	}

	for _, id := range lo.Uniq(chosenIDs) {
		sel.descriptors = append(sel.descriptors, indexOf[id])
	}

	sort.Ints(sel.descriptors)

	return sel, nil
}

// descriptorGroups maps group names to descriptor IDs in declaration order.
func (pd *PresentationDefinition) descriptorGroups() map[string][]string {
	groups := map[string][]string{}

	for _, descriptor := range pd.InputDescriptors {
		for _, group := range descriptor.Group {
			groups[group] = append(groups[group], descriptor.ID)
		}
	}

	return groups
}

func toRequirement(sr *SubmissionRequirement) *requirementlogic.Requirement {
	req := &requirementlogic.Requirement{
		Name:  sr.Name,
		Rule:  string(sr.Rule),
		Count: sr.Count,
		Min:   sr.Min,
		Max:   sr.Max,
		From:  sr.From,
	}

	for _, nested := range sr.FromNested {
		req.FromNested = append(req.FromNested, toRequirement(nested))
	}

	return req
}

// minimalAssignment assigns a credential to every chosen descriptor,
// minimizing the number of distinct credentials by deterministic backtracking
// over descriptors in declaration order. A credential may answer several
// descriptors; ties break to the lower credential index.
func minimalAssignment(descriptors []int, candidates [][]int) map[int]int {
	var (
		best         map[int]int
		bestDistinct = len(descriptors) + 1
	)

	current := make(map[int]int, len(descriptors))
	used := map[int]int{}

	var walk func(k int)

	walk = func(k int) {
		if len(used) >= bestDistinct {
			return
		}

		if k == len(descriptors) {
			best = make(map[int]int, len(current))
			for d, c := range current {
				best[d] = c
			}

			bestDistinct = len(used)

			return
		}

		d := descriptors[k]

		for _, c := range orderedCandidates(candidates[d], used) {
			current[d] = c
			used[c]++

			walk(k + 1)

			used[c]--
			if used[c] == 0 {
				delete(used, c)
			}

			delete(current, d)
		}
	}

	walk(0)

	return best
}

// orderedCandidates orders a descriptor's candidates so already-used
// credentials are tried first, each group ascending by index.
func orderedCandidates(candidates []int, used map[int]int) []int {
	out := make([]int, 0, len(candidates))

	for _, c := range candidates {
		if _, ok := used[c]; ok {
			out = append(out, c)
		}
	}

	for _, c := range candidates {
		if _, ok := used[c]; !ok {
			out = append(out, c)
		}
	}

	return out
}

// submission renders the selection as a presentation submission.
// reindex maps a credential's input index to its position in the output
// credential list the descriptor_map paths point into.
func (pd *PresentationDefinition) submission(sel *selection, opts *EvaluationOptions,
	reindex func(int) int, format func(int) string) *PresentationSubmission {
	ps := &PresentationSubmission{
		ID:           opts.UUIDSource(),
		DefinitionID: pd.ID,
		Locale:       pd.Locale,
	}

	for _, d := range sel.descriptors {
		j := sel.assignment[d]

		ps.DescriptorMap = append(ps.DescriptorMap, &InputDescriptorMapping{
			ID:     pd.InputDescriptors[d].ID,
			Format: format(j),
			Path:   credentialPath(reindex(j)),
		})
	}

	return ps
}
