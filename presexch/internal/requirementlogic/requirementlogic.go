/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package requirementlogic processes nested submission requirement logic:
// resolving requirement rules to input descriptor sets and checking rule
// satisfaction.
package requirementlogic

import (
	"fmt"
	"sort"
	"strings"
)

// Requirement mirrors one submission_requirements entry of a presentation
// definition.
type Requirement struct {
	Name       string
	Rule       string
	Count      int
	Min        int
	Max        int
	From       string
	FromNested []*Requirement
}

// RuleAll and RulePick are the recognized requirement rules.
const (
	RuleAll  = "all"
	RulePick = "pick"
)

// RequirementLogic is a datatype for processing nested submission requirement logic.
type RequirementLogic struct {
	Name               string
	Rule               string
	InputDescriptorIDs []string
	Nested             []*RequirementLogic
	Count              int
	Min                int
	Max                int
}

// UnsatisfiedError reports a requirement that cannot be met by the available
// descriptors.
type UnsatisfiedError struct {
	Name string
}

func (e *UnsatisfiedError) Error() string {
	if e.Name == "" {
		return "submission requirement not satisfied"
	}

	return fmt.Sprintf("submission requirement %q not satisfied", e.Name)
}

// New builds the requirement logic tree for req, resolving group references
// through groups (group name -> input descriptor IDs, in declaration order).
func New(req *Requirement, groups map[string][]string) (*RequirementLogic, error) {
	logic := &RequirementLogic{
		Name:  req.Name,
		Rule:  req.Rule,
		Count: req.Count,
		Min:   req.Min,
		Max:   req.Max,
	}

	if len(req.FromNested) == 0 {
		ids, ok := groups[req.From]
		if !ok || len(ids) == 0 {
			return nil, fmt.Errorf("no descriptors for from: %s", req.From)
		}

		logic.InputDescriptorIDs = ids

		return logic, nil
	}

	for _, nested := range req.FromNested {
		child, err := New(nested, groups)
		if err != nil {
			return nil, err
		}

		logic.Nested = append(logic.Nested, child)
	}

	return logic, nil
}

// acceptInterval returns the interval of accepted lengths [min, max] (interval is inclusive on both ends).
// If max == 0, then the upper end of the interval is unbounded.
func (r *RequirementLogic) acceptInterval() (int, int) {
	if r.Count > 0 {
		return r.Count, r.Count
	}

	return r.Min, r.Max
}

// IsSatisfiedBy returns whether the given requirement logic is satisfied by the given set of descriptors.
func (r *RequirementLogic) IsSatisfiedBy(descs DescriptorIDSet) bool {
	if len(r.Nested) == 0 {
		satisfiedDescriptors := DescriptorIDSet{}

		for _, id := range r.InputDescriptorIDs {
			if descs.Has(id) {
				satisfiedDescriptors.Add(id)
			}
		}

		return r.isLenApplicable(satisfiedDescriptors.Len())
	}

	numChildrenSatisfied := 0

	for _, logic := range r.Nested {
		if logic.IsSatisfiedBy(descs) {
			numChildrenSatisfied++
		}
	}

	return r.isLenApplicable(numChildrenSatisfied)
}

// GetAllDescriptors returns the IDs of all InputDescriptors referenced in this RequirementLogic or its children.
func (r *RequirementLogic) GetAllDescriptors() DescriptorIDSet {
	if len(r.Nested) == 0 {
		return InitFromSlice(r.InputDescriptorIDs)
	}

	var childSets []DescriptorIDSet

	for _, child := range r.Nested {
		childSets = append(childSets, child.GetAllDescriptors())
	}

	return MergeAll(childSets...)
}

// Resolve picks the descriptors that satisfy the requirement, given the set
// of descriptors that are individually satisfiable. Rule "all" demands every
// referenced descriptor; rule "pick" takes the earliest satisfiable
// descriptors up to the interval's upper bound. Returns UnsatisfiedError when
// the interval cannot be met.
func (r *RequirementLogic) Resolve(satisfiable DescriptorIDSet) ([]string, error) {
	if len(r.Nested) == 0 {
		return r.resolveLeaf(satisfiable)
	}

	lower, upper := r.acceptInterval()
	if r.Rule == RuleAll {
		lower, upper = len(r.Nested), len(r.Nested)
	}

	var (
		chosen    []string
		satisfied int
	)

	for _, child := range r.Nested {
		if upper > 0 && satisfied == upper {
			break
		}

		ids, err := child.Resolve(satisfiable)
		if err != nil {
			if r.Rule == RuleAll {
				return nil, &UnsatisfiedError{Name: r.Name}
			}

			continue
		}

		chosen = append(chosen, ids...)
		satisfied++
	}

	if satisfied < lower {
		return nil, &UnsatisfiedError{Name: r.Name}
	}

	return dedupe(chosen), nil
}

func (r *RequirementLogic) resolveLeaf(satisfiable DescriptorIDSet) ([]string, error) {
	if r.Rule == RuleAll {
		for _, id := range r.InputDescriptorIDs {
			if !satisfiable.Has(id) {
				return nil, &UnsatisfiedError{Name: r.Name}
			}
		}

		return append([]string{}, r.InputDescriptorIDs...), nil
	}

	var eligible []string

	for _, id := range r.InputDescriptorIDs {
		if satisfiable.Has(id) {
			eligible = append(eligible, id)
		}
	}

	lower, upper := r.acceptInterval()

	if len(eligible) < lower {
		return nil, &UnsatisfiedError{Name: r.Name}
	}

	if upper > 0 && len(eligible) > upper {
		eligible = eligible[:upper]
	}

	return eligible, nil
}

func (r *RequirementLogic) isLenApplicable(val int) bool {
	if r.Count > 0 && val != r.Count {
		return false
	}

	if r.Min > 0 && r.Min > val {
		return false
	}

	if r.Max > 0 && r.Max < val {
		return false
	}

	return true
}

func dedupe(ids []string) []string {
	seen := DescriptorIDSet{}

	var out []string

	for _, id := range ids {
		if !seen.Has(id) {
			seen.Add(id)
			out = append(out, id)
		}
	}

	return out
}

// DescriptorIDSet is a set of InputDescriptor IDs.
type DescriptorIDSet = StringSet

// StringSet is a set of strings.
type StringSet map[string]struct{}

// InitFromSlice returns a StringSet holding the elements of src.
func InitFromSlice(src []string) StringSet {
	s := make(StringSet, len(src))

	for _, e := range src {
		s.Add(e)
	}

	return s
}

// Add adds elem to s.
func (s StringSet) Add(elem string) {
	s[elem] = struct{}{}
}

// Has returns whether elem is in s.
func (s StringSet) Has(elem string) bool {
	_, ok := s[elem]

	return ok
}

// Len returns the number of elements in s.
func (s StringSet) Len() int {
	return len(s)
}

// ToString returns a canonical string rendering of s.
func (s StringSet) ToString() string {
	elems := make([]string, 0, len(s))

	for e := range s {
		elems = append(elems, e)
	}

	sort.Strings(elems)

	return strings.Join(elems, ",")
}

// MergeAll returns the union of the given sets.
func MergeAll(sets ...StringSet) StringSet {
	out := StringSet{}

	for _, set := range sets {
		for e := range set {
			out.Add(e)
		}
	}

	return out
}
