/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package presexch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimalAssignment(t *testing.T) {
	t.Run("one credential answers several descriptors", func(t *testing.T) {
		candidates := [][]int{
			{0, 1},
			{1},
			{1, 2},
		}

		assignment := minimalAssignment([]int{0, 1, 2}, candidates)

		require.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, assignment)
	})

	t.Run("ties break to the lower credential index", func(t *testing.T) {
		candidates := [][]int{
			{0, 1},
			{0, 1},
		}

		assignment := minimalAssignment([]int{0, 1}, candidates)

		require.Equal(t, map[int]int{0: 0, 1: 0}, assignment)
	})

	t.Run("distinct credentials when no sharing is possible", func(t *testing.T) {
		candidates := [][]int{
			{2},
			{0},
		}

		assignment := minimalAssignment([]int{0, 1}, candidates)

		require.Equal(t, map[int]int{0: 2, 1: 0}, assignment)
	})

	t.Run("minimality beats greedy choice", func(t *testing.T) {
		// Greedy would pick credential 0 for the first descriptor; only
		// credential 1 covers all three.
		candidates := [][]int{
			{0, 1},
			{1},
			{1},
		}

		assignment := minimalAssignment([]int{0, 1, 2}, candidates)

		require.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, assignment)
	})

	t.Run("empty descriptor set", func(t *testing.T) {
		assignment := minimalAssignment(nil, nil)
		require.Empty(t, assignment)
	})
}

func TestResolveSelection(t *testing.T) {
	pd := &PresentationDefinition{
		ID: "selection-test",
		InputDescriptors: []*InputDescriptor{
			{ID: "a", Group: []string{"A"}},
			{ID: "b", Group: []string{"A"}},
			{ID: "c", Group: []string{"B"}},
		},
	}

	t.Run("no requirements demands every descriptor", func(t *testing.T) {
		sel, err := pd.resolveSelection([][]int{{0}, {1}, {0}})
		require.NoError(t, err)
		require.Empty(t, sel.errors)
		require.Equal(t, []int{0, 1, 2}, sel.descriptors)
	})

	t.Run("no requirements with an unsatisfied descriptor collects an error", func(t *testing.T) {
		sel, err := pd.resolveSelection([][]int{{0}, nil, {0}})
		require.NoError(t, err)
		require.Len(t, sel.errors, 1)
		require.Contains(t, sel.errors[0].Message, "b")
	})

	t.Run("pick rule takes the earliest satisfiable descriptors", func(t *testing.T) {
		withReq := &PresentationDefinition{
			ID:               pd.ID,
			InputDescriptors: pd.InputDescriptors,
			SubmissionRequirements: []*SubmissionRequirement{
				{Rule: Pick, From: "A", Count: 1},
			},
		}

		sel, err := withReq.resolveSelection([][]int{{0}, {1}, nil})
		require.NoError(t, err)
		require.Empty(t, sel.errors)
		require.Equal(t, []int{0}, sel.descriptors)
	})

	t.Run("unknown group is a definition error", func(t *testing.T) {
		withReq := &PresentationDefinition{
			ID:               pd.ID,
			InputDescriptors: pd.InputDescriptors,
			SubmissionRequirements: []*SubmissionRequirement{
				{Rule: All, From: "missing"},
			},
		}

		_, err := withReq.resolveSelection([][]int{{0}, {1}, {2}})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no descriptors for from: missing")
	})

	t.Run("unsatisfiable requirement is collected, not returned", func(t *testing.T) {
		withReq := &PresentationDefinition{
			ID:               pd.ID,
			InputDescriptors: pd.InputDescriptors,
			SubmissionRequirements: []*SubmissionRequirement{
				{Name: "employment", Rule: All, From: "A"},
			},
		}

		sel, err := withReq.resolveSelection([][]int{{0}, nil, nil})
		require.NoError(t, err)
		require.Len(t, sel.errors, 1)
		require.Contains(t, sel.errors[0].Message, "employment")
	})
}

func TestStatusWorse(t *testing.T) {
	require.Equal(t, StatusError, StatusInfo.worse(StatusError))
	require.Equal(t, StatusError, StatusError.worse(StatusInfo))
	require.Equal(t, StatusWarn, StatusInfo.worse(StatusWarn))
	require.Equal(t, StatusInfo, StatusInfo.worse(StatusInfo))
}
