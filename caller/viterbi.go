// divar: a diploid HMM variant caller for aligned short reads.
// Copyright (c) 2026 the divar authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License along with this program. If not, see
// <https://github.com/divar-bio/divar/blob/master/LICENSE.txt>.

package caller

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
The decoder runs in segments delimited by no-data columns. Each no-data
column is passed through as a sentinel and never takes part in the
recurrence; the column after it restarts from the initial distribution.
The forward pass keeps per-column normalized probability vectors, the
backward pass recovers the state path per segment.
*/

// emissionLogProb returns a state's emission log probability, with
// undefined entries as negative infinity.
func (column *emissionColumn) emissionLogProb(state int) float64 {
	if column.defined.Test(uint(state)) {
		return column.logProbs[state]
	}
	return math.Inf(-1)
}

// forwardPass computes the normalized forward probability vector of
// every column; nil entries mark no-data columns.
func forwardPass(em emissionMatrix, trans *mat.Dense) [][]float64 {
	forward := make([][]float64, len(em))
	initial := trans.RawRowView(stateHomRef)
	for i, column := range em {
		if column == nil {
			continue
		}
		if i == 0 || em[i-1] == nil {
			// segment start: initial distribution times emission
			vector := make([]float64, numStates)
			for j := 0; j < numStates; j++ {
				vector[j] = initial[j] * math.Exp(column.emissionLogProb(j))
			}
			floats.Scale(1/floats.Sum(vector), vector)
			forward[i] = vector
			continue
		}
		previous := forward[i-1]
		scores := make([]float64, numStates)
		for j := 0; j < numStates; j++ {
			best := math.Inf(-1)
			for s := 0; s < numStates; s++ {
				if p := trans.At(s, j) * previous[s]; p > best {
					best = p
				}
			}
			scores[j] = math.Log(best) + column.emissionLogProb(j)
		}
		normalizer := floats.LogSumExp(scores)
		vector := make([]float64, numStates)
		for j, score := range scores {
			vector[j] = math.Exp(score - normalizer)
		}
		forward[i] = vector
	}
	return forward
}

// backtrack recovers the most likely state per column, walking each
// segment from its last column backwards. The column at a segment's
// end takes the plain argmax; earlier columns weight their forward
// probabilities by the transition row of the state already chosen to
// their right.
func backtrack(forward [][]float64, trans *mat.Dense) []int {
	states := make([]int, len(forward))
	for i := len(forward) - 1; i >= 0; i-- {
		if forward[i] == nil {
			states[i] = noData
			continue
		}
		if i == len(forward)-1 || forward[i+1] == nil {
			states[i] = floats.MaxIdx(forward[i])
			continue
		}
		chosen := states[i+1]
		best, bestState := math.Inf(-1), 0
		for j := 0; j < numStates; j++ {
			if p := forward[i][j] * trans.At(chosen, j); p > best {
				best, bestState = p, j
			}
		}
		states[i] = bestState
	}
	return states
}

// decodeStates returns the most likely hidden state per gapped
// coordinate, with noData at sentinel columns.
func decodeStates(em emissionMatrix, trans *mat.Dense) []int {
	return backtrack(forwardPass(em, trans), trans)
}
