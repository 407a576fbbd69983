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

	"github.com/exascience/pargo/parallel"
	"github.com/willf/bitset"

	"github.com/divar-bio/divar/sam"
)

const (
	// minCoverage is the minimum pileup depth for a column to carry
	// emission probabilities; columns below it segment the Viterbi
	// recurrence.
	minCoverage = 5

	// gapCertaintyFraction is the pileup gap fraction above which the
	// homozygous-gap genotype is emitted with certainty.
	gapCertaintyFraction = 0.8
)

var log10OneQuarter = math.Log10(0.25)

// An emissionColumn holds the 30 log10 emission probabilities of one
// gapped coordinate. Only states present in the defined set carry a
// value; the rest are structurally impossible or unsupported by the
// pileup and are treated as negative infinity downstream.
type emissionColumn struct {
	logProbs [numStates]float64
	defined  *bitset.BitSet
}

// An emissionMatrix has one entry per gapped reference coordinate. A
// nil entry is the no-data sentinel for columns with insufficient
// coverage or an ambiguous reference base.
type emissionMatrix []*emissionColumn

// repairQuals fills the quality placeholders of gap positions: the
// column mean when real scores are present, a quarter of each read's
// mapping quality when every score belongs to a gap.
func repairQuals(column *pileupColumn) {
	placeholders := 0
	sum := 0.0
	for _, q := range column.quals {
		if q == sam.NoQual {
			placeholders++
		} else {
			sum += q
		}
	}
	if placeholders == 0 {
		return
	}
	if placeholders == len(column.quals) {
		for i := range column.quals {
			column.quals[i] = float64(column.mapqs[i]) / 4
		}
		return
	}
	mean := sum / float64(len(column.quals)-placeholders)
	for i, q := range column.quals {
		if q == sam.NoQual {
			column.quals[i] = mean
		}
	}
}

// emissionColumnAt computes the emission probabilities of one gapped
// coordinate, or nil when the column carries no data.
func emissionColumnAt(reads []*sam.Read, gappedRef []byte, pos int) *emissionColumn {
	pile := pileupAt(reads, pos)
	refBase := gappedRef[pos]
	if len(pile.bases) < minCoverage || refBase == 'N' {
		return nil
	}
	repairQuals(&pile)

	// a gapped reference column only matches insertion genotypes,
	// a non-gapped column only the rest
	firstState, lastState := 0, firstInsertionState
	if refBase == sam.Gap {
		firstState, lastState = firstInsertionState, numStates
	}

	gapCount := countGaps(pile.bases)
	column := &emissionColumn{defined: bitset.New(numStates)}
	for state := firstState; state < lastState; state++ {
		alleles := stateAlleles(refBase, state)
		if alleles[0] == sam.Gap && alleles[1] == sam.Gap &&
			float64(gapCount) >= gapCertaintyFraction*float64(len(pile.bases)) {
			column.defined.Set(uint(state))
			continue // log10(1) == 0
		}
		matched := false
		for _, base := range pile.bases {
			if base == alleles[0] || base == alleles[1] {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		value := 0.0
		for i, base := range pile.bases {
			errProb := math.Pow(10, -pile.quals[i]/10)
			switch {
			case base == alleles[0] && base == alleles[1]:
				value += math.Log10(1 - errProb)
			case base != alleles[0] && base != alleles[1]:
				value += -pile.quals[i]/10 + log10OneQuarter
			default:
				value += math.Log10(0.5*(1-errProb) + 0.125*errProb)
			}
		}
		column.logProbs[state] = value
		column.defined.Set(uint(state))
	}
	return column
}

// buildEmissionMatrix computes the emission column of every gapped
// coordinate. Columns only read the realigned reads and are
// independent of each other, so they are computed in parallel.
func buildEmissionMatrix(reads []*sam.Read, gappedRef []byte) emissionMatrix {
	em := make(emissionMatrix, len(gappedRef))
	parallel.Range(0, len(gappedRef), 0, func(low, high int) {
		for pos := low; pos < high; pos++ {
			em[pos] = emissionColumnAt(reads, gappedRef, pos)
		}
	})
	return em
}
