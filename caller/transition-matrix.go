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
	"gonum.org/v1/gonum/mat"
)

// buildTransitionRow expands one class row into a 30-column transition
// row. The four class probabilities are distributed uniformly within
// each genotype-equivalence group, scaled by hetRate for heterozygous
// and 1-hetRate for homozygous destinations; the invalid state 29
// receives the insertion-class probability scaled by hetRate/32. The
// resulting row sums to 1 exactly.
func buildTransitionRow(classRow [4]float64, hetRate float64) [numStates]float64 {
	var row [numStates]float64

	row[stateInvalid] = classRow[classInsertion] * hetRate / 32
	keep := 1 - row[stateInvalid]

	// homozygous reference
	row[0] = classRow[classMatch] * (1 - hetRate) * keep
	// homozygous SNPs
	for _, i := range []int{1, 2, 3} {
		row[i] = classRow[classSNP] * (1 - hetRate) / 3 * keep
	}
	// heterozygous reference/SNP pairs
	for _, i := range []int{4, 5, 6} {
		row[i] = (classRow[classMatch] + classRow[classSNP]/3) * hetRate / 4 * keep
	}
	// heterozygous reference/deletion
	row[7] = (classRow[classMatch] + classRow[classDeletion]) * hetRate / 4 * keep
	// heterozygous SNP/SNP pairs
	for _, i := range []int{8, 9, 11} {
		row[i] = classRow[classSNP] * hetRate / 6 * keep
	}
	// heterozygous SNP/deletion pairs
	for _, i := range []int{10, 12, 13} {
		row[i] = (classRow[classSNP]/3 + classRow[classDeletion]) * hetRate / 4 * keep
	}
	// homozygous deletion
	row[stateHomDeletion] = classRow[classDeletion] * (1 - hetRate) * keep
	// homozygous insertions
	for i := 15; i <= 18; i++ {
		row[i] = classRow[classInsertion] * (1 - hetRate) / 4 * keep
	}
	// heterozygous insertion pairs
	for _, i := range []int{19, 20, 21, 23, 24, 26} {
		row[i] = classRow[classInsertion] * hetRate / 8 * keep
	}
	for _, i := range []int{22, 25, 27, 28} {
		row[i] = classRow[classInsertion] * hetRate / 16 * keep
	}

	return row
}

// newTransitionMatrix expands the 4x4 class matrix into the full 30x30
// diploid transition matrix. The matrix is built once per run and not
// modified afterwards.
func newTransitionMatrix(classMatrix ClassMatrix, hetRate float64) *mat.Dense {
	trans := mat.NewDense(numStates, numStates, nil)

	setRow := func(i int, row [numStates]float64) {
		trans.SetRow(i, row[:])
	}

	matchRow := buildTransitionRow(classMatrix[classMatch], hetRate)
	setRow(stateHomRef, matchRow)

	// class homozygosity collapses intra-group distinctions, so all
	// SNP-class states share one row
	snpRow := buildTransitionRow(classMatrix[classSNP], hetRate)
	for _, i := range []int{1, 2, 3, 4, 5, 6, 8, 9, 11} {
		setRow(i, snpRow)
	}

	deletionRow := buildTransitionRow(classMatrix[classDeletion], hetRate)
	setRow(stateHomDeletion, deletionRow)

	// single-gap heterozygous-deletion genotypes average the SNP and
	// homozygous-deletion rows
	var meanRow [numStates]float64
	for j := 0; j < numStates; j++ {
		meanRow[j] = (snpRow[j] + deletionRow[j]) / 2
	}
	for _, i := range []int{7, 10, 12, 13} {
		setRow(i, meanRow)
	}

	insertionRow := buildTransitionRow(classMatrix[classInsertion], hetRate)
	for i := firstInsertionState; i <= 28; i++ {
		setRow(i, insertionRow)
	}

	// absorbing reset row, reached only through the overflow path
	var uniformRow [numStates]float64
	for j := range uniformRow {
		uniformRow[j] = 1.0 / numStates
	}
	setRow(stateInvalid, uniformRow)

	return trans
}
