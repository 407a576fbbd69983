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
	"log"

	"github.com/divar-bio/divar/sam"
)

// The 30 hidden states of the diploid genotype model. State 0 is
// homozygous reference, states 1-13 the non-reference SNP and
// single-deletion genotypes, state 14 homozygous deletion, states
// 15-28 the insertion genotypes, and state 29 the invalid catch-all.
const (
	numStates           = 30
	stateHomRef         = 0
	stateHomDeletion    = 14
	firstInsertionState = 15
	stateInvalid        = 29
)

// noData marks coordinates without a decoded state.
const noData = -1

// Per reference base, the ordered allele pairs of states 0-14. The
// first entry is always the homozygous-reference genotype; the rest
// enumerate the alternative SNP and deletion genotypes in a fixed
// order. Insertion states 15-29 reuse the A table, which is also used
// when the reference base is a gap.
var (
	genotypeTableA = [15][2]byte{
		{'A', 'A'}, {'C', 'C'}, {'G', 'G'}, {'T', 'T'}, {'A', 'C'},
		{'A', 'G'}, {'A', 'T'}, {'A', '-'}, {'C', 'G'}, {'C', 'T'},
		{'C', '-'}, {'G', 'T'}, {'G', '-'}, {'T', '-'}, {'-', '-'},
	}
	genotypeTableC = [15][2]byte{
		{'C', 'C'}, {'A', 'A'}, {'G', 'G'}, {'T', 'T'}, {'A', 'C'},
		{'C', 'G'}, {'C', 'T'}, {'C', '-'}, {'A', 'G'}, {'A', 'T'},
		{'A', '-'}, {'G', 'T'}, {'G', '-'}, {'T', '-'}, {'-', '-'},
	}
	genotypeTableG = [15][2]byte{
		{'G', 'G'}, {'A', 'A'}, {'C', 'C'}, {'T', 'T'}, {'A', 'G'},
		{'C', 'G'}, {'G', 'T'}, {'G', '-'}, {'A', 'C'}, {'A', 'T'},
		{'A', '-'}, {'C', 'T'}, {'C', '-'}, {'T', '-'}, {'-', '-'},
	}
	genotypeTableT = [15][2]byte{
		{'T', 'T'}, {'A', 'A'}, {'C', 'C'}, {'G', 'G'}, {'A', 'T'},
		{'C', 'T'}, {'G', 'T'}, {'T', '-'}, {'A', 'C'}, {'A', 'G'},
		{'A', '-'}, {'C', 'G'}, {'C', '-'}, {'G', '-'}, {'-', '-'},
	}
)

func genotypeTableFor(refBase byte) *[15][2]byte {
	switch refBase {
	case 'A', sam.Gap:
		return &genotypeTableA
	case 'C':
		return &genotypeTableC
	case 'G':
		return &genotypeTableG
	case 'T':
		return &genotypeTableT
	}
	log.Panicf("unknown reference base %c in genotype lookup", refBase)
	return nil
}

// stateAlleles returns the ordered allele pair of a hidden state given
// the reference base at that coordinate. The insertion-state layout is
// base-agnostic.
func stateAlleles(refBase byte, state int) [2]byte {
	if state >= firstInsertionState {
		return genotypeTableA[state-firstInsertionState]
	}
	return genotypeTableFor(refBase)[state]
}

// A GenotypeCall is the resolved ordered allele pair at one gapped
// coordinate; NoData marks coordinates the decoder skipped.
type GenotypeCall struct {
	Alleles [2]byte
	NoData  bool
}

// resolveGenotypes maps the decoded state path onto concrete diploid
// genotypes. Ambiguity bases propagate as no-data calls; any other
// unrecognized reference base is fatal.
func resolveGenotypes(states []int, gappedRef []byte) []GenotypeCall {
	calls := make([]GenotypeCall, len(gappedRef))
	for i, state := range states {
		if state == noData || gappedRef[i] == 'N' {
			calls[i] = GenotypeCall{NoData: true}
			continue
		}
		calls[i] = GenotypeCall{Alleles: stateAlleles(gappedRef[i], state)}
	}
	return calls
}
