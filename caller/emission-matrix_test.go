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
	"testing"

	"github.com/divar-bio/divar/sam"
)

// columnReads builds one single-base read per entry, all covering
// coordinate 0.
func columnReads(bases string, qual float64) []*sam.Read {
	reads := make([]*sam.Read, len(bases))
	for i := range bases {
		q := qual
		if bases[i] == sam.Gap {
			q = sam.NoQual
		}
		reads[i] = &sam.Read{
			Key:   string(rune('a' + i)),
			Start: 0,
			Seq:   []byte{bases[i]},
			Qual:  []float64{q},
			MapQ:  60,
		}
	}
	return reads
}

func TestEmissionColumnLowCoverage(t *testing.T) {
	reads := columnReads("CCCC", 30)
	if column := emissionColumnAt(reads, []byte{'C'}, 0); column != nil {
		t.Error("column with coverage below the threshold is not a no-data column")
	}
}

func TestEmissionColumnAmbiguousReference(t *testing.T) {
	reads := columnReads("CCCCCC", 30)
	if column := emissionColumnAt(reads, []byte{'N'}, 0); column != nil {
		t.Error("column over an N reference base is not a no-data column")
	}
}

func TestEmissionColumnHomozygousMatch(t *testing.T) {
	reads := columnReads("CCCCCC", 30)
	column := emissionColumnAt(reads, []byte{'C'}, 0)
	if column == nil {
		t.Fatal("column unexpectedly empty")
	}
	if !column.defined.Test(uint(stateHomRef)) {
		t.Fatal("homozygous-reference state undefined")
	}
	want := 6 * math.Log10(1-1e-3)
	if got := column.logProbs[stateHomRef]; math.Abs(got-want) > 1e-12 {
		t.Error("homozygous-reference log probability is", got, "want", want)
	}
	// no A in the pileup, so (A,A) has no support
	if column.defined.Test(1) {
		t.Error("unsupported genotype (A,A) is defined")
	}
	// a non-gap reference column never defines insertion states
	for state := firstInsertionState; state < numStates; state++ {
		if column.defined.Test(uint(state)) {
			t.Error("insertion state", state, "defined over a non-gap reference base")
		}
	}
}

func TestEmissionColumnHeterozygous(t *testing.T) {
	reads := columnReads("CCCCCC", 30)
	column := emissionColumnAt(reads, []byte{'A'}, 0)
	if column == nil {
		t.Fatal("column unexpectedly empty")
	}
	errProb := 1e-3
	// state 4 of the A table is (A,C); every C matches one allele
	want := 6 * math.Log10(0.5*(1-errProb)+0.125*errProb)
	if got := column.logProbs[4]; math.Abs(got-want) > 1e-12 {
		t.Error("heterozygous log probability is", got, "want", want)
	}
	// (C,C) is state 1 of the A table and dominates the heterozygote
	if column.logProbs[1] <= column.logProbs[4] {
		t.Error("homozygous alternative does not dominate the heterozygote")
	}
	if column.defined.Test(uint(stateHomRef)) {
		t.Error("unsupported homozygous-reference state is defined")
	}
}

func TestEmissionColumnMismatchPenalty(t *testing.T) {
	reads := columnReads("CCCCCG", 30)
	column := emissionColumnAt(reads, []byte{'A'}, 0)
	if column == nil {
		t.Fatal("column unexpectedly empty")
	}
	// state 1 is (C,C): five matches plus one mismatching G
	want := 5*math.Log10(1-1e-3) + (-3 + log10OneQuarter)
	if got := column.logProbs[1]; math.Abs(got-want) > 1e-12 {
		t.Error("mixed-column log probability is", got, "want", want)
	}
}

func TestEmissionColumnGapCertainty(t *testing.T) {
	reads := columnReads("----A", 30)

	// non-gap reference: homozygous deletion, state 14
	column := emissionColumnAt(reads, []byte{'A'}, 0)
	if column == nil {
		t.Fatal("column unexpectedly empty")
	}
	if !column.defined.Test(uint(stateHomDeletion)) || column.logProbs[stateHomDeletion] != 0 {
		t.Error("gap-dominated column does not emit homozygous deletion with certainty")
	}

	// gapped reference: the homozygous-gap insertion genotype, state 29
	column = emissionColumnAt(reads, []byte{sam.Gap}, 0)
	if column == nil {
		t.Fatal("gapped column unexpectedly empty")
	}
	if !column.defined.Test(uint(stateInvalid)) || column.logProbs[stateInvalid] != 0 {
		t.Error("gap-dominated insertion column does not emit the homozygous gap with certainty")
	}
	for state := 0; state < firstInsertionState; state++ {
		if column.defined.Test(uint(state)) {
			t.Error("non-insertion state", state, "defined over a gapped reference base")
		}
	}
}

func TestRepairQualsMixed(t *testing.T) {
	column := pileupColumn{
		quals: []float64{20, 30, sam.NoQual, 40, sam.NoQual, 30},
		mapqs: []int{60, 60, 60, 60, 60, 60},
	}
	repairQuals(&column)
	for i, q := range column.quals {
		if q == sam.NoQual {
			t.Fatal("placeholder left at index", i)
		}
	}
	if column.quals[2] != 30 || column.quals[4] != 30 {
		t.Error("placeholders not filled with the column mean", column.quals)
	}
	if column.quals[0] != 20 || column.quals[3] != 40 {
		t.Error("real scores were modified", column.quals)
	}
}

func TestRepairQualsAllPlaceholders(t *testing.T) {
	column := pileupColumn{
		quals: []float64{sam.NoQual, sam.NoQual},
		mapqs: []int{40, 60},
	}
	repairQuals(&column)
	if column.quals[0] != 10 || column.quals[1] != 15 {
		t.Error("placeholders not derived from mapping qualities", column.quals)
	}
}

func TestBuildEmissionMatrix(t *testing.T) {
	ref := []byte("AC")
	reads := make([]*sam.Read, 6)
	for i := range reads {
		reads[i] = makeRead(string(rune('a'+i)), 0, "AC",
			sam.CigarOperation{Length: 2, Operation: 'M'})
	}
	em := buildEmissionMatrix(reads, ref)
	if len(em) != len(ref) {
		t.Fatal("matrix length", len(em), "does not match the reference")
	}
	for pos, column := range em {
		if column == nil {
			t.Fatal("fully covered column", pos, "is a no-data column")
		}
		if !column.defined.Test(uint(stateHomRef)) {
			t.Error("homozygous-reference state undefined at", pos)
		}
	}
}
