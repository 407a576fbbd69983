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
	"reflect"
	"testing"

	"github.com/divar-bio/divar/sam"
	"github.com/divar-bio/divar/vcf"
)

// coveringReads builds n identical full-length reads over the reference.
func coveringReads(n int, seq string) []*sam.Read {
	reads := make([]*sam.Read, n)
	for i := range reads {
		reads[i] = makeRead(string(rune('a'+i)), 0, seq,
			sam.CigarOperation{Length: len(seq), Operation: 'M'})
	}
	return reads
}

func TestCallVariantsNone(t *testing.T) {
	c := NewCaller(SimulatedClassMatrix, SimulatedHetRate)
	variants := c.CallVariants(coveringReads(6, "ACGT"), "1", []byte("ACGT"))
	if len(variants) != 0 {
		t.Error("reference-matching reads produced variants", variants)
	}
}

func TestCallVariantsHomozygousSNP(t *testing.T) {
	c := NewCaller(SimulatedClassMatrix, SimulatedHetRate)
	// all reads agree on C where the reference has A
	variants := c.CallVariants(coveringReads(6, "ACGT"), "1", []byte("AAGT"))
	want := []vcf.Variant{{Chrom: "1", Pos: 1, Ref: "A", Alt: []string{"C"}}}
	if !reflect.DeepEqual(variants, want) {
		t.Error("got variants", variants, "want", want)
	}
}

func TestCallVariantsLowCoverage(t *testing.T) {
	c := NewCaller(SimulatedClassMatrix, SimulatedHetRate)
	// below the coverage threshold every column is a no-data column
	variants := c.CallVariants(coveringReads(4, "ACGT"), "1", []byte("AAGT"))
	if len(variants) != 0 {
		t.Error("under-covered columns produced variants", variants)
	}
}

func TestCallVariantsInsertion(t *testing.T) {
	c := NewCaller(SimulatedClassMatrix, SimulatedHetRate)
	reads := make([]*sam.Read, 6)
	for i := range reads {
		reads[i] = makeRead(string(rune('a'+i)), 0, "ACTTGTACGT",
			sam.CigarOperation{Length: 2, Operation: 'M'},
			sam.CigarOperation{Length: 2, Operation: 'I'},
			sam.CigarOperation{Length: 6, Operation: 'M'},
		)
	}
	variants := c.CallVariants(reads, "1", []byte("ACGTACGT"))
	want := []vcf.Variant{{Chrom: "1", Pos: 2, Ref: "C", Alt: []string{"CTT"}}}
	if !reflect.DeepEqual(variants, want) {
		t.Error("got variants", variants, "want", want)
	}
}

func TestCallVariantsDeletion(t *testing.T) {
	c := NewCaller(SimulatedClassMatrix, SimulatedHetRate)
	reads := make([]*sam.Read, 6)
	for i := range reads {
		reads[i] = makeRead(string(rune('a'+i)), 0, "ACACGT",
			sam.CigarOperation{Length: 2, Operation: 'M'},
			sam.CigarOperation{Length: 2, Operation: 'D'},
			sam.CigarOperation{Length: 4, Operation: 'M'},
		)
	}
	variants := c.CallVariants(reads, "1", []byte("ACGTACGT"))
	// each deleted position yields its own anchored record
	want := []vcf.Variant{
		{Chrom: "1", Pos: 2, Ref: "CG", Alt: []string{"C"}},
		{Chrom: "1", Pos: 3, Ref: "GT", Alt: []string{"G"}},
	}
	if !reflect.DeepEqual(variants, want) {
		t.Error("got variants", variants, "want", want)
	}
}
