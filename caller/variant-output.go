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
	"github.com/divar-bio/divar/vcf"
)

// formatVariants walks the ungapped reference alongside the gapped one
// and emits one variant per differing position. gapCounter tracks the
// gapped coordinates already consumed by insertion columns, keeping
// both walks in lock-step. Contiguous gap runs in the reference fold
// into a single insertion record anchored at the preceding ungapped
// position.
func formatVariants(chrom string, ref, gappedRef []byte, calls []GenotypeCall, states []int) []vcf.Variant {
	var variants []vcf.Variant
	gapCounter := 0
	for i := range ref {
		g := i + gapCounter
		state := states[g]

		if state == stateHomRef || state == stateInvalid || state == noData {
			if gappedRef[g] == sam.Gap {
				gapCounter++
			}
			continue
		}

		if gappedRef[g] == sam.Gap {
			variants = append(variants, insertionVariant(chrom, ref, gappedRef, calls, i, &gapCounter))
			continue
		}

		variants = append(variants, substitutionVariant(chrom, ref, calls[g], state, i))
	}
	return variants
}

// insertionVariant consumes the full gap run starting at i+*gapCounter
// and folds it into one insertion record.
func insertionVariant(chrom string, ref, gappedRef []byte, calls []GenotypeCall, i int, gapCounter *int) vcf.Variant {
	runStart := i + *gapCounter
	runLength := 0
	for i+*gapCounter < len(gappedRef) && gappedRef[i+*gapCounter] == sam.Gap {
		*gapCounter++
		runLength++
	}

	anchor := string(ref[maxInt(i-1, 0)])
	variant := vcf.Variant{Chrom: chrom, Pos: i, Ref: anchor}

	first := calls[runStart]
	a, b := first.Alleles[0], first.Alleles[1]
	switch {
	case a == b:
		variant.Alt = []string{anchor + string(a)}
	case a != sam.Gap && b != sam.Gap:
		// heterozygous insertion with two alternates
		variant.Alt = []string{anchor + string(a), anchor + string(b)}
	default:
		// inserted on one copy only
		kept := a
		if kept == sam.Gap {
			kept = b
		}
		variant.Alt = []string{anchor + string(kept)}
	}

	// extend the last alternate with the remaining columns of the run
	for k := 1; k < runLength; k++ {
		call := calls[runStart+k]
		if call.NoData {
			log.Panicf("insertion run at position %v contains an undecoded column", i)
		}
		variant.Alt[len(variant.Alt)-1] += string(call.Alleles[0])
	}
	return variant
}

// substitutionVariant classifies a non-insertion difference at ungapped
// position i into a deletion or SNP record.
func substitutionVariant(chrom string, ref []byte, call GenotypeCall, state, i int) vcf.Variant {
	a, b := call.Alleles[0], call.Alleles[1]
	refBase := ref[i]
	anchor := string(ref[maxInt(i-1, 0)])

	switch {
	case state == stateHomDeletion:
		return vcf.Variant{Chrom: chrom, Pos: i,
			Ref: anchor + string(refBase),
			Alt: []string{anchor},
		}
	case a == sam.Gap || b == sam.Gap:
		// deletion on one copy, base conserved or substituted on the other
		kept := a
		if kept == sam.Gap {
			kept = b
		}
		return vcf.Variant{Chrom: chrom, Pos: i,
			Ref: anchor + string(refBase),
			Alt: []string{anchor + string(kept), anchor},
		}
	case a == b:
		return vcf.Variant{Chrom: chrom, Pos: i, Ref: string(refBase), Alt: []string{string(a)}}
	case a == refBase || b == refBase:
		alt := a
		if alt == refBase {
			alt = b
		}
		return vcf.Variant{Chrom: chrom, Pos: i, Ref: string(refBase), Alt: []string{string(alt)}}
	case a != refBase && b != refBase:
		return vcf.Variant{Chrom: chrom, Pos: i, Ref: string(refBase), Alt: []string{string(a), string(b)}}
	}
	log.Panicf("genotype (%c,%c) at position %v matches no variant class", a, b, i)
	return vcf.Variant{}
}
