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

// Package caller implements variant calling on aligned short reads
// with a per-position 30-state diploid hidden Markov model.
//
// Reads and reference are first realigned into a shared gapped
// coordinate system, then per-column emission probabilities feed a
// segmented Viterbi decoding whose state path resolves into diploid
// genotypes and textual variant records.
package caller

import (
	"log"

	"github.com/divar-bio/divar/sam"
	"github.com/divar-bio/divar/vcf"
)

// A Caller holds the model configuration for one run.
type Caller struct {
	classMatrix ClassMatrix
	hetRate     float64
}

// NewCaller validates the configuration and returns a Caller.
func NewCaller(classMatrix ClassMatrix, hetRate float64) *Caller {
	validateConfig(classMatrix, hetRate)
	return &Caller{classMatrix: classMatrix, hetRate: hetRate}
}

// CallVariants runs the full pipeline on one contig: realignment,
// matrix construction, Viterbi decoding, genotype resolution, and
// variant formatting. The reads must be ordered by start offset; they
// are mutated during realignment. The input reference is left
// untouched.
func (c *Caller) CallVariants(reads []*sam.Read, contig string, ref []byte) []vcf.Variant {
	trans := newTransitionMatrix(c.classMatrix, c.hetRate)

	kept, gappedRef := realign(reads, ref)
	log.Println("Realigned", len(kept), "reads against contig", contig)

	em := buildEmissionMatrix(kept, gappedRef)
	states := decodeStates(em, trans)
	log.Println("Viterbi decoding done.")

	calls := resolveGenotypes(states, gappedRef)
	variants := formatVariants(contig, ref, gappedRef, calls, states)
	log.Println("Called", len(variants), "variants.")
	return variants
}
