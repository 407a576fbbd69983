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

package sam

import (
	"sort"

	psort "github.com/exascience/pargo/sort"
)

// Gap is the placeholder base for deleted or padded positions.
const Gap = '-'

// NoQual marks quality slots that belong to gap positions.
// Real Phred scores are never negative.
const NoQual = -1.0

// A CigarOperation pairs an alignment operation kind with a length.
type CigarOperation struct {
	Length    int
	Operation byte
}

// A Read is one aligned segment of sequencing data.
//
// Start is a 0-based reference offset; after realignment it refers to
// the gapped coordinate system. Seq and Qual are index-aligned and stay
// the same length at every pipeline stage. Key uniquely identifies the
// read within one run, even when input read names collide.
type Read struct {
	Key   string
	Name  string
	Start int
	Seq   []byte
	Qual  []float64
	MapQ  int
	Cigar []CigarOperation
}

// End returns the first gapped coordinate not covered by the read.
func (r *Read) End() int {
	return r.Start + len(r.Seq)
}

// StartLess orders reads by start offset, breaking ties by key so
// that sorting is deterministic.
func StartLess(r1, r2 *Read) bool {
	if r1.Start != r2.Start {
		return r1.Start < r2.Start
	}
	return r1.Key < r2.Key
}

type (
	By func(r1, r2 *Read) bool

	ReadSorter struct {
		reads []*Read
		by    By
	}
)

func (s ReadSorter) SequentialSort(i, j int) {
	reads, by := s.reads[i:j], s.by
	sort.Slice(reads, func(i, j int) bool {
		return by(reads[i], reads[j])
	})
}

func (s ReadSorter) NewTemp() psort.StableSorter {
	return ReadSorter{make([]*Read, len(s.reads)), s.by}
}

func (s ReadSorter) Len() int {
	return len(s.reads)
}

func (s ReadSorter) Less(i, j int) bool {
	return s.by(s.reads[i], s.reads[j])
}

func (s ReadSorter) Assign(p psort.StableSorter) func(i, j, len int) {
	dst, src := s.reads, p.(ReadSorter).reads
	return func(i, j, len int) {
		for k := 0; k < len; k++ {
			dst[i+k] = src[j+k]
		}
	}
}

func (by By) ParallelStableSort(reads []*Read) {
	psort.StableSort(ReadSorter{reads, by})
}
