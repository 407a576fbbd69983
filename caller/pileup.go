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
	"github.com/divar-bio/divar/sam"
)

// A pileupColumn holds the bases, base qualities, and mapping
// qualities of all reads overlapping one gapped coordinate.
type pileupColumn struct {
	bases []byte
	quals []float64
	mapqs []int
}

// pileupAt collects the pileup column at the given gapped coordinate.
// The reads must be ordered by start offset. The returned slices are
// fresh copies, so callers may modify them without affecting the reads.
func pileupAt(reads []*sam.Read, pos int) pileupColumn {
	var column pileupColumn
	for _, read := range reads {
		if read.Start > pos {
			// reads are sorted by start, no later read can cover pos
			break
		}
		if read.End() <= pos {
			continue
		}
		local := pos - read.Start
		column.bases = append(column.bases, read.Seq[local])
		column.quals = append(column.quals, read.Qual[local])
		column.mapqs = append(column.mapqs, read.MapQ)
	}
	return column
}
