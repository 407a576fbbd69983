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

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func countGaps(seq []byte) (gaps int) {
	for _, b := range seq {
		if b == sam.Gap {
			gaps++
		}
	}
	return
}

// spliceGapBases inserts n gap characters at the given index.
func spliceGapBases(seq []byte, at, n int) []byte {
	result := make([]byte, 0, len(seq)+n)
	result = append(result, seq[:at]...)
	for i := 0; i < n; i++ {
		result = append(result, sam.Gap)
	}
	return append(result, seq[at:]...)
}

// spliceGapQuals inserts n NoQual placeholders at the given index.
func spliceGapQuals(quals []float64, at, n int) []float64 {
	result := make([]float64, 0, len(quals)+n)
	result = append(result, quals[:at]...)
	for i := 0; i < n; i++ {
		result = append(result, sam.NoQual)
	}
	return append(result, quals[at:]...)
}
