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
	"math"
)

// A ClassMatrix holds the transition probabilities between the four
// mutation classes match, SNP, deletion, and insertion. Each row must
// sum to 1.
type ClassMatrix [4][4]float64

// Class row/column indices of a ClassMatrix.
const (
	classMatch = iota
	classSNP
	classDeletion
	classInsertion
)

// SimulatedClassMatrix and SimulatedHetRate are suitable defaults for
// simulated sequencing data.
var SimulatedClassMatrix = ClassMatrix{
	{0.988, 0.008, 0.002, 0.002},
	{0.53, 0.45, 0.01, 0.01},
	{0.70, 0.15, 0.15, 0.0},
	{0.70, 0.15, 0.0, 0.15},
}

// RealClassMatrix and RealHetRate are defaults estimated from real
// sequencing data.
var RealClassMatrix = ClassMatrix{
	{0.9838043, 0.01474720, 0.0006085089, 0.0008400445},
	{0.9499207, 0.04640025, 0.0014855172, 0.0021934910},
	{0.2879631, 0.01089283, 0.6994015911, 0.0017424552},
	{0.4163771, 0.01984721, 0.0040161923, 0.5597594535},
}

// Heterozygosity rate defaults matching the class matrices above.
const (
	SimulatedHetRate = 0.01
	RealHetRate      = 0.001
)

const classRowTolerance = 1e-6

func validateConfig(classMatrix ClassMatrix, hetRate float64) {
	if hetRate < 0 || hetRate >= 1 {
		log.Panicf("heterozygosity rate %v outside [0,1)", hetRate)
	}
	for i, row := range classMatrix {
		sum := 0.0
		for _, p := range row {
			if p < 0 {
				log.Panicf("negative probability %v in class matrix row %v", p, i)
			}
			sum += p
		}
		if math.Abs(sum-1) > classRowTolerance {
			log.Panicf("class matrix row %v sums to %v instead of 1", i, sum)
		}
	}
}
