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
	"os"
	"path/filepath"
	"strings"
	"testing"

	htsam "github.com/biogo/hts/sam"
)

const testSamFile = "@HD\tVN:1.6\tSO:coordinate\n" +
	"@SQ\tSN:1\tLN:100\n" +
	"r1\t0\t1\t1\t60\t4M\t*\t0\t0\tACGT\tIIII\n" +
	"r2\t0\t1\t3\t50\t2M2I2M\t*\t0\t0\tGTTTAC\tIIIIII\n" +
	"r1\t0\t1\t5\t60\t4M\t*\t0\t0\tACGT\tIIII\n"

func TestConvertCigar(t *testing.T) {
	cigar := htsam.Cigar{
		htsam.NewCigarOp(htsam.CigarSoftClipped, 3),
		htsam.NewCigarOp(htsam.CigarMatch, 5),
		htsam.NewCigarOp(htsam.CigarEqual, 2),
		htsam.NewCigarOp(htsam.CigarMismatch, 1),
		htsam.NewCigarOp(htsam.CigarInsertion, 2),
		htsam.NewCigarOp(htsam.CigarDeletion, 4),
		htsam.NewCigarOp(htsam.CigarHardClipped, 6),
	}
	ops := convertCigar(cigar, "r1")
	want := []CigarOperation{
		{3, 'S'}, {5, 'M'}, {2, 'M'}, {1, 'M'}, {2, 'I'}, {4, 'D'}, {6, 'H'},
	}
	if len(ops) != len(want) {
		t.Fatal("wrong number of operations", ops)
	}
	for i, op := range ops {
		if op != want[i] {
			t.Errorf("operation %v is %v, want %v", i, op, want[i])
		}
	}
}

func TestReadAlignmentFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.sam")
	if err := os.WriteFile(filename, []byte(testSamFile), 0644); err != nil {
		t.Fatal(err)
	}
	reads := ReadAlignmentFile(filename)
	if len(reads) != 3 {
		t.Fatal("wrong number of reads", len(reads))
	}
	// alignment offsets are 0-based in memory, ordered by start
	if reads[0].Start != 0 || reads[1].Start != 2 || reads[2].Start != 4 {
		t.Error("reads not ordered by start offset:",
			reads[0].Start, reads[1].Start, reads[2].Start)
	}
	if string(reads[1].Seq) != "GTTTAC" || reads[1].MapQ != 50 {
		t.Error("read fields not converted", reads[1])
	}
	if reads[0].Qual[0] != 40 {
		t.Error("quality scores not converted", reads[0].Qual)
	}
	if len(reads[1].Cigar) != 3 || reads[1].Cigar[1] != (CigarOperation{2, 'I'}) {
		t.Error("cigar not converted", reads[1].Cigar)
	}
}

func TestReadAlignmentFileRenamesDuplicates(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.sam")
	if err := os.WriteFile(filename, []byte(testSamFile), 0644); err != nil {
		t.Fatal(err)
	}
	reads := ReadAlignmentFile(filename)
	keys := make(map[string]bool)
	for _, read := range reads {
		if keys[read.Key] {
			t.Fatal("duplicate read key", read.Key)
		}
		keys[read.Key] = true
	}
	// the second segment named r1 keeps its name but gets a fresh key
	if reads[2].Name != "r1" || !strings.HasPrefix(reads[2].Key, "r1:") {
		t.Error("colliding read not renamed:", reads[2].Name, reads[2].Key)
	}
}
