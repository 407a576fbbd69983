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
	"io"
	"log"
	"strings"

	"github.com/biogo/hts/bam"
	htsam "github.com/biogo/hts/sam"
	"github.com/google/uuid"

	"github.com/divar-bio/divar/internal"
)

func convertCigar(cigar htsam.Cigar, name string) []CigarOperation {
	ops := make([]CigarOperation, 0, len(cigar))
	for _, co := range cigar {
		var op byte
		switch co.Type() {
		case htsam.CigarMatch, htsam.CigarEqual, htsam.CigarMismatch:
			op = 'M'
		case htsam.CigarInsertion:
			op = 'I'
		case htsam.CigarDeletion:
			op = 'D'
		case htsam.CigarSoftClipped:
			op = 'S'
		case htsam.CigarHardClipped:
			op = 'H'
		default:
			log.Panicf("unsupported CIGAR operation %v in read %v", co.Type(), name)
		}
		ops = append(ops, CigarOperation{Length: co.Len(), Operation: op})
	}
	return ops
}

func convertRecord(rec *htsam.Record, seenNames map[string]bool) *Read {
	seq := rec.Seq.Expand()
	qual := make([]float64, len(rec.Qual))
	if len(rec.Qual) != len(seq) {
		log.Panicf("read %v has %v bases but %v quality scores", rec.Name, len(seq), len(rec.Qual))
	}
	for i, q := range rec.Qual {
		qual[i] = float64(q)
	}
	key := rec.Name
	if seenNames[rec.Name] {
		// second alignment segment with the same name; see realign.go
		key = rec.Name + ":" + uuid.New().String()[:8]
	}
	seenNames[rec.Name] = true
	return &Read{
		Key:   key,
		Name:  rec.Name,
		Start: rec.Pos,
		Seq:   seq,
		Qual:  qual,
		MapQ:  int(rec.MapQ),
		Cigar: convertCigar(rec.Cigar, rec.Name),
	}
}

// ReadAlignmentFile loads all reads from a SAM or BAM file, ordered by
// start offset. Each read receives a run-unique key; reads that share a
// name with an earlier read get a synthetic suffix so that insertion
// events can be attributed unambiguously.
func ReadAlignmentFile(filename string) []*Read {
	f := internal.FileOpen(filename)
	defer internal.Close(f)

	var next func() (*htsam.Record, error)
	if strings.HasSuffix(filename, ".bam") {
		br, err := bam.NewReader(f, 0)
		if err != nil {
			log.Panic(err)
		}
		defer internal.Close(br)
		next = br.Read
	} else {
		sr, err := htsam.NewReader(f)
		if err != nil {
			log.Panic(err)
		}
		next = sr.Read
	}

	var reads []*Read
	seenNames := make(map[string]bool)
	for {
		rec, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Panic(err)
		}
		reads = append(reads, convertRecord(rec, seenNames))
	}
	By(StartLess).ParallelStableSort(reads)
	return reads
}
