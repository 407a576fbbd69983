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
	"sort"

	"github.com/divar-bio/divar/sam"
)

/*
Realignment puts all reads and the reference into one gapped coordinate
system. Deletions become explicit gap runs inside the affected read;
insertions become gap runs inside the reference and inside every read
that does not itself carry the inserted bases. After realignment, every
coordinate identifies the same column in all sequences.
*/

// An insertionKey identifies an insertion by reference coordinate and
// length. Events with equal coordinate but different lengths stay
// distinct.
type insertionKey struct {
	Pos    int
	Length int
}

// An insertionEvent is a coalesced insertion with the keys of all reads
// that carry it.
type insertionEvent struct {
	insertionKey
	Contributors map[string]bool
}

// normalizeRead trims soft and hard clips, expands deletions into gap
// runs in the read's bases and qualities, and returns the insertion
// events the read generates, in original reference coordinates.
// Insertions are not materialized here.
func normalizeRead(read *sam.Read) (events []insertionKey) {
	pos := 0        // running offset within the clipped read
	insertions := 0 // insertion length consumed so far
	last := len(read.Cigar) - 1
	for i, op := range read.Cigar {
		switch op.Operation {
		case 'M':
			pos += op.Length
		case 'I':
			events = append(events, insertionKey{
				Pos:    read.Start + pos - insertions,
				Length: op.Length,
			})
			insertions += op.Length
			pos += op.Length
		case 'D':
			gapsBefore := countGaps(read.Seq[:pos])
			read.Seq = spliceGapBases(read.Seq, pos+gapsBefore, op.Length)
			read.Qual = spliceGapQuals(read.Qual, pos+gapsBefore, op.Length)
			pos += op.Length
		case 'S':
			if i != 0 && i != last {
				log.Panicf("soft clip in the middle of read %v", read.Key)
			}
			if i == 0 {
				read.Start += op.Length
				read.Seq = read.Seq[op.Length:]
				read.Qual = read.Qual[op.Length:]
			} else {
				read.Seq = read.Seq[:len(read.Seq)-op.Length]
				read.Qual = read.Qual[:len(read.Qual)-op.Length]
			}
		case 'H':
			if i != 0 && i != last {
				log.Panicf("hard clip in the middle of read %v", read.Key)
			}
			// bases are already absent from the stored sequence
		default:
			log.Panicf("invalid CIGAR operation %c in read %v", op.Operation, read.Key)
		}
	}
	return events
}

// normalizeReads normalizes all reads, dropping unmapped ones, and
// collects the insertion events attributed to each read key.
func normalizeReads(reads []*sam.Read) (kept []*sam.Read, events []insertionEvent) {
	contributors := make(map[insertionKey]map[string]bool)
	for _, read := range reads {
		if len(read.Cigar) == 0 {
			continue
		}
		for _, key := range normalizeRead(read) {
			set := contributors[key]
			if set == nil {
				set = make(map[string]bool)
				contributors[key] = set
			}
			set[read.Key] = true
		}
		kept = append(kept, read)
	}
	return kept, coalesceInsertions(contributors)
}

// coalesceInsertions orders the per-key contributor sets by
// (coordinate, length).
func coalesceInsertions(contributors map[insertionKey]map[string]bool) []insertionEvent {
	events := make([]insertionEvent, 0, len(contributors))
	for key, set := range contributors {
		events = append(events, insertionEvent{insertionKey: key, Contributors: set})
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Pos != events[j].Pos {
			return events[i].Pos < events[j].Pos
		}
		return events[i].Length < events[j].Length
	})
	return events
}

// applyInsertionShifts rewrites event coordinates into the gapped
// coordinate system: each event is shifted by the total length of all
// events before it. The result is ordered by effective coordinate and
// immutable from here on.
func applyInsertionShifts(events []insertionEvent) []insertionEvent {
	shifted := make([]insertionEvent, len(events))
	shift := 0
	for i, event := range events {
		shifted[i] = insertionEvent{
			insertionKey: insertionKey{Pos: event.Pos + shift, Length: event.Length},
			Contributors: event.Contributors,
		}
		shift += event.Length
	}
	return shifted
}

// shiftReadStarts moves each read's start offset past all insertion
// events that lie strictly before it. Events at or after the start are
// handled by padReads instead.
func shiftReadStarts(reads []*sam.Read, events []insertionEvent) {
	for _, read := range reads {
		for _, event := range events {
			if event.Pos < read.Start {
				read.Start += event.Length
			}
		}
	}
}

// padReads splices gap runs into every read that overlaps an insertion
// event it does not itself carry.
func padReads(reads []*sam.Read, events []insertionEvent) {
	for _, read := range reads {
		for _, event := range events {
			if event.Contributors[read.Key] {
				continue
			}
			if event.Pos < read.Start || event.Pos-read.Start > len(read.Seq) {
				continue
			}
			local := event.Pos - read.Start
			gapsBefore := countGaps(read.Seq[:local])
			read.Seq = spliceGapBases(read.Seq, local+gapsBefore, event.Length)
			read.Qual = spliceGapQuals(read.Qual, local+gapsBefore, event.Length)
		}
	}
}

// padReference splices a gap run into the reference at every insertion
// event. Events are in ascending effective coordinates, so later
// splices see already-shifted positions.
func padReference(ref []byte, events []insertionEvent) []byte {
	gapped := make([]byte, len(ref))
	copy(gapped, ref)
	for _, event := range events {
		gapped = spliceGapBases(gapped, minInt(event.Pos, len(gapped)), event.Length)
	}
	return gapped
}

// realign runs the full realignment pipeline and returns the surviving
// reads together with the gapped reference. The input reference is left
// untouched.
func realign(reads []*sam.Read, ref []byte) ([]*sam.Read, []byte) {
	kept, events := normalizeReads(reads)
	events = applyInsertionShifts(events)
	shiftReadStarts(kept, events)
	padReads(kept, events)
	// clip trimming advances start offsets, so the ingestion order no
	// longer holds; the pileup requires start-sorted reads
	sam.By(sam.StartLess).ParallelStableSort(kept)
	return kept, padReference(ref, events)
}
