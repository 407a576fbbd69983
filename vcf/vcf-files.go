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

package vcf

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/divar-bio/divar/internal"
)

// Write serializes variants in the minimal 5-column VCF shape.
func Write(w io.Writer, variants []Variant) {
	bw := bufio.NewWriter(w)
	mustWriteString(bw, FileFormatVersionLine)
	mustWriteString(bw, "\n#")
	mustWriteString(bw, strings.Join(DefaultHeaderColumns, "\t"))
	mustWriteString(bw, "\n")
	for _, variant := range variants {
		mustWriteString(bw, variant.Chrom)
		mustWriteString(bw, "\t")
		mustWriteString(bw, strconv.Itoa(variant.Pos))
		mustWriteString(bw, "\t.\t")
		mustWriteString(bw, variant.Ref)
		mustWriteString(bw, "\t")
		mustWriteString(bw, strings.Join(variant.Alt, ","))
		mustWriteString(bw, "\n")
	}
	if err := bw.Flush(); err != nil {
		log.Panic(err)
	}
}

// WriteFile serializes variants to the named VCF file.
func WriteFile(filename string, variants []Variant) {
	f := internal.FileCreate(filename)
	defer internal.Close(f)
	Write(f, variants)
}

func mustWriteString(w *bufio.Writer, s string) {
	if _, err := w.WriteString(s); err != nil {
		log.Panic(err)
	}
}
