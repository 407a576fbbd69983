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

package cmd

import (
	"flag"
	"log"
	"os"

	"github.com/divar-bio/divar/caller"
	"github.com/divar-bio/divar/fasta"
	"github.com/divar-bio/divar/internal"
	"github.com/divar-bio/divar/sam"
	"github.com/divar-bio/divar/vcf"
)

// CallHelp is the help string for the call command.
const CallHelp = "\ncall parameters:\n" +
	"divar call\n" +
	"--reference file\n" +
	"--reads file\n" +
	"--output file\n" +
	"[--real-data]\n" +
	"[--heterozygosity rate]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

// Call parses the command line for calling variants against a
// reference and runs the pipeline.
func Call() error {
	var (
		reference      string
		reads          string
		output         string
		realData       bool
		heterozygosity float64
		timed          bool
		profile        string
		logPath        string
	)

	var flags flag.FlagSet

	flags.StringVar(&reference, "reference", "", "reference sequence (fasta format)")
	flags.StringVar(&reads, "reads", "", "aligned reads (sam or bam format)")
	flags.StringVar(&output, "output", "", "output file for called variants (vcf format)")
	flags.BoolVar(&realData, "real-data", false, "use class-transition probabilities estimated from real sequencing data")
	flags.Float64Var(&heterozygosity, "heterozygosity", -1, "heterozygosity rate in [0,1); defaults depend on --real-data")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&profile, "profile", "", "write a runtime profile to the specified file")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")

	parseFlags(flags, 2, CallHelp)

	setLogOutput(logPath)

	ok := checkExist("--reference", reference)
	ok = checkExist("--reads", reads) && ok
	if output == "" {
		log.Println("Error: Missing filename for command line parameter --output.")
		ok = false
	}
	if !ok {
		os.Exit(1)
	}

	classMatrix := caller.SimulatedClassMatrix
	hetRate := float64(caller.SimulatedHetRate)
	if realData {
		classMatrix = caller.RealClassMatrix
		hetRate = caller.RealHetRate
	}
	if heterozygosity >= 0 {
		hetRate = heterozygosity
	}

	// resolve the output before the run so the log names the real file
	fullOutput, err := internal.FullPathname(output)
	if err != nil {
		return err
	}

	c := caller.NewCaller(classMatrix, hetRate)

	timedRun(timed, profile, "Calling variants.", func() {
		contig, ref := fasta.ReadReference(reference)
		alns := sam.ReadAlignmentFile(reads)
		log.Println("Loaded", len(alns), "reads and contig", contig, "of length", len(ref))
		variants := c.CallVariants(alns, contig, ref)
		vcf.WriteFile(fullOutput, variants)
		log.Println("Wrote variants to", fullOutput)
	})

	return nil
}
