// Package main provides the command line for exercising the pdfview
// rendering core standalone, mirroring pdfcpu's flag-based (not cobra)
// command dispatch: a verb looked up (with prefix completion) in a
// commandMap, flags parsed after it, then its handler run.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-pdfview/viewer/pkg/log"
)

var verbose, veryVerbose bool

func init() {
	flag.BoolVar(&verbose, "verbose", false, "")
	flag.BoolVar(&verbose, "v", false, "")
	flag.BoolVar(&veryVerbose, "vv", false, "")
}

func registry() commandMap {
	m := newCommandMap()
	m.register("open", command{handler: cmdOpen, usageShort: "lay out a document", usageLong: usageOpen})
	m.register("prefs-dump", command{handler: cmdPrefsDump, usageShort: "print a prefs blob's globals", usageLong: usagePrefsDump})
	m.register("prefs-roundtrip", command{handler: cmdPrefsRoundtrip, usageShort: "re-serialize a prefs blob", usageLong: usagePrefsRoundtrip})
	return m
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	verb := os.Args[1]

	if verb == "help" {
		m := registry()
		switch len(os.Args) {
		case 2:
			fmt.Fprintln(os.Stderr, usage)
		case 3:
			fmt.Fprintln(os.Stderr, m.helpString(os.Args[2]))
		default:
			fmt.Fprintln(os.Stderr, "usage: pdfview help <command>")
		}
		return
	}

	setupLogging(verbose, veryVerbose)

	if err := registry().process(verb); err != nil {
		fmt.Fprintf(os.Stderr, "pdfview: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'pdfview help' for usage.")
		os.Exit(1)
	}
}

func setupLogging(verbose, veryVerbose bool) {
	if verbose || veryVerbose {
		log.SetDefaultDebugLogger()
		log.SetDefaultInfoLogger()
		log.SetDefaultStatsLogger()
	}
	if veryVerbose {
		log.SetDefaultTraceLogger()
	}
}
