package main

const usage = `pdfview is a PDF viewer rendering core.

Usage:

	pdfview <command> [arguments]

The commands are:

	open             lay out a document and report its page count/zoom
	prefs-dump       print the global preferences in a prefs blob
	prefs-roundtrip  parse a prefs blob and write it back out

Use "pdfview help <command>" for more information about a command.
`

const usageOpen = `usage: pdfview open [-w width] [-h height] file

Lays out file at the given viewport size and prints its page count and
the zoom the default FitPage mode resolves to.`

const usagePrefsDump = `usage: pdfview prefs-dump file

Parses the bencoded prefs blob at file and prints its global preferences.`

const usagePrefsRoundtrip = `usage: pdfview prefs-roundtrip [-out path] file

Parses the bencoded prefs blob at file and re-serializes it, either back
to file or to -out.`
