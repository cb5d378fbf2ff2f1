package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/go-pdfview/viewer/pkg/engine"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/prefs"
	"github.com/go-pdfview/viewer/pkg/system"
)

var (
	viewportW, viewportH int
	prefsOut             string
)

func init() {
	flag.IntVar(&viewportW, "w", 800, "viewport width in pixels")
	flag.IntVar(&viewportH, "h", 600, "viewport height in pixels")
	flag.StringVar(&prefsOut, "out", "", "prefs-roundtrip: output file (default: overwrite input)")
}

// cmdOpen lays out a document (a synthetic stand-in, since this module
// carries no PDF parser of its own — see DESIGN.md) and reports its page
// count and the zoom the default FitPage mode resolves to.
func cmdOpen() {
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usageOpen)
		os.Exit(1)
	}

	pageCount, err := pageCountOf(args[0])
	if err != nil {
		fatal(err)
	}

	fake := engine.NewFake(pageCount, geom.Size{Dx: 612, Dy: 792})
	sys := system.New(system.DefaultConfiguration(), prefs.NewStore())
	defer sys.Shutdown()

	doc, dm := sys.OpenDocument(fake, geom.Size{Dx: float64(viewportW), Dy: float64(viewportH)})
	defer sys.CloseDocument(doc)

	fmt.Printf("%s: %d pages, zoomReal=%.1f%%, canvas=%.0fx%.0f\n",
		args[0], dm.PageCount(), dm.ZoomReal(), dm.CanvasSize().Dx, dm.CanvasSize().Dy)
}

// pageCountOf stat's path only to fail fast on a missing file; the page
// count itself is a placeholder until a real engine is wired in.
func pageCountOf(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, errors.Wrapf(err, "pdfview: open %s", path)
	}
	return 1, nil
}

// cmdPrefsDump loads a bencoded PrefsStore blob and prints its global
// preferences, one key per line.
func cmdPrefsDump() {
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usagePrefsDump)
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fatal(errors.Wrapf(err, "pdfview: read %s", args[0]))
	}

	store, err := prefs.LoadStrict(data)
	if err != nil {
		fatal(errors.Wrapf(err, "pdfview: parse %s", args[0]))
	}

	gp := store.Global()
	fmt.Printf("DisplayMode:         %s\n", gp.DisplayMode)
	fmt.Printf("ZoomVirtual:         %.2f\n", gp.ZoomVirtual)
	fmt.Printf("ShowToolbar:         %t\n", gp.ShowToolbar)
	fmt.Printf("ShowToc:             %t\n", gp.ShowToc)
	fmt.Printf("UILanguage:          %s\n", gp.UILanguage)
	fmt.Printf("RememberOpenedFiles: %t\n", gp.RememberOpenedFiles)
	fmt.Printf("InvertColors:        %t\n", gp.InvertColors)
	fmt.Printf("Renderer:            %s\n", gp.Renderer)
	fmt.Printf("History entries:     %d\n", len(store.History().Entries()))
}

// cmdPrefsRoundtrip parses a prefs blob and writes it straight back out,
// a quick way to confirm pkg/benc's encoder reproduces a readable document
// (byte-identical isn't promised; dict key order is, per spec.md §4.3).
func cmdPrefsRoundtrip() {
	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usagePrefsRoundtrip)
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fatal(errors.Wrapf(err, "pdfview: read %s", args[0]))
	}

	store, err := prefs.LoadStrict(data)
	if err != nil {
		fatal(errors.Wrapf(err, "pdfview: parse %s", args[0]))
	}

	out := prefsOut
	if out == "" {
		out = args[0]
	}
	if err := os.WriteFile(out, store.Marshal(), 0o644); err != nil {
		fatal(errors.Wrapf(err, "pdfview: write %s", out))
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(store.Marshal()))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}
