// Package prefs materializes and serializes the global and per-file view
// state that PrefsStore persists across sessions, using pkg/benc as the
// wire format.
package prefs

import (
	"image/color"

	"golang.org/x/text/language"

	"github.com/go-pdfview/viewer/pkg/benc"
	"github.com/go-pdfview/viewer/pkg/geom"
	"github.com/go-pdfview/viewer/pkg/painter"
	"github.com/go-pdfview/viewer/pkg/viewmode"
)

// WindowState mirrors the four persisted window states (spec.md §6).
type WindowState = viewmode.WindowState

// The four persisted window states, re-exported for convenience.
const (
	WindowStateNormal     = viewmode.WindowStateNormal
	WindowStateMaximized  = viewmode.WindowStateMaximized
	WindowStateFullscreen = viewmode.WindowStateFullscreen
	WindowStateMinimized  = viewmode.WindowStateMinimized
)

// ForwardSearchStyle bundles the ForwardSearch_* global prefs keys used by
// the painter's forward-search highlight overlay.
type ForwardSearchStyle struct {
	HighlightOffset    int64
	HighlightColor     int64
	HighlightWidth     int64
	HighlightPermanent bool
}

// forwardSearchBlendAlpha is the constant alpha SumatraPDF's
// PaintTransparentRectangle hard-codes for every translucent overlay it
// draws, forward-search mark included.
const forwardSearchBlendAlpha = 0x5f

// Overlay converts the highlight style into the translucent rectangle
// the painter draws over rect, the forward-search mark named in spec.md
// §4.7 step 4. HighlightColor is an 0xRRGGBB-packed value, the same
// encoding BgColor and the other color prefs use.
func (s ForwardSearchStyle) Overlay(rect geom.Rectangle) painter.Overlay {
	c := uint32(s.HighlightColor)
	return painter.Overlay{
		Rect: rect,
		Color: color.RGBA{
			R: uint8(c >> 16),
			G: uint8(c >> 8),
			B: uint8(c),
			A: forwardSearchBlendAlpha,
		},
	}
}

// GlobalPrefs is the bag of process-wide options enumerated in spec.md §6.
// It is immutable from the worker's point of view: the UI thread owns all
// writes and publishes new snapshots through Store.Publish.
type GlobalPrefs struct {
	ShowToolbar                 bool
	ShowToc                     bool
	TocDX                       int64
	PdfAssociateDontAskAgain    bool
	PdfAssociateShouldAssociate bool
	BgColor                     int64
	EscToExit                   bool
	EnableAutoUpdate            bool
	RememberOpenedFiles         bool
	GlobalPrefsOnly             bool
	DisplayMode                 string
	ZoomVirtual                 float64
	WindowState                 WindowState
	WindowX, WindowY            int64
	WindowDX, WindowDY          int64
	InverseSearchCommandLine    string
	VersionToSkip               string
	LastUpdate                  string
	UILanguage                  string
	ForwardSearch               ForwardSearchStyle

	// InvertColors and Renderer are consulted by the render worker
	// through atomic snapshots (spec.md §5), not through this struct
	// directly; see Store.TakeSnapshot.
	InvertColors bool
	Renderer     string
}

// Default returns the baked-in defaults, the same fallback the core starts
// with when no preferences file exists or fails to parse (spec.md §7).
func Default() GlobalPrefs {
	return GlobalPrefs{
		ShowToolbar:         true,
		ShowToc:             false,
		TocDX:               0,
		RememberOpenedFiles: true,
		DisplayMode:         viewmode.DisplayModeAutomaticStr,
		ZoomVirtual:         float64(viewmode.ZoomFitPage),
		WindowState:         WindowStateNormal,
		WindowDX:            900,
		WindowDY:            700,
		UILanguage:          "en",
		ForwardSearch: ForwardSearchStyle{
			HighlightOffset: 0,
			HighlightColor:  0x6581FF,
			HighlightWidth:  15,
		},
		Renderer: "default",
	}
}

// CanonicalUILanguage validates and canonicalizes the UILanguage tag using
// BCP 47 rules, falling back to "en" for anything unparsable rather than
// persisting garbage into the prefs file.
func CanonicalUILanguage(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return "en"
	}
	return t.String()
}

const globalPrefsKey = "gp"

// toDict renders gp into the "gp" sub-dictionary of the prefs file.
func (gp GlobalPrefs) toDict() *benc.Dict {
	d := benc.NewDict()
	d.Set("ShowToolbar", boolValue(gp.ShowToolbar))
	d.Set("ShowToc", boolValue(gp.ShowToc))
	d.Set("Toc DX", benc.Int64(gp.TocDX))
	d.Set("PdfAssociateDontAskAgain", boolValue(gp.PdfAssociateDontAskAgain))
	d.Set("PdfAssociateShouldAssociate", boolValue(gp.PdfAssociateShouldAssociate))
	d.Set("BgColor", benc.Int64(gp.BgColor))
	d.Set("EscToExit", boolValue(gp.EscToExit))
	d.Set("EnableAutoUpdate", boolValue(gp.EnableAutoUpdate))
	d.Set("RememberOpenedFiles", boolValue(gp.RememberOpenedFiles))
	d.Set("GlobalPrefsOnly", boolValue(gp.GlobalPrefsOnly))
	d.Set("Display Mode", benc.String(gp.DisplayMode))
	d.Set("ZoomVirtual", benc.String(formatZoom(gp.ZoomVirtual)))
	d.Set("Window State", benc.Int64(int64(gp.WindowState)))
	d.Set("Window X", benc.Int64(gp.WindowX))
	d.Set("Window Y", benc.Int64(gp.WindowY))
	d.Set("Window DX", benc.Int64(gp.WindowDX))
	d.Set("Window DY", benc.Int64(gp.WindowDY))
	d.Set("InverseSearchCommandLine", benc.String(gp.InverseSearchCommandLine))
	d.Set("VersionToSkip", benc.String(gp.VersionToSkip))
	d.Set("LastUpdate", benc.String(gp.LastUpdate))
	d.Set("UILanguage", benc.String(gp.UILanguage))
	d.Set("ForwardSearch_HighlightOffset", benc.Int64(gp.ForwardSearch.HighlightOffset))
	d.Set("ForwardSearch_HighlightColor", benc.Int64(gp.ForwardSearch.HighlightColor))
	d.Set("ForwardSearch_HighlightWidth", benc.Int64(gp.ForwardSearch.HighlightWidth))
	d.Set("ForwardSearch_HighlightPermanent", boolValue(gp.ForwardSearch.HighlightPermanent))
	return d
}

func globalPrefsFromDict(d *benc.Dict) GlobalPrefs {
	gp := Default()
	if v, ok := d.GetBool("ShowToolbar"); ok {
		gp.ShowToolbar = v
	}
	if v, ok := d.GetBool("ShowToc"); ok {
		gp.ShowToc = v
	}
	if v, ok := d.GetInt("Toc DX"); ok {
		gp.TocDX = v
	}
	if v, ok := d.GetBool("PdfAssociateDontAskAgain"); ok {
		gp.PdfAssociateDontAskAgain = v
	}
	if v, ok := d.GetBool("PdfAssociateShouldAssociate"); ok {
		gp.PdfAssociateShouldAssociate = v
	}
	if v, ok := d.GetInt("BgColor"); ok {
		gp.BgColor = v
	}
	if v, ok := d.GetBool("EscToExit"); ok {
		gp.EscToExit = v
	}
	if v, ok := d.GetBool("EnableAutoUpdate"); ok {
		gp.EnableAutoUpdate = v
	}
	if v, ok := d.GetBool("RememberOpenedFiles"); ok {
		gp.RememberOpenedFiles = v
	}
	if v, ok := d.GetBool("GlobalPrefsOnly"); ok {
		gp.GlobalPrefsOnly = v
	}
	if v, ok := d.GetStr("Display Mode"); ok {
		gp.DisplayMode = v
	}
	if v, ok := d.GetFloatFromStr("ZoomVirtual"); ok {
		gp.ZoomVirtual = v
	}
	if v, ok := d.GetInt("Window State"); ok {
		gp.WindowState = WindowState(v)
	}
	if v, ok := d.GetInt("Window X"); ok {
		gp.WindowX = v
	}
	if v, ok := d.GetInt("Window Y"); ok {
		gp.WindowY = v
	}
	if v, ok := d.GetInt("Window DX"); ok {
		gp.WindowDX = v
	}
	if v, ok := d.GetInt("Window DY"); ok {
		gp.WindowDY = v
	}
	if v, ok := d.GetStr("InverseSearchCommandLine"); ok {
		gp.InverseSearchCommandLine = v
	}
	if v, ok := d.GetStr("VersionToSkip"); ok {
		gp.VersionToSkip = v
	}
	if v, ok := d.GetStr("LastUpdate"); ok {
		gp.LastUpdate = v
	}
	if v, ok := d.GetStr("UILanguage"); ok {
		gp.UILanguage = CanonicalUILanguage(v)
	}
	if v, ok := d.GetInt("ForwardSearch_HighlightOffset"); ok {
		gp.ForwardSearch.HighlightOffset = v
	}
	if v, ok := d.GetInt("ForwardSearch_HighlightColor"); ok {
		gp.ForwardSearch.HighlightColor = v
	}
	if v, ok := d.GetInt("ForwardSearch_HighlightWidth"); ok {
		gp.ForwardSearch.HighlightWidth = v
	}
	if v, ok := d.GetBool("ForwardSearch_HighlightPermanent"); ok {
		gp.ForwardSearch.HighlightPermanent = v
	}
	return gp
}

func boolValue(b bool) benc.Value {
	if b {
		return benc.Int64(1)
	}
	return benc.Int64(0)
}
