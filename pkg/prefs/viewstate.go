package prefs

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"github.com/go-pdfview/viewer/pkg/benc"
	"github.com/go-pdfview/viewer/pkg/viewmode"
)

// ErrNoDecryptionKey is the error for an encrypted document opened
// without a password. No function in this package returns it;
// DeriveDecryptionKey returns only the derived key string.
var ErrNoDecryptionKey = errors.New("prefs: no password supplied for encrypted document")

const (
	pbkdf2Iterations = 4096
	pbkdf2KeyLength  = 32
)

// DeriveDecryptionKey derives the hex-encoded key persisted in a
// ViewState's "Decryption Key" field from a user-supplied password and the
// document's own salt (e.g. its file ID, as pdfcpu's own key derivation
// mixes document-specific bytes into the key). The derivation itself is
// intentionally not the PDF standard security handler's algorithm
// (crypto/md5 + RC4/AES, out of scope: that belongs to EngineIface) — it
// only has to be stable and salted so the same password against the same
// document reproduces the same stored key.
func DeriveDecryptionKey(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// ScrollState is the canonical (page, x, y) serialization for navigation
// history and for "Scroll X2"/"Scroll Y2" in a persisted ViewState.
// x == -1 / y == -1 are sentinels meaning "show the margin if one was
// previously visible" (spec.md §4.1).
type ScrollState struct {
	Page int
	X, Y float64
}

// TocToggle identifies a collapsed TOC node by its flattened tree index.
type TocToggle int

// ViewState is the per-document, persisted slice of spec.md's ViewState
// (§3): everything PrefsStore round-trips for one file.
type ViewState struct {
	File           string
	DecryptionKey  string
	DisplayMode    string
	Page           int
	Rotation       int
	Scroll         ScrollState
	WindowState    WindowState
	WindowX, WindowY           int64
	WindowDX, WindowDY         int64
	ShowToc        bool
	TocDX          int64
	ZoomVirtual    float64
	UseGlobalValues bool
	TocToggles     []TocToggle
}

// Resolve returns the effective display mode and zoom for this view state:
// its own values, unless UseGlobalValues defers to global.
func (vs ViewState) Resolve(global GlobalPrefs) (displayMode string, zoomVirtual float64) {
	if vs.UseGlobalValues {
		return global.DisplayMode, global.ZoomVirtual
	}
	return vs.DisplayMode, vs.ZoomVirtual
}

func (vs ViewState) toDict() *benc.Dict {
	d := benc.NewDict()
	d.Set("File", benc.String(vs.File))
	if vs.DecryptionKey != "" {
		d.Set("Decryption Key", benc.String(vs.DecryptionKey))
	}
	d.Set("Display Mode", benc.String(vs.DisplayMode))
	d.Set("Page", benc.Int64(int64(vs.Page)))
	d.Set("Rotation", benc.Int64(int64(vs.Rotation)))
	d.Set("Scroll X2", benc.String(formatZoom(vs.Scroll.X)))
	d.Set("Scroll Y2", benc.String(formatZoom(vs.Scroll.Y)))
	d.Set("Window State", benc.Int64(int64(vs.WindowState)))
	d.Set("Window X", benc.Int64(vs.WindowX))
	d.Set("Window Y", benc.Int64(vs.WindowY))
	d.Set("Window DX", benc.Int64(vs.WindowDX))
	d.Set("Window DY", benc.Int64(vs.WindowDY))
	d.Set("ShowToc", boolValue(vs.ShowToc))
	d.Set("Toc DX", benc.Int64(vs.TocDX))
	d.Set("ZoomVirtual", benc.String(formatZoom(vs.ZoomVirtual)))
	d.Set("UseGlobalValues", boolValue(vs.UseGlobalValues))
	toggles := make([]benc.Value, len(vs.TocToggles))
	for i, t := range vs.TocToggles {
		toggles[i] = benc.Int64(int64(t))
	}
	d.Set("TocToggles", benc.ListOf(toggles...))
	return d
}

func viewStateFromDict(d *benc.Dict) ViewState {
	var vs ViewState
	vs.File, _ = d.GetStr("File")
	vs.DecryptionKey, _ = d.GetStr("Decryption Key")
	vs.DisplayMode, _ = d.GetStr("Display Mode")
	if v, ok := d.GetInt("Page"); ok {
		vs.Page = int(v)
	}
	if v, ok := d.GetInt("Rotation"); ok {
		vs.Rotation = int(v)
	}
	if v, ok := d.GetFloatFromStr("Scroll X2"); ok {
		vs.Scroll.X = v
	} else {
		vs.Scroll.X = -1
	}
	if v, ok := d.GetFloatFromStr("Scroll Y2"); ok {
		vs.Scroll.Y = v
	} else {
		vs.Scroll.Y = -1
	}
	if v, ok := d.GetInt("Window State"); ok {
		vs.WindowState = WindowState(v)
	} else {
		vs.WindowState = viewmode.WindowStateNormal
	}
	if v, ok := d.GetInt("Window X"); ok {
		vs.WindowX = v
	}
	if v, ok := d.GetInt("Window Y"); ok {
		vs.WindowY = v
	}
	if v, ok := d.GetInt("Window DX"); ok {
		vs.WindowDX = v
	}
	if v, ok := d.GetInt("Window DY"); ok {
		vs.WindowDY = v
	}
	if v, ok := d.GetBool("ShowToc"); ok {
		vs.ShowToc = v
	}
	if v, ok := d.GetInt("Toc DX"); ok {
		vs.TocDX = v
	}
	if v, ok := d.GetFloatFromStr("ZoomVirtual"); ok {
		vs.ZoomVirtual = v
	} else {
		vs.ZoomVirtual = viewmode.ZoomFitPage
	}
	if v, ok := d.GetBool("UseGlobalValues"); ok {
		vs.UseGlobalValues = v
	}
	if list, ok := d.GetList("TocToggles"); ok {
		vs.TocToggles = make([]TocToggle, 0, len(list))
		for _, item := range list {
			if item.Kind == benc.KindInt {
				vs.TocToggles = append(vs.TocToggles, TocToggle(item.Int))
			}
		}
	}
	return vs
}
