package displaymodel

import "github.com/go-pdfview/viewer/pkg/viewmode"

// presentationSaved holds the mode/zoom to restore on exiting
// presentation mode (original_source/src/DisplayModel.cc
// setPresentationMode: "_presDisplayMode"/"_presZoomVirtual").
type presentationSaved struct {
	mode        viewmode.DisplayMode
	zoomVirtual float64
}

// EnterPresentation saves the current mode/zoom, switches to single
// page + fit-page with zero-border padding, and relayouts (supplemented
// feature: dropped by the distilled spec, restored from
// original_source's setPresentationMode(true)).
func (dm *DisplayModel) EnterPresentation() {
	if dm.presentation {
		return
	}
	dm.presentationSave = presentationSaved{mode: dm.mode, zoomVirtual: dm.zoomVirtual}
	dm.presentation = true
	dm.padding = viewmode.PresentationPadding()
	dm.SetMode(viewmode.DisplayModeSinglePage)
	dm.ZoomTo(viewmode.ZoomFitPage)
}

// ExitPresentation restores the mode/zoom/padding saved by
// EnterPresentation (original_source's setPresentationMode(false)).
func (dm *DisplayModel) ExitPresentation() {
	if !dm.presentation {
		return
	}
	dm.presentation = false
	dm.padding = viewmode.DefaultPadding()
	dm.SetMode(dm.presentationSave.mode)
	dm.ZoomTo(dm.presentationSave.zoomVirtual)
}
