package displaymodel

import "github.com/go-pdfview/viewer/pkg/engine"

// GetTocTree returns the document outline, unmodified from the engine.
func (dm *DisplayModel) GetTocTree() []engine.TOCNode {
	return dm.Engine.GetTocTree()
}

// ToggleTocCollapsed flips whether outline node index idx is collapsed
// in the TOC tree view (spec.md §4.3 ViewState's "TocToggles": the
// list of collapsed node indices persisted per file).
func (dm *DisplayModel) ToggleTocCollapsed(idx int) {
	if dm.tocToggles[idx] {
		delete(dm.tocToggles, idx)
	} else {
		dm.tocToggles[idx] = true
	}
}

// IsTocCollapsed reports whether node idx is currently collapsed.
func (dm *DisplayModel) IsTocCollapsed(idx int) bool {
	return dm.tocToggles[idx]
}

// CollapsedTocIndices returns every currently collapsed node index, in
// no particular order, for serialization into ViewState.TocToggles.
func (dm *DisplayModel) CollapsedTocIndices() []int {
	out := make([]int, 0, len(dm.tocToggles))
	for idx, collapsed := range dm.tocToggles {
		if collapsed {
			out = append(out, idx)
		}
	}
	return out
}

// SetCollapsedTocIndices replaces the collapsed-node set, used when
// restoring a persisted ViewState.
func (dm *DisplayModel) SetCollapsedTocIndices(indices []int) {
	dm.tocToggles = make(map[int]bool, len(indices))
	for _, idx := range indices {
		dm.tocToggles[idx] = true
	}
}
