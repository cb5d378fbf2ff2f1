package prefs

import (
	"github.com/pkg/errors"

	"github.com/go-pdfview/viewer/pkg/benc"
	"github.com/go-pdfview/viewer/pkg/log"
)

const fileHistoryKey = "File History"

// Store materializes/serializes the top-level "gp" + "File History"
// bencoded document (spec.md §4.3). It is owned by the UI thread; the
// render worker only ever observes a Snapshot (spec.md §5).
type Store struct {
	global  GlobalPrefs
	history *History

	observers []func(GlobalPrefs)
}

// NewStore returns a Store seeded with defaults and an empty history,
// the state the core starts with when no preferences file exists or
// fails to parse (spec.md §7).
func NewStore() *Store {
	return &Store{global: Default(), history: NewHistory()}
}

// Global returns the current global preferences.
func (s *Store) Global() GlobalPrefs {
	return s.global
}

// History returns the file history.
func (s *Store) History() *History {
	return s.history
}

// Publish replaces the global preferences and notifies observers (the
// render worker's atomic snapshot of InvertColors/Renderer, spec.md §5).
func (s *Store) Publish(gp GlobalPrefs) {
	s.global = gp
	for _, obs := range s.observers {
		obs(gp)
	}
}

// Subscribe registers fn to be called on every future Publish.
func (s *Store) Subscribe(fn func(GlobalPrefs)) {
	s.observers = append(s.observers, fn)
}

// Snapshot is the read-only view the render worker polls instead of
// touching the Store directly (spec.md §5: "the worker observes specific
// fields ... through atomics or owner-granted snapshots").
type Snapshot struct {
	InvertColors bool
	Renderer     string
}

// TakeSnapshot returns the fields the worker is allowed to see.
func (s *Store) TakeSnapshot() Snapshot {
	return Snapshot{InvertColors: s.global.InvertColors, Renderer: s.global.Renderer}
}

// Marshal serializes the store's current state, capping the persisted
// history at maxRecentFiles entries when GlobalPrefsOnly is set (0 == no cap).
func (s *Store) Marshal() []byte {
	cap := 0
	if s.global.GlobalPrefsOnly {
		cap = maxRecentFiles
	}
	entries := s.history.Entries()
	if cap > 0 && len(entries) > cap {
		entries = entries[:cap]
	}

	root := benc.NewDict()
	root.Set(globalPrefsKey, benc.DictOf(s.global.toDict()))

	list := make([]benc.Value, len(entries))
	for i, vs := range entries {
		list[i] = benc.DictOf(vs.toDict())
	}
	root.Set(fileHistoryKey, benc.ListOf(list...))

	return benc.Encode(benc.DictOf(root))
}

// maxRecentFiles is the default cap applied when GlobalPrefsOnly trims the
// persisted (not in-memory) history.
const maxRecentFiles = 10

// Load parses a bencoded preferences blob into a fresh Store. A malformed
// or empty blob yields defaults plus an empty history rather than an error
// (spec.md §7: "Preferences load errors cause the core to start with
// defaults and an empty history").
func Load(data []byte) *Store {
	s := NewStore()
	if len(data) == 0 {
		return s
	}
	v, err := benc.Decode(data)
	if err != nil {
		log.Info.Printf("prefs: falling back to defaults: %v", err)
		return s
	}
	if v.Kind != benc.KindDict {
		return s
	}

	if gpDict, ok := v.Dict.GetDict(globalPrefsKey); ok {
		s.global = globalPrefsFromDict(gpDict)
	}
	if list, ok := v.Dict.GetList(fileHistoryKey); ok {
		for _, item := range list {
			if item.Kind != benc.KindDict {
				continue
			}
			s.history.entries = append(s.history.entries, viewStateFromDict(item.Dict))
		}
	}
	return s
}

// LoadStrict is like Load but surfaces a decode error instead of silently
// degrading, for callers (tests, `pdfview prefs-roundtrip`) that want to
// distinguish "file absent" from "file corrupt".
func LoadStrict(data []byte) (*Store, error) {
	v, err := benc.Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "prefs: decode")
	}
	if v.Kind != benc.KindDict {
		return nil, errors.New("prefs: top-level value is not a dict")
	}
	s := NewStore()
	if gpDict, ok := v.Dict.GetDict(globalPrefsKey); ok {
		s.global = globalPrefsFromDict(gpDict)
	}
	if list, ok := v.Dict.GetList(fileHistoryKey); ok {
		for _, item := range list {
			if item.Kind != benc.KindDict {
				return nil, errors.New("prefs: file history entry is not a dict")
			}
			s.history.entries = append(s.history.entries, viewStateFromDict(item.Dict))
		}
	}
	return s, nil
}
