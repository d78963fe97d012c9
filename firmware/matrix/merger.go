package matrix

// Merger assembles the remote poll result and the local scan into a snapshot.
type Merger struct {
	snap *Snapshot
}

// NewMerger returns a merger that writes into snap.
func NewMerger(snap *Snapshot) *Merger {
	return &Merger{snap: snap}
}

// Snapshot returns the shared snapshot.
func (m *Merger) Snapshot() *Snapshot { return m.snap }

// Merge writes both halves into their fixed slots.
//
// polled is only taken when ok is true; local always overwrites the local
// range.
func (m *Merger) Merge(polled []byte, ok bool, local []byte) *Snapshot {
	m.snap.MergeRemote(ok, polled)
	copy(m.snap.Local(), local)
	return m.snap
}
