package matrix

const (
	// Columns is the number of column entries in a full snapshot.
	Columns = 14
	// RemoteColumns is the number of leading columns owned by the remote half.
	RemoteColumns = 7
	// LocalColumns is the number of trailing columns wired to this controller.
	LocalColumns = Columns - RemoteColumns

	// Rows is the number of logical rows packed into each column mask.
	Rows = 6
)

// Snapshot is the merged key state of both halves.
//
// Bit r of entry c is set when the key at (c, r) is pressed. Entries
// [0, RemoteColumns) belong to the remote half, the rest to the local half.
type Snapshot [Columns]byte

// Remote returns the remote-owned columns.
func (s *Snapshot) Remote() []byte { return s[:RemoteColumns] }

// Local returns the locally wired columns.
func (s *Snapshot) Local() []byte { return s[RemoteColumns:] }

// Pressed reports whether the key at (col, row) is down.
func (s *Snapshot) Pressed(col, row int) bool {
	if col < 0 || col >= Columns || row < 0 || row >= 8 {
		return false
	}
	return s[col]&(1<<uint(row)) != 0
}

// MergeRemote copies a successful remote poll into the remote-owned range.
//
// A failed poll leaves the previous remote state in place.
func (s *Snapshot) MergeRemote(ok bool, polled []byte) {
	if !ok {
		return
	}
	copy(s[:RemoteColumns], polled)
}
