package matrix

// ColumnStrobe is the platform capability used to read one column.
//
// Assert drives exactly one column low, Settle waits for the row lines to
// stabilise, Sample returns the raw (active-low) row port and Release
// returns the column to a floating input.
type ColumnStrobe interface {
	Assert(col int)
	Settle()
	Sample() byte
	Release(col int)
}

// Raw row port layout: rows 0-1 at bits 0-1, rows 2-5 at bits 4-7.
const (
	rawLowRows  = 0b0000_0011
	rawHighRows = 0b1111_0000
)

// Compact packs an active-high raw row sample into a dense 6-bit mask.
func Compact(raw byte) byte {
	return raw&rawLowRows | (raw&rawHighRows)>>2
}

// Reader strobes the locally wired columns in a fixed order.
type Reader struct {
	strobe  ColumnStrobe
	columns []int
}

// NewReader returns a reader that strobes columns in the given order.
//
// The i-th entry of columns is the strobe line that fills local slot i.
// A nil slice selects lines 0..LocalColumns-1.
func NewReader(strobe ColumnStrobe, columns []int) *Reader {
	if columns == nil {
		columns = make([]int, LocalColumns)
		for i := range columns {
			columns[i] = i
		}
	}
	return &Reader{strobe: strobe, columns: columns}
}

// Scan reads every local column into dst, one column at a time.
//
// Slots of dst without a configured column are left untouched.
func (r *Reader) Scan(dst []byte) {
	if r == nil || r.strobe == nil {
		return
	}
	for i, col := range r.columns {
		if i >= len(dst) {
			return
		}
		r.strobe.Assert(col)
		r.strobe.Settle()
		dst[i] = Compact(^r.strobe.Sample())
		r.strobe.Release(col)
	}
}
