package matrix

import (
	"fmt"
	"strings"
	"testing"
)

type scriptedStrobe struct {
	raw    map[int]byte
	active int
	calls  []string
}

func newScriptedStrobe(raw map[int]byte) *scriptedStrobe {
	return &scriptedStrobe{raw: raw, active: -1}
}

func (s *scriptedStrobe) Assert(col int) {
	s.active = col
	s.calls = append(s.calls, fmt.Sprintf("assert %d", col))
}

func (s *scriptedStrobe) Settle() { s.calls = append(s.calls, "settle") }

func (s *scriptedStrobe) Sample() byte {
	s.calls = append(s.calls, "sample")
	if v, ok := s.raw[s.active]; ok {
		return v
	}
	return 0xFF
}

func (s *scriptedStrobe) Release(col int) {
	if col != s.active {
		panic("release of a column that is not asserted")
	}
	s.active = -1
	s.calls = append(s.calls, fmt.Sprintf("release %d", col))
}

func TestCompact(t *testing.T) {
	cases := []struct {
		raw  byte
		want byte
	}{
		{0b1111_0011, 0b0011_1111},
		{0b0000_0000, 0b0000_0000},
		{0b0011_0000, 0b0000_1100},
		{0b0000_1100, 0b0000_0000},
		{0b1000_0001, 0b0010_0001},
	}
	for _, c := range cases {
		if got := Compact(c.raw); got != c.want {
			t.Fatalf("Compact(%08b) = %08b, want %08b", c.raw, got, c.want)
		}
	}
}

func TestReaderScanOrder(t *testing.T) {
	s := newScriptedStrobe(nil)
	r := NewReader(s, []int{3, 1})

	var dst [2]byte
	r.Scan(dst[:])

	want := "assert 3,settle,sample,release 3,assert 1,settle,sample,release 1"
	if got := strings.Join(s.calls, ","); got != want {
		t.Fatalf("calls:\n got %s\nwant %s", got, want)
	}
}

func TestReaderScanInvertsAndPacks(t *testing.T) {
	// Active low: a cleared raw bit is a pressed key.
	s := newScriptedStrobe(map[int]byte{
		0: 0b0000_1100, // everything pressed
		2: 0b1110_1111, // row 2 (raw bit 4)
		6: 0b1111_1110, // row 0
	})
	r := NewReader(s, nil)

	var dst [LocalColumns]byte
	for i := range dst {
		dst[i] = 0xAA
	}
	r.Scan(dst[:])

	want := [LocalColumns]byte{0b0011_1111, 0, 0b0000_0100, 0, 0, 0, 0b0000_0001}
	if dst != want {
		t.Fatalf("got %08b, want %08b", dst, want)
	}
}

func TestReaderScanIsIdempotent(t *testing.T) {
	s := newScriptedStrobe(map[int]byte{1: 0b0101_0110, 4: 0b1001_0001})
	r := NewReader(s, nil)

	var a, b [LocalColumns]byte
	r.Scan(a[:])
	r.Scan(b[:])
	if a != b {
		t.Fatalf("first %08b, second %08b", a, b)
	}
}

func TestReaderUnwiredColumnReadsReleased(t *testing.T) {
	s := newScriptedStrobe(nil)
	r := NewReader(s, nil)

	var dst [LocalColumns]byte
	r.Scan(dst[:])
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("column %d: expected nothing pressed, got %08b", i, v)
		}
	}
}

func TestMergerKeepsRemoteOnFailedPoll(t *testing.T) {
	var snap Snapshot
	m := NewMerger(&snap)

	first := []byte{1, 2, 3, 4, 5, 6, 7}
	local := []byte{10, 11, 12, 13, 14, 15, 16}
	m.Merge(first, true, local)

	garbage := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	local2 := []byte{20, 21, 22, 23, 24, 25, 26}
	got := m.Merge(garbage, false, local2)

	want := Snapshot{1, 2, 3, 4, 5, 6, 7, 20, 21, 22, 23, 24, 25, 26}
	if *got != want {
		t.Fatalf("got %v, want %v", *got, want)
	}
}

func TestSnapshotPressed(t *testing.T) {
	var snap Snapshot
	snap[9] = 0b0010_0000
	if !snap.Pressed(9, 5) {
		t.Fatal("expected (9,5) pressed")
	}
	if snap.Pressed(9, 4) || snap.Pressed(-1, 0) || snap.Pressed(Columns, 0) {
		t.Fatal("unexpected pressed key")
	}
}
