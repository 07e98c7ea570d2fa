package cluster

import (
	"errors"
	"testing"
)

// Mirrors the np.linspace subdivision of the acquisition scripts: one range
// [0, 12] split in 3 layers maps [0,4) [4,8) [8,12) to successive channels
// and leaves 12 itself unmapped.
func TestBuildGroupTableSubdivision(t *testing.T) {
	var slots [adcTableSize]int32
	ranges := []DelimiterRange{{Start: 0, Stop: 12}}
	mapping := []int32{10, 11, 12}
	if err := buildGroupTable(&slots, ranges, mapping, 3); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		raw  int
		want int32
	}{
		{0, 10}, {3, 10},
		{4, 11}, {7, 11},
		{8, 12}, {11, 12},
		{12, UnmappedChannel},
		{4095, UnmappedChannel},
	}
	for _, c := range cases {
		if slots[c.raw] != c.want {
			t.Errorf("slots[%d] = %d, want %d", c.raw, slots[c.raw], c.want)
		}
	}
}

// Endpoints round half away from zero before becoming slot bounds.
func TestBuildGroupTableRounding(t *testing.T) {
	var slots [adcTableSize]int32
	ranges := []DelimiterRange{{Start: 0.4, Stop: 2.6}}
	mapping := []int32{7, 8}
	if err := buildGroupTable(&slots, ranges, mapping, 2); err != nil {
		t.Fatal(err)
	}
	// Endpoints 0.4, 1.5, 2.6 round to 0, 2, 3.
	if slots[0] != 7 || slots[1] != 7 {
		t.Errorf("slots[0..1] = %d, %d, want 7, 7", slots[0], slots[1])
	}
	if slots[2] != 8 {
		t.Errorf("slots[2] = %d, want 8", slots[2])
	}
	if slots[3] != UnmappedChannel {
		t.Errorf("slots[3] = %d, want unmapped", slots[3])
	}
}

// Overlaps are not validated: whatever range writes last wins.
func TestBuildGroupTableOverlapLastWriterWins(t *testing.T) {
	var slots [adcTableSize]int32
	ranges := []DelimiterRange{
		{Start: 0, Stop: 8},
		{Start: 4, Stop: 12},
	}
	mapping := []int32{1, 2}
	if err := buildGroupTable(&slots, ranges, mapping, 1); err != nil {
		t.Fatal(err)
	}
	if slots[3] != 1 {
		t.Errorf("slots[3] = %d, want 1", slots[3])
	}
	if slots[5] != 2 {
		t.Errorf("slots[5] = %d, want 2 (second range overwrites)", slots[5])
	}
}

func TestBuildGroupTableMappingTooShort(t *testing.T) {
	var slots [adcTableSize]int32
	ranges := []DelimiterRange{{Start: 0, Stop: 12}}
	err := buildGroupTable(&slots, ranges, []int32{10}, 3)
	var mappingErr *ErrChannelMapping
	if !errors.As(err, &mappingErr) {
		t.Fatalf("err = %v, want ErrChannelMapping", err)
	}
}

func testCalibrationFile() *CalibrationFile {
	// One full-width range per group, one channel per layer, so a raw
	// value maps directly onto its layer index plus the base channel.
	wires := GroupCalibration{Delimiters: [][2]float64{{0, 16}}}
	for ch := int32(100); ch < 116; ch++ {
		wires.Channels = append(wires.Channels, ch)
	}
	grids := GroupCalibration{Delimiters: [][2]float64{{0, 12}}}
	for ch := int32(200); ch < 212; ch++ {
		grids.Channels = append(grids.Channels, ch)
	}
	return &CalibrationFile{Wires: wires, Grids: grids}
}

func testCalibrationTable(t *testing.T) *CalibrationTable {
	t.Helper()
	calib := testCalibrationFile()
	table, err := BuildCalibrationTable(calib, calib)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestBuildCalibrationTableLookup(t *testing.T) {
	table := testCalibrationTable(t)

	if got := table.Lookup(Wires, 5); got != 105 {
		t.Errorf("Lookup(Wires, 5) = %d, want 105", got)
	}
	if got := table.Lookup(Grids, 5); got != 205 {
		t.Errorf("Lookup(Grids, 5) = %d, want 205", got)
	}
	if got := table.Lookup(Wires, 16); got != UnmappedChannel {
		t.Errorf("Lookup(Wires, 16) = %d, want unmapped", got)
	}
}

// The data field is 14 bits while the table covers 12: out-of-table values
// resolve to the unmapped sentinel instead of faulting.
func TestLookupBeyondTable(t *testing.T) {
	table := testCalibrationTable(t)
	for _, adc := range []uint16{4096, 8000, 16383} {
		if got := table.Lookup(Wires, adc); got != UnmappedChannel {
			t.Errorf("Lookup(Wires, %d) = %d, want unmapped", adc, got)
		}
	}
}
