package cluster

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// UnmappedChannel marks raw values with no calibration entry.
const UnmappedChannel int32 = -1

// The ADC histograms are delimited over 12 bits even though the data field
// carries 14. Values at 4096 and above are always unmapped.
const adcTableSize = 4096

// Number of detection layers sharing one delimiter range.
var layersPerGroup = map[Group]int{
	Wires: 16,
	Grids: 12,
}

// DelimiterRange is the raw-value span of one physical channel group, as
// measured on the ADC histograms.
type DelimiterRange struct {
	Start float64
	Stop  float64
}

// ChannelMappingProvider yields, per group, the ordered physical channel
// numbers, one per detection layer. Rows without a channel (NaN in the
// measurement sheets) are already filtered out.
type ChannelMappingProvider interface {
	ChannelMapping(group Group) ([]int32, error)
}

// DelimiterProvider yields, per group, the ordered delimiter ranges.
type DelimiterProvider interface {
	Delimiters(group Group) ([]DelimiterRange, error)
}

// CalibrationTable maps every raw ADC value below 4096 to a physical channel
// number, per group. Built once before decoding, read-only afterwards, so it
// can be shared between assemblers.
type CalibrationTable struct {
	wires [adcTableSize]int32
	grids [adcTableSize]int32
}

// BuildCalibrationTable fills the per-group lookup tables from the channel
// mapping and delimiter providers.
func BuildCalibrationTable(mappings ChannelMappingProvider, delimiters DelimiterProvider) (*CalibrationTable, error) {
	table := &CalibrationTable{}
	groups := []struct {
		group Group
		slots *[adcTableSize]int32
	}{
		{Wires, &table.wires},
		{Grids, &table.grids},
	}
	for _, g := range groups {
		mapping, err := mappings.ChannelMapping(g.group)
		if err != nil {
			return nil, fmt.Errorf("error reading %v channel mapping: %w", g.group, err)
		}
		ranges, err := delimiters.Delimiters(g.group)
		if err != nil {
			return nil, fmt.Errorf("error reading %v delimiters: %w", g.group, err)
		}
		err = buildGroupTable(g.slots, ranges, mapping, layersPerGroup[g.group])
		if err != nil {
			return nil, fmt.Errorf("error building %v table: %w", g.group, err)
		}
		if configuration.Verbosity > 0 && logger != nil {
			message := fmt.Sprintf("Calibrated %v: %d ranges, %d channels", g.group, len(ranges), len(mapping))
			logger.Info(message, "calibration")
		}
	}
	return table, nil
}

// buildGroupTable subdivides each delimiter range into `layers` equal
// sub-intervals and assigns mapping[i*layers+j] to every integer raw value
// in the j-th sub-interval, endpoints rounded to nearest (half away from
// zero). Overlapping ranges are not validated: the last writer wins, values
// outside every sub-interval stay unmapped.
func buildGroupTable(slots *[adcTableSize]int32, ranges []DelimiterRange, mapping []int32, layers int) error {
	for i := range slots {
		slots[i] = UnmappedChannel
	}
	for i, r := range ranges {
		step := (r.Stop - r.Start) / float64(layers)
		previous := r.Start
		for j := 0; j < layers; j++ {
			index := i*layers + j
			if index >= len(mapping) {
				return &ErrChannelMapping{Index: index, Have: len(mapping)}
			}
			value := r.Start + step*float64(j+1)
			lo := int(math.Round(previous))
			hi := int(math.Round(value))
			for k := lo; k < hi; k++ {
				if k < 0 || k >= adcTableSize {
					continue
				}
				slots[k] = mapping[index]
			}
			previous = value
		}
	}
	return nil
}

// Lookup returns the physical channel for a raw value, or UnmappedChannel
// when the value has no calibration entry. The data field is 14 bits wide
// while the table covers 12, so out-of-table values resolve to unmapped.
func (t *CalibrationTable) Lookup(group Group, adc uint16) int32 {
	if adc >= adcTableSize {
		return UnmappedChannel
	}
	switch group {
	case Wires:
		return t.wires[adc]
	case Grids:
		return t.grids[adc]
	}
	return UnmappedChannel
}

// GroupCalibration is one group's section of a calibration file.
type GroupCalibration struct {
	Channels   []int32      `json:"channels"`
	Delimiters [][2]float64 `json:"delimiters"`
}

// CalibrationFile holds both calibration tables loaded from a JSON file.
// Used in no_db mode instead of the run database.
type CalibrationFile struct {
	Wires GroupCalibration `json:"wires"`
	Grids GroupCalibration `json:"grids"`
}

func LoadCalibrationFile(filename string) (*CalibrationFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	var calib CalibrationFile
	if err := json.Unmarshal(data, &calib); err != nil {
		return nil, fmt.Errorf("error parsing calibration file %q: %w", filename, err)
	}
	return &calib, nil
}

func (c *CalibrationFile) group(group Group) (GroupCalibration, error) {
	switch group {
	case Wires:
		return c.Wires, nil
	case Grids:
		return c.Grids, nil
	}
	return GroupCalibration{}, fmt.Errorf("no calibration for group %v", group)
}

func (c *CalibrationFile) ChannelMapping(group Group) ([]int32, error) {
	section, err := c.group(group)
	if err != nil {
		return nil, err
	}
	return section.Channels, nil
}

func (c *CalibrationFile) Delimiters(group Group) ([]DelimiterRange, error) {
	section, err := c.group(group)
	if err != nil {
		return nil, err
	}
	ranges := make([]DelimiterRange, len(section.Delimiters))
	for i, pair := range section.Delimiters {
		ranges[i] = DelimiterRange{Start: pair[0], Stop: pair[1]}
	}
	return ranges, nil
}
