package cluster

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Event is one committed coincident event: every Data word between a Header
// and its EoE, collapsed into one row. Values is indexed by attribute
// position in the layout, Channels by channel-column position. Slots never
// hit by a Data word stay 0, uncalibrated channel slots also stay 0.
type Event struct {
	Module       uint8
	TimeOfFlight uint32
	Values       []int32
	Channels     []int32
}

// EventTable is the ordered sequence of committed events of one word stream.
// Row order is the order of EoE words in the input.
type EventTable struct {
	Layout LayoutConfig
	Events []Event
}

// Value returns the raw value of an attribute by name for row i.
func (t *EventTable) Value(i int, attribute string) (int32, bool) {
	index := t.Layout.AttributeIndex(attribute)
	if index < 0 || i >= len(t.Events) {
		return 0, false
	}
	return t.Events[i].Values[index], true
}

// Channel returns the calibrated physical channel of a channel column by
// name for row i.
func (t *EventTable) Channel(i int, column string) (int32, bool) {
	index := t.Layout.ChannelIndex(column)
	if index < 0 || i >= len(t.Events) {
		return 0, false
	}
	return t.Events[i].Channels[index], true
}

// DecodeStats counts what the assembler saw and what it had to drop.
// Capture files are append-only hardware logs and may carry noise or
// truncation at the boundaries, so nothing here is fatal.
type DecodeStats struct {
	Headers     int
	DataWords   int
	EndOfEvents int
	OtherWords  int
	// Data words outside any open event, ignored.
	OrphanWords int
	// Data words whose channel field exceeds the layout, skipped.
	SkippedWords    int
	SkippedChannels map[uint8]int
	// Events still open at end of stream, dropped without a row.
	DroppedOpenEvents int
	// Bytes at end of file not forming a whole word.
	TrailingBytes int
}

// BadChannels lists the malformed channel indices seen, sorted.
func (s DecodeStats) BadChannels() []uint8 {
	channels := maps.Keys(s.SkippedChannels)
	slices.Sort(channels)
	return channels
}

// Add accumulates another file's stats into s.
func (s *DecodeStats) Add(other DecodeStats) {
	s.Headers += other.Headers
	s.DataWords += other.DataWords
	s.EndOfEvents += other.EndOfEvents
	s.OtherWords += other.OtherWords
	s.OrphanWords += other.OrphanWords
	s.SkippedWords += other.SkippedWords
	s.DroppedOpenEvents += other.DroppedOpenEvents
	s.TrailingBytes += other.TrailingBytes
	for channel, count := range other.SkippedChannels {
		if s.SkippedChannels == nil {
			s.SkippedChannels = make(map[uint8]int)
		}
		s.SkippedChannels[channel] += count
	}
}
