package cluster

import "fmt"

// Assembler folds a word stream into coincident events. It holds the single
// piece of mutable state of the decode: the field buffer of the event
// currently open between a Header and its EoE. One assembler per stream;
// the calibration table is read-only and may be shared.
type Assembler struct {
	layout      LayoutConfig
	calibration *CalibrationTable

	open     bool
	module   uint8
	values   []int32
	channels []int32

	events []Event
	stats  DecodeStats
}

func NewAssembler(layout LayoutConfig, calibration *CalibrationTable) *Assembler {
	return &Assembler{
		layout:      layout,
		calibration: calibration,
		stats:       DecodeStats{SkippedChannels: make(map[uint8]int)},
	}
}

// Grow pre-sizes the event table, typically to the EoE count of a pre-scan.
func (a *Assembler) Grow(n int) {
	if cap(a.events) < n {
		events := make([]Event, len(a.events), n)
		copy(events, a.events)
		a.events = events
	}
}

// ProcessWord advances the state machine by one word. Words are expected in
// capture order; no word is ever revisited.
func (a *Assembler) ProcessWord(word uint32) {
	decoded := Classify(word)
	switch decoded.Kind {
	case WordHeader:
		a.stats.Headers++
		if !a.open {
			a.values = make([]int32, len(a.layout.Attributes))
			a.channels = make([]int32, len(a.layout.ChannelColumns))
			a.open = true
		}
		// A second Header before an EoE does not close the open event:
		// the module is overwritten and accumulation continues in the
		// same row. This mirrors the acquisition software, where several
		// modules may report within one coincidence window.
		a.module = decoded.Module

	case WordData:
		a.stats.DataWords++
		if !a.open {
			a.stats.OrphanWords++
			return
		}
		if int(decoded.Channel) >= len(a.layout.Attributes) {
			// Malformed stream; skip the word rather than corrupt a
			// different field.
			a.stats.SkippedWords++
			a.stats.SkippedChannels[decoded.Channel]++
			if configuration.Verbosity > 1 && logger != nil {
				message := fmt.Sprintf("Skipping data word with channel %d (layout %s has %d attributes)",
					decoded.Channel, a.layout.Name, len(a.layout.Attributes))
				logger.Info(message, "assembler")
			}
			return
		}
		attribute := a.layout.Attributes[decoded.Channel]
		a.values[decoded.Channel] = int32(decoded.ADC)
		if attribute.ChannelColumn >= 0 {
			a.channels[attribute.ChannelColumn] = a.calibration.Lookup(attribute.Group, decoded.ADC)
		}
		if configuration.Verbosity > 3 && logger != nil {
			message := fmt.Sprintf("%s = %d", attribute.Name, decoded.ADC)
			logger.Info(message, "assembler")
		}

	case WordEoE:
		a.stats.EndOfEvents++
		if !a.open {
			a.stats.OrphanWords++
			return
		}
		a.events = append(a.events, Event{
			Module:       a.module,
			TimeOfFlight: decoded.TimeOfFlight,
			Values:       a.values,
			Channels:     a.channels,
		})
		a.open = false
		a.values = nil
		a.channels = nil

	default:
		a.stats.OtherWords++
	}
}

// Finish closes the decode. A still-open event is incomplete and is dropped
// without a row.
func (a *Assembler) Finish() (EventTable, DecodeStats) {
	if a.open {
		a.stats.DroppedOpenEvents++
		a.open = false
		a.values = nil
		a.channels = nil
	}
	return EventTable{Layout: a.layout, Events: a.events}, a.stats
}

// ClusterWords decodes one in-memory word stream in a single pass,
// pre-sizing the event table with an EoE pre-scan.
func ClusterWords(words []uint32, layout LayoutConfig, calibration *CalibrationTable) (EventTable, DecodeStats) {
	assembler := NewAssembler(layout, calibration)
	assembler.Grow(CountEndOfEvents(words))
	for _, word := range words {
		assembler.ProcessWord(word)
	}
	return assembler.Finish()
}
