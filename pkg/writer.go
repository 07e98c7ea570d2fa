package cluster

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer appends committed events to an HDF5 file:
// /Run/runInfo with the run number, /Run/events with one row per event.
type Writer struct {
	File       *hdf5.File
	Filename   string
	RunGroup   *hdf5.Group
	RunInfo    *hdf5.Dataset
	Events     *hdf5.Dataset
	Layout     LayoutCode
	EvtCounter int
	firstWrite bool
}

func NewWriter(filename string, layout LayoutCode) (*Writer, error) {
	writer := &Writer{Filename: filename, Layout: layout, firstWrite: true}

	var err error
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	writer.RunGroup, err = createGroup(writer.File, "Run")
	if err != nil {
		writer.File.Close()
		return nil, err
	}
	writer.RunInfo, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	if err != nil {
		writer.RunGroup.Close()
		writer.File.Close()
		return nil, err
	}
	switch layout {
	case LayoutReduced:
		writer.Events, err = createTable(writer.RunGroup, "events", EventReducedHDF5{})
	default:
		writer.Events, err = createTable(writer.RunGroup, "events", EventFullHDF5{})
	}
	if err != nil {
		// Release what was already opened; a half-built writer must not
		// leak the file handle.
		writer.RunInfo.Close()
		writer.RunGroup.Close()
		writer.File.Close()
		return nil, err
	}
	return writer, nil
}

// WriteEvents appends every row of a decoded table. The run number row is
// written once, on the first call.
func (w *Writer) WriteEvents(table EventTable, runNumber int) error {
	if w.firstWrite {
		err := writeEntryToTable(w.RunInfo, RunInfoHDF5{run_number: int32(runNumber)})
		if err != nil {
			return err
		}
		w.firstWrite = false
	}

	var err error
	switch w.Layout {
	case LayoutReduced:
		rows := make([]EventReducedHDF5, len(table.Events))
		for i, event := range table.Events {
			rows[i] = reducedRow(event)
		}
		err = writeArrayToTable(w.Events, &rows)
	default:
		rows := make([]EventFullHDF5, len(table.Events))
		for i, event := range table.Events {
			rows[i] = fullRow(event)
		}
		err = writeArrayToTable(w.Events, &rows)
	}
	if err != nil {
		return err
	}

	w.EvtCounter += len(table.Events)
	if configuration.Verbosity > 0 && logger != nil {
		message := fmt.Sprintf("Wrote %d events (%d total)", len(table.Events), w.EvtCounter)
		logger.Info(message, "writer")
	}
	return nil
}

// Field order in the row structs matches the layout attribute order, so the
// conversion is a straight positional copy.
func reducedRow(e Event) EventReducedHDF5 {
	return EventReducedHDF5{
		module:   int32(e.Module),
		tof:      int32(e.TimeOfFlight),
		wADC_1:   e.Values[0],
		wADC_2:   e.Values[1],
		wChADC_1: e.Values[2],
		wChADC_2: e.Values[3],
		gADC_1:   e.Values[4],
		gADC_2:   e.Values[5],
		gChADC_1: e.Values[6],
		gChADC_2: e.Values[7],
		wCh_1:    e.Channels[0],
		wCh_2:    e.Channels[1],
		gCh_1:    e.Channels[2],
		gCh_2:    e.Channels[3],
	}
}

func fullRow(e Event) EventFullHDF5 {
	return EventFullHDF5{
		module:   int32(e.Module),
		tof:      int32(e.TimeOfFlight),
		gADC_1:   e.Values[0],
		gADC_2:   e.Values[1],
		gChADC_1: e.Values[2],
		gChADC_2: e.Values[3],
		wADC_1:   e.Values[4],
		wADC_2:   e.Values[5],
		wChADC_1: e.Values[6],
		wChADC_2: e.Values[7],
		wADC_3:   e.Values[8],
		wADC_4:   e.Values[9],
		wChADC_3: e.Values[10],
		wChADC_4: e.Values[11],
		wCh_1:    e.Channels[0],
		wCh_2:    e.Channels[1],
		wCh_3:    e.Channels[2],
		wCh_4:    e.Channels[3],
		gCh_1:    e.Channels[4],
		gCh_2:    e.Channels[5],
	}
}

func (w *Writer) Close() {
	w.Events.Close()
	w.RunInfo.Close()
	w.RunGroup.Close()
	w.File.Close()
}
