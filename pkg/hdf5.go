package cluster

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type RunInfoHDF5 struct {
	run_number int32
}

// One HDF5 compound row per committed event. Compound types are fixed at
// dataset creation, so each layout gets its own row struct; field order
// follows the layout's attribute order, then the channel columns.
type EventReducedHDF5 struct {
	module   int32
	tof      int32
	wADC_1   int32
	wADC_2   int32
	wChADC_1 int32
	wChADC_2 int32
	gADC_1   int32
	gADC_2   int32
	gChADC_1 int32
	gChADC_2 int32
	wCh_1    int32
	wCh_2    int32
	gCh_1    int32
	gCh_2    int32
}

type EventFullHDF5 struct {
	module   int32
	tof      int32
	gADC_1   int32
	gADC_2   int32
	gChADC_1 int32
	gChADC_2 int32
	wADC_1   int32
	wADC_2   int32
	wChADC_1 int32
	wChADC_2 int32
	wADC_3   int32
	wADC_4   int32
	wChADC_3 int32
	wChADC_4 int32
	wCh_1    int32
	wCh_2    int32
	wCh_3    int32
	wCh_4    int32
	gCh_1    int32
	gCh_2    int32
}

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	if configuration.Verbosity > 0 && logger != nil {
		message := fmt.Sprintf("File %s created (id=%d)", fname, f.ID())
		logger.Info(message, "hdf5")
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	file_space, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	chunks := []uint{32768}
	plist.SetChunk(chunks)
	// Set compression level
	plist.SetDeflate(4)

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, file_space, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T) error {
	array := []T{data}
	return writeArrayToTable(dataset, &array)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T) error {
	length := uint(len(*data))
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("error creating dataspace: %w", err)
	}

	// Extend the dataset, then select the appended region.
	dimsGot, _, err := dataset.Space().SimpleExtentDims()
	if err != nil {
		return fmt.Errorf("error getting dataset extent: %w", err)
	}
	rowsInFile := dimsGot[0]
	newsize := []uint{rowsInFile + length}
	dataset.Resize(newsize)
	filespace := dataset.Space()

	start := []uint{rowsInFile}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	err = dataset.WriteSubset(data, dataspace, filespace)
	if err != nil {
		return fmt.Errorf("error writing to dataset: %w", err)
	}

	dataspace.Close()
	filespace.Close()
	return nil
}
