// Package hdf5 records the evolution of a simulation into an HDF5 file
// and loads it back frame by frame.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/jasonwebb/diffgrowth"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/hdf5"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val any

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data is a function that produces the data
	// as a pointer to a slice of row-major concrete values.
	Data func(w *diffgrowth.World) any

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string     // path of output file
	Steps    int        // total number of recorded steps
	Step     func()     // go to next step, World.Iterate if nil
	Datasets []*Dataset // list of datasets

	// Attrs, if not nil, is a struct whose fields are saved
	// as attributes of the "config" dataset.
	Attrs any

	Progress io.Writer // receives a progress percentage if not nil
}

// Run runs a simulation and saves data to an HDF5 file.
// Data are recorded before every step.
func Run(w *diffgrowth.World, conf *Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}
	step := conf.Step
	if step == nil {
		step = w.Iterate
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf.Attrs); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	for k := uint(0); k < uint(conf.Steps); k++ {
		if conf.Progress != nil {
			fmt.Fprintf(conf.Progress, "\r% 3d%%", 100*k/uint(conf.Steps))
		}

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = k
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(w), d.mspace, d.fspace); err != nil {
				return fmt.Errorf("hdf5: writing %s: %w", d.Name, err)
			}
		}

		step()
	}
	if conf.Progress != nil {
		fmt.Fprintf(conf.Progress, "\r100%%\n")
	}
	return nil
}

// Flags of a NodeRecord.
const (
	FlagClosed = 1 << iota // the owning path is closed
	FlagFixed              // the node is an anchor
)

// A NodeRecord is what is recorded in the HDF5 file for each node at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type NodeRecord struct {
	Path  int32  // index of the owning path, -1 for an unused slot
	Flags int32  // FlagClosed and FlagFixed
	Pos   r2.Vec // position
}

// Nodes returns the "nodes" dataset: maxNodes records per step, path after path.
// Nodes beyond maxNodes are not recorded and unused slots have Path -1.
func Nodes(maxNodes int) *Dataset {
	buf := make([]NodeRecord, maxNodes)
	return &Dataset{
		Name: "nodes",
		Val:  NodeRecord{},
		Dims: []int{maxNodes},
		Data: func(w *diffgrowth.World) any {
			records(w, buf)
			return &buf
		},
	}
}

// records fills buf with the nodes of w and pads it with unused slots.
func records(w *diffgrowth.World, buf []NodeRecord) {
	k := 0
	for i, p := range w.Paths {
		var flags int32
		if p.Closed {
			flags |= FlagClosed
		}
		for _, n := range p.Nodes {
			if k == len(buf) {
				return
			}
			r := NodeRecord{Path: int32(i), Flags: flags, Pos: n.Pos}
			if n.Fixed {
				r.Flags |= FlagFixed
			}
			buf[k] = r
			k++
		}
	}
	for ; k < len(buf); k++ {
		buf[k] = NodeRecord{Path: -1}
	}
}

// Counts returns the "counts" dataset: the number of nodes of the world at each step.
func Counts() *Dataset {
	var n int32
	return &Dataset{
		Name: "counts",
		Val:  n,
		Data: func(w *diffgrowth.World) any {
			n = int32(w.NodeCount())
			return &n
		},
	}
}

// Clock returns the "clock" dataset: the simulated time in seconds at each step.
func Clock() *Dataset {
	var t float64
	return &Dataset{
		Name: "clock",
		Val:  t,
		Data: func(w *diffgrowth.World) any {
			t = w.Clock().Seconds()
			return &t
		},
	}
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, attrs any) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}

	if attrs == nil {
		return nil
	}
	v := reflect.Indirect(reflect.ValueOf(attrs))
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("hdf5: config attributes must be a struct, got %T", attrs)
	}
	return saveFields(dset, scalar, "", v)
}

// saveFields writes every exported field of the struct v as an attribute.
// Nested structs are flattened with dotted names and booleans are stored as 0 or 1.
// Fields of other kinds are skipped.
func saveFields(dset *hdf5.Dataset, scalar *hdf5.Dataspace, prefix string, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		name := prefix + t.Field(i).Name
		f := v.Field(i)
		var err error
		switch f.Kind() {
		case reflect.Struct:
			err = saveFields(dset, scalar, name+".", f)
		case reflect.Bool:
			var b int8
			if f.Bool() {
				b = 1
			}
			err = writeAttr(dset, scalar, name, &b)
		case reflect.String:
			s := f.String()
			err = writeAttr(dset, scalar, name, &s)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := f.Int()
			err = writeAttr(dset, scalar, name, &n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n := f.Uint()
			err = writeAttr(dset, scalar, name, &n)
		case reflect.Float32, reflect.Float64:
			x := f.Float()
			err = writeAttr(dset, scalar, name, &x)
		}
		if err != nil {
			return fmt.Errorf("hdf5: attribute %s: %w", name, err)
		}
	}
	return nil
}

// writeAttr creates a scalar attribute and writes the value pointed to by ptr.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr any) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset and its dataspaces.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and Dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	if err := d.fspace.Close(); err != nil {
		return err
	}
	return nil
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
