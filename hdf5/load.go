package hdf5

import (
	"fmt"

	"github.com/jasonwebb/diffgrowth/seed"
	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads frames from the "nodes" dataset of an HDF5 file.
type Loader struct {
	i uint // index of current frame
	n uint // total number of frames

	data []NodeRecord // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens the nodes dataset of an HDF5 file and returns an initialized loader.
func NewLoader(filepath string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset("nodes")
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 || dims[0] == 0 {
		err = fmt.Errorf("loader: expected 2 non-empty dimensions, got %v", dims)
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		l.Close()
		return nil, err
	}

	l.data = make([]NodeRecord, dims[1])

	return l, nil
}

// Len returns the number of frames.
func (l *Loader) Len() int {
	return int(l.n)
}

// Pos returns the index of the next frame to load.
func (l *Loader) Pos() int {
	return int(l.i)
}

// Load loads the next frame as a list of shapes
// and cycles when every frame has already been loaded.
func (l *Loader) Load(shapes *[]seed.Shape) error {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return err
	}
	l.i = (l.i + 1) % l.n

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return err
	}
	*shapes = frame(l.data, (*shapes)[:0])
	return nil
}

// Seek makes frame i the next one to load.
func (l *Loader) Seek(i int) error {
	if i < 0 || uint(i) >= l.n {
		return fmt.Errorf("loader: frame %d out of range [0,%d)", i, l.n)
	}
	l.i = uint(i)
	return nil
}

// Close releases the file and its dataspaces.
func (l *Loader) Close() (err error) {
	defer checkClose(&err, l.file)
	defer checkClose(&err, l.dset)
	defer checkClose(&err, l.fspace)
	return l.mspace.Close()
}

// frame groups records by path and appends the resulting shapes to dst.
// Data are valid until the first unused slot.
func frame(data []NodeRecord, dst []seed.Shape) []seed.Shape {
	cur := int32(-1)
	for _, r := range data {
		if r.Path < 0 {
			break
		}
		if r.Path != cur || len(dst) == 0 {
			cur = r.Path
			dst = append(dst, seed.Shape{Closed: r.Flags&FlagClosed != 0})
		}
		s := &dst[len(dst)-1]
		s.Points = append(s.Points, r.Pos)
	}
	return dst
}
