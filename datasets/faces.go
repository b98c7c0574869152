package datasets

import (
	"image"
	"path/filepath"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// FakeIndexing selects how a global index past the real images is mapped into
// the fake image list.
type FakeIndexing int

const (
	// ModuloIndexing maps global index i to fake file i mod len(real). With
	// more fakes than reals the index wraps around: some fakes are never
	// reached and others are returned under several indices. See
	// FacesDataset.Coverage.
	ModuloIndexing FakeIndexing = iota

	// OffsetIndexing maps global index i to fake file i - len(real), so every
	// file is reached exactly once.
	OffsetIndexing
)

// FacesDataset provides the Dataset interface over a directory with a "real"
// and a "fake" sub-directory of images.
//
// The file names are listed once, by NewFacesDataset, and never change
// afterwards. Each call to Example opens and decodes the image again, nothing
// is cached. Example holds no mutable state, so it can be called concurrently
// from several goroutines once the dataset is configured.
type FacesDataset struct {
	// RootPath holds the "real" and "fake" sub-directories.
	RootPath string

	// names[Real] and names[Fake] in directory listing order.
	names [2][]string

	// transform applied to each decoded image, if not nil.
	transform Transform

	fakeIndexing FakeIndexing
}

var _ Dataset = (*FacesDataset)(nil)

// NewFacesDataset lists rootPath/real and rootPath/fake and returns a dataset
// over them. No image is read yet.
//
// transform is optional: if nil, Example returns the decoded image.Image.
//
// It fails with an error matching ErrConstruction if either sub-directory is
// missing or can't be listed.
func NewFacesDataset(rootPath string, transform Transform) (*FacesDataset, error) {
	ds := &FacesDataset{
		RootPath:  rootPath,
		transform: transform,
	}
	for label, subDir := range ClassDirs {
		dir := filepath.Join(rootPath, subDir)
		names, err := listNames(dir)
		if err != nil {
			return nil, &ClassDirError{Dir: dir, Err: err}
		}
		ds.names[label] = names
	}
	klog.V(1).Infof("faces dataset %q: %d real and %d fake images", rootPath, len(ds.names[Real]), len(ds.names[Fake]))
	return ds, nil
}

// WithFakeIndexing configures how indices past the real images map into the
// fake images. The default is ModuloIndexing.
//
// It must be called before the dataset is shared. Returns itself, to allow
// chain of method calls.
func (d *FacesDataset) WithFakeIndexing(mode FakeIndexing) *FacesDataset {
	d.fakeIndexing = mode
	return d
}

// Name identifies the dataset, e.g. in logs and gomlx plots.
func (d *FacesDataset) Name() string {
	return "faces:" + d.RootPath
}

// Counts returns the number of real and fake files listed.
func (d *FacesDataset) Counts() (numReal, numFake int) {
	return len(d.names[Real]), len(d.names[Fake])
}

// Len returns the total number of examples: real plus fake files.
func (d *FacesDataset) Len() int {
	return len(d.names[Real]) + len(d.names[Fake])
}

// locate maps a global index to its label and the index within that label's
// file list.
func (d *FacesDataset) locate(idx int) (label Label, localIdx int, err error) {
	if idx < 0 || idx >= d.Len() {
		return 0, 0, errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", idx, d.Len())
	}
	numReal := len(d.names[Real])
	if idx < numReal {
		return Real, idx, nil
	}
	if d.fakeIndexing == OffsetIndexing || numReal == 0 {
		// With no real images the modulo is undefined: the offset is the only
		// mapping left.
		return Fake, idx - numReal, nil
	}
	return Fake, idx % numReal, nil
}

// Resolve returns the file path and label for the global index, without
// opening the file.
func (d *FacesDataset) Resolve(idx int) (path string, label Label, err error) {
	label, localIdx, err := d.locate(idx)
	if err != nil {
		return "", 0, err
	}
	return filepath.Join(d.RootPath, ClassDirs[label], d.names[label][localIdx]), label, nil
}

// Image reads and decodes the image for the global index. The transform is not
// applied.
func (d *FacesDataset) Image(idx int) (image.Image, Label, error) {
	path, label, err := d.Resolve(idx)
	if err != nil {
		return nil, 0, err
	}
	img, err := decodeImageFile(path)
	if err != nil {
		return nil, 0, &DecodeError{Path: path, Label: label, Err: err}
	}
	return img, label, nil
}

// Example reads the image for the global index, applies the transform (if any)
// and returns it with its label.
//
// Indices in [0, numReal) are the real images. The following indices are the
// fake images, selected according to the FakeIndexing mode.
func (d *FacesDataset) Example(idx int) (sample any, label Label, err error) {
	img, label, err := d.Image(idx)
	if err != nil {
		return nil, 0, err
	}
	if d.transform == nil {
		return img, label, nil
	}
	sample, err = d.transform(img)
	if err != nil {
		path, _, _ := d.Resolve(idx)
		return nil, 0, errors.Wrapf(err, "transforming %s image %q", label, path)
	}
	return sample, label, nil
}
