package datasets

import (
	"image"
)

// This package exposes a directory of labeled face images as an indexed
// dataset suitable for model training.
//
// The dataset is lazy - it stores the file names found at construction time
// and only opens and decodes an image when an example is requested.
//
// Layout expected on disk:
//
//	<root>/real/<any file names>
//	<root>/fake/<any file names>
//
// Images under "real" get label 0 (Real) and images under "fake" get label 1
// (Fake). Converting examples into gomlx tensors is done by the ToTensor
// transforms or by TrainDataset, which bridges a Dataset into a gomlx
// train.Loop.

// Label is the integer class code of an example.
type Label int

const (
	Real Label = iota
	Fake
)

// ClassDirs are the sub-directory names of each label, indexed by Label.
var ClassDirs = [2]string{"real", "fake"}

func (l Label) String() string {
	switch l {
	case Real:
		return "real"
	case Fake:
		return "fake"
	}
	return "unknown"
}

// Transform maps a decoded image to the sample handed to the consumer. It can
// return another image.Image, a *tensors.Tensor or anything else the training
// code understands.
type Transform func(img image.Image) (any, error)

// Dataset is what a data-loading layer needs: a length and indexed access.
type Dataset interface {
	Len() int
	Example(idx int) (sample any, label Label, err error)
}
