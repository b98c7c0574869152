package datasets

import (
	"image"
	"io"
	"sync"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// TrainDataset adapts a Dataset to gomlx's train.Dataset. Each Yield returns
// one example, in index order, and io.EOF after the last one.
//
// Batching and shuffling are left to gomlx (e.g. datasets.Batch and
// datasets.ReadAhead from github.com/gomlx/gomlx/pkg/ml/datasets).
type TrainDataset struct {
	name     string
	ds       Dataset
	toTensor *timage.ToTensorConfig

	// muNext protects next.
	muNext sync.Mutex
	next   int
}

var _ train.Dataset = (*TrainDataset)(nil)

// NewTrainDataset creates a train.Dataset yielding the examples of ds.
//
// Samples that are already a *tensors.Tensor (see ToTensor) are yielded as is.
// Samples that are an image.Image are converted to a [height, width, 3] tensor
// of the given dtype.
func NewTrainDataset(name string, ds Dataset, dtype dtypes.DType) *TrainDataset {
	return &TrainDataset{
		name:     name,
		ds:       ds,
		toTensor: timage.ToTensor(dtype),
	}
}

// Name implements train.Dataset.
func (td *TrainDataset) Name() string { return td.name }

// Reset implements train.Dataset, restarting from index 0.
func (td *TrainDataset) Reset() {
	td.muNext.Lock()
	defer td.muNext.Unlock()
	td.next = 0
}

// Yield implements train.Dataset. It returns:
//
//   - spec: nil.
//   - inputs: one tensor with the sample.
//   - labels: one int32 tensor shaped [1] with the Label.
func (td *TrainDataset) Yield() (spec any, inputs, labels []*tensors.Tensor, err error) {
	td.muNext.Lock()
	idx := td.next
	if idx >= td.ds.Len() {
		td.muNext.Unlock()
		return nil, nil, nil, io.EOF
	}
	td.next++
	td.muNext.Unlock()

	sample, label, err := td.ds.Example(idx)
	if err != nil {
		return nil, nil, nil, errors.WithMessagef(err, "dataset %q example %d", td.name, idx)
	}
	var input *tensors.Tensor
	switch s := sample.(type) {
	case *tensors.Tensor:
		input = s
	case image.Image:
		input, err = toTensorSample(td.toTensor, s)
		if err != nil {
			return nil, nil, nil, errors.WithMessagef(err, "dataset %q example %d", td.name, idx)
		}
	default:
		return nil, nil, nil, errors.Errorf("dataset %q example %d: unsupported sample type %T", td.name, idx, sample)
	}
	inputs = []*tensors.Tensor{input}
	labels = []*tensors.Tensor{tensors.FromValue([]int32{int32(label)})}
	return nil, inputs, labels, nil
}

func toTensorSample(config *timage.ToTensorConfig, img image.Image) (*tensors.Tensor, error) {
	sample, err := toTensor(config)(img)
	if err != nil {
		return nil, err
	}
	return sample.(*tensors.Tensor), nil
}
