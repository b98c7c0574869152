package datasets

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	timage "github.com/gomlx/gomlx/pkg/core/tensors/images"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Compose chains transforms, feeding the output of one into the next. Every
// transform but the last must return an image.Image.
func Compose(transforms ...Transform) Transform {
	return func(img image.Image) (any, error) {
		var sample any = img
		for ii, t := range transforms {
			in, ok := sample.(image.Image)
			if !ok {
				return nil, errors.Errorf("transform #%d expects an image.Image, got %T", ii, sample)
			}
			var err error
			sample, err = t(in)
			if err != nil {
				return nil, errors.WithMessagef(err, "transform #%d", ii)
			}
		}
		return sample, nil
	}
}

// Resize scales the image to exactly width x height, distorting the aspect
// ratio if needed.
func Resize(width, height int) Transform {
	return func(img image.Image) (any, error) {
		if width <= 0 || height <= 0 {
			return nil, errors.Errorf("invalid resize target %dx%d", width, height)
		}
		return imaging.Resize(img, width, height, imaging.Lanczos), nil
	}
}

// ResizeWithPadding scales the image to fit width x height without distorting
// it, and centers it on a transparent canvas of that size.
func ResizeWithPadding(width, height int) Transform {
	return func(img image.Image) (any, error) {
		if width <= 0 || height <= 0 {
			return nil, errors.Errorf("invalid resize target %dx%d", width, height)
		}
		return resizeWithPadding(img, width, height), nil
	}
}

func resizeWithPadding(img image.Image, width, height int) image.Image {
	imgSize := img.Bounds().Size()
	wRatio := float64(width) / float64(imgSize.X)
	hRatio := float64(height) / float64(imgSize.Y)

	adjustedWidth, adjustedHeight := width, height
	if wRatio < hRatio {
		adjustedHeight = max(1, int(wRatio*float64(imgSize.Y)))
	} else if hRatio < wRatio {
		adjustedWidth = max(1, int(hRatio*float64(imgSize.X)))
	}
	img = imaging.Resize(img, adjustedWidth, adjustedHeight, imaging.Lanczos)
	if adjustedWidth != width || adjustedHeight != height {
		bgImg := image.NewNRGBA(image.Rect(0, 0, width, height))
		img = imaging.PasteCenter(bgImg, img)
	}
	return img
}

// Grayscale drops the color information, keeping an image.Image.
func Grayscale() Transform {
	return func(img image.Image) (any, error) {
		return imaging.Grayscale(img), nil
	}
}

// ToTensor converts the image to a gomlx tensor shaped [height, width, 3] of
// the given dtype. Float values are scaled to [0, 1].
func ToTensor(dtype dtypes.DType) Transform {
	return toTensor(timage.ToTensor(dtype))
}

// ToTensorWithAlpha is like ToTensor, but keeps the alpha channel: the tensor
// is shaped [height, width, 4].
func ToTensorWithAlpha(dtype dtypes.DType) Transform {
	return toTensor(timage.ToTensor(dtype).WithAlpha())
}

func toTensor(config *timage.ToTensorConfig) Transform {
	return func(img image.Image) (any, error) {
		var t *tensors.Tensor
		err := exceptions.TryCatch[error](func() {
			t = config.Single(img)
		})
		if err != nil {
			return nil, errors.WithMessage(err, "converting image to tensor")
		}
		if t == nil {
			return nil, errors.New("converting image to tensor: no tensor returned")
		}
		return t, nil
	}
}
