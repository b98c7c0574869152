package main

// Example command that demonstrates loading a faces dataset, reading a few
// examples and feeding them to gomlx as tensors through TrainDataset.
//
// Images are only read from disk when an example is requested.
//
// Usage:
//   go run ./datasets/example -root ../assets/faces/train
//
// The root directory must contain a "real" and a "fake" sub-directory.

import (
	"flag"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/Noofbiz/faces/datasets"
	"github.com/gomlx/gopjrt/dtypes"
)

func main() {
	root := flag.String("root", "../assets/faces/train", "dataset root with real/ and fake/ sub-directories")
	size := flag.Int("size", 64, "images are resized (with padding) to size x size")
	flag.Parse()

	// Raw images: no transform.
	rawDS, err := datasets.NewFacesDataset(*root, nil)
	if err != nil {
		log.Fatalf("failed to load faces dataset: %v", err)
	}
	numReal, numFake := rawDS.Counts()
	fmt.Printf("Using dataset root: %s\n", *root)
	fmt.Printf("Total examples available: %d (%d real, %d fake)\n", rawDS.Len(), numReal, numFake)

	n := min(4, rawDS.Len())
	for i := range n {
		sample, label, err := rawDS.Example(i)
		if err != nil {
			log.Fatalf("failed to read example %d: %v", i, err)
		}
		img := sample.(image.Image)
		path, _, _ := rawDS.Resolve(i)
		fmt.Printf("  Example %d: %s label=%d (%s) size=%v\n", i, path, label, label, img.Bounds().Size())
	}

	if unreachable := rawDS.Coverage().Unreachable(); len(unreachable) > 0 {
		fmt.Printf("Note: %d fake images are never reached by the index space (more fakes than reals)\n", len(unreachable))
	}

	fmt.Println()

	// Tensors: resize then convert, so every example has the same shape.
	tensorDS, err := datasets.NewFacesDataset(*root, datasets.Compose(
		datasets.ResizeWithPadding(*size, *size),
		datasets.ToTensor(dtypes.Float32),
	))
	if err != nil {
		log.Fatalf("failed to load faces dataset: %v", err)
	}
	trainDS := datasets.NewTrainDataset("faces", tensorDS, dtypes.Float32)
	for i := range n {
		_, inputs, labels, err := trainDS.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to yield example %d: %v", i, err)
		}
		fmt.Printf("  Yield %d: input shape %v, label %v\n", i, inputs[0].Shape().Dimensions, labels[0].Value())
	}

	fmt.Println("\nExample completed successfully!")
}
