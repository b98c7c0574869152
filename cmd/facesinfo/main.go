// facesinfo inspects a faces dataset root (real/ and fake/ sub-directories):
// it prints the file counts and sizes, reports which fake images the index
// space reaches, and optionally validates every example and plots the counts.
//
// Usage:
//
//	facesinfo -root assets/faces/train [-validate] [-plot output/coverage.png]
//	facesinfo -config facesinfo.json -v=1
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Noofbiz/faces/datasets"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	cfg, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		klog.Exitf("facesinfo: %v", err)
	}
	defer klog.Flush()

	if err := run(cfg, os.Stdout); err != nil {
		klog.Flush()
		klog.Exitf("facesinfo: %v", err)
	}
}

func run(cfg Config, w io.Writer) error {
	ds, err := datasets.NewFacesDataset(cfg.Root, cfg.transform())
	if err != nil {
		return err
	}
	if cfg.OffsetIndexing {
		ds.WithFakeIndexing(datasets.OffsetIndexing)
	}

	numReal, numFake := ds.Counts()
	fmt.Fprintf(w, "Dataset root: %s\n", cfg.Root)
	fmt.Fprintf(w, "Examples: %d (%d real, %d fake)\n", ds.Len(), numReal, numFake)
	total, missing := totalBytes(ds)
	fmt.Fprintf(w, "Size on disk: %s\n", humanize.Bytes(total))
	if missing > 0 {
		fmt.Fprintf(w, "Missing files: %d\n", missing)
	}

	c := ds.Coverage()
	if c.Bijective() {
		fmt.Fprintln(w, "Coverage: every file is reached by exactly one index")
	} else {
		unreachable, revisited := c.Unreachable(), c.Revisited()
		fmt.Fprintf(w, "Coverage: %d fake files unreachable, %d fake files reached by more than one index\n",
			len(unreachable), len(revisited))
		for _, name := range unreachable {
			klog.V(1).Infof("unreachable fake image: %s", name)
		}
	}

	if cfg.PlotPath != "" {
		if err := plotCoverage(cfg.PlotPath, c); err != nil {
			return errors.Wrapf(err, "writing plot %q", cfg.PlotPath)
		}
		klog.Infof("wrote coverage plot to %s", cfg.PlotPath)
	}

	if cfg.Validate {
		failures := validate(ds, cfg.Progress)
		fmt.Fprintf(w, "Validated %d examples: %d failures\n", ds.Len(), len(failures))
		for _, f := range failures {
			fmt.Fprintf(w, "  #%d: %v\n", f.Index, f.Err)
		}
		if len(failures) > 0 {
			return errors.Errorf("%d of %d examples failed validation", len(failures), ds.Len())
		}
	}
	return nil
}
