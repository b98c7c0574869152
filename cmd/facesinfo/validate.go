package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/Noofbiz/faces/datasets"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

type failure struct {
	Index int
	Err   error
}

// validate calls Example for every index of ds and collects the failures.
// Progress is shown on stderr if verbose.
func validate(ds *datasets.FacesDataset, verbose bool) []failure {
	var pBar *progressbar.ProgressBar
	if verbose {
		pBar = progressbar.NewOptions(ds.Len(),
			progressbar.OptionSetDescription("Validating"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("images"),
			progressbar.OptionThrottle(250*time.Millisecond),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		)
	}

	var failures []failure
	for idx := range ds.Len() {
		if _, _, err := ds.Example(idx); err != nil {
			klog.V(1).Infof("example %d: %v", idx, err)
			failures = append(failures, failure{Index: idx, Err: err})
		}
		if pBar != nil {
			_ = pBar.Add(1)
		}
	}
	if pBar != nil {
		_ = pBar.Finish()
	}
	return failures
}

// totalBytes sums the sizes of all listed files. Files that can't be stat'ed
// (e.g. removed since the listing) are counted in missing.
func totalBytes(ds *datasets.FacesDataset) (total uint64, missing int) {
	c := ds.Coverage()
	for label, names := range [][]string{c.RealNames, c.FakeNames} {
		dir := filepath.Join(ds.RootPath, datasets.ClassDirs[label])
		for _, name := range names {
			info, err := os.Stat(filepath.Join(dir, name))
			if err != nil {
				missing++
				continue
			}
			total += uint64(info.Size())
		}
	}
	return total, missing
}
