package datasets

import "slices"

// Coverage counts how many global indices resolve to each listed file.
type Coverage struct {
	RealNames, FakeNames   []string
	RealVisits, FakeVisits []int
}

// Coverage walks the whole index space, without opening any file, and counts
// the visits of each file. Under ModuloIndexing with more fake than real files
// some fake files are visited zero times and others several times.
func (d *FacesDataset) Coverage() Coverage {
	c := Coverage{
		RealNames:  slices.Clone(d.names[Real]),
		FakeNames:  slices.Clone(d.names[Fake]),
		RealVisits: make([]int, len(d.names[Real])),
		FakeVisits: make([]int, len(d.names[Fake])),
	}
	for idx := range d.Len() {
		label, localIdx, err := d.locate(idx)
		if err != nil {
			// Unreachable for idx in [0, Len()).
			continue
		}
		if label == Real {
			c.RealVisits[localIdx]++
		} else {
			c.FakeVisits[localIdx]++
		}
	}
	return c
}

// Unreachable returns the fake file names no index resolves to.
func (c Coverage) Unreachable() []string {
	var names []string
	for i, visits := range c.FakeVisits {
		if visits == 0 {
			names = append(names, c.FakeNames[i])
		}
	}
	return names
}

// Revisited returns the fake file names more than one index resolves to.
func (c Coverage) Revisited() []string {
	var names []string
	for i, visits := range c.FakeVisits {
		if visits > 1 {
			names = append(names, c.FakeNames[i])
		}
	}
	return names
}

// Bijective reports whether every file is reached by exactly one index.
func (c Coverage) Bijective() bool {
	for _, visits := range c.RealVisits {
		if visits != 1 {
			return false
		}
	}
	for _, visits := range c.FakeVisits {
		if visits != 1 {
			return false
		}
	}
	return true
}
