package datasets

import (
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeImage writes a PNG of the given width and height to path. The width is
// used by the tests to tell which file was decoded, so the file extension
// doesn't need to match the content.
func writeImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.NRGBA{R: uint8(10 * x), G: uint8(10 * y), B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// makeRoot creates <tmp>/real and <tmp>/fake with one image per name, each
// with the given width.
func makeRoot(t *testing.T, realFiles, fakeFiles map[string]int) string {
	t.Helper()
	root := t.TempDir()
	for label, files := range []map[string]int{realFiles, fakeFiles} {
		dir := filepath.Join(root, ClassDirs[label])
		require.NoError(t, os.Mkdir(dir, 0755))
		for name, width := range files {
			writeImage(t, filepath.Join(dir, name), width, 2)
		}
	}
	return root
}

// scenarioRoot is real={a,b}, fake={c,d,e}, with widths 1..5 in that order.
func scenarioRoot(t *testing.T) string {
	return makeRoot(t,
		map[string]int{"a.jpg": 1, "b.jpg": 2},
		map[string]int{"c.jpg": 3, "d.jpg": 4, "e.jpg": 5})
}

func TestFacesDataset_Scenario(t *testing.T) {
	ds, err := NewFacesDataset(scenarioRoot(t), nil)
	require.NoError(t, err)
	require.Equal(t, 5, ds.Len())

	numReal, numFake := ds.Counts()
	assert.Equal(t, 2, numReal)
	assert.Equal(t, 3, numFake)

	// e.jpg (width 5) is never reached: index 4 wraps around to c.jpg.
	want := []struct {
		width int
		label Label
	}{{1, Real}, {2, Real}, {3, Fake}, {4, Fake}, {3, Fake}}
	for idx, w := range want {
		sample, label, err := ds.Example(idx)
		require.NoErrorf(t, err, "Example(%d)", idx)
		img, ok := sample.(image.Image)
		require.Truef(t, ok, "Example(%d) returned %T, wanted image.Image", idx, sample)
		assert.Equalf(t, w.width, img.Bounds().Dx(), "Example(%d) decoded the wrong file", idx)
		assert.Equalf(t, w.label, label, "Example(%d) label", idx)
	}
}

func TestFacesDataset_Resolve(t *testing.T) {
	root := scenarioRoot(t)
	ds, err := NewFacesDataset(root, nil)
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "real", "a.jpg"),
		filepath.Join(root, "real", "b.jpg"),
		filepath.Join(root, "fake", "c.jpg"),
		filepath.Join(root, "fake", "d.jpg"),
		filepath.Join(root, "fake", "c.jpg"),
	}
	for idx, wantPath := range want {
		path, _, err := ds.Resolve(idx)
		require.NoError(t, err)
		assert.Equal(t, wantPath, path)
	}
}

func TestFacesDataset_LabelsAsIntegers(t *testing.T) {
	assert.Equal(t, 0, int(Real))
	assert.Equal(t, 1, int(Fake))
	assert.Equal(t, "real", Real.String())
	assert.Equal(t, "fake", Fake.String())
}

func TestFacesDataset_OutOfRange(t *testing.T) {
	ds, err := NewFacesDataset(scenarioRoot(t), nil)
	require.NoError(t, err)

	for _, idx := range []int{-1, -100, 5, 6, 1000} {
		_, _, err := ds.Example(idx)
		require.Errorf(t, err, "Example(%d) should fail", idx)
		assert.Truef(t, errors.Is(err, ErrIndexOutOfRange), "Example(%d): got %v", idx, err)

		_, _, err = ds.Resolve(idx)
		assert.Truef(t, errors.Is(err, ErrIndexOutOfRange), "Resolve(%d): got %v", idx, err)
	}
}

func TestFacesDataset_MissingSubdir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "real"), 0755))
	writeImage(t, filepath.Join(root, "real", "a.png"), 1, 1)

	ds, err := NewFacesDataset(root, nil)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, ErrConstruction), "got %v", err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	var dirErr *ClassDirError
	require.True(t, errors.As(err, &dirErr))
	assert.Equal(t, filepath.Join(root, "fake"), dirErr.Dir)
}

func TestFacesDataset_MissingRoot(t *testing.T) {
	_, err := NewFacesDataset(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConstruction))
}

func TestFacesDataset_DecodeError(t *testing.T) {
	root := makeRoot(t, map[string]int{"a.png": 1}, map[string]int{"b.png": 2})
	corrupt := filepath.Join(root, "fake", "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0644))

	ds, err := NewFacesDataset(root, nil)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	// Fake names are [b.png corrupt.png]; with a single real image every fake
	// index wraps to b.png, so switch to offset indexing to reach the corrupt one.
	ds.WithFakeIndexing(OffsetIndexing)
	_, _, err = ds.Example(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode), "got %v", err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, corrupt, decodeErr.Path)
	assert.Equal(t, Fake, decodeErr.Label)

	// Other examples are still fine.
	_, label, err := ds.Example(1)
	require.NoError(t, err)
	assert.Equal(t, Fake, label)
}

func TestFacesDataset_FileRemovedAfterConstruction(t *testing.T) {
	root := scenarioRoot(t)
	ds, err := NewFacesDataset(root, nil)
	require.NoError(t, err)

	// The listing is a snapshot: the removed file still counts, and reading it
	// fails with a decode error wrapping the open error.
	require.NoError(t, os.Remove(filepath.Join(root, "real", "b.jpg")))
	writeImage(t, filepath.Join(root, "real", "z.jpg"), 9, 1)
	assert.Equal(t, 5, ds.Len())

	_, _, err = ds.Example(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFacesDataset_NoCaching(t *testing.T) {
	root := scenarioRoot(t)
	ds, err := NewFacesDataset(root, nil)
	require.NoError(t, err)

	sample, _, err := ds.Example(0)
	require.NoError(t, err)
	assert.Equal(t, 1, sample.(image.Image).Bounds().Dx())

	writeImage(t, filepath.Join(root, "real", "a.jpg"), 7, 2)
	sample, _, err = ds.Example(0)
	require.NoError(t, err)
	assert.Equal(t, 7, sample.(image.Image).Bounds().Dx(), "Example should re-read the file")
}

func TestFacesDataset_Transform(t *testing.T) {
	var calls int
	transform := func(img image.Image) (any, error) {
		calls++
		return img.Bounds().Dx() * 100, nil
	}
	ds, err := NewFacesDataset(scenarioRoot(t), transform)
	require.NoError(t, err)

	sample, label, err := ds.Example(3)
	require.NoError(t, err)
	assert.Equal(t, 400, sample)
	assert.Equal(t, Fake, label)
	assert.Equal(t, 1, calls)

	// Image bypasses the transform.
	img, _, err := ds.Image(3)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 1, calls)
}

func TestFacesDataset_TransformError(t *testing.T) {
	boom := errors.New("boom")
	ds, err := NewFacesDataset(scenarioRoot(t), func(image.Image) (any, error) { return nil, boom })
	require.NoError(t, err)

	_, _, err = ds.Example(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrDecode))
	assert.Contains(t, err.Error(), "a.jpg")
}

func TestFacesDataset_OffsetIndexing(t *testing.T) {
	ds, err := NewFacesDataset(scenarioRoot(t), nil)
	require.NoError(t, err)
	ds.WithFakeIndexing(OffsetIndexing)

	wantWidths := []int{1, 2, 3, 4, 5}
	for idx, width := range wantWidths {
		img, _, err := ds.Image(idx)
		require.NoError(t, err)
		assert.Equalf(t, width, img.Bounds().Dx(), "Image(%d)", idx)
	}
}

func TestFacesDataset_NoRealImages(t *testing.T) {
	root := makeRoot(t, nil, map[string]int{"c.png": 3, "d.png": 4})
	ds, err := NewFacesDataset(root, nil)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	for idx, width := range []int{3, 4} {
		img, label, err := ds.Image(idx)
		require.NoError(t, err)
		assert.Equal(t, Fake, label)
		assert.Equal(t, width, img.Bounds().Dx())
	}
}

func TestFacesDataset_Empty(t *testing.T) {
	ds, err := NewFacesDataset(makeRoot(t, nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	_, _, err = ds.Example(0)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
}

func TestFacesDataset_LenProperty(t *testing.T) {
	for _, counts := range [][2]int{{0, 0}, {1, 0}, {0, 3}, {2, 2}, {3, 7}, {7, 3}} {
		realFiles := make(map[string]int)
		for i := range counts[0] {
			realFiles[string(rune('a'+i))+".png"] = 1
		}
		fakeFiles := make(map[string]int)
		for i := range counts[1] {
			fakeFiles[string(rune('a'+i))+".png"] = 1
		}
		ds, err := NewFacesDataset(makeRoot(t, realFiles, fakeFiles), nil)
		require.NoError(t, err)
		assert.Equalf(t, counts[0]+counts[1], ds.Len(), "counts %v", counts)
	}
}

func TestFacesDataset_ConcurrentExamples(t *testing.T) {
	ds, err := NewFacesDataset(scenarioRoot(t), nil)
	require.NoError(t, err)

	wantWidths := []int{1, 2, 3, 4, 3}
	var wg sync.WaitGroup
	errs := make(chan error, 8*ds.Len())
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range ds.Len() {
				sample, _, err := ds.Example(idx)
				if err != nil {
					errs <- err
					continue
				}
				if got := sample.(image.Image).Bounds().Dx(); got != wantWidths[idx] {
					errs <- errors.Errorf("Example(%d) width %d, wanted %d", idx, got, wantWidths[idx])
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestFacesDataset_Name(t *testing.T) {
	root := scenarioRoot(t)
	ds, err := NewFacesDataset(root, nil)
	require.NoError(t, err)
	assert.Equal(t, "faces:"+root, ds.Name())
}
