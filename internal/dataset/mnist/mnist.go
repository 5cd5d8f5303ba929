// Package mnist loads the MNIST handwritten digit dataset from the
// original IDX binary files or from Kaggle-style CSV, and provides a
// synthetic stand-in for tests and examples.
package mnist

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// Standard MNIST dimensions.
const (
	ImageSize  = 28 * 28
	NumClasses = 10
)

// Data holds a loaded split: normalized pixel rows and matching labels.
type Data struct {
	Images [][]float32
	Labels []int32
}

// NumSamples returns the number of examples.
func (d *Data) NumSamples() int { return len(d.Images) }

// idx file names as distributed on yann.lecun.com.
var idxFiles = map[string][2]string{
	"train": {"train-images-idx3-ubyte", "train-labels-idx1-ubyte"},
	"test":  {"t10k-images-idx3-ubyte", "t10k-labels-idx1-ubyte"},
}

// Load reads an MNIST split ("train" or "test") from IDX files in dir.
// limit > 0 caps the number of examples.
func Load(dir, split string, limit int) (*Data, error) {
	files, ok := idxFiles[split]
	if !ok {
		return nil, fmt.Errorf("mnist: unknown split %q, want train or test", split)
	}

	images, err := readIDXImages(filepath.Join(dir, files[0]), limit)
	if err != nil {
		return nil, fmt.Errorf("mnist: %w", err)
	}
	labels, err := readIDXLabels(filepath.Join(dir, files[1]), limit)
	if err != nil {
		return nil, fmt.Errorf("mnist: %w", err)
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("mnist: %d images but %d labels", len(images), len(labels))
	}

	return &Data{Images: images, Labels: labels}, nil
}

// LoadCSV reads Kaggle-style MNIST CSV: a header row, then one row per
// example with the label in the first column followed by 784 pixel values
// in [0, 255]. limit > 0 caps the number of examples.
func LoadCSV(path string, limit int) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mnist: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = ImageSize + 1

	// Header row
	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("mnist: read csv header: %w", err)
	}

	data := &Data{}
	for limit <= 0 || data.NumSamples() < limit {
		record, err := r.Read()
		if err != nil {
			break
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("mnist: row %d: bad label %q: %w", data.NumSamples()+2, record[0], err)
		}

		img := make([]float32, ImageSize)
		for j, field := range record[1:] {
			px, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("mnist: row %d: bad pixel %q: %w", data.NumSamples()+2, field, err)
			}
			img[j] = float32(px) / 255.0
		}

		data.Images = append(data.Images, img)
		data.Labels = append(data.Labels, int32(label))
	}
	return data, nil
}

// Synthetic generates n random examples with the standard MNIST shape.
// Labels are drawn uniformly from the 10 classes, and each image's mean
// intensity is tied to its label so a model has something to learn.
func Synthetic(n int, seed int64) *Data {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // G404: test data generation

	data := &Data{
		Images: make([][]float32, n),
		Labels: make([]int32, n),
	}
	for i := 0; i < n; i++ {
		label := int32(rng.Intn(NumClasses))
		base := float32(label) / float32(NumClasses)

		img := make([]float32, ImageSize)
		for j := range img {
			img[j] = base + rng.Float32()*0.1
		}
		data.Images[i] = img
		data.Labels[i] = label
	}
	return data
}

// Split divides the data into two parts, the first holding n examples.
func (d *Data) Split(n int) (*Data, *Data, error) {
	if n < 0 || n > d.NumSamples() {
		return nil, nil, fmt.Errorf("mnist: cannot split %d samples at %d", d.NumSamples(), n)
	}
	first := &Data{Images: d.Images[:n], Labels: d.Labels[:n]}
	second := &Data{Images: d.Images[n:], Labels: d.Labels[n:]}
	return first, second, nil
}
