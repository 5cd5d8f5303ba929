package mnist

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// IDX file magic numbers, from the original MNIST distribution.
const (
	imagesMagic = 2051
	labelsMagic = 2049
)

// readIDXImages reads an IDX3 image file: int32 magic, count, rows, cols
// (big-endian), then count*rows*cols unsigned bytes. Pixels are normalized
// to [0, 1].
func readIDXImages(path string, limit int) ([][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open images: %w", err)
	}
	defer f.Close()

	var header struct {
		Magic, Count, Rows, Cols int32
	}
	if err := binary.Read(f, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read image header: %w", err)
	}
	if header.Magic != imagesMagic {
		return nil, fmt.Errorf("bad image magic %d in %s, want %d", header.Magic, path, imagesMagic)
	}

	count := int(header.Count)
	if limit > 0 && limit < count {
		count = limit
	}
	pixels := int(header.Rows) * int(header.Cols)

	buf := make([]byte, pixels)
	images := make([][]float32, count)
	for i := range images {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("read image %d: %w", i, err)
		}
		img := make([]float32, pixels)
		for j, px := range buf {
			img[j] = float32(px) / 255.0
		}
		images[i] = img
	}
	return images, nil
}

// readIDXLabels reads an IDX1 label file: int32 magic and count
// (big-endian), then count unsigned bytes.
func readIDXLabels(path string, limit int) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var header struct {
		Magic, Count int32
	}
	if err := binary.Read(f, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("read label header: %w", err)
	}
	if header.Magic != labelsMagic {
		return nil, fmt.Errorf("bad label magic %d in %s, want %d", header.Magic, path, labelsMagic)
	}

	count := int(header.Count)
	if limit > 0 && limit < count {
		count = limit
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	labels := make([]int32, count)
	for i, b := range buf {
		labels[i] = int32(b)
	}
	return labels, nil
}
