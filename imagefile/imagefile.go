// Package imagefile encodes rendered pixel buffers and writes them to disk.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

var encoder = png.Encoder{CompressionLevel: png.BestCompression}

// EncodePNG returns the PNG encoding of img. Output is deterministic for a
// given image.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("imagefile: nil image")
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("imagefile: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to path atomically: a temporary file in the same
// directory is renamed over path once fully written.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("imagefile: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("imagefile: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("imagefile: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("imagefile: write %s: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("imagefile: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("imagefile: %w", err)
	}
	return nil
}

// SavePNG encodes img and writes it to path.
func SavePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
