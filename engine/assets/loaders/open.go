package loaders

import (
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

type compressedFile struct {
	io.Reader
	file *os.File
}

func (c *compressedFile) Close() error {
	return c.file.Close()
}

// openAsset opens a file, transparently decompressing LZ4 frames for ".lz4" paths.
func openAsset(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".lz4") {
		return &compressedFile{Reader: lz4.NewReader(f), file: f}, nil
	}
	return f, nil
}
