package assets

import (
	"time"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// ImageDecoder turns an image file into tightly packed pixels.
type ImageDecoder interface {
	Decode(path string) (*metadata.ImageData, error)
}

// ModelImporter turns a model file into engine-native submeshes and materials.
type ModelImporter interface {
	Import(path string) (*metadata.ModelData, error)
}

// SourceReader returns shader source text and the time it was last modified.
type SourceReader interface {
	ReadSource(path string) (string, time.Time, error)
}
