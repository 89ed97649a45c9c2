package loaders

import (
	"os"
	"time"
)

// ShaderLoader reads shader source files from disk.
type ShaderLoader struct{}

func (sl *ShaderLoader) ReadSource(path string) (string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, err
	}
	return string(data), info.ModTime(), nil
}
