package engine

import (
	"path/filepath"

	"github.com/spaghettifunk/shoreline/engine/config"
	"github.com/spaghettifunk/shoreline/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel core.LogLevel
	VSync    bool
	// Absolute path of the watched assets directory.
	AssetsDir string
	Workers   int
}

// NewApplicationConfig resolves the application section of a configuration.
func NewApplicationConfig(c *config.Config) (*ApplicationConfig, error) {
	assetsDir, err := filepath.Abs(c.Application.AssetsDir)
	if err != nil {
		return nil, err
	}
	return &ApplicationConfig{
		StartPosX:   c.Application.PosX,
		StartPosY:   c.Application.PosY,
		StartWidth:  c.Application.Width,
		StartHeight: c.Application.Height,
		Name:        c.Application.Name,
		LogLevel:    core.ParseLogLevel(c.Application.LogLevel),
		VSync:       c.Application.VSync,
		AssetsDir:   assetsDir,
		Workers:     c.Application.Workers,
	}, nil
}

// AssetPath resolves a path relative to the assets directory.
func (a *ApplicationConfig) AssetPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.AssetsDir, path)
}
