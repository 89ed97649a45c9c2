package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/shoreline/engine/assets/loaders"
	"github.com/spaghettifunk/shoreline/engine/core"
)

type AssetType int

const (
	AssetTypeNone AssetType = iota
	AssetTypeShader
	AssetTypeImage
	AssetTypeModel
	AssetTypeMaterial
)

var ErrManagerClosed = errors.New("asset manager already closed")

type AssetInfo struct {
	Path    string
	Type    AssetType
	ModTime time.Time
}

/**
 * @brief Indexes the asset directory, serves the loaders and publishes
 * EVENT_CODE_ASSET_CHANGED whenever a watched file is created or written.
 * Events are queued, so listeners run on the goroutine calling core.EventDispatch.
 */
type AssetManager struct {
	assets map[string]AssetInfo
	mutex  sync.RWMutex

	images  *loaders.ImageLoader
	models  *loaders.OBJImporter
	shaders *loaders.ShaderLoader

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	images := &loaders.ImageLoader{FlipY: true}
	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		images:   images,
		models:   &loaders.OBJImporter{},
		shaders:  &loaders.ShaderLoader{},
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir and starts watching it and every sub-directory.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.watchRecursive(assetsDir, false); err != nil {
		return err
	}
	go am.start()
	return nil
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) Images() ImageDecoder  { return am.images }
func (am *AssetManager) Models() ModelImporter { return am.models }
func (am *AssetManager) Sources() SourceReader { return am.shaders }

// Lookup returns what the manager knows about an indexed file.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.Clean(path)]
	return info, ok
}

// Assets returns every indexed file of the given type.
func (am *AssetManager) Assets(assetType AssetType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var out []AssetInfo
	for _, info := range am.assets {
		if info.Type == assetType {
			out = append(out, info)
		}
	}
	return out
}

// RemoveRecursive stops watching the named directory and all sub-directories.
func (am *AssetManager) RemoveRecursive(name string) error {
	return am.watchRecursive(name, true)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name, false); err != nil {
				core.LogWarn("failed to watch %s: %s", e.Name, err)
			}
		}
		return
	}
	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		if am.handleFileEvent(e.Name) {
			core.EventQueue(core.EVENT_CODE_ASSET_CHANGED, am, core.EventContext{Path: filepath.Clean(e.Name)})
		}
	}
	// a removed path can't be stat'ed, drop it from both the index and the watch list
	if e.Has(fsnotify.Remove) {
		am.removeAsset(e.Name)
		_ = am.fsnotify.Remove(e.Name)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	am.mutex.RLock()
	closed := am.isClosed
	am.mutex.RUnlock()
	if closed {
		return ErrManagerClosed
	}
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		if !unWatch {
			am.handleFileEvent(walkPath)
		}
		return nil
	})
}

// handleFileEvent indexes a created or modified file and reports whether it is an asset.
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := DetermineAssetType(path)
	if assetType == AssetTypeNone {
		return false
	}
	modTime := time.Now()
	if s, err := os.Stat(path); err == nil {
		modTime = s.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	path = filepath.Clean(path)
	am.assets[path] = AssetInfo{
		Path:    path,
		Type:    assetType,
		ModTime: modTime,
	}
	return true
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, filepath.Clean(path))
}

func DetermineAssetType(path string) AssetType {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".obj.lz4") {
		return AssetTypeModel
	}
	switch filepath.Ext(lower) {
	case ".glsl":
		return AssetTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return AssetTypeImage
	case ".obj":
		return AssetTypeModel
	case ".mtl":
		return AssetTypeMaterial
	default:
		return AssetTypeNone
	}
}
