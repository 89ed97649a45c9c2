package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/**
 * @brief Loads a 2D texture. Loads are keyed by path: asking for a path
 * that is already registered returns the same handle without decoding again.
 * Returns InvalidTextureID if the image can't be decoded or uploaded.
 */
func (r *Registry) LoadTexture2D(path string) metadata.TextureID {
	if id, ok := r.texturePaths[path]; ok {
		return id
	}

	image := r.takePrefetched(path)
	if image == nil {
		if r.config.Images == nil {
			core.LogError("no image decoder configured, can't load %s", path)
			return metadata.InvalidTextureID
		}
		var err error
		image, err = r.config.Images.Decode(path)
		if err != nil {
			core.LogError("failed to load texture %s: %s", path, err)
			return metadata.InvalidTextureID
		}
	}
	return r.CreateTexture(path, image)
}

// CreateTexture uploads decoded pixels and registers them under name.
func (r *Registry) CreateTexture(name string, image *metadata.ImageData) metadata.TextureID {
	if id, ok := r.texturePaths[name]; ok {
		core.LogWarn("texture %s is already registered", name)
		return id
	}
	desc := metadata.TextureDesc{
		Width:   image.Width,
		Height:  image.Height,
		Format:  metadata.TextureFormatForChannels(image.ChannelCount),
		Filter:  metadata.TextureFilterModeLinear,
		Repeat:  metadata.TextureRepeatRepeat,
		Mipmaps: true,
	}
	handle, err := r.backend.TextureCreate(desc, image.Pixels)
	if err != nil {
		core.LogError("failed to upload texture %s: %s", name, err)
		return metadata.InvalidTextureID
	}

	id := metadata.TextureID(len(r.Textures))
	r.Textures = append(r.Textures, &metadata.Texture{
		Handle:       handle,
		Path:         name,
		Width:        image.Width,
		Height:       image.Height,
		ChannelCount: image.ChannelCount,
		Format:       desc.Format,
	})
	r.texturePaths[name] = id
	return id
}

func (r *Registry) Texture(id metadata.TextureID) (*metadata.Texture, error) {
	if id < 0 || int(id) >= len(r.Textures) {
		return nil, fmt.Errorf("%w: texture %d", ErrInvalidHandle, id)
	}
	return r.Textures[id], nil
}

// TextureOrDefault resolves an optional texture, falling back to the white texture.
func (r *Registry) TextureOrDefault(t metadata.OptionalTexture) *metadata.Texture {
	if id, ok := t.Get(); ok {
		if tex, err := r.Texture(id); err == nil {
			return tex
		}
	}
	return r.DefaultTexture()
}

/**
 * @brief Decodes the given images in parallel on the job system and keeps the
 * pixels until LoadTexture2D uploads them. Only the decoding runs off the
 * calling goroutine. Blocks until every image is decoded or has failed.
 */
func (r *Registry) PrefetchTextures(paths []string) {
	if r.config.Images == nil {
		return
	}
	var wg sync.WaitGroup
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		if _, loaded := r.texturePaths[path]; loaded || seen[path] || path == "" {
			continue
		}
		seen[path] = true

		p := path
		decode := func() error {
			image, err := r.config.Images.Decode(p)
			if err != nil {
				return fmt.Errorf("failed to prefetch texture %s: %w", p, err)
			}
			r.prefetchMu.Lock()
			r.prefetched[p] = image
			r.prefetchMu.Unlock()
			return nil
		}

		if r.config.Jobs == nil {
			if err := decode(); err != nil {
				core.LogWarn(err.Error())
			}
			continue
		}
		wg.Add(1)
		r.config.Jobs.Submit(JobTask{
			Run: decode,
			OnFailure: func(err error) {
				core.LogWarn(err.Error())
			},
			OnCompletion: wg.Done,
		})
	}
	wg.Wait()
}

func (r *Registry) takePrefetched(path string) *metadata.ImageData {
	r.prefetchMu.Lock()
	defer r.prefetchMu.Unlock()
	image, ok := r.prefetched[path]
	if !ok {
		return nil
	}
	delete(r.prefetched, path)
	return image
}
