package systems

import (
	"fmt"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

func (r *Registry) AddLight(light *metadata.Light) (metadata.LightID, error) {
	if light == nil {
		return -1, fmt.Errorf("func AddLight - light is nil")
	}
	id := metadata.LightID(len(r.Lights))
	r.Lights = append(r.Lights, light)
	return id, nil
}

func (r *Registry) Light(id metadata.LightID) (*metadata.Light, error) {
	if id < 0 || int(id) >= len(r.Lights) {
		return nil, fmt.Errorf("%w: light %d", ErrInvalidHandle, id)
	}
	return r.Lights[id], nil
}
