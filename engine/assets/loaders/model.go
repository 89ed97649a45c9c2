package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/math"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// OBJImporter reads Wavefront OBJ models (plain or ".obj.lz4") and their
// material libraries. One submesh is produced per material group.
type OBJImporter struct{}

type objIndex struct {
	position, texcoord, normal int
}

type objGroup struct {
	material string
	vertices []math.Vertex3D
	indices  []uint32
	lookup   map[objIndex]uint32
	normals  bool
}

type objState struct {
	positions []mgl32.Vec3
	texcoords []mgl32.Vec2
	normals   []mgl32.Vec3
	groups    []*objGroup
	current   *objGroup
	libraries []string
}

func (oi *OBJImporter) Import(path string) (*metadata.ModelData, error) {
	r, err := openAsset(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	state, err := parseOBJ(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	var materials []metadata.MaterialConfig
	for _, lib := range state.libraries {
		mats, err := loadMaterialLibrary(filepath.Join(baseDir, lib), baseDir)
		if err != nil {
			core.LogWarn("model %s: material library %s: %s", path, lib, err)
			continue
		}
		materials = append(materials, mats...)
	}

	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".lz4")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	model := &metadata.ModelData{Name: name}

	byName := make(map[string]int, len(materials))
	for i, m := range materials {
		byName[m.Name] = i
	}
	for _, g := range state.groups {
		if len(g.indices) == 0 {
			continue
		}
		if !g.normals {
			math.GeometryGenerateNormals(g.vertices, g.indices)
		}
		math.GeometryGenerateTangents(g.vertices, g.indices)

		idx, ok := byName[g.material]
		if !ok {
			// groups without a known material get a default one of their own
			materials = append(materials, metadata.MaterialConfig{
				Name:             g.material,
				AlbedoTint:       mgl32.Vec4{1, 1, 1, 1},
				SpecularExponent: 32,
				BumpStrength:     1,
			})
			idx = len(materials) - 1
			byName[g.material] = idx
		}
		model.Submeshes = append(model.Submeshes, metadata.NewSubmeshData(g.vertices, g.indices))
		model.SubmeshMaterials = append(model.SubmeshMaterials, idx)
	}
	if len(model.Submeshes) == 0 {
		return nil, fmt.Errorf("model %s has no faces", path)
	}
	model.Materials = materials
	return model, nil
}

func loadMaterialLibrary(path, baseDir string) ([]metadata.MaterialConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if _, lzErr := os.Stat(path + ".lz4"); lzErr == nil {
			path += ".lz4"
		}
	}
	r, err := openAsset(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return parseMTL(r, baseDir)
}

func parseOBJ(r io.Reader) (*objState, error) {
	state := &objState{}
	state.useMaterial(metadata.DefaultMaterialName)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		key, args := fields[0], fields[1:]

		switch key {
		case "v":
			v, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			state.positions = append(state.positions, mgl32.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(args, 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			state.texcoords = append(state.texcoords, mgl32.Vec2{v[0], v[1]})
		case "vn":
			v, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			state.normals = append(state.normals, mgl32.Vec3{v[0], v[1], v[2]})
		case "f":
			if err := state.face(args); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNumber, err)
			}
		case "usemtl":
			state.useMaterial(strings.Join(args, " "))
		case "mtllib":
			state.libraries = append(state.libraries, strings.Join(args, " "))
		case "o", "g", "s":
			// grouping is driven by usemtl only
		default:
			core.LogDebug("obj: unknown key '%s' on line %d. Skipping...", key, lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *objState) useMaterial(name string) {
	for _, g := range s.groups {
		if g.material == name {
			s.current = g
			return
		}
	}
	g := &objGroup{material: name, lookup: make(map[objIndex]uint32)}
	s.groups = append(s.groups, g)
	s.current = g
}

// face triangulates a polygon as a fan around its first corner.
func (s *objState) face(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("face with %d corners", len(args))
	}
	corners := make([]uint32, len(args))
	for i, a := range args {
		idx, err := s.parseCorner(a)
		if err != nil {
			return err
		}
		corners[i] = s.current.vertex(idx, s)
	}
	for i := 1; i+1 < len(corners); i++ {
		s.current.indices = append(s.current.indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

func (s *objState) parseCorner(corner string) (objIndex, error) {
	parts := strings.Split(corner, "/")
	idx := objIndex{position: -1, texcoord: -1, normal: -1}
	resolve := func(value string, count int) (int, error) {
		if value == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(value)
		if err != nil {
			return -1, err
		}
		if i < 0 {
			i = count + i
		} else {
			i--
		}
		if i < 0 || i >= count {
			return -1, fmt.Errorf("index %s out of range (%d)", value, count)
		}
		return i, nil
	}
	var err error
	if idx.position, err = resolve(parts[0], len(s.positions)); err != nil {
		return idx, err
	}
	if idx.position < 0 {
		return idx, fmt.Errorf("corner %q has no position", corner)
	}
	if len(parts) > 1 {
		if idx.texcoord, err = resolve(parts[1], len(s.texcoords)); err != nil {
			return idx, err
		}
	}
	if len(parts) > 2 {
		if idx.normal, err = resolve(parts[2], len(s.normals)); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (g *objGroup) vertex(idx objIndex, s *objState) uint32 {
	if i, ok := g.lookup[idx]; ok {
		return i
	}
	v := math.Vertex3D{Position: s.positions[idx.position]}
	if idx.texcoord >= 0 {
		v.Texcoord = s.texcoords[idx.texcoord]
	}
	if idx.normal >= 0 {
		v.Normal = s.normals[idx.normal]
		g.normals = true
	}
	i := uint32(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.lookup[idx] = i
	return i
}
