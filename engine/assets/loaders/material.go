package loaders

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// parseMTL reads a Wavefront material library. Map paths are resolved
// against baseDir.
func parseMTL(r io.Reader, baseDir string) ([]metadata.MaterialConfig, error) {
	scanner := bufio.NewScanner(r)
	var materials []metadata.MaterialConfig
	var current *metadata.MaterialConfig
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Fields(line)
		key, args := fields[0], fields[1:]
		if key == "newmtl" {
			if len(args) == 0 {
				return nil, fmt.Errorf("line %d: newmtl without a name", lineNumber)
			}
			materials = append(materials, metadata.MaterialConfig{
				Name:             strings.Join(args, " "),
				AlbedoTint:       mgl32.Vec4{1, 1, 1, 1},
				SpecularExponent: 32,
				BumpStrength:     1,
			})
			current = &materials[len(materials)-1]
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: %q before newmtl", lineNumber, key)
		}

		switch key {
		case "Kd":
			rgb, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid Kd: %w", lineNumber, err)
			}
			current.AlbedoTint = mgl32.Vec4{rgb[0], rgb[1], rgb[2], current.AlbedoTint.W()}
		case "d":
			d, err := parseFloats(args, 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid d: %w", lineNumber, err)
			}
			current.AlbedoTint[3] = d[0]
		case "Ns":
			ns, err := parseFloats(args, 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid Ns: %w", lineNumber, err)
			}
			current.SpecularExponent = ns[0]
		case "map_Kd":
			current.AlbedoMap = mapPath(args, baseDir, nil)
		case "map_Ks":
			current.SpecularMap = mapPath(args, baseDir, nil)
		case "norm", "map_Kn":
			current.NormalMap = mapPath(args, baseDir, nil)
		case "map_bump", "bump", "map_Bump", "disp":
			current.BumpMap = mapPath(args, baseDir, &current.BumpStrength)
		default:
			core.LogDebug("mtl: unknown key '%s' on line %d. Skipping...", key, lineNumber)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}

// mapPath strips map options ("-bm 0.5 file.png") and resolves the file name.
func mapPath(args []string, baseDir string, bumpMultiplier *float32) string {
	for i := 0; i < len(args); i++ {
		if !strings.HasPrefix(args[i], "-") {
			name := strings.ReplaceAll(strings.Join(args[i:], " "), "\\", "/")
			if filepath.IsAbs(name) {
				return name
			}
			return filepath.Join(baseDir, name)
		}
		if args[i] == "-bm" && i+1 < len(args) && bumpMultiplier != nil {
			if v, err := strconv.ParseFloat(args[i+1], 32); err == nil {
				*bumpMultiplier = float32(v)
			}
		}
		// every option used by exporters takes one value, except -o/-s/-t which take three
		switch args[i] {
		case "-o", "-s", "-t":
			i += 3
		default:
			i++
		}
	}
	return ""
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
