package systems

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

/**
 * @brief Builds a program from a shared source file. Both stages come from
 * the same text, selected by the VERTEX/FRAGMENT defines plus a define with
 * the upper-cased program name. Compile and link errors are logged and the
 * (possibly broken) program is still registered, so iteration on the source
 * can continue. Returns InvalidProgramID only when the source can't be read.
 */
func (r *Registry) LoadProgram(path, name string) metadata.ProgramID {
	if r.config.Sources == nil {
		core.LogError("no shader source reader configured, can't load %s", path)
		return metadata.InvalidProgramID
	}
	source, modTime, err := r.config.Sources.ReadSource(path)
	if err != nil {
		core.LogError("failed to read shader %s: %s", path, err)
		return metadata.InvalidProgramID
	}

	program := r.buildProgram(path, name, source, modTime)
	id := metadata.ProgramID(len(r.Programs))
	r.Programs = append(r.Programs, program)
	return id
}

func (r *Registry) buildProgram(path, name, source string, modTime time.Time) *metadata.Program {
	vs := r.stageSource(metadata.ShaderStageVertex, name, source)
	fs := r.stageSource(metadata.ShaderStageFragment, name, source)

	program := &metadata.Program{
		Path:          path,
		Name:          name,
		Linked:        true,
		SourceModTime: modTime,
	}
	handle, err := r.backend.ProgramCreate(vs, fs)
	if err != nil {
		core.LogError("shader %s (%s): %s", name, path, err)
		program.Linked = false
	}
	program.Handle = handle
	if handle == 0 {
		return program
	}

	for block, binding := range metadata.UniformBlockNames {
		r.backend.ProgramBindUniformBlock(handle, block, binding)
	}
	program.Attributes = r.backend.ProgramAttributes(handle)
	return program
}

func (r *Registry) stageSource(stage metadata.ShaderStage, name, source string) string {
	var sb strings.Builder
	sb.WriteString(r.config.ShaderVersion)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "#define %s\n", stage.Define())
	fmt.Fprintf(&sb, "#define %s\n", ProgramDefine(name))
	sb.WriteString("#line 1\n")
	sb.WriteString(source)
	return sb.String()
}

// ProgramDefine turns a program name into the preprocessor define that selects it.
func ProgramDefine(name string) string {
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z':
			return c - 'a' + 'A'
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		}
		return '_'
	}, name)
}

func (r *Registry) Program(id metadata.ProgramID) (*metadata.Program, error) {
	if id < 0 || int(id) >= len(r.Programs) {
		return nil, fmt.Errorf("%w: program %d", ErrInvalidHandle, id)
	}
	return r.Programs[id], nil
}

/**
 * @brief Rebuilds a program if its source changed since it was built.
 * A rebuild that fails to compile keeps the previous program in place.
 * Vertex arrays built for the old program are released.
 * Returns true if the program was replaced.
 */
func (r *Registry) ReloadProgram(id metadata.ProgramID) (bool, error) {
	program, err := r.Program(id)
	if err != nil {
		return false, err
	}
	source, modTime, err := r.config.Sources.ReadSource(program.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read shader %s: %w", program.Path, err)
	}
	if !modTime.After(program.SourceModTime) {
		return false, nil
	}

	rebuilt := r.buildProgram(program.Path, program.Name, source, modTime)
	if !rebuilt.Linked && program.Linked {
		core.LogWarn("keeping the previous build of shader %s", program.Name)
		if rebuilt.Handle != 0 {
			r.backend.ProgramDestroy(rebuilt.Handle)
		}
		program.SourceModTime = modTime
		return false, nil
	}

	old := program.Handle
	r.InvalidateProgram(old)
	if old != 0 {
		r.backend.ProgramDestroy(old)
	}
	r.Programs[id] = rebuilt
	core.LogInfo("reloaded shader %s", program.Name)
	return true, nil
}

// ReloadPath reloads every program built from the given source file.
func (r *Registry) ReloadPath(path string) int {
	path = filepath.Clean(path)
	reloaded := 0
	for i, p := range r.Programs {
		if filepath.Clean(p.Path) != path {
			continue
		}
		ok, err := r.ReloadProgram(metadata.ProgramID(i))
		if err != nil {
			core.LogError(err.Error())
			continue
		}
		if ok {
			reloaded++
		}
	}
	return reloaded
}

// OnAssetChanged is an event listener that hot-reloads shader sources.
func (r *Registry) OnAssetChanged(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
	if code != core.EVENT_CODE_ASSET_CHANGED || data.Path == "" {
		return false
	}
	r.ReloadPath(data.Path)
	// other listeners may care about the same file
	return false
}
