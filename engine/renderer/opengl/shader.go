package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

/**
 * @brief Compiles and links both stages. On failure the partially built
 * objects are released and a zero handle is returned with the driver log.
 */
func (r *OpenGLRenderer) ProgramCreate(vertexSource, fragmentSource string) (metadata.ProgramHandle, error) {
	vertex, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vertex)
	fragment, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fragment)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)

	h := metadata.ProgramHandle(program)
	r.programs[h] = &programInfo{uniforms: make(map[string]int32)}
	return h, nil
}

func (r *OpenGLRenderer) ProgramDestroy(program metadata.ProgramHandle) {
	gl.DeleteProgram(uint32(program))
	delete(r.programs, program)
}

var attributeComponents = map[uint32]int32{
	gl.FLOAT:      1,
	gl.FLOAT_VEC2: 2,
	gl.FLOAT_VEC3: 3,
	gl.FLOAT_VEC4: 4,
}

// ProgramAttributes reflects the active vertex inputs of a linked program.
func (r *OpenGLRenderer) ProgramAttributes(program metadata.ProgramHandle) []metadata.ShaderAttribute {
	var count, maxLength int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)

	attributes := make([]metadata.ShaderAttribute, 0, count)
	for i := int32(0); i < count; i++ {
		buf := make([]uint8, maxLength+1)
		var length, size int32
		var xtype uint32
		gl.GetActiveAttrib(uint32(program), uint32(i), maxLength+1, &length, &size, &xtype, &buf[0])
		name := string(buf[:length])

		location := gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
		if location < 0 {
			// built-ins like gl_VertexID
			continue
		}
		components, ok := attributeComponents[xtype]
		if !ok {
			core.LogWarn("attribute %s has unsupported type 0x%x, skipping", name, xtype)
			continue
		}
		attributes = append(attributes, metadata.ShaderAttribute{
			Name:       name,
			Location:   uint32(location),
			Components: components,
		})
	}
	return attributes
}

func (r *OpenGLRenderer) ProgramBindUniformBlock(program metadata.ProgramHandle, block string, binding uint32) {
	index := gl.GetUniformBlockIndex(uint32(program), gl.Str(block+"\x00"))
	if index == gl.INVALID_INDEX {
		// the block was optimized out or never declared
		return
	}
	gl.UniformBlockBinding(uint32(program), index, binding)
}

func (r *OpenGLRenderer) ProgramUse(program metadata.ProgramHandle) {
	gl.UseProgram(uint32(program))
}

func (r *OpenGLRenderer) uniformLocation(program metadata.ProgramHandle, name string) int32 {
	info, ok := r.programs[program]
	if !ok {
		return -1
	}
	if location, ok := info.uniforms[name]; ok {
		return location
	}
	location := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
	info.uniforms[name] = location
	return location
}

func (r *OpenGLRenderer) SetUniformInt(program metadata.ProgramHandle, name string, value int32) {
	if location := r.uniformLocation(program, name); location >= 0 {
		gl.ProgramUniform1i(uint32(program), location, value)
	}
}

func (r *OpenGLRenderer) SetUniformFloat(program metadata.ProgramHandle, name string, value float32) {
	if location := r.uniformLocation(program, name); location >= 0 {
		gl.ProgramUniform1f(uint32(program), location, value)
	}
}

func (r *OpenGLRenderer) SetUniformVec4(program metadata.ProgramHandle, name string, value mgl32.Vec4) {
	if location := r.uniformLocation(program, name); location >= 0 {
		gl.ProgramUniform4fv(uint32(program), location, 1, &value[0])
	}
}

func (r *OpenGLRenderer) SetUniformMat4(program metadata.ProgramHandle, name string, value mgl32.Mat4) {
	if location := r.uniformLocation(program, name); location >= 0 {
		gl.ProgramUniformMatrix4fv(uint32(program), location, 1, false, &value[0])
	}
}
