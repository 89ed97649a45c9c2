package views

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/shoreline/engine/renderer"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
	"github.com/spaghettifunk/shoreline/engine/systems"
)

/**
 * @brief Everything a render view reads or writes while drawing a frame.
 * The registry stays the sole owner of the GPU objects, views only hold
 * indices into it.
 */
type RenderContext struct {
	Backend      renderer.Backend
	Registry     *systems.Registry
	Framebuffers *systems.FramebufferSystem
	Updater      *systems.FrameUpdater
	Primitives   systems.Primitives
}

func (c *RenderContext) bindTarget(target *metadata.RenderTarget) {
	c.Backend.FramebufferBind(target.Framebuffer, target.Width, target.Height)
}

func (c *RenderContext) bindBlock(binding uint32, r metadata.BufferRange) {
	c.Backend.BufferBindRange(binding, r.Buffer, r.Range.Offset, r.Range.Size)
}

// bindSamplers points the named sampler uniforms at their texture units.
func (c *RenderContext) bindSamplers(program metadata.ProgramHandle, samplers map[string]uint32) {
	for name, unit := range samplers {
		c.Backend.SetUniformInt(program, name, int32(unit))
	}
}

func (c *RenderContext) program(id metadata.ProgramID) (*metadata.Program, error) {
	p, err := c.Registry.Program(id)
	if err != nil {
		return nil, err
	}
	c.Backend.ProgramUse(p.Handle)
	return p, nil
}

type submeshFunc func(program *metadata.Program, modelIndex int, model *metadata.Model, submesh int) error

/**
 * @brief Issues one indexed draw per submesh of every model, with the vertex
 * array built for the given program. fn runs after the vertex array is
 * bound and before the draw.
 */
func (c *RenderContext) drawScene(program *metadata.Program, programID metadata.ProgramID, fn submeshFunc) error {
	for i, model := range c.Registry.Models {
		mesh, err := c.Registry.Mesh(model.Mesh)
		if err != nil {
			return fmt.Errorf("model %q: %w", model.Name, err)
		}
		for j, submesh := range mesh.Submeshes {
			vao, err := c.Registry.FindVAO(model.Mesh, j, programID)
			if err != nil {
				return fmt.Errorf("model %q submesh %d: %w", model.Name, j, err)
			}
			c.Backend.VertexArrayBind(vao)
			if fn != nil {
				if err := fn(program, i, model, j); err != nil {
					return err
				}
			}
			c.Backend.DrawIndexed(submesh.IndexCount(), submesh.IndexOffset)
		}
	}
	return nil
}

// drawMesh draws the first submesh of a built-in mesh.
func (c *RenderContext) drawMesh(meshID metadata.MeshID, programID metadata.ProgramID) error {
	mesh, err := c.Registry.Mesh(meshID)
	if err != nil {
		return err
	}
	vao, err := c.Registry.FindVAO(meshID, 0, programID)
	if err != nil {
		return fmt.Errorf("mesh %q: %w", mesh.Name, err)
	}
	c.Backend.VertexArrayBind(vao)
	c.Backend.DrawIndexed(mesh.Submeshes[0].IndexCount(), mesh.Submeshes[0].IndexOffset)
	return nil
}

/**
 * @brief Binds the material maps and parameters. The albedo map always gets
 * bound, the white texture standing in for a missing one. Every other map is
 * bound only when present, with a flag uniform telling the shader whether to
 * sample it.
 */
func (c *RenderContext) bindMaterial(program metadata.ProgramHandle, m *metadata.Material) {
	c.Backend.TextureBind(metadata.TextureUnitAlbedo, c.Registry.TextureOrDefault(m.Albedo).Handle)
	c.Backend.SetUniformVec4(program, "albedoTint", m.AlbedoTint)
	c.Backend.SetUniformFloat(program, "specularExponent", m.SpecularExponent)
	c.Backend.SetUniformFloat(program, "bumpStrength", m.BumpStrength)

	c.bindOptional(program, metadata.TextureUnitSpecular, "hasSpecularMap", m.Specular)
	c.bindOptional(program, metadata.TextureUnitNormal, "hasNormalMap", m.Normal)
	c.bindOptional(program, metadata.TextureUnitBump, "hasBumpMap", m.Bump)
}

func (c *RenderContext) bindOptional(program metadata.ProgramHandle, unit uint32, flag string, t metadata.OptionalTexture) {
	id, ok := t.Get()
	if !ok {
		c.Backend.SetUniformInt(program, flag, 0)
		return
	}
	tex, err := c.Registry.Texture(id)
	if err != nil {
		c.Backend.SetUniformInt(program, flag, 0)
		return
	}
	c.Backend.TextureBind(unit, tex.Handle)
	c.Backend.SetUniformInt(program, flag, 1)
}

var materialSamplers = map[string]uint32{
	"albedoMap":   metadata.TextureUnitAlbedo,
	"specularMap": metadata.TextureUnitSpecular,
	"normalMap":   metadata.TextureUnitNormal,
	"bumpMap":     metadata.TextureUnitBump,
}

// modelTransforms returns the transform slice the frame updater packed for a model.
func modelTransforms(frame *metadata.FrameData, modelIndex int) (metadata.BufferRange, error) {
	if modelIndex >= len(frame.ModelTransforms) {
		return metadata.BufferRange{}, fmt.Errorf("model %d was added after the frame was packed", modelIndex)
	}
	return frame.ModelTransforms[modelIndex], nil
}

func viewProjection(frame *metadata.FrameData) mgl32.Mat4 {
	return frame.Camera.Projection.Mul4(frame.Camera.View)
}
