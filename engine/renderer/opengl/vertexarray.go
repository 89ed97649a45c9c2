package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

func (r *OpenGLRenderer) VertexArrayCreate(vertexBuffer, indexBuffer metadata.BufferHandle, stride uint32, attributes []metadata.VertexAttribute) (metadata.VertexArrayHandle, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vertexBuffer))
	for _, a := range attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, int32(stride), uintptr(a.Offset))
	}
	// the element binding is part of the vertex array state
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indexBuffer))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := checkError("VertexArrayCreate"); err != nil {
		gl.DeleteVertexArrays(1, &vao)
		return 0, fmt.Errorf("vertex array for buffer %d: %w", vertexBuffer, err)
	}
	return metadata.VertexArrayHandle(vao), nil
}

func (r *OpenGLRenderer) VertexArrayDestroy(vertexArray metadata.VertexArrayHandle) {
	vao := uint32(vertexArray)
	gl.DeleteVertexArrays(1, &vao)
}

func (r *OpenGLRenderer) VertexArrayBind(vertexArray metadata.VertexArrayHandle) {
	gl.BindVertexArray(uint32(vertexArray))
}
