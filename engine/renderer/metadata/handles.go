package metadata

/** @brief Renderer-API object names. Zero means "no object". */
type (
	BufferHandle      uint32
	TextureHandle     uint32
	ProgramHandle     uint32
	VertexArrayHandle uint32
	FramebufferHandle uint32
)

/**
 * @brief Stable indices into the resource registry arrays. Entries are never
 * removed while the registry lives, so an index stays valid for the whole run.
 */
type (
	TextureID  int
	ProgramID  int
	MeshID     int
	MaterialID int
	ModelID    int
	LightID    int
)

/** @brief Returned by texture loads that could not decode or upload the image. */
const InvalidTextureID TextureID = -1

/** @brief Returned by program loads that could not read the shader source. */
const InvalidProgramID ProgramID = -1

/** @brief A range, typically of memory */
type MemoryRange struct {
	/** @brief The Offset in bytes. */
	Offset uint64
	/** @brief The size in bytes. */
	Size uint64
}

// End returns the first byte after the range.
func (r MemoryRange) End() uint64 {
	return r.Offset + r.Size
}
