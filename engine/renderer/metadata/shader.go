package metadata

import "time"

/**
 * @brief A vertex input declared by a shader program, as reflected after linking.
 */
type ShaderAttribute struct {
	/** @brief The attribute name in the shader source. */
	Name string
	/** @brief The attribute location. */
	Location uint32
	/** @brief The number of components (1-4). */
	Components int32
}

/**
 * @brief A compiled shader program. Treated as an opaque handle plus
 * the list of vertex attributes it consumes.
 */
type Program struct {
	Handle ProgramHandle
	/** @brief Path of the shared source file holding every stage. */
	Path string
	/** @brief The per-shader name define used to select this program in the source. */
	Name string
	/** @brief Active vertex inputs of the linked program. */
	Attributes []ShaderAttribute
	/** @brief Whether both stages compiled and the program linked. */
	Linked bool
	/** @brief Modification time of the source when this program was built. */
	SourceModTime time.Time
}

/** @brief Stages compiled from a single shared source file. */
type ShaderStage int

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageFragment
)

func (s ShaderStage) Define() string {
	if s == ShaderStageVertex {
		return "VERTEX"
	}
	return "FRAGMENT"
}
