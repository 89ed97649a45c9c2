package metadata

import "github.com/go-gl/mathgl/mgl32"

/** @brief The camera matrices a frame was packed with. */
type CameraMatrices struct {
	Position   mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

/**
 * @brief Everything the frame updater produced for one frame. Built once
 * per frame and only read by the render passes of the same frame.
 */
type FrameData struct {
	/** @brief Monotonic frame counter. */
	Frame uint64
	/** @brief Seconds accumulated over every frame so far. */
	Time   float64
	Width  uint32
	Height uint32
	Camera CameraMatrices
	/** @brief Per-model transform slices, indexed like the registry models. */
	ModelTransforms []BufferRange
	/** @brief Camera position, light count and the packed lights. */
	Globals BufferRange
	/** @brief Per-light attenuation, same light order as Globals. */
	Attenuation BufferRange
	/** @brief The light order used by both Globals and Attenuation. */
	Lights []LightID
}
