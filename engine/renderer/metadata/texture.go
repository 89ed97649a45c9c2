package metadata

/** @brief The path under which the built-in 1x1 white texture is registered. */
const DefaultTexturePath string = "builtin://white"

type TextureFormat int

const (
	TextureFormatRGBA8 TextureFormat = iota
	TextureFormatRGB8
	TextureFormatRG8
	TextureFormatR8
	TextureFormatRGBA16F
	TextureFormatRGBA32F
	TextureFormatDepth24
	TextureFormatDepth32F
)

// IsDepth reports whether the format can only be used as a depth attachment.
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth24 || f == TextureFormatDepth32F
}

// TextureFormatForChannels picks the 8-bit color format for a decoded image.
func TextureFormatForChannels(channels uint8) TextureFormat {
	switch channels {
	case 1:
		return TextureFormatR8
	case 2:
		return TextureFormatRG8
	case 3:
		return TextureFormatRGB8
	default:
		return TextureFormatRGBA8
	}
}

type TextureFilterMode int

const (
	TextureFilterModeNearest TextureFilterMode = iota
	TextureFilterModeLinear
)

type TextureRepeat int

const (
	TextureRepeatRepeat TextureRepeat = iota
	TextureRepeatClampToEdge
)

/** @brief Everything the backend needs to allocate a 2D texture. */
type TextureDesc struct {
	Width   uint32
	Height  uint32
	Format  TextureFormat
	Filter  TextureFilterMode
	Repeat  TextureRepeat
	Mipmaps bool
}

/**
 * @brief A GPU texture and the path it was loaded from. Immutable after creation.
 */
type Texture struct {
	/** @brief The renderer API texture name. */
	Handle TextureHandle
	/** @brief The source path, or a generated name for render target attachments. */
	Path   string
	Width  uint32
	Height uint32
	/** @brief The number of channels of the source image. */
	ChannelCount uint8
	Format       TextureFormat
}

/**
 * @brief An explicitly optional texture reference. Index 0 is a legitimate
 * texture, so absence can never be encoded in the index itself.
 */
type OptionalTexture struct {
	id      TextureID
	present bool
}

// SomeTexture wraps a loaded texture. An invalid id yields an absent reference.
func SomeTexture(id TextureID) OptionalTexture {
	if id < 0 {
		return OptionalTexture{}
	}
	return OptionalTexture{id: id, present: true}
}

func NoTexture() OptionalTexture {
	return OptionalTexture{}
}

func (o OptionalTexture) Get() (TextureID, bool) {
	return o.id, o.present
}

func (o OptionalTexture) Present() bool {
	return o.present
}

/** @brief Decoded image data as produced by the image decoder. */
type ImageData struct {
	/** @brief The number of channels. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The pixel data of the image, tightly packed rows. */
	Pixels []uint8
}
