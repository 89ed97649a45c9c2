package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/shoreline/engine/renderer/metadata"
)

// ImageLoader decodes png, jpeg, bmp, tiff and webp files into packed pixels.
// Grayscale images keep one channel, everything else is expanded to RGBA.
type ImageLoader struct {
	// FlipY stores the rows bottom-up, the order texture uploads expect.
	FlipY bool
}

func (il *ImageLoader) Decode(path string) (*metadata.ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	data := il.FromImage(img)
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("image %s (%s) is empty", path, format)
	}
	return data, nil
}

// FromImage converts an already decoded image.
func (il *ImageLoader) FromImage(img image.Image) *metadata.ImageData {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var channels int
	var pix []uint8
	var stride int
	switch src := img.(type) {
	case *image.Gray:
		channels, pix, stride = 1, src.Pix, src.Stride
	case *image.NRGBA:
		channels, pix, stride = 4, src.Pix, src.Stride
	default:
		if img.ColorModel() == color.GrayModel {
			gray := image.NewGray(image.Rect(0, 0, width, height))
			draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
			channels, pix, stride = 1, gray.Pix, gray.Stride
			break
		}
		rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
		channels, pix, stride = 4, rgba.Pix, rgba.Stride
	}

	row := width * channels
	out := make([]uint8, row*height)
	for y := 0; y < height; y++ {
		dst := y
		if il.FlipY {
			dst = height - 1 - y
		}
		copy(out[dst*row:(dst+1)*row], pix[y*stride:y*stride+row])
	}

	return &metadata.ImageData{
		ChannelCount: uint8(channels),
		Width:        uint32(width),
		Height:       uint32(height),
		Pixels:       out,
	}
}
