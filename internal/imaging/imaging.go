// Package imaging normalises photos before they enter the image folder.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"

	domainerrors "github.com/erazemk/itemize/internal/errors"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// blurHashSize bounds the thumbnail the placeholder is computed from.
const blurHashSize = 64

// allowedFormats lists the accepted input formats by decoder name.
var allowedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// Result is a normalised photo ready to be stored.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	BlurHash string
}

// Process decodes a JPEG or PNG photo, downscales it so neither side
// exceeds MaxDimension and re-encodes it as JPEG. The result carries a 4x3
// BlurHash placeholder; a placeholder failure leaves BlurHash empty.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.Validation("unsupported image format (only JPEG and PNG accepted)")
	}
	if !allowedFormats[format] {
		return nil, domainerrors.Validation(fmt.Sprintf("unsupported image format: %s (only JPEG and PNG accepted)", format))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = fit(img, MaxDimension, draw.CatmullRom)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	bounds := img.Bounds()
	res := &Result{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
	if hash, err := BlurHash(img); err == nil {
		res.BlurHash = hash
	}
	return res, nil
}

// BlurHash computes a 4x3 component placeholder for img from a small thumbnail.
func BlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, fit(img, blurHashSize, draw.ApproxBiLinear))
	if err != nil {
		return "", fmt.Errorf("encoding blurhash: %w", err)
	}
	return hash, nil
}

// fit scales img down so neither side exceeds maxDim, keeping the aspect
// ratio. Images already within bounds are returned as is.
func fit(img image.Image, maxDim int, scaler draw.Scaler) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
