package transform

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Register decoders for the allowed upload formats. JPEG, PNG and GIF
	// come with imaging; webp is decode-only.
	_ "golang.org/x/image/webp"
)

// Result is the outcome of one resize: the encoded bytes and the actual
// dimensions of the encoded image.
type Result struct {
	Buffer []byte
	Width  int
	Height int
}

// Resize decodes buf and scales it to the requested target dimensions.
// A zero width or height means the axis was not requested:
//   - both given: the image is stretched to exactly width x height,
//     ignoring the source aspect ratio;
//   - one given: the other dimension is computed from the source aspect
//     ratio;
//   - neither given: buf is returned untouched with its intrinsic
//     dimensions.
//
// Any decode or encode error is returned as-is; callers classify it.
func Resize(buf []byte, width, height int) (*Result, error) {
	src, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if width == 0 && height == 0 {
		bounds := src.Bounds()
		return &Result{Buffer: buf, Width: bounds.Dx(), Height: bounds.Dy()}, nil
	}

	dst := imaging.Resize(src, width, height, imaging.Lanczos)

	var out bytes.Buffer
	if err := imaging.Encode(&out, dst, encodeFormat(format)); err != nil {
		return nil, fmt.Errorf("encode %s image: %w", format, err)
	}

	bounds := dst.Bounds()
	return &Result{Buffer: out.Bytes(), Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// encodeFormat maps a decoded format name to an encodable one. There is no
// webp encoder, so resized webp uploads are written back as PNG; the
// record's mime type still reflects the upload.
func encodeFormat(format string) imaging.Format {
	switch format {
	case "jpeg":
		return imaging.JPEG
	case "gif":
		return imaging.GIF
	default:
		return imaging.PNG
	}
}
