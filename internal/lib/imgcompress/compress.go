package imgcompress

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 0.8

	outputMimeType  = "image/jpeg"
	defaultMimeType = "image/jpeg"
)

var mimePattern = regexp.MustCompile(`data:([^;]+);`)

// Result is the outcome of Compress. Fallback is set when the source could not
// be decoded or re-encoded and Encoded is the untouched input.
type Result struct {
	Encoded  string
	MimeType string
	Width    int
	Height   int
	Fallback bool
	Err      error
}

// Compress decodes a data URI image, scales it so that neither side exceeds
// maxDimension and re-encodes it as JPEG at quality (0,1]. It never fails:
// on any problem the original input comes back with best-effort metadata.
func Compress(src string, maxDimension int, quality float64) Result {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 1 {
		quality = DefaultQuality
	}

	_, raw, err := ParseDataURI(src)
	if err != nil {
		return fallback(src, 0, 0, err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return fallback(src, 0, 0, fmt.Errorf("decode image: %w", err))
	}

	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	width, height := FitDimensions(srcW, srcH, maxDimension)

	if width != srcW || height != srcH {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality(quality))); err != nil {
		return fallback(src, srcW, srcH, fmt.Errorf("encode image: %w", err))
	}

	return Result{
		Encoded:  "data:" + outputMimeType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType: outputMimeType,
		Width:    width,
		Height:   height,
	}
}

// FitDimensions scales w x h down so the larger side equals max, keeping the
// aspect ratio. Dimensions already within bounds are returned unchanged and a
// scaled side never drops below one pixel.
func FitDimensions(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}

	if w > h {
		return max, scaleSide(h, max, w)
	}

	return scaleSide(w, max, h), max
}

func scaleSide(side, max, longest int) int {
	return int(math.Max(1, math.Round(float64(side)*float64(max)/float64(longest))))
}

// DataURI wraps raw bytes into a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// MimeTypeOf extracts the media type declared by a data URI, defaulting to image/jpeg.
func MimeTypeOf(src string) string {
	if m := mimePattern.FindStringSubmatch(src); len(m) == 2 {
		return m[1]
	}
	return defaultMimeType
}

// ParseDataURI splits a base64 data URI into its media type and payload.
func ParseDataURI(src string) (string, []byte, error) {
	if !strings.HasPrefix(src, "data:") {
		return "", nil, fmt.Errorf("not a data uri")
	}

	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data uri")
	}

	meta, payload := src[5:comma], src[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64 payload: %w", err)
	}

	mimeType := strings.TrimSuffix(meta, ";base64")
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	return mimeType, raw, nil
}

func fallback(src string, width, height int, err error) Result {
	return Result{
		Encoded:  src,
		MimeType: MimeTypeOf(src),
		Width:    width,
		Height:   height,
		Fallback: true,
		Err:      err,
	}
}

func jpegQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}
