package app

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"gocv.io/x/gocv"
)

// ErrDecodeImage marks an upload that could not be turned into pixels.
// Handlers map it to a client error naming the offending file.
var ErrDecodeImage = errors.New("could not decode uploaded image")

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// ImageCodec converts uploaded bytes to BGR mats and annotated mats back
// to compressed byte streams.
type ImageCodec struct{}

func NewImageCodec() *ImageCodec {
	return &ImageCodec{}
}

// Decode converts raw upload bytes into a BGR Mat. OpenCV's decoder is
// tried first; inputs it rejects go through the stdlib image decoders.
// On error the returned mat holds no native allocation.
func (c *ImageCodec) Decode(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if err == nil {
		mat.Close()
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return gocv.Mat{}, ErrDecodeImage
	}
	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return gocv.Mat{}, ErrDecodeImage
	}
	defer rgba.Close()
	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// EncodeJPEG compresses a frame and wraps it as a self-describing inline
// payload alongside the raw bytes.
func (c *ImageCodec) EncodeJPEG(mat gocv.Mat) (string, []byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return "", nil, fmt.Errorf("image encoding failed: %w", err)
	}
	defer buf.Close()
	raw := make([]byte, len(buf.GetBytes()))
	copy(raw, buf.GetBytes())
	return DataURI(mimeJPEG, raw), raw, nil
}

// DataURI wraps payload bytes in the inline base64 form, embedding the
// media type so no out-of-band content-type field is needed.
func DataURI(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}
