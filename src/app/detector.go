package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// Detector wraps the pretrained pothole model. The net is loaded once at
// startup and shared read-only across requests; the forward pass is
// treated as reentrant.
type Detector struct {
	net        gocv.Net
	inputSize  int
	confidence float32
	nms        float32
	log        zerolog.Logger
}

// NewDetector loads the ONNX export of the pothole model from modelPath.
func NewDetector(modelPath string, inputSize int, confidence, nms float32, log zerolog.Logger) (*Detector, error) {
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("could not load detection model from %s", modelPath)
	}
	log.Info().Str("model", modelPath).Msg("loaded detection model")
	return &Detector{
		net:        net,
		inputSize:  inputSize,
		confidence: confidence,
		nms:        nms,
		log:        log,
	}, nil
}

func (d *Detector) Close() {
	d.net.Close()
}

// Detect runs inference on a BGR frame and returns a new annotated frame
// plus the number of surviving detections. The caller owns both mats.
func (d *Detector) Detect(img gocv.Mat) (gocv.Mat, int, error) {
	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return gocv.Mat{}, 0, fmt.Errorf("read model output: %w", err)
	}

	boxes, scores := decodeBoxes(data, img.Cols(), img.Rows(), d.inputSize, d.confidence)
	indices := gocv.NMSBoxes(boxes, scores, d.confidence, d.nms)

	annotated := img.Clone()
	for _, idx := range indices {
		box := boxes[idx]
		gocv.Rectangle(&annotated, box, boxColor, 2)
		label := fmt.Sprintf("pothole %.2f", scores[idx])
		gocv.PutText(&annotated, label, image.Pt(box.Min.X, box.Min.Y-6),
			gocv.FontHersheySimplex, 0.5, boxColor, 1)
	}
	return annotated, len(indices), nil
}

// decodeBoxes reads the single-class YOLO output head, laid out as five
// rows [cx, cy, w, h, score] over the prediction columns, in input-space
// coordinates. Boxes are scaled back to the source image.
func decodeBoxes(data []float32, imgW, imgH, inputSize int, confidence float32) ([]image.Rectangle, []float32) {
	preds := len(data) / 5
	if preds == 0 {
		return nil, nil
	}
	scaleX := float32(imgW) / float32(inputSize)
	scaleY := float32(imgH) / float32(inputSize)

	var boxes []image.Rectangle
	var scores []float32
	for i := 0; i < preds; i++ {
		score := data[4*preds+i]
		if score < confidence {
			continue
		}
		cx := data[i] * scaleX
		cy := data[preds+i] * scaleY
		w := data[2*preds+i] * scaleX
		h := data[3*preds+i] * scaleY
		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2)))
		scores = append(scores, score)
	}
	return boxes, scores
}
