package app

import (
	"errors"
	"fmt"
)

// ErrEncodeImage marks a result frame the codec failed to re-encode.
var ErrEncodeImage = errors.New("failed to encode result image")

// Prediction is the per-image outcome of the detection pipeline. URL is
// empty when the artifact was not persisted.
type Prediction struct {
	DataURI string
	URL     string
	Count   int
}

// DetectionPipeline runs one uploaded image through decode, inference,
// re-encode and best-effort persistence.
type DetectionPipeline struct {
	codec    *ImageCodec
	detector *Detector
	store    *ArtifactStore
}

func NewDetectionPipeline(codec *ImageCodec, detector *Detector, store *ArtifactStore) *DetectionPipeline {
	return &DetectionPipeline{
		codec:    codec,
		detector: detector,
		store:    store,
	}
}

func (p *DetectionPipeline) Process(filename string, data []byte) (Prediction, error) {
	mat, err := p.codec.Decode(data)
	if err != nil {
		mat.Close()
		return Prediction{}, err
	}
	defer mat.Close()

	// Legacy mode: keep a copy of the raw upload. Never fatal.
	p.store.SaveUpload(filename, data)

	annotated, count, err := p.detector.Detect(mat)
	if err != nil {
		annotated.Close()
		return Prediction{}, err
	}
	defer annotated.Close()

	dataURI, raw, err := p.codec.EncodeJPEG(annotated)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrEncodeImage, err)
	}

	return Prediction{
		DataURI: dataURI,
		URL:     p.store.SaveResult(filename, raw),
		Count:   count,
	}, nil
}
