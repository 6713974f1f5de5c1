package scan

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Source is the capacity-1 rendezvous between the external frame producer
// and the reconciler. The producer replaces whatever frame is pending, so a
// slow consumer only ever pulls the most recently delivered frame; coalescing
// beyond that is the producer's responsibility.
type Source struct {
	ch chan image.Image
}

func NewSource() *Source {
	return &Source{ch: make(chan image.Image, 1)}
}

// Offer hands a frame to the pipeline without blocking. A pending undelivered
// frame is discarded in favor of the new one.
func (s *Source) Offer(frame image.Image) {
	for {
		select {
		case s.ch <- frame:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

// Next blocks until the producer delivers a frame or ctx is cancelled.
func (s *Source) Next(ctx context.Context) (image.Image, error) {
	select {
	case frame := <-s.ch:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Downscale resizes a frame so its long edge matches target, preserving
// aspect ratio. This bounds validation request size; the full-resolution
// frame is kept for the capture set.
func Downscale(frame image.Image, target int) image.Image {
	bounds := frame.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	long := width
	if height > long {
		long = height
	}
	if long == target || long == 0 {
		return frame
	}
	coef := float64(long) / float64(target)
	scaled := image.NewRGBA(image.Rect(0, 0, int(float64(width)/coef), int(float64(height)/coef)))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, bounds, draw.Src, nil)
	return scaled
}

// EncodePNG serializes a frame for transmission.
func EncodePNG(frame image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
