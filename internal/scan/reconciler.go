package scan

import (
	"context"
	"image"
	"log"
	"strings"
	"time"

	"scandoc/internal/platform/metrics"
	"scandoc/internal/verification"
)

// Info codes with client-side meaning. Everything else is opaque progress
// feedback relayed on the bus.
const (
	infoCodeSingleSided  = "1000"
	infoCodeSideCaptured = "1007"
)

// Validator is the slice of the verification client the reconciler uses.
type Validator interface {
	Validate(ctx context.Context, pngImage []byte, blurValues []float64) (verification.Verdict, error)
}

// CaptureSet is the finalized capture ready for extraction: a single frame,
// or a matched front/back pair. Back is nil for the single-sided case.
type CaptureSet struct {
	Front image.Image
	Back  image.Image
}

type sideCapture struct {
	country string
	frame   image.Image
}

// Reconciler accumulates per-side validation results until a confirmed
// capture set is ready. State lives for one supervisor cycle; each cycle
// starts with a fresh value.
type Reconciler struct {
	frames        *Source
	validator     Validator
	bus           *Bus
	log           *log.Logger
	metrics       *metrics.Metrics
	failureDelay  time.Duration
	frameLongEdge int
}

func NewReconciler(frames *Source, validator Validator, bus *Bus, logger *log.Logger, m *metrics.Metrics, failureDelay time.Duration, frameLongEdge int) *Reconciler {
	return &Reconciler{
		frames:        frames,
		validator:     validator,
		bus:           bus,
		log:           logger,
		metrics:       m,
		failureDelay:  failureDelay,
		frameLongEdge: frameLongEdge,
	}
}

// Run pulls frames and validates them until the service confirms a capture.
//
// Blur history is side-agnostic: it grows while the service reports a
// DetectedBlurValue and is reset whenever the service omits it (the server's
// way of signalling the history is no longer applicable, e.g. a side switch).
//
// A "1007" verdict records the frame keyed by side; Unknown sides never
// contribute. Completion of the double-sided case requires both sides with
// byte-equal countries. A mismatched pair keeps waiting, each side subject
// to overwrite by a newer capture of the same side.
//
// Request failures are recovered locally: one NetworkError event, a short
// delay, then the loop continues with its accumulated state intact. Only ctx
// cancellation makes Run return an error.
func (r *Reconciler) Run(ctx context.Context) (CaptureSet, error) {
	var blurValues []float64
	sides := make(map[verification.Side]sideCapture)

	for {
		frame, err := r.frames.Next(ctx)
		if err != nil {
			return CaptureSet{}, err
		}
		encoded, err := EncodePNG(Downscale(frame, r.frameLongEdge))
		if err != nil {
			r.log.Printf("drop frame: %v", err)
			continue
		}

		r.metrics.ValidationRequests.Inc()
		verdict, err := r.validator.Validate(ctx, encoded, blurValues)
		if err != nil {
			if ctx.Err() != nil {
				return CaptureSet{}, ctx.Err()
			}
			r.metrics.NetworkErrors.Inc()
			r.bus.Publish(NetworkError{Err: err})
			if err := sleep(ctx, r.failureDelay); err != nil {
				return CaptureSet{}, err
			}
			continue
		}

		if verdict.DetectedBlurValue != nil {
			blurValues = append(blurValues, *verdict.DetectedBlurValue)
		} else {
			blurValues = nil
		}
		r.bus.Publish(ValidationProgress{InfoCode: verdict.InfoCode})

		if !verdict.Validated {
			continue
		}
		switch strings.TrimSpace(verdict.InfoCode) {
		case infoCodeSingleSided:
			r.metrics.CapturesCompleted.Inc()
			return CaptureSet{Front: frame}, nil
		case infoCodeSideCaptured:
			if verdict.Side == verification.SideUnknown {
				continue
			}
			sides[verdict.Side] = sideCapture{country: verdict.Country, frame: frame}
			front, haveFront := sides[verification.SideFront]
			back, haveBack := sides[verification.SideBack]
			if haveFront && haveBack && front.country == back.country {
				r.metrics.CapturesCompleted.Inc()
				return CaptureSet{Front: front.frame, Back: back.frame}, nil
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
