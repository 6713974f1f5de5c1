package scan

import (
	"context"
	"log"
	"time"

	"scandoc/internal/keyservice"
	"scandoc/internal/platform/metrics"
	"scandoc/internal/session"
	"scandoc/internal/verification"
)

// Authenticator is the slice of the key service the supervisor uses for the
// initial token exchange.
type Authenticator interface {
	Authenticate(ctx context.Context, userKey, subClient string) (keyservice.Credentials, error)
}

// Extractor is the slice of the verification client that processes a
// confirmed capture set.
type Extractor interface {
	Extract(ctx context.Context, front, back []byte) (verification.Outcome, error)
}

// Backoff groups the supervisor's fixed delays.
type Backoff struct {
	// AuthRetry spaces out authentication attempts at pipeline start.
	AuthRetry time.Duration
	// ValidationFailure spaces out validation retries after a failed request.
	ValidationFailure time.Duration
	// Drain gives event consumers time between capture and extraction.
	Drain time.Duration
}

// DefaultBackoff matches the session cadence of the hosted service.
var DefaultBackoff = Backoff{
	AuthRetry:         2 * time.Second,
	ValidationFailure: 200 * time.Millisecond,
	Drain:             500 * time.Millisecond,
}

// FrameLongEdgeDefault bounds the transmitted frame's long edge in pixels.
const FrameLongEdgeDefault = 384

// Supervisor drives the whole pipeline: authenticate, then run
// reconcile-extract-publish cycles until torn down. All network calls and all
// reconciliation transitions happen on this single goroutine; the token store
// is the only state also touched from a retry transition.
type Supervisor struct {
	tokens        *session.Store
	auth          Authenticator
	validator     Validator
	extractor     Extractor
	frames        *Source
	bus           *Bus
	log           *log.Logger
	metrics       *metrics.Metrics
	backoff       Backoff
	frameLongEdge int
}

type SupervisorParams struct {
	Tokens    *session.Store
	Auth      Authenticator
	Validator Validator
	Extractor Extractor
	Frames    *Source
	Bus       *Bus
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	Backoff   Backoff
	// FrameLongEdge defaults to FrameLongEdgeDefault when zero.
	FrameLongEdge int
}

func NewSupervisor(p SupervisorParams) *Supervisor {
	if p.FrameLongEdge == 0 {
		p.FrameLongEdge = FrameLongEdgeDefault
	}
	return &Supervisor{
		tokens:        p.Tokens,
		auth:          p.Auth,
		validator:     p.Validator,
		extractor:     p.Extractor,
		frames:        p.Frames,
		bus:           p.Bus,
		log:           p.Logger,
		metrics:       p.Metrics,
		backoff:       p.Backoff,
		frameLongEdge: p.FrameLongEdge,
	}
}

// Run blocks until ctx is cancelled. Authentication failures are retried
// forever with a fixed backoff; there is no terminal give-up state. Once
// authenticated the capture loop runs for the rest of the session; token
// recovery from then on is the refresh-once path inside the transport
// wrapper, never a full re-authentication.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		snapshot := s.tokens.Snapshot()
		s.metrics.AuthAttempts.Inc()
		creds, err := s.auth.Authenticate(ctx, snapshot.UserKey, snapshot.SubClient)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Printf("authentication failed: %v", err)
			s.metrics.NetworkErrors.Inc()
			s.bus.Publish(NetworkError{Err: err})
			if err := sleep(ctx, s.backoff.AuthRetry); err != nil {
				return err
			}
			continue
		}
		s.tokens.SetTokens(creds.AccessToken, creds.RefreshToken)
		return s.captureLoop(ctx)
	}
}

// captureLoop never exits on its own; only ctx cancellation stops it. Each
// iteration starts a fresh reconciler, so side captures from an abandoned
// cycle cannot leak into the next one.
func (s *Supervisor) captureLoop(ctx context.Context) error {
	for {
		reconciler := NewReconciler(s.frames, s.validator, s.bus, s.log, s.metrics, s.backoff.ValidationFailure, s.frameLongEdge)
		set, err := reconciler.Run(ctx)
		if err != nil {
			return err
		}
		if err := sleep(ctx, s.backoff.Drain); err != nil {
			return err
		}
		s.bus.Publish(ExtractionProgress{})
		if err := s.extract(ctx, set); err != nil {
			return err
		}
	}
}

func (s *Supervisor) extract(ctx context.Context, set CaptureSet) error {
	front, err := EncodePNG(set.Front)
	if err != nil {
		s.log.Printf("encode front capture: %v", err)
		return nil
	}
	var back []byte
	if set.Back != nil {
		if back, err = EncodePNG(set.Back); err != nil {
			s.log.Printf("encode back capture: %v", err)
			return nil
		}
	}

	s.metrics.ExtractionRequests.Inc()
	outcome, err := s.extractor.Extract(ctx, front, back)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.metrics.NetworkErrors.Inc()
		s.bus.Publish(NetworkError{Err: err})
		return nil
	}
	s.bus.Publish(Extracted{
		DocumentImages: outcome.DocumentImages,
		FaceImage:      outcome.FaceImage,
		SignatureImage: outcome.SignatureImage,
		Fields:         outcome.Fields,
	})
	return nil
}
