package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scandoc/internal/keyservice"
	"scandoc/internal/platform/config"
	"scandoc/internal/platform/httpserver"
	"scandoc/internal/platform/logger"
	"scandoc/internal/platform/metrics"
	"scandoc/internal/scan"
	"scandoc/internal/session"
	"scandoc/internal/verification"
)

var frameInterval time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan [image ...]",
	Short: "Run the capture pipeline over image files until a document is extracted",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runScan(cmd.Context(), cfg, args)
	},
}

func init() {
	scanCmd.Flags().DurationVar(&frameInterval, "frame-interval", 300*time.Millisecond, "delay between produced frames")
}

func runScan(ctx context.Context, cfg config.Config, paths []string) error {
	log := logger.New()

	identityPath, err := session.DefaultIdentityPath()
	if err != nil {
		return err
	}
	subClient, err := session.SubClient(session.NewFileIdentityStore(identityPath))
	if err != nil {
		return err
	}

	tokens := session.NewStore(cfg.Auth.UserKey, subClient, cfg.Auth.TermsAccepted)
	keys := keyservice.New(cfg.Services.KeyServiceBaseURL)
	bus := scan.NewBus()
	frames := scan.NewSource()

	supervisor := scan.NewSupervisor(scan.SupervisorParams{
		Tokens:    tokens,
		Auth:      keys,
		Validator: verification.NewValidationClient(cfg.Services.ScanServiceBaseURL, tokens, keys),
		Extractor: verification.NewExtractionClient(cfg.Services.ScanServiceBaseURL, tokens, keys),
		Frames:    frames,
		Bus:       bus,
		Logger:    log,
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Backoff:   scan.DefaultBackoff,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := bus.Subscribe("cli", 64)

	group, ctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Addr != "" {
		group.Go(func() error { return serveMetrics(ctx, cfg.Metrics.Addr) })
	}
	group.Go(func() error { return produceFrames(ctx, frames, paths) })
	group.Go(func() error {
		err := supervisor.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	group.Go(func() error {
		defer cancel()
		return consumeEvents(ctx, log, events)
	})
	return group.Wait()
}

// produceFrames cycles through the given images at a fixed cadence, standing
// in for a live camera feed.
func produceFrames(ctx context.Context, frames *scan.Source, paths []string) error {
	decoded := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := decodeImage(path)
		if err != nil {
			return err
		}
		decoded = append(decoded, img)
	}
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frames.Offer(decoded[i%len(decoded)])
		}
	}
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// consumeEvents prints progress and stops the run after the first extraction
// outcome.
func consumeEvents(ctx context.Context, log interface{ Printf(string, ...any) }, events <-chan scan.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case scan.ValidationProgress:
				log.Printf("validation progress: info code %s", e.InfoCode)
			case scan.ExtractionProgress:
				log.Printf("capture confirmed, extracting")
			case scan.NetworkError:
				log.Printf("network error: %v", e.Err)
			case scan.Extracted:
				printOutcome(e)
				return nil
			}
		}
	}
}

func printOutcome(e scan.Extracted) {
	fmt.Printf("extracted %d document image(s), face=%v, signature=%v\n",
		len(e.DocumentImages), e.FaceImage != nil, e.SignatureImage != nil)
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, string(field))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, e.Fields[verification.Field(name)])
	}
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return httpserver.Serve(ctx, httpserver.New(addr, mux))
}
