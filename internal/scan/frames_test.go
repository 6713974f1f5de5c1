package scan

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(w, h int) image.Image {
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	frame.Set(0, 0, color.RGBA{R: 255, A: 255})
	return frame
}

func TestSource_PullOneWait(t *testing.T) {
	source := NewSource()
	frame := testFrame(4, 4)
	source.Offer(frame)

	got, err := source.Next(context.Background())
	require.NoError(t, err)
	assert.Same(t, frame, got)
}

func TestSource_OfferReplacesPendingFrame(t *testing.T) {
	source := NewSource()
	source.Offer(testFrame(1, 1))
	latest := testFrame(2, 2)
	source.Offer(latest)

	got, err := source.Next(context.Background())
	require.NoError(t, err)
	assert.Same(t, latest, got, "consumer sees the most recently delivered frame")
}

func TestSource_NextBlocksUntilCancelled(t *testing.T) {
	source := NewSource()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := source.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSource_NextBlocksUntilProducerDelivers(t *testing.T) {
	source := NewSource()
	go func() {
		time.Sleep(10 * time.Millisecond)
		source.Offer(testFrame(3, 3))
	}()

	got, err := source.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Bounds().Dx())
}

func TestDownscale_LandscapeLongEdge(t *testing.T) {
	scaled := Downscale(testFrame(1920, 1080), 384)
	assert.Equal(t, 384, scaled.Bounds().Dx())
	assert.Equal(t, 216, scaled.Bounds().Dy(), "aspect ratio preserved")
}

func TestDownscale_PortraitLongEdge(t *testing.T) {
	scaled := Downscale(testFrame(1080, 1920), 384)
	assert.Equal(t, 216, scaled.Bounds().Dx())
	assert.Equal(t, 384, scaled.Bounds().Dy())
}

func TestDownscale_AlreadyAtTarget(t *testing.T) {
	frame := testFrame(384, 200)
	assert.Same(t, frame, Downscale(frame, 384))
}

func TestEncodePNG_RoundTrips(t *testing.T) {
	encoded, err := EncodePNG(testFrame(8, 6))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, 8, decoded.Bounds().Dx())
	assert.Equal(t, 6, decoded.Bounds().Dy())
}
