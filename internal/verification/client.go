package verification

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"scandoc/internal/session"
	"scandoc/internal/transport"
)

const (
	validationTimeout = 10 * time.Second
	extractionTimeout = 30 * time.Second
)

// ValidationClient submits one candidate frame plus the rolling blur history
// and returns the service's verdict. Calls go through the refresh-once
// transport wrapper.
type ValidationClient struct {
	endpoint string
	client   *transport.Client
}

func NewValidationClient(baseURL string, tokens *session.Store, refresher transport.Refresher) *ValidationClient {
	return &ValidationClient{
		endpoint: baseURL + "validation/",
		client:   transport.NewClient(&http.Client{Timeout: validationTimeout}, tokens, refresher),
	}
}

// Validate sends the PNG-encoded frame with the full accumulated blur history
// so the server can assess the blur trend, not just the latest frame.
func (c *ValidationClient) Validate(ctx context.Context, pngImage []byte, blurValues []float64) (Verdict, error) {
	if blurValues == nil {
		blurValues = []float64{}
	}
	req := validationRequest{
		AcceptTermsAndConditions: c.client.Tokens().Snapshot().TermsAccepted,
		DataFields: validationDataFields{
			Images:     []string{base64.StdEncoding.EncodeToString(pngImage)},
			BlurValues: blurValues,
		},
	}
	resp, err := transport.Do[validationResponse](ctx, c.client, c.endpoint, req)
	if err != nil {
		return Verdict{}, err
	}

	verdict := Verdict{
		InfoCode:          resp.InfoCode,
		Validated:         resp.Validated != nil && *resp.Validated,
		DetectedBlurValue: resp.DetectedBlurValue,
	}
	if resp.Side != nil {
		verdict.Side = ParseSide(*resp.Side)
	}
	if resp.Country != nil {
		verdict.Country = *resp.Country
	}
	return verdict, nil
}

// Outcome is the decoded result of one extraction call. Images arrive
// base64-encoded; entries that fail to decode are dropped rather than failing
// the whole response.
type Outcome struct {
	InfoCode       string
	Errors         []string
	Warnings       []string
	DocumentImages [][]byte
	FaceImage      []byte
	SignatureImage []byte
	Fields         map[Field]string
}

// ExtractionClient submits a confirmed capture for field extraction.
type ExtractionClient struct {
	endpoint string
	client   *transport.Client
}

func NewExtractionClient(baseURL string, tokens *session.Store, refresher transport.Refresher) *ExtractionClient {
	return &ExtractionClient{
		endpoint: baseURL + "extraction/",
		client:   transport.NewClient(&http.Client{Timeout: extractionTimeout}, tokens, refresher),
	}
}

// Extract encodes the capture as a front/back pair; back is nil for a
// single-sided capture.
func (c *ExtractionClient) Extract(ctx context.Context, front, back []byte) (Outcome, error) {
	dataFields := extractionDataFields{
		FrontImage:        base64.StdEncoding.EncodeToString(front),
		FrontImageType:    "base64",
		FrontImageCropped: false,
	}
	if back != nil {
		backImage := base64.StdEncoding.EncodeToString(back)
		backType := "base64"
		backCropped := false
		dataFields.BackImage = &backImage
		dataFields.BackImageType = &backType
		dataFields.BackImageCropped = &backCropped
	}
	req := extractionRequest{
		AcceptTermsAndConditions: c.client.Tokens().Snapshot().TermsAccepted,
		DataFields:               dataFields,
		Settings:                 fixedSettings,
	}
	resp, err := transport.Do[extractionResponse](ctx, c.client, c.endpoint, req)
	if err != nil {
		return Outcome{}, err
	}
	return decodeOutcome(resp), nil
}

func decodeOutcome(resp extractionResponse) Outcome {
	out := Outcome{
		Errors:   resp.Errors,
		Warnings: resp.Warnings,
		Fields:   mapFields(resp.Data),
	}
	if resp.InfoCode != nil {
		out.InfoCode = *resp.InfoCode
	}
	if resp.ImageData == nil {
		return out
	}
	for _, doc := range resp.ImageData.Documents {
		decoded, err := base64.StdEncoding.DecodeString(doc)
		if err != nil {
			continue
		}
		out.DocumentImages = append(out.DocumentImages, decoded)
	}
	if resp.ImageData.FaceImage != nil {
		if decoded, err := base64.StdEncoding.DecodeString(*resp.ImageData.FaceImage); err == nil {
			out.FaceImage = decoded
		}
	}
	if resp.ImageData.Signature != nil {
		if decoded, err := base64.StdEncoding.DecodeString(*resp.ImageData.Signature); err == nil {
			out.SignatureImage = decoded
		}
	}
	return out
}
