package verification

import "strings"

// Wire models for the verification service. The service speaks PascalCase
// JSON throughout.

type validationRequest struct {
	AcceptTermsAndConditions bool                 `json:"AcceptTermsAndConditions"`
	DataFields               validationDataFields `json:"DataFields"`
}

type validationDataFields struct {
	Images     []string  `json:"Images"`
	BlurValues []float64 `json:"BlurValues"`
}

type validationResponse struct {
	InfoCode          string   `json:"InfoCode"`
	Validated         *bool    `json:"Validated"`
	Side              *string  `json:"Side"`
	Country           *string  `json:"Country"`
	DetectedBlurValue *float64 `json:"DetectedBlurValue"`
}

// Side classifies a physical document face.
type Side int

const (
	SideUnknown Side = iota
	SideFront
	SideBack
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	default:
		return "unknown"
	}
}

// ParseSide is case-insensitive; anything other than the front/back literals
// maps to SideUnknown, never an error.
func ParseSide(raw string) Side {
	switch strings.ToUpper(raw) {
	case "FRONT":
		return SideFront
	case "BACK":
		return SideBack
	default:
		return SideUnknown
	}
}

// Verdict is the structured outcome of one validation call.
type Verdict struct {
	InfoCode          string
	Validated         bool
	Side              Side
	Country           string
	DetectedBlurValue *float64
}

type extractionRequest struct {
	AcceptTermsAndConditions bool                 `json:"AcceptTermsAndConditions"`
	DataFields               extractionDataFields `json:"DataFields"`
	Settings                 extractionSettings   `json:"Settings"`
}

type extractionDataFields struct {
	FrontImage        string  `json:"FrontImage"`
	FrontImageType    string  `json:"FrontImageType"`
	FrontImageCropped bool    `json:"FrontImageCropped"`
	BackImage         *string `json:"BackImage"`
	BackImageType     *string `json:"BackImageType"`
	BackImageCropped  *bool   `json:"BackImageCropped"`
}

type extractionSettings struct {
	IgnoreBackImage                  bool    `json:"IgnoreBackImage"`
	ShouldReturnDocumentImage        bool    `json:"ShouldReturnDocumentImage"`
	ShouldReturnFaceIfDetected       bool    `json:"ShouldReturnFaceIfDetected"`
	ShouldReturnSignatureIfDetected  bool    `json:"ShouldReturnSignatureIfDetected"`
	SkipDocumentsSizeCheck           bool    `json:"SkipDocumentsSizeCheck"`
	SkipImageSizeCheck               bool    `json:"SkipImageSizeCheck"`
	CanStoreImages                   bool    `json:"CanStoreImages"`
	EnforceDocsSameCountryTypeSeries bool    `json:"EnforceDocsSameCountryTypeSeries"`
	CaseSensitiveOutput              bool    `json:"CaseSensitiveOutput"`
	FaceImageResize                  *string `json:"FaceImageResize"`
	SignatureImageResize             *string `json:"SignatureImageResize"`
	SegmentedImageResize             *string `json:"SegmentedImageResize"`
	StoreFaceImage                   bool    `json:"StoreFaceImage"`
	DontUseValidation                bool    `json:"DontUseValidation"`
}

// fixedSettings disables server-side size checks and asks for the cropped
// document, face and signature images back. Images are never stored remotely.
var fixedSettings = extractionSettings{
	IgnoreBackImage:                  true,
	ShouldReturnDocumentImage:        true,
	ShouldReturnFaceIfDetected:       true,
	ShouldReturnSignatureIfDetected:  true,
	SkipDocumentsSizeCheck:           true,
	SkipImageSizeCheck:               true,
	CanStoreImages:                   false,
	EnforceDocsSameCountryTypeSeries: false,
	CaseSensitiveOutput:              true,
	StoreFaceImage:                   false,
	DontUseValidation:                true,
}

type extractionResponse struct {
	InfoCode  *string              `json:"InfoCode"`
	Errors    []string             `json:"Errors"`
	Warnings  []string             `json:"Warnings"`
	Data      *extractionData      `json:"Data"`
	ImageData *extractionImageData `json:"ImageData"`
}

type extractionData struct {
	Name                         *FieldData `json:"Name"`
	Surname                      *FieldData `json:"Surname"`
	BirthDate                    *FieldData `json:"BirthDate"`
	Gender                       *FieldData `json:"Gender"`
	PlaceOfBirth                 *FieldData `json:"PlaceOfBirth"`
	Nationality                  *FieldData `json:"Nationality"`
	DocumentNumber               *FieldData `json:"DocumentNumber"`
	IssuedDate                   *FieldData `json:"IssuedDate"`
	ExpiryDate                   *FieldData `json:"ExpiryDate"`
	CountryOfIssue               *FieldData `json:"CountryOfIssue"`
	IssuingAuthority             *FieldData `json:"IssuingAuthority"`
	AddressCountry               *FieldData `json:"AddressCountry"`
	AddressZip                   *FieldData `json:"AddressZip"`
	AddressCity                  *FieldData `json:"AddressCity"`
	AddressCounty                *FieldData `json:"AddressCounty"`
	AddressStreet                *FieldData `json:"AddressStreet"`
	PersonalIdentificationNumber *FieldData `json:"PersonalIdentificationNumber"`
	GivenName                    *FieldData `json:"GivenName"`
	FamilyName                   *FieldData `json:"FamilyName"`
	MothersGivenName             *FieldData `json:"MothersGivenName"`
	MothersFamilyName            *FieldData `json:"MothersFamilyName"`
	SecondLastName               *FieldData `json:"SecondLastName"`
	Address                      *FieldData `json:"Address"`
	PlaceOfIssue                 *FieldData `json:"PlaceOfIssue"`
	FathersGivenName             *FieldData `json:"FathersGivenName"`
	FathersFamilyName            *FieldData `json:"FathersFamilyName"`
}

// FieldData carries one extracted attribute with its per-method readings.
type FieldData struct {
	Read             *bool        `json:"Read"`
	Validated        *bool        `json:"Validated"`
	RecommendedValue *string      `json:"RecommendedValue"`
	MRZ              *FieldMethod `json:"MRZ"`
	OCR              *FieldMethod `json:"OCR"`
}

// FieldMethod is a single reading method's result (MRZ or OCR).
type FieldMethod struct {
	Read      *bool   `json:"Read"`
	Validated *bool   `json:"Validated"`
	Value     *string `json:"Value"`
}

type extractionImageData struct {
	Documents []string `json:"Documents"`
	FaceImage *string  `json:"FaceImage"`
	Signature *string  `json:"Signature"`
}
