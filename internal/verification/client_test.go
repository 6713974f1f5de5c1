package verification

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scandoc/internal/session"
)

type noRefresh struct{}

func (noRefresh) Refresh(context.Context, string) (string, error) { return "unused", nil }

func testStore() *session.Store {
	store := session.NewStore("user-key", "sub-client", true)
	store.SetTokens("access-token", "refresh-token")
	return store
}

func TestValidate_RequestCarriesImageAndBlurHistory(t *testing.T) {
	var captured validationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validation/", r.URL.Path)
		assert.Equal(t, "access-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{"InfoCode": "1004"})
	}))
	defer srv.Close()

	client := NewValidationClient(srv.URL+"/", testStore(), noRefresh{})
	_, err := client.Validate(context.Background(), []byte("png-bytes"), []float64{0.1, 0.7})
	require.NoError(t, err)

	assert.True(t, captured.AcceptTermsAndConditions)
	require.Len(t, captured.DataFields.Images, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), captured.DataFields.Images[0])
	assert.Equal(t, []float64{0.1, 0.7}, captured.DataFields.BlurValues)
}

func TestValidate_EmptyHistoryTransmitsEmptyList(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(map[string]any{"InfoCode": "1004"})
	}))
	defer srv.Close()

	client := NewValidationClient(srv.URL+"/", testStore(), noRefresh{})
	_, err := client.Validate(context.Background(), []byte("png"), nil)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["DataFields"], &fields))
	assert.JSONEq(t, "[]", string(fields["BlurValues"]), "nil history must serialize as an empty list, not null")
}

func TestValidate_VerdictDecoding(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
		want Verdict
	}{
		{
			name: "full double-sided verdict, lowercase side",
			body: map[string]any{
				"InfoCode": "1007", "Validated": true, "Side": "front",
				"Country": "USA", "DetectedBlurValue": 0.42,
			},
			want: Verdict{InfoCode: "1007", Validated: true, Side: SideFront, Country: "USA"},
		},
		{
			name: "unrecognized side maps to unknown",
			body: map[string]any{"InfoCode": "1007", "Validated": true, "Side": "diagonal"},
			want: Verdict{InfoCode: "1007", Validated: true, Side: SideUnknown},
		},
		{
			name: "progress verdict without validation flag",
			body: map[string]any{"InfoCode": "1003"},
			want: Verdict{InfoCode: "1003", Side: SideUnknown},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(tc.body)
			}))
			defer srv.Close()

			client := NewValidationClient(srv.URL+"/", testStore(), noRefresh{})
			verdict, err := client.Validate(context.Background(), []byte("png"), nil)
			require.NoError(t, err)

			if blur, ok := tc.body["DetectedBlurValue"]; ok {
				require.NotNil(t, verdict.DetectedBlurValue)
				assert.InDelta(t, blur.(float64), *verdict.DetectedBlurValue, 1e-9)
				verdict.DetectedBlurValue = nil
			} else {
				assert.Nil(t, verdict.DetectedBlurValue, "omitted blur value must decode as absent")
			}
			assert.Equal(t, tc.want, verdict)
		})
	}
}

func TestExtract_RequestShape(t *testing.T) {
	var captured map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extraction/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	client := NewExtractionClient(srv.URL+"/", testStore(), noRefresh{})

	t.Run("double-sided", func(t *testing.T) {
		_, err := client.Extract(context.Background(), []byte("front"), []byte("back"))
		require.NoError(t, err)

		var dataFields extractionDataFields
		require.NoError(t, json.Unmarshal(captured["DataFields"], &dataFields))
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("front")), dataFields.FrontImage)
		assert.Equal(t, "base64", dataFields.FrontImageType)
		require.NotNil(t, dataFields.BackImage)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("back")), *dataFields.BackImage)
		require.NotNil(t, dataFields.BackImageType)
		assert.Equal(t, "base64", *dataFields.BackImageType)

		var settings extractionSettings
		require.NoError(t, json.Unmarshal(captured["Settings"], &settings))
		assert.Equal(t, fixedSettings, settings)
	})

	t.Run("single-sided omits back image", func(t *testing.T) {
		_, err := client.Extract(context.Background(), []byte("front"), nil)
		require.NoError(t, err)

		var dataFields extractionDataFields
		require.NoError(t, json.Unmarshal(captured["DataFields"], &dataFields))
		assert.Nil(t, dataFields.BackImage)
		assert.Nil(t, dataFields.BackImageType)
		assert.Nil(t, dataFields.BackImageCropped)
	})
}

func TestExtract_OutcomeDecoding(t *testing.T) {
	validDoc := base64.StdEncoding.EncodeToString([]byte("doc-image"))
	face := base64.StdEncoding.EncodeToString([]byte("face-image"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"InfoCode": "0",
			"Warnings": []string{"low light"},
			"Data": map[string]any{
				"DocumentNumber": map[string]any{"Read": true, "RecommendedValue": "X123"},
				"Name":           map[string]any{"Read": false, "RecommendedValue": "HIDDEN"},
			},
			"ImageData": map[string]any{
				"Documents": []string{validDoc, "!!not-base64!!"},
				"FaceImage": face,
				"Signature": "%%%broken%%%",
			},
		})
	}))
	defer srv.Close()

	client := NewExtractionClient(srv.URL+"/", testStore(), noRefresh{})
	outcome, err := client.Extract(context.Background(), []byte("front"), nil)
	require.NoError(t, err)

	assert.Equal(t, "0", outcome.InfoCode)
	assert.Equal(t, []string{"low light"}, outcome.Warnings)
	require.Len(t, outcome.DocumentImages, 1, "invalid base64 entries are dropped, not fatal")
	assert.Equal(t, []byte("doc-image"), outcome.DocumentImages[0])
	assert.Equal(t, []byte("face-image"), outcome.FaceImage)
	assert.Nil(t, outcome.SignatureImage, "broken signature image decodes to absent")
	assert.Equal(t, map[Field]string{FieldDocumentNumber: "X123"}, outcome.Fields)
}
