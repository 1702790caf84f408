package predictionHandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"FishBiomass/internal/api/prediction"
	"FishBiomass/internal/entity"
	"FishBiomass/internal/middleware"
	"FishBiomass/pkg/response"
	"FishBiomass/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeService struct {
	manualReq   prediction.ManualPredictionRequest
	tankID      string
	quantity    int
	imageData   []byte
	imageCalls  int
	manualCalls int
	err         error
}

func (s *fakeService) PredictManual(_ context.Context, req prediction.ManualPredictionRequest, tankID string) (*prediction.ManualPredictionResponse, error) {
	s.manualCalls++
	s.manualReq = req
	s.tankID = tankID
	if s.err != nil {
		return nil, s.err
	}
	return &prediction.ManualPredictionResponse{PredictedWeight: 360.06, TankID: tankID}, nil
}

func (s *fakeService) PredictImage(_ context.Context, data []byte, quantity int, tankID string) (*prediction.ImagePredictionResponse, error) {
	s.imageCalls++
	s.imageData = data
	s.quantity = quantity
	s.tankID = tankID
	if s.err != nil {
		return nil, s.err
	}
	return &prediction.ImagePredictionResponse{
		ImageWidthPx:    120,
		ImageHeightPx:   40,
		FeaturesUsed:    entity.FeatureVector{Length1: 12},
		PredictedWeight: 200,
		Quantity:        quantity,
		BiomassKg:       200 * float64(quantity) / 1000,
		TankID:          tankID,
	}, nil
}

func newTestApp(svc *fakeService, maxUpload int64) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger, middleware.DefaultOptions())
	h := New(logger, validator.New(), mw, svc, utils.NewWithMaxFileSize(maxUpload))

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	h.Start(app.Group("/api/v1"))
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func manualRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func imageRequest(t *testing.T, target, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="fish.png"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

const sampleBody = `{"length1":23.2,"length2":25.4,"length3":30.0,"height":11.52,"width":4.02}`

func TestPredictManualDefaultsTank(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, manualRequest("/api/v1/predict", sampleBody))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "manual_tank", body["tank_id"])
	assert.Equal(t, 360.06, body["predicted_weight"])

	require.NotNil(t, svc.manualReq.Height)
	assert.Equal(t, 11.52, *svc.manualReq.Height)
}

func TestPredictManualTankFromQuery(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, manualRequest("/api/v1/predict?tank_id=pond_3", sampleBody))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pond_3", body["tank_id"])
}

func TestPredictManualValidation(t *testing.T) {
	cases := map[string]string{
		"missing field":  `{"length1":23.2,"length2":25.4,"length3":30.0,"height":11.52}`,
		"negative value": `{"length1":-1,"length2":25.4,"length3":30.0,"height":11.52,"width":4.02}`,
		"malformed json": `{"length1":`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{}
			app := newTestApp(svc, 1<<20)

			status, body := doRequest(t, app, manualRequest("/api/v1/predict", payload))
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, response.KindValidation, body["code"])
			assert.Equal(t, 0, svc.manualCalls)
		})
	}
}

func TestPredictManualModelUnavailable(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: file missing", prediction.ErrModelUnavailable)}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, manualRequest("/api/v1/predict", sampleBody))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, response.KindModelUnavailable, body["code"])
}

func TestPredictImageDefaults(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, imageRequest(t, "/api/v1/predict-image", "image/png", []byte("png-bytes")))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tank_1", body["tank_id"])
	assert.Equal(t, float64(1), body["quantity"])
	assert.Equal(t, float64(120), body["image_width_px"])

	features, ok := body["features_used"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), features["Length1"])

	assert.Equal(t, []byte("png-bytes"), svc.imageData)
}

func TestPredictImageQuery(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, imageRequest(t, "/api/v1/predict-image?quantity=15&tank_id=tank_9", "image/jpeg", []byte("x")))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 15, svc.quantity)
	assert.Equal(t, "tank_9", body["tank_id"])
	assert.InDelta(t, 3.0, body["biomass_kg"], 1e-9)
}

func TestPredictImageRejectsQuantity(t *testing.T) {
	for _, q := range []string{"0", "-2", "abc"} {
		svc := &fakeService{}
		app := newTestApp(svc, 1<<20)

		status, body := doRequest(t, app, imageRequest(t, "/api/v1/predict-image?quantity="+q, "image/png", []byte("x")))
		assert.Equal(t, http.StatusBadRequest, status, q)
		assert.Equal(t, response.KindValidation, body["code"], q)
		assert.Equal(t, 0, svc.imageCalls, q)
	}
}

func TestPredictImageMissingFile(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict-image", nil)
	status, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, prediction.ErrMissingImage.Error(), body["error"])
}

func TestPredictImageUploadChecks(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc, 8)

	status, body := doRequest(t, app, imageRequest(t, "/api/v1/predict-image", "text/plain", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, prediction.ErrInvalidFileType.Error(), body["error"])

	status, body = doRequest(t, app, imageRequest(t, "/api/v1/predict-image", "image/png", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, prediction.ErrFileTooLarge.Error(), body["error"])

	assert.Equal(t, 0, svc.imageCalls)
}

func TestPredictImageDecodeError(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: unexpected EOF", prediction.ErrImageDecode)}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, imageRequest(t, "/api/v1/predict-image", "image/png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.KindImageDecode, body["code"])
}

func TestPredictImageUnexpectedError(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: disk full", prediction.ErrRecordObservation)}
	app := newTestApp(svc, 1<<20)

	status, body := doRequest(t, app, imageRequest(t, "/api/v1/predict-image", "image/png", []byte("x")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, response.KindInternal, body["code"])
	assert.NotContains(t, body["error"], "disk full")
}


func TestPredictTimeoutBeforeRecording(t *testing.T) {
	svc := &fakeService{err: context.DeadlineExceeded}
	app := newTestApp(svc, 1<<20)

	status, _ := doRequest(t, app, manualRequest("/api/v1/predict", sampleBody))
	assert.Equal(t, http.StatusRequestTimeout, status)

	status, _ = doRequest(t, app, imageRequest(t, "/api/v1/predict-image", "image/png", []byte("x")))
	assert.Equal(t, http.StatusRequestTimeout, status)

	assert.Equal(t, 1, svc.manualCalls)
	assert.Equal(t, 1, svc.imageCalls)
}
