package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"FishBiomass/internal/api/prediction"
	"FishBiomass/pkg/handlerUtil"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Status int
	Body   handlerUtil.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	if e.Body.Code == "" {
		return fmt.Sprintf("api returned %d: %s", e.Status, e.Body.Error)
	}
	return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Body.Code, e.Body.Error)
}

func (a *apiClient) PredictManual(ctx context.Context, req prediction.ManualPredictionRequest, tankID string) (*prediction.ManualPredictionResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("tank_id", tankID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/predict?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out prediction.ManualPredictionResponse
	if err := a.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *apiClient) PredictImage(ctx context.Context, filename string, data []byte, quantity int, tankID string) (*prediction.ImagePredictionResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", imageContentType(filename, data))
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("quantity", strconv.Itoa(quantity))
	q.Set("tank_id", tankID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/predict-image?"+q.Encode(), &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var out prediction.ImagePredictionResponse
	if err := a.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *apiClient) do(req *http.Request, out interface{}) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, &apiErr.Body)
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// imageContentType prefers the file extension and falls back to sniffing.
func imageContentType(filename string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "application/octet-stream"
}
