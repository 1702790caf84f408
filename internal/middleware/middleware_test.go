package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contextPkg "FishBiomass/pkg/context"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return l
}

func newTestApp(m Middleware) *fiber.App {
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Use(m.NewLoggingMiddleware())
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c) + "|" + contextPkg.GetRequestID(c.UserContext()))
	})
	app.Post("/limited", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func TestRequestIDGenerated(t *testing.T) {
	m := New(newTestLogger(io.Discard), DefaultOptions())
	app := newTestApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/id", nil))
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDKey)
	assert.Len(t, id, 26)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id+"|"+id, string(body))
}

func TestRequestIDPropagated(t *testing.T) {
	m := New(newTestLogger(io.Discard), DefaultOptions())
	app := newTestApp(m)

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDKey, "client-supplied")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "client-supplied", resp.Header.Get(RequestIDKey))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "client-supplied|client-supplied", string(body))
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	m := New(newTestLogger(io.Discard), Options{RequestsPerSecond: 0.001, Burst: 2})
	app := newTestApp(m)

	var statuses []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, statuses)
}

func TestNewAppliesDefaults(t *testing.T) {
	m := New(newTestLogger(io.Discard), Options{}).(*middleware)
	assert.Equal(t, 100, m.rateLimitter.burstSize)
	assert.EqualValues(t, 50, m.rateLimitter.rate)
}

func TestLoggerSummarisesUploads(t *testing.T) {
	var out bytes.Buffer
	m := New(newTestLogger(&out), DefaultOptions())
	app := newTestApp(m)

	req := httptest.NewRequest(http.MethodPost, "/limited", strings.NewReader("binary-bytes"))
	req.Header.Set(fiber.HeaderContentType, "multipart/form-data; boundary=x")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Contains(t, out.String(), `"request_body":"[multipart/form-data body]"`)
	assert.NotContains(t, out.String(), "binary-bytes")
}

func TestSummarizeBody(t *testing.T) {
	assert.Equal(t, `{"a":1}`, summarizeBody(fiber.MIMEApplicationJSON, []byte(`{"a":1}`)))
	assert.Equal(t, "[unknown body]", summarizeBody("", []byte("x")))

	long := bytes.Repeat([]byte("a"), maxLoggedBody+10)
	assert.True(t, strings.HasSuffix(summarizeBody(fiber.MIMEApplicationJSON, long), "...[truncated]"))
}
