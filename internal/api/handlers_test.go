package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apack/pack/aplib"
	"github.com/apack/pack/internal/config"
	"github.com/gin-gonic/gin"
)

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, cfg)
	return r
}

func upload(t *testing.T, path string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := mw.CreateFormFile("file", "sample.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var content = bytes.Repeat([]byte("to be or not to be, that is the question. "), 30)

func TestCompress(t *testing.T) {
	r := newRouter(&config.Config{MaxFileSize: 1 << 20})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, upload(t, "/api/v1/compress", content, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	want, err := aplib.Compress(content)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(w.Body.Bytes(), want) {
		t.Error("response differs from aplib.Compress output")
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=sample.ap" {
		t.Errorf("Content-Disposition %q", got)
	}
}

func TestCompressSafe(t *testing.T) {
	r := newRouter(&config.Config{MaxFileSize: 1 << 20})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, upload(t, "/compress", content, map[string]string{"safe": "true"}))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	h, _, err := aplib.ParseHeader(w.Body.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if h.OrigSize != uint32(len(content)) {
		t.Errorf("OrigSize %d", h.OrigSize)
	}
}

func TestCompressEmpty(t *testing.T) {
	r := newRouter(&config.Config{MaxFileSize: 1 << 20})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, upload(t, "/api/v1/compress", nil, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("raw: status %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, upload(t, "/api/v1/compress", nil, map[string]string{"safe": "true"}))
	if w.Code != http.StatusOK || w.Body.Len() != aplib.HeaderSize {
		t.Errorf("safe: status %d, %d bytes", w.Code, w.Body.Len())
	}
}

func TestCompressTooLarge(t *testing.T) {
	r := newRouter(&config.Config{MaxFileSize: 100})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, upload(t, "/api/v1/compress", content, nil))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d", w.Code)
	}
}

func TestCompressMissingFile(t *testing.T) {
	r := newRouter(&config.Config{MaxFileSize: 100})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compress", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d", w.Code)
	}
}

func TestCompare(t *testing.T) {
	r := newRouter(&config.Config{MaxFileSize: 1 << 20})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, upload(t, "/api/v1/compare", content, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}

	var resp CompareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OriginalSize != len(content) || len(resp.Results) == 0 || resp.Results[0].Codec != "aplib" {
		t.Errorf("got %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	r := newRouter(&config.Config{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status %d", w.Code)
	}
}

func TestGetBaseFilename(t *testing.T) {
	for in, want := range map[string]string{
		"":            "file",
		"a.txt":       "a",
		"archive":     "archive",
		"x.tar.gz":    "x.tar",
		"dir.d/plain": "dir.d/plain",
		"dir/a.bin":   "dir/a",
	} {
		if got := getBaseFilename(in); got != want {
			t.Errorf("getBaseFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
