package utils

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="up.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveImageWritesThumbnail(t *testing.T) {
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 900, 600))))
	fh := fileHeader(t, "image/png", img.Bytes())
	require.True(t, IsImage(fh))

	dir := t.TempDir()
	saved, err := SaveImage(fh, dir, "/static/uploads")
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/"+saved.ID+".jpg", saved.Path)
	assert.Equal(t, "/static/uploads/thumb/"+saved.ID+".jpg", saved.ThumbPath)

	thumb, err := imaging.Open(LocalPath(dir, "/static/uploads", saved.ThumbPath))
	require.NoError(t, err)
	assert.Equal(t, ThumbWidth, thumb.Bounds().Dx())
	assert.Equal(t, 200, thumb.Bounds().Dy())

	_, err = os.Stat(filepath.Join(dir, saved.ID+".jpg"))
	assert.NoError(t, err)
}

func TestSaveImageRejectsGarbage(t *testing.T) {
	fh := fileHeader(t, "image/png", []byte("not an image"))
	_, err := SaveImage(fh, t.TempDir(), "/static/uploads")
	assert.Error(t, err)
	assert.False(t, IsImage(fileHeader(t, "text/plain", []byte("x"))))
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, filepath.Join("up", "a.jpg"), LocalPath("up", "/static/uploads", "/static/uploads/a.jpg"))
	assert.Equal(t, "", LocalPath("up", "/static/uploads", "/elsewhere/a.jpg"))
	assert.Equal(t, "", LocalPath("up", "/static/uploads", "/static/uploads/../secret"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b.pdf", SanitizeFilename("a b.pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file", SanitizeFilename(""))
}

func TestParseLimit(t *testing.T) {
	req := func(q string) *http.Request { return httptest.NewRequest(http.MethodGet, "/?"+q, nil) }
	assert.Equal(t, 10, ParseLimit(req(""), 10, 100))
	assert.Equal(t, 10, ParseLimit(req("limit=0"), 10, 100))
	assert.Equal(t, 100, ParseLimit(req("limit=5000"), 10, 100))
	assert.Equal(t, 7, ParseLimit(req("limit=7"), 10, 100))
	assert.Equal(t, 3, QueryInt(req("year=3"), "year", 0))
}

func TestRespondAndDecode(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusTeapot, "nope")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var dst struct{ Name string }
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "x", dst.Name)

	big := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("a", 2<<20)+`"}`))
	assert.Error(t, DecodeJSON(big, &dst))
}
