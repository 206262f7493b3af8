package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"My cool movie.mov":          "My_cool_movie.mov",
		"../../../etc/passwd":        "etc_passwd",
		`C:\Users\farm\ram.mp4`:      "C_Users_farm_ram.mp4",
		"i contain cool ümläuts.txt": "i_contain_cool_umlauts.txt",
		"ram (1)!.jpg":               "ram_1.jpg",
		"   ":                        "",
		"...":                        "",
		"日本.mp4":                     "mp4",
		"dorper-ram_A.v2.MP4":        "dorper-ram_A.v2.MP4",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func fileHeader(t *testing.T, name string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func newStorage(t *testing.T, unique bool) (*Storage, string) {
	t.Helper()
	static := t.TempDir()
	s, err := New(static, filepath.Join(static, "uploads", "videos"), unique)
	require.NoError(t, err)
	return s, static
}

func TestSave(t *testing.T) {
	s, static := newStorage(t, false)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	stored, err := s.Save(fileHeader(t, "ram photo.png", png))
	require.NoError(t, err)
	assert.Equal(t, "uploads/videos/ram_photo.png", stored.RelPath)
	assert.Equal(t, "image/png", stored.MimeType)
	assert.EqualValues(t, len(png), stored.Size)

	data, err := os.ReadFile(filepath.Join(static, "uploads", "videos", "ram_photo.png"))
	require.NoError(t, err)
	assert.Equal(t, png, data)

	require.NoError(t, s.Remove(stored.RelPath))
	_, err = os.Stat(stored.AbsPath)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Remove(stored.RelPath), "removing twice is not an error")
}

func TestSave_UnsafeNameFallsBackToUUID(t *testing.T) {
	s, _ := newStorage(t, false)
	stored, err := s.Save(fileHeader(t, "???", []byte("data")))
	require.NoError(t, err)
	assert.Len(t, filepath.Base(stored.RelPath), 36)
}

func TestSave_Unique(t *testing.T) {
	s, _ := newStorage(t, true)
	a, err := s.Save(fileHeader(t, "clip.mp4", []byte("one")))
	require.NoError(t, err)
	b, err := s.Save(fileHeader(t, "clip.mp4", []byte("two")))
	require.NoError(t, err)
	assert.NotEqual(t, a.RelPath, b.RelPath)
	assert.True(t, strings.HasSuffix(a.RelPath, "_clip.mp4"))
}

func TestSave_Empty(t *testing.T) {
	s, _ := newStorage(t, false)
	_, err := s.Save(fileHeader(t, "empty.mp4", nil))
	assert.ErrorIs(t, err, ErrEmptyFile)
	_, err = s.Save(nil)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestRemove_RejectsTraversal(t *testing.T) {
	s, _ := newStorage(t, false)
	assert.Error(t, s.Remove("../outside.txt"))
	assert.Error(t, s.Remove("/etc/passwd"))
}

func TestNew_UploadDirMustBeUnderStatic(t *testing.T) {
	static := t.TempDir()
	outside := filepath.Join(t.TempDir(), "uploads")

	_, err := New(static, outside, false)
	require.Error(t, err)
	_, statErr := os.Stat(outside)
	assert.True(t, os.IsNotExist(statErr), "nothing is created for a rejected layout")

	_, err = New(static, filepath.Join(static, "..uploads"), false)
	assert.NoError(t, err, "a sibling name starting with dots is still inside")
}
