package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sparkyfitness-server/internal/config"
	"sparkyfitness-server/pkg/logger"
)

func newTestStorage(t *testing.T, maxSize int64) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStorage(&config.UploadsConfig{
		Dir:         dir,
		MaxFileSize: maxSize,
	}, logger.Default())
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s, dir
}

// makeFileHeader собирает multipart.FileHeader так же, как его видит handler.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":          "photo.jpg",
		"../../etc/passwd":   "passwd",
		"my photo (1).png":   "my_photo_1_.png",
		"кириллица.jpg":      "jpg",
		"..":                 "file",
		"":                   "file",
		"weird\x00name.gif":  "weird_name.gif",
	}

	for in, want := range cases {
		require.Equal(t, want, SanitizeFilename(in), "input=%q", in)
	}
}

func TestSave_DateBucketedPath(t *testing.T) {
	s, dir := newTestStorage(t, 1<<20)

	rel, err := s.Save(makeFileHeader(t, "progress.jpg", []byte("image-bytes")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rel, "2025/06/01/"), "path=%s", rel)
	require.True(t, strings.HasSuffix(rel, "-progress.jpg"), "path=%s", rel)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	require.Equal(t, []byte("image-bytes"), data)
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	s, _ := newTestStorage(t, 4)

	_, err := s.Save(makeFileHeader(t, "big.bin", []byte("too large")))
	require.Error(t, err)
}

func TestRemove_DeletesSavedFile(t *testing.T) {
	s, dir := newTestStorage(t, 1<<20)

	rel, err := s.Save(makeFileHeader(t, "doomed.png", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, s.Remove(rel))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	require.True(t, os.IsNotExist(err))
}

func TestOpen_RejectsPathTraversal(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	_, err := s.Open("../secrets.txt")
	require.Error(t, err)
}

func TestOpen_MissingNonCatalogFile(t *testing.T) {
	s, _ := newTestStorage(t, 1<<20)

	_, err := s.Open("2025/06/01/absent.jpg")
	require.True(t, os.IsNotExist(err))
}
