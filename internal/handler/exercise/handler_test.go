package exercise_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sparkyfitness-server/internal/config"
	domain "sparkyfitness-server/internal/domain/exercise"
	exercisehandler "sparkyfitness-server/internal/handler/exercise"
	"sparkyfitness-server/internal/handler/middleware"
	repo "sparkyfitness-server/internal/repository/interfaces"
	"sparkyfitness-server/internal/upload"
	exerciseuc "sparkyfitness-server/internal/usecase/exercise"
	"sparkyfitness-server/pkg/logger"
)

// ==== Fakes ====

type fakeExerciseService struct {
	exercise  *domain.Exercise
	updateErr error
	updated   *exerciseuc.UpdateInput
}

func (f *fakeExerciseService) Create(context.Context, uuid.UUID, uuid.UUID, exerciseuc.CreateInput) (*domain.Exercise, error) {
	return nil, nil
}

func (f *fakeExerciseService) Get(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*domain.Exercise, error) {
	if f.exercise == nil {
		return nil, repo.ErrNotFound
	}
	return f.exercise, nil
}

func (f *fakeExerciseService) Search(context.Context, uuid.UUID, uuid.UUID, repo.ExerciseFilter) ([]*domain.Exercise, error) {
	return nil, nil
}

func (f *fakeExerciseService) Update(_ context.Context, _ uuid.UUID, _ uuid.UUID, input exerciseuc.UpdateInput) (*domain.Exercise, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = &input
	return f.exercise, nil
}

func (f *fakeExerciseService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func newUploadRouter(t *testing.T, svc exerciseuc.Service) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	storage := upload.NewStorage(&config.UploadsConfig{Dir: dir, MaxFileSize: 1 << 20}, logger.Default())
	h := exercisehandler.NewHandler(svc, storage)

	userID := uuid.New().String()
	r := gin.New()
	r.POST("/exercises/images", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
	}, h.UploadImage)
	return r, dir
}

// multipartUpload собирает multipart-запрос с файлом в указанном поле.
func multipartUpload(t *testing.T, field string, extra map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := w.CreateFormFile(field, "bench.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	for k, v := range extra {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/exercises/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	require.NoError(t, filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	}))
	return n
}

// ==== Tests ====

func TestUploadImage_AcceptsImageField(t *testing.T) {
	r, dir := newUploadRouter(t, &fakeExerciseService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "image", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"/uploads/`)
	require.Equal(t, 1, countFiles(t, dir))
}

func TestUploadImage_AcceptsImagesField(t *testing.T) {
	r, dir := newUploadRouter(t, &fakeExerciseService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "images", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, countFiles(t, dir))
}

func TestUploadImage_MissingFile(t *testing.T) {
	r, dir := newUploadRouter(t, &fakeExerciseService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, countFiles(t, dir))
}

func TestUploadImage_AttachAppendsToExercise(t *testing.T) {
	owner := uuid.New()
	ex := domain.NewCustomExercise(owner, "Bench Press", "strength", 300)
	ex.Images = []string{"2025/05/01/old.jpg"}
	svc := &fakeExerciseService{exercise: ex}
	r, _ := newUploadRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "image", map[string]string{"exercise_id": ex.ID.String()}))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.updated)
	require.Len(t, svc.updated.Images, 2)
	require.Equal(t, "2025/05/01/old.jpg", svc.updated.Images[0])
}

func TestUploadImage_FailedAttachRemovesFile(t *testing.T) {
	owner := uuid.New()
	ex := domain.NewCustomExercise(owner, "Bench Press", "strength", 300)
	svc := &fakeExerciseService{exercise: ex, updateErr: repo.ErrNotFound}
	r, dir := newUploadRouter(t, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "image", map[string]string{"exercise_id": ex.ID.String()}))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Zero(t, countFiles(t, dir))
}
