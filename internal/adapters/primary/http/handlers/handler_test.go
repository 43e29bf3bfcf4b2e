package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"license-plate-service/internal/core/domain"
	ports "license-plate-service/internal/core/ports/output"
	"license-plate-service/internal/core/services"
	"license-plate-service/internal/testutil"
)

type acceptingQueue struct{}

func (acceptingQueue) Enqueue(services.Task) error { return nil }

type fixture struct {
	router   *gin.Engine
	jobs     *testutil.MockJobRepo
	results  *testutil.MockResultRepo
	users    *testutil.MockUserRepo
	store    *testutil.MockArtifactStore
	models   *testutil.MockModelRepo
	regs     *testutil.MockRegistrationRepo
	deployer *testutil.MockDeployer
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)

	jobs := new(testutil.MockJobRepo)
	results := new(testutil.MockResultRepo)
	users := new(testutil.MockUserRepo)
	transitions := new(testutil.MockTransitions)
	store := new(testutil.MockArtifactStore)
	models := new(testutil.MockModelRepo)
	regs := new(testutil.MockRegistrationRepo)
	deployer := new(testutil.MockDeployer)

	jobSvc := services.NewJobService(jobs, results, users, transitions, acceptingQueue{})
	pipelineSvc := services.NewPipelineService(jobSvc, nil, nil, nil, nil, store, services.PipelineConfig{
		MinTrackDuration: 30 * time.Second,
		TempDir:          t.TempDir(),
		VideoPrefix:      "mesos",
	})
	registrySvc := services.NewRegistryService(jobSvc, models, regs, store, deployer, t.TempDir())
	deliverySvc := services.NewDeliveryService(results, store)

	h := New(pipelineSvc, jobSvc, registrySvc, deliverySvc, func(ctx context.Context) error { return nil })

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	router.GET("/healthz", h.Health)

	return &fixture{
		router:   router,
		jobs:     jobs,
		results:  results,
		users:    users,
		store:    store,
		models:   models,
		regs:     regs,
		deployer: deployer,
	}
}

func (f *fixture) allowDispatch() {
	owner := &domain.User{ID: uuid.New(), Email: services.BootstrapUserEmail}
	f.users.On("GetByEmail", mock.Anything, services.BootstrapUserEmail).Return(owner, nil)
	f.jobs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)
}

func multipartBody(t *testing.T, field, filename, content string, extra map[string]string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range extra {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSubmitInference_MissingFile(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/inference", strings.NewReader(""))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitInference_Accepted(t *testing.T) {
	f := newFixture(t)
	f.allowDispatch()

	body, contentType := multipartBody(t, "inference_data", "clip.mp4", "videobytes", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inference", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp["job_id"])
	assert.NoError(t, err)
}

func TestGetInference_NotFound(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	f.results.On("GetByID", mock.Anything, id).Return(nil, domain.ErrResultNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inference/"+id.String(), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInference_OutputOnlyOnSuccess(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	f.results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusStarted,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inference/"+id.String(), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string          `json:"status"`
		Output json.RawMessage `json:"output"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "STARTED", resp.Status)
	assert.Equal(t, "null", string(resp.Output))
}

func TestGetVideo_FullContent(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	key := "mesos/" + id.String() + ".mp4"
	f.results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusSuccess,
		Output: &domain.InferenceOutput{ArtifactKey: key},
	}, nil)
	f.store.On("Get", mock.Anything, key, "").Return(&ports.ArtifactContent{
		Body:          io.NopCloser(strings.NewReader("videobytes")),
		ContentType:   "video/mp4",
		ContentLength: 10,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+id.String(), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, "videobytes", rec.Body.String())
}

func TestGetVideo_RangeRequest(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	key := "mesos/" + id.String() + ".mp4"
	f.results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusSuccess,
		Output: &domain.InferenceOutput{ArtifactKey: key},
	}, nil)
	f.store.On("Get", mock.Anything, key, "bytes=0-99").Return(&ports.ArtifactContent{
		Body:          io.NopCloser(strings.NewReader(strings.Repeat("x", 100))),
		ContentType:   "video/mp4",
		ContentRange:  "bytes 0-99/1000",
		ContentLength: 100,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+id.String(), nil)
	req.Header.Set("Range", "bytes=0-99")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "bytes 0-99/1000", rec.Header().Get("Content-Range"))
	assert.Len(t, rec.Body.Bytes(), 100)
}

func TestGetVideo_MissingArtifact(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	f.results.On("GetByID", mock.Anything, id).Return(&domain.InferenceResult{
		ID:     id,
		Status: domain.JobStatusStarted,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+id.String(), nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadModel_UnknownFramework(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartBody(t, "model", "weights.tar", "weights", map[string]string{"framework": "cobol"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/models", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterModel_DeployerUnavailable(t *testing.T) {
	f := newFixture(t)

	f.deployer.On("IsAvailable").Return(false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/models/"+uuid.New().String()+"/register", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListJobs(t *testing.T) {
	f := newFixture(t)

	f.jobs.On("List", mock.Anything).Return([]*domain.Job{
		{ID: uuid.New(), Kind: domain.JobKindInference, Status: domain.JobStatusSuccess, CreatedAt: time.Now()},
		{ID: uuid.New(), Kind: domain.JobKindInference, Status: domain.JobStatusPending, CreatedAt: time.Now().Add(-time.Minute)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inference", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
