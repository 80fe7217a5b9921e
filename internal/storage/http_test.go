package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"antiplagiarism/internal/errdefs"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, svc *Service) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(svc, 1<<20).Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func uploadForm(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestHandler_CreateAndFetch(t *testing.T) {
	svc, _ := newTestService(t)
	srv := newTestServer(t, svc)

	body, contentType := uploadForm(t, map[string]string{"assignment_id": "A1", "author_id": "alice"}, "essay.txt", []byte("essay text"))
	resp, err := http.Post(srv.URL+"/works", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created Submission
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "A1", created.AssignmentID)
	assert.Equal(t, "essay.txt", created.OriginalName)

	contentResp, err := http.Get(srv.URL + "/works/" + created.ID.String() + "/content")
	require.NoError(t, err)
	defer contentResp.Body.Close()
	require.Equal(t, http.StatusOK, contentResp.StatusCode)
	got, err := io.ReadAll(contentResp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("essay text"), got)
	assert.Contains(t, contentResp.Header.Get("Content-Disposition"), "essay.txt")

	listResp, err := http.Get(srv.URL + "/assignments/A1/works")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var list []Submission
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestHandler_CreateRejectsEmptyFile(t *testing.T) {
	svc, _ := newTestService(t)
	srv := newTestServer(t, svc)

	body, contentType := uploadForm(t, map[string]string{"assignment_id": "A1", "author_id": "alice"}, "empty.txt", nil)
	resp, err := http.Post(srv.URL+"/works", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, contentType = uploadForm(t, map[string]string{"assignment_id": "A1", "author_id": "alice"}, "", nil)
	resp2, err := http.Post(srv.URL+"/works", contentType, body)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestHandler_BadAndUnknownIDs(t *testing.T) {
	svc, _ := newTestService(t)
	srv := newTestServer(t, svc)

	resp, err := http.Get(srv.URL + "/works/not-a-uuid")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/works/" + uuid.NewString())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClient_PreservesErrorKinds(t *testing.T) {
	ctx := context.Background()
	svc, fs := newTestService(t)
	srv := newTestServer(t, svc)
	client := NewClient(srv.URL, 5*time.Second)

	sub, err := svc.Store(ctx, "A1", "alice", "a.txt", []byte("alice's work"))
	require.NoError(t, err)

	meta, err := client.GetMetadata(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, meta.ID)
	assert.Equal(t, sub.Checksum, meta.Checksum)
	assert.True(t, sub.UploadedAt.Equal(meta.UploadedAt))

	content, err := client.GetContent(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("alice's work"), content)

	list, err := client.ListByAssignment(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	empty, err := client.ListByAssignment(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = client.GetContent(ctx, uuid.New())
	assert.ErrorIs(t, err, errdefs.ErrNotFound)

	require.NoError(t, os.Remove(fs.Path(sub.Checksum)))
	_, err = client.GetContent(ctx, sub.ID)
	assert.ErrorIs(t, err, errdefs.ErrStorageCorrupted)
	assert.NotErrorIs(t, err, errdefs.ErrNotFound)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	_, err := client.GetMetadata(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errdefs.ErrDependencyUnavailable)
}
