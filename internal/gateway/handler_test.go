package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"antiplagiarism/internal/analysis"
	"antiplagiarism/internal/blob"
	"antiplagiarism/internal/logger"
	"antiplagiarism/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	storage  *httptest.Server
	analysis *httptest.Server
	gateway  *httptest.Server
}

func newStack(t *testing.T) *stack {
	t.Helper()
	svc := storage.NewService(blob.NewMemory(), storage.NewMemoryIndex(), logger.Discard())
	storageRouter := chi.NewRouter()
	storage.NewHandler(svc, 1<<20).Register(storageRouter)
	storageSrv := httptest.NewServer(storageRouter)
	t.Cleanup(storageSrv.Close)

	detector := analysis.NewDetector(storage.NewClient(storageSrv.URL, time.Second), analysis.NewMemoryReports(), logger.Discard())
	analysisRouter := chi.NewRouter()
	analysis.NewHandler(detector).Register(analysisRouter)
	analysisSrv := httptest.NewServer(analysisRouter)
	t.Cleanup(analysisSrv.Close)

	gw := NewGateway(storageSrv.URL, analysisSrv.URL, 5*time.Second)
	gatewayRouter := chi.NewRouter()
	gw.Register(gatewayRouter)
	gatewaySrv := httptest.NewServer(gatewayRouter)
	t.Cleanup(gatewaySrv.Close)

	return &stack{storage: storageSrv, analysis: analysisSrv, gateway: gatewaySrv}
}

func upload(t *testing.T, baseURL, assignmentID, authorID, content string) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("assignment_id", assignmentID))
	require.NoError(t, mw.WriteField("author_id", authorID))
	fw, err := mw.CreateFormFile("file", authorID+".txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(baseURL+"/works", mw.FormDataContentType(), body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeCombined(t *testing.T, resp *http.Response) CombinedWorkResponse {
	t.Helper()
	var out CombinedWorkResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateWorkAndReport_FlagsCopy(t *testing.T) {
	s := newStack(t)

	resp := upload(t, s.gateway.URL, "A1", "alice", "original essay")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decodeCombined(t, resp)
	require.NotNil(t, first.Report)
	assert.False(t, first.Report.IsDuplicate)

	resp = upload(t, s.gateway.URL, "A1", "bob", "original essay")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decodeCombined(t, resp)
	require.NotNil(t, second.Report)
	assert.True(t, second.Report.IsDuplicate)
	require.NotNil(t, second.Report.OriginalSubmissionID)
	assert.Equal(t, first.Work.ID, *second.Report.OriginalSubmissionID)

	listResp, err := http.Get(s.gateway.URL + "/assignments/A1/reports")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var reports []Report
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&reports))
	assert.Len(t, reports, 2)

	contentResp, err := http.Get(s.gateway.URL + "/works/" + first.Work.ID + "/content")
	require.NoError(t, err)
	defer contentResp.Body.Close()
	got, err := io.ReadAll(contentResp.Body)
	require.NoError(t, err)
	assert.Equal(t, "original essay", string(got))
}

func TestCreateWorkAndReport_AnalysisDown(t *testing.T) {
	s := newStack(t)
	s.analysis.Close()

	resp := upload(t, s.gateway.URL, "A1", "alice", "essay")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeCombined(t, resp)
	assert.NotEmpty(t, out.Work.ID)
	assert.Nil(t, out.Report)
}

func TestCreateWorkAndReport_EmptyFile(t *testing.T) {
	s := newStack(t)

	resp := upload(t, s.gateway.URL, "A1", "alice", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProxy_StorageDown(t *testing.T) {
	s := newStack(t)
	s.storage.Close()

	resp, err := http.Get(s.gateway.URL + "/works/0190d7a4-6b7e-7000-8000-000000000000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAssignmentProxies_ReservedCharacters(t *testing.T) {
	s := newStack(t)

	for _, assignmentID := range []string{"cs101;hw1", "a/b", "hw1,p2"} {
		t.Run(assignmentID, func(t *testing.T) {
			resp := upload(t, s.gateway.URL, assignmentID, "alice", "shared "+assignmentID)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			resp = upload(t, s.gateway.URL, assignmentID, "bob", "shared "+assignmentID)
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			second := decodeCombined(t, resp)
			require.NotNil(t, second.Report)
			assert.True(t, second.Report.IsDuplicate)

			escaped := url.PathEscape(assignmentID)

			worksResp, err := http.Get(s.gateway.URL + "/assignments/" + escaped + "/works")
			require.NoError(t, err)
			defer worksResp.Body.Close()
			require.Equal(t, http.StatusOK, worksResp.StatusCode)
			var works []Work
			require.NoError(t, json.NewDecoder(worksResp.Body).Decode(&works))
			assert.Len(t, works, 2)

			reportsResp, err := http.Get(s.gateway.URL + "/assignments/" + escaped + "/reports")
			require.NoError(t, err)
			defer reportsResp.Body.Close()
			require.Equal(t, http.StatusOK, reportsResp.StatusCode)
			var reports []Report
			require.NoError(t, json.NewDecoder(reportsResp.Body).Decode(&reports))
			require.Len(t, reports, 2)
			assert.Equal(t, assignmentID, reports[0].AssignmentID)
		})
	}
}
