package coach

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resume-coach/internal/extract/pdftest"
	"resume-coach/internal/llm"
	"resume-coach/internal/llm/llmmock"
	"resume-coach/internal/shared/server/middleware"
)

const analysisJSON = `{"scores":{"ats_compatibility":8,"clarity_readability":7,"impact_achievements":6,"relevance_to_jd":9},"analysis":"## Skills\n- Strengths","highlighted_text":"Jane <mark class=\"strength\" title=\"aligned\">Go</mark>"}`

type formFile struct {
	name string
	data []byte
}

func setupRouter(t *testing.T, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery())
	NewHandler(NewService(client)).RegisterRoutes(router)
	return router
}

func multipartRequest(t *testing.T, path string, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile(fieldResumeFile, file.name)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var body map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	return resp, body
}

func TestGenerateWithPastedText(t *testing.T) {
	client := new(llmmock.Client)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return !r.ExpectJSON && strings.Contains(r.Prompt, "Jane Doe, Go developer") && strings.Contains(r.Prompt, "Backend Engineer")
	})).Return("# Jane Doe\n\n**Backend Engineer**", nil).Once()
	router := setupRouter(t, client)

	req := multipartRequest(t, "/generate", map[string]string{
		fieldResume:  "Jane Doe, Go developer",
		fieldJobRole: "Backend Engineer",
	}, nil)
	resp, body := serve(router, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "# Jane Doe\n\n**Backend Engineer**", body["polishedResume"])
	client.AssertExpectations(t)
}

func TestGenerateAcceptsURLEncodedForm(t *testing.T) {
	client := new(llmmock.Client)
	client.On("Generate", mock.Anything, mock.Anything).Return("# Resume", nil).Once()
	router := setupRouter(t, client)

	form := url.Values{fieldResume: {"Jane Doe"}, fieldJobRole: {"SRE"}}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := serve(router, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "# Resume", body["polishedResume"])
}

func TestAnalyzeWithPDFUpload(t *testing.T) {
	client := new(llmmock.Client)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return r.ExpectJSON &&
			strings.Contains(r.Prompt, "Jane Doe Go Kubernetes") &&
			!strings.Contains(r.Prompt, "pasted text") &&
			strings.Contains(r.Prompt, "Job Description (Optional):\n---\nRun clusters\n---")
	})).Return(analysisJSON, nil).Once()
	router := setupRouter(t, client)

	req := multipartRequest(t, "/analyze", map[string]string{
		fieldResume:         "pasted text",
		fieldJobRole:        "SRE",
		fieldJobDescription: "Run clusters",
	}, &formFile{name: "resume.pdf", data: pdftest.Build("Jane   Doe", "Go   Kubernetes")})
	resp, body := serve(router, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, body, 3)
	assert.Contains(t, body, "scores")
	assert.Contains(t, body, "analysis")
	assert.Contains(t, body, "highlighted_text")
	client.AssertExpectations(t)
}

func TestMissingJobRole(t *testing.T) {
	for _, path := range []string{"/analyze", "/generate"} {
		t.Run(path, func(t *testing.T) {
			client := new(llmmock.Client)
			router := setupRouter(t, client)

			req := multipartRequest(t, path, map[string]string{fieldResume: "Jane Doe"}, nil)
			resp, body := serve(router, req)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, body["error"], "job role")
			assert.Equal(t, "missing_job_role", body["code"])
			client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestMissingResume(t *testing.T) {
	for _, path := range []string{"/analyze", "/generate"} {
		t.Run(path, func(t *testing.T) {
			client := new(llmmock.Client)
			router := setupRouter(t, client)

			req := multipartRequest(t, path, map[string]string{fieldResume: "   ", fieldJobRole: "SRE"}, nil)
			resp, body := serve(router, req)

			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, body["error"], "Resume text is required")
			client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestEmptyFilenameFallsBackToText(t *testing.T) {
	client := new(llmmock.Client)
	client.On("Generate", mock.Anything, mock.MatchedBy(func(r llm.Request) bool {
		return strings.Contains(r.Prompt, "pasted resume")
	})).Return("# ok", nil).Once()
	router := setupRouter(t, client)

	req := multipartRequest(t, "/generate", map[string]string{
		fieldResume:  "pasted resume",
		fieldJobRole: "SRE",
	}, &formFile{name: "", data: nil})
	resp, _ := serve(router, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	client.AssertExpectations(t)
}

func TestBlankPDFReturnsImageHint(t *testing.T) {
	client := new(llmmock.Client)
	router := setupRouter(t, client)

	req := multipartRequest(t, "/analyze", map[string]string{fieldJobRole: "SRE"},
		&formFile{name: "scan.pdf", data: pdftest.Build("", "")})
	resp, body := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, body["error"], "image-based")
	assert.Equal(t, "empty_extraction", body["code"])
	client.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestCorruptPDFIsRejected(t *testing.T) {
	client := new(llmmock.Client)
	router := setupRouter(t, client)

	req := multipartRequest(t, "/generate", map[string]string{fieldJobRole: "SRE"},
		&formFile{name: "resume.pdf", data: []byte(strings.Repeat("definitely not a pdf ", 10))})
	resp, body := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, body["error"], "Failed to process PDF")
	assert.Contains(t, body["error"], "may be corrupted")
}

func TestGatewayFailureIs500(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
	}{
		{path: "/analyze", prefix: "Failed to get analysis."},
		{path: "/generate", prefix: "Failed to generate resume."},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			client := new(llmmock.Client)
			client.On("Generate", mock.Anything, mock.Anything).
				Return("", fmt.Errorf("%w: %w", llm.ErrGateway, errors.New("API key not valid"))).Once()
			router := setupRouter(t, client)

			req := multipartRequest(t, tt.path, map[string]string{fieldResume: "R", fieldJobRole: "SRE"}, nil)
			resp, body := serve(router, req)

			assert.Equal(t, http.StatusInternalServerError, resp.Code)
			assert.Contains(t, body["error"], tt.prefix)
			assert.Contains(t, body["error"], "API key not valid")
			assert.Equal(t, "gateway_failure", body["code"])
		})
	}
}

func TestAnalyzeNonJSONIs500(t *testing.T) {
	client := new(llmmock.Client)
	client.On("Generate", mock.Anything, mock.Anything).Return("Sure! Here is your analysis.", nil).Once()
	router := setupRouter(t, client)

	req := multipartRequest(t, "/analyze", map[string]string{fieldResume: "R", fieldJobRole: "SRE"}, nil)
	resp, body := serve(router, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "response_parse_failure", body["code"])
	assert.NotContains(t, body, "scores")
}

func TestUnexpectedPanicIsContained(t *testing.T) {
	client := new(llmmock.Client)
	client.On("Generate", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("unexpected state")
	}).Return("", nil)
	router := setupRouter(t, client)

	req := multipartRequest(t, "/generate", map[string]string{fieldResume: "R", fieldJobRole: "SRE"}, nil)
	resp, body := serve(router, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, body["error"], "unexpected state")
}
