package coach

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-coach/internal/extract"
	"resume-coach/internal/llm"
	"resume-coach/internal/shared/metrics"
	"resume-coach/internal/shared/server/respond"
	"resume-coach/internal/shared/telemetry"
	"resume-coach/internal/shared/util"
)

// Form field names accepted by both endpoints.
const (
	fieldResume         = "resume"
	fieldResumeFile     = "resumeFile"
	fieldJobRole        = "job_role"
	fieldJobDescription = "job_description"
)

type operation struct {
	name           string
	missingRoleMsg string
	failurePrefix  string
}

var (
	opAnalyze = operation{
		name:           metrics.OpAnalyze,
		missingRoleMsg: "A target job role is required.",
		failurePrefix:  "Failed to get analysis. An API error occurred. Details: ",
	}
	opGenerate = operation{
		name:           metrics.OpGenerate,
		missingRoleMsg: "A target job role is required to generate the resume.",
		failurePrefix:  "Failed to generate resume. An API error occurred. Details: ",
	}
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the resume routes.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/analyze", h.analyze)
	r.POST("/generate", h.generate)
}

func (h *Handler) analyze(c *gin.Context) {
	metrics.IncStarted(opAnalyze.name)

	resume, ok := h.resumeText(c, opAnalyze)
	if !ok {
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), AnalyzeInput{
		Resume:         resume,
		JobRole:        c.PostForm(fieldJobRole),
		JobDescription: c.PostForm(fieldJobDescription),
	})
	if err != nil {
		fail(c, opAnalyze, err)
		return
	}

	metrics.IncCompleted(opAnalyze.name)
	respond.OK(c, result)
}

func (h *Handler) generate(c *gin.Context) {
	metrics.IncStarted(opGenerate.name)

	resume, ok := h.resumeText(c, opGenerate)
	if !ok {
		return
	}

	polished, err := h.Svc.Generate(c.Request.Context(), GenerateInput{
		Resume:  resume,
		JobRole: c.PostForm(fieldJobRole),
	})
	if err != nil {
		fail(c, opGenerate, err)
		return
	}

	metrics.IncCompleted(opGenerate.name)
	respond.OK(c, gin.H{"polishedResume": polished})
}

// resumeText extracts the resume for the request and writes the error
// response itself when extraction fails.
func (h *Handler) resumeText(c *gin.Context, op operation) (string, bool) {
	in := extract.Input{Text: c.PostForm(fieldResume)}
	// Any FormFile error (no part, not multipart) means no file was sent.
	if fh, err := c.FormFile(fieldResumeFile); err == nil {
		in.File = fh
	}

	text, src, err := extract.FromInput(c.Request.Context(), in)
	if src != "" {
		c.Set("resumeSource", string(src))
	}
	if err != nil {
		fail(c, op, err)
		return "", false
	}

	fields := map[string]any{
		"op":          op.name,
		"source":      string(src),
		"chars":       len(text),
		"fingerprint": util.Fingerprint(text),
		"request_id":  c.GetString("requestId"),
	}
	if in.File != nil && in.File.Filename != "" {
		if name, err := util.SanitizeFileName(in.File.Filename); err == nil {
			fields["file_name"] = name
		}
		fields["file_size"] = in.File.Size
	}
	telemetry.Info("resume.extracted", fields)
	return text, true
}

func fail(c *gin.Context, op operation, err error) {
	metrics.IncFailed(op.name)

	status, code, msg := classify(op, err)
	respond.Error(c, status, code, msg)
}

// classify maps an error to its response: caller-correctable input is a 400,
// everything downstream is a 500 carrying the cause.
func classify(op operation, err error) (int, string, string) {
	switch {
	case errors.Is(err, extract.ErrMissingResume):
		return http.StatusBadRequest, "missing_resume", err.Error()
	case errors.Is(err, extract.ErrEmptyExtraction):
		return http.StatusBadRequest, "empty_extraction", err.Error()
	case errors.Is(err, extract.ErrCorruptFile):
		return http.StatusBadRequest, "corrupt_file", err.Error()
	case errors.Is(err, ErrMissingJobRole):
		return http.StatusBadRequest, "missing_job_role", op.missingRoleMsg
	case errors.Is(err, llm.ErrInvalidJSON), errors.Is(err, ErrResponseParse):
		return http.StatusInternalServerError, "response_parse_failure", op.failurePrefix + err.Error()
	case errors.Is(err, llm.ErrGateway):
		return http.StatusInternalServerError, "gateway_failure", op.failurePrefix + err.Error()
	default:
		return http.StatusInternalServerError, "internal", fmt.Sprintf("%s%v", op.failurePrefix, err)
	}
}
