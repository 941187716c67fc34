package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/kmuindi/resume-tailor/internal/agent"
	"github.com/kmuindi/resume-tailor/internal/ingestion"
	"github.com/kmuindi/resume-tailor/internal/models"
)

// Server handles HTTP requests.
type Server struct {
	agent *agent.TailorAgent
}

// NewServer creates a new API server.
func NewServer(agent *agent.TailorAgent) *Server {
	return &Server{
		agent: agent,
	}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /resume", s.handleUploadResume)
	mux.HandleFunc("POST /resume/gmail", s.handleGmailIngest)
	mux.HandleFunc("GET /resume", s.handleGetResume)
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("POST /tailor", s.handleTailor)
	mux.HandleFunc("GET /materials/{jobID}", s.handleGetMaterials)
	mux.HandleFunc("PUT /materials/{jobID}", s.handlePutMaterials)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "Resume Tailor",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /resume":           "Upload a resume document",
			"POST /resume/gmail":     "Pull the latest resume attachment from Gmail",
			"GET /resume":            "Get the extracted resume",
			"POST /score":            "Score the resume against a job posting",
			"POST /tailor":           "Generate tailored documents for a job posting",
			"GET /materials/{jobID}": "Get generated materials for a job",
			"PUT /materials/{jobID}": "Install persisted materials for a job",
			"GET /export":            "Download the match report workbook",
			"GET /health":            "Health check",
		},
	})
}

// handleHealth provides a health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleUploadResume accepts a multipart resume upload and returns the
// extraction result.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32 MB max
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !ingestion.IsSupported(header.Filename) {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", header.Filename))
		return
	}

	resume, err := s.agent.UploadResume(header.Filename, file)
	if err != nil {
		s.respondError(w, extractionStatus(err), err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, resume)
}

// handleGmailIngest pulls the latest resume attachment from Gmail.
func (s *Server) handleGmailIngest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	if payload.Subject == "" {
		s.respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	resume, err := s.agent.IngestFromGmail(r.Context(), payload.Subject)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, resume)
}

// handleGetResume returns the current extracted resume.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.agent.CurrentResume()
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resume)
}

// handleScore scores the current resume against the posted job.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	job, ok := s.decodeJob(w, r)
	if !ok {
		return
	}

	breakdown, err := s.agent.Score(job)
	if err != nil {
		if errors.Is(err, agent.ErrNoResume) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, breakdown)
}

// handleTailor runs the tailoring pipeline and returns the generated
// materials, documents included.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	job, ok := s.decodeJob(w, r)
	if !ok {
		return
	}
	if job.ID == "" {
		s.respondError(w, http.StatusBadRequest, "job id is required")
		return
	}

	materials, err := s.agent.Tailor(r.Context(), job)
	if err != nil {
		if errors.Is(err, agent.ErrNoResume) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, materials)
}

// handleGetMaterials returns the cached materials for a job id.
func (s *Server) handleGetMaterials(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	materials, ok := s.agent.Materials(jobID)
	if !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("no materials for job %s", jobID))
		return
	}
	s.respondJSON(w, http.StatusOK, materials)
}

// handlePutMaterials installs externally persisted materials for a job.
func (s *Server) handlePutMaterials(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")

	var materials models.GeneratedMaterials
	if err := json.NewDecoder(r.Body).Decode(&materials); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid materials payload: %v", err))
		return
	}
	if materials.JobID == "" {
		materials.JobID = jobID
	}
	if materials.JobID != jobID {
		s.respondError(w, http.StatusBadRequest, "payload job id does not match path")
		return
	}

	if err := s.agent.PutMaterials(&materials); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "stored", "job_id": jobID})
}

// handleExport streams the match-report workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.agent.ExportReport(&buf); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="match-report.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Failed to stream export: %v", err)
	}
}

// decodeJob reads a JobPosting payload, responding with 400 on failure.
func (s *Server) decodeJob(w http.ResponseWriter, r *http.Request) (*models.JobPosting, bool) {
	var job models.JobPosting
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid job posting: %v", err))
		return nil, false
	}
	return &job, true
}

// extractionStatus maps extraction sentinel errors to HTTP codes.
func extractionStatus(err error) int {
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrEmptyDocument), errors.Is(err, ingestion.ErrCorruptDocument):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
