package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/kmuindi/resume-tailor/internal/config"
	"github.com/kmuindi/resume-tailor/internal/enhancer"
	"github.com/kmuindi/resume-tailor/internal/export"
	"github.com/kmuindi/resume-tailor/internal/ingestion"
	"github.com/kmuindi/resume-tailor/internal/llm"
	"github.com/kmuindi/resume-tailor/internal/models"
	"github.com/kmuindi/resume-tailor/internal/scoring"
	"github.com/kmuindi/resume-tailor/internal/synthesis"
)

// ProgressCallback is called to report progress during processing.
type ProgressCallback func(current, total int, message string)

// ErrNoResume is returned by operations that need an ingested resume
// before one has been uploaded.
var ErrNoResume = errors.New("no resume ingested yet")

// TailorAgent orchestrates the tailoring pipeline: ingest, score,
// enhance, synthesize. Generated materials are cached per job id; the
// caller owns durable persistence and can round-trip entries through
// PutMaterials.
type TailorAgent struct {
	FileHandler *ingestion.FileHandler
	cfg         *config.Config

	mu         sync.RWMutex
	resume     *models.StructuredResume
	materials  map[string]*models.GeneratedMaterials
	scored     map[string]export.ScoredJob
	jobLocks   map[string]*sync.Mutex
	llmClient  llm.Client
	progressCb ProgressCallback
}

// New creates a tailor agent for the given configuration.
func New(cfg *config.Config) *TailorAgent {
	return &TailorAgent{
		FileHandler: ingestion.NewFileHandler(cfg.UploadsDir),
		cfg:         cfg,
		materials:   map[string]*models.GeneratedMaterials{},
		scored:      map[string]export.ScoredJob{},
		jobLocks:    map[string]*sync.Mutex{},
	}
}

// SetProgressCallback sets the progress callback function.
func (a *TailorAgent) SetProgressCallback(cb ProgressCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progressCb = cb
}

func (a *TailorAgent) reportProgress(current, total int, message string) {
	a.mu.RLock()
	cb := a.progressCb
	a.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// UploadResume saves an uploaded document and extracts it into the
// current structured resume. Each upload replaces the previous resume
// wholesale.
func (a *TailorAgent) UploadResume(filename string, content io.Reader) (*models.StructuredResume, error) {
	path, err := a.FileHandler.SaveUploadedFile(filename, content)
	if err != nil {
		return nil, err
	}
	log.Printf("Saved uploaded resume to %s", path)

	return a.extractLatest()
}

// IngestFromGmail fetches resume attachments matching the subject filter
// and extracts the most recent one.
func (a *TailorAgent) IngestFromGmail(ctx context.Context, subject string) (*models.StructuredResume, error) {
	a.reportProgress(0, 100, "Connecting to Gmail...")

	gmailHandler, err := ingestion.NewGmailHandler(ctx, a.cfg.GmailCredentialsPath, a.cfg.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gmail handler: %w", err)
	}

	a.reportProgress(20, 100, "Fetching resume attachments...")
	saved, err := gmailHandler.FetchResumeAttachments(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Gmail attachments: %w", err)
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("no resume attachments matched subject %q", subject)
	}
	log.Printf("Fetched %d attachment(s) from Gmail", len(saved))

	a.reportProgress(80, 100, "Extracting resume...")
	resume, err := a.extractLatest()
	if err != nil {
		return nil, err
	}
	a.reportProgress(100, 100, "Resume ingested")
	return resume, nil
}

// extractLatest runs the extractor over the newest uploaded document and
// installs the result as the current resume.
func (a *TailorAgent) extractLatest() (*models.StructuredResume, error) {
	name, data, err := a.FileHandler.LatestDocument()
	if err != nil {
		return nil, err
	}

	resume, err := ingestion.Extract(data, name)
	if err != nil {
		return nil, err
	}
	if resume.DesiredTitle == "" {
		resume.DesiredTitle = a.cfg.DesiredTitle
	}

	a.mu.Lock()
	a.resume = resume
	a.mu.Unlock()

	return resume, nil
}

// CurrentResume returns the extracted resume, or ErrNoResume.
func (a *TailorAgent) CurrentResume() (*models.StructuredResume, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.resume == nil {
		return nil, ErrNoResume
	}
	return a.resume, nil
}

// Score recomputes the match breakdown for the current resume against a
// job posting. Results are derived data, recomputed on every call.
func (a *TailorAgent) Score(job *models.JobPosting) (models.MatchScoreBreakdown, error) {
	resume, err := a.CurrentResume()
	if err != nil {
		return models.MatchScoreBreakdown{}, err
	}

	breakdown := scoring.Score(resume, job)

	if job.ID != "" {
		a.mu.Lock()
		a.scored[job.ID] = export.ScoredJob{Job: *job, Score: breakdown}
		a.mu.Unlock()
	}

	return breakdown, nil
}

// Tailor runs the full pipeline for one job: enhance the current resume,
// synthesize the tailored documents, and cache the materials under the
// job id. A degraded enhancement (LLM unreachable) still produces
// documents from the original content.
func (a *TailorAgent) Tailor(ctx context.Context, job *models.JobPosting) (*models.GeneratedMaterials, error) {
	resume, err := a.CurrentResume()
	if err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, fmt.Errorf("job posting has no id")
	}

	lock := a.jobLock(job.ID)
	lock.Lock()
	defer lock.Unlock()

	client, err := a.ensureLLMClient(ctx)
	if err != nil {
		return nil, err
	}

	a.reportProgress(0, 100, "Enhancing resume content...")
	enh := enhancer.New(client)
	enhanced, err := enh.EnhanceResume(ctx, resume, job, func(current, total int, message string) {
		// Enhancement spans the first 70% of overall progress.
		a.reportProgress(70*current/total, 100, message)
	})
	if err != nil {
		if !errors.Is(err, enhancer.ErrEnhancementUnavailable) {
			return nil, err
		}
		log.Printf("Enhancement unavailable, generating documents from original content")
	}

	a.reportProgress(75, 100, "Writing tailored resume document...")
	resumeDoc, err := synthesis.ResumeDocument(enhanced)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize resume: %w", err)
	}

	a.reportProgress(90, 100, "Writing cover letter...")
	generatedAt := time.Now()
	letterDoc, err := synthesis.CoverLetterDocument(enhanced, job, synthesis.LetterSettings{
		SenderName:    a.cfg.UserName,
		SenderAddress: a.cfg.UserAddress,
	}, generatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize cover letter: %w", err)
	}

	materials := &models.GeneratedMaterials{
		JobID:          job.ID,
		Enhanced:       *enhanced,
		ResumeDocument: resumeDoc,
		CoverLetterDoc: letterDoc,
		GeneratedAt:    generatedAt,
	}

	a.mu.Lock()
	a.materials[job.ID] = materials
	a.mu.Unlock()

	a.reportProgress(100, 100, "Tailoring complete")
	return materials, nil
}

// Materials returns the cached materials for a job id.
func (a *TailorAgent) Materials(jobID string) (*models.GeneratedMaterials, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.materials[jobID]
	return m, ok
}

// PutMaterials installs externally persisted materials, replacing any
// cached entry for the same job wholesale.
func (a *TailorAgent) PutMaterials(m *models.GeneratedMaterials) error {
	if m == nil || m.JobID == "" {
		return fmt.Errorf("materials must carry a job id")
	}

	lock := a.jobLock(m.JobID)
	lock.Lock()
	defer lock.Unlock()

	a.mu.Lock()
	a.materials[m.JobID] = m
	a.mu.Unlock()
	return nil
}

// ExportReport writes the match-report workbook over every job scored so
// far, ordered by descending overall score.
func (a *TailorAgent) ExportReport(w io.Writer) error {
	a.mu.RLock()
	jobs := make([]export.ScoredJob, 0, len(a.scored))
	for _, j := range a.scored {
		jobs = append(jobs, j)
	}
	a.mu.RUnlock()

	if len(jobs) == 0 {
		return fmt.Errorf("no scored jobs to export")
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Score.Overall != jobs[j].Score.Overall {
			return jobs[i].Score.Overall > jobs[j].Score.Overall
		}
		return jobs[i].Job.ID < jobs[j].Job.ID
	})

	return export.WriteReport(w, jobs, time.Now())
}

// jobLock returns the per-job mutex, creating it on first use.
func (a *TailorAgent) jobLock(jobID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.jobLocks[jobID]; !ok {
		a.jobLocks[jobID] = &sync.Mutex{}
	}
	return a.jobLocks[jobID]
}

// ensureLLMClient lazily builds the Vertex AI client, or a permanently
// failing stand-in when AI is disabled so the pipeline degrades instead
// of stopping.
func (a *TailorAgent) ensureLLMClient(ctx context.Context) (llm.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.llmClient != nil {
		return a.llmClient, nil
	}

	if !a.cfg.AIEnabled {
		a.llmClient = disabledClient{}
		return a.llmClient, nil
	}

	client, err := llm.NewVertexAIClient(ctx, a.cfg.GoogleCloudProject, a.cfg.GoogleCloudLocation, a.cfg.ModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	a.llmClient = client
	return a.llmClient, nil
}

// SetLLMClient overrides the LLM client; tests use it to install fakes.
func (a *TailorAgent) SetLLMClient(client llm.Client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.llmClient = client
}

// Close cleans up resources.
func (a *TailorAgent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.llmClient != nil {
		return a.llmClient.Close()
	}
	return nil
}

// disabledClient fails every generation call, which the enhancer treats
// as a degrade-to-original signal.
type disabledClient struct{}

func (disabledClient) GenerateContent(context.Context, string, int32) (string, error) {
	return "", errors.New("ai enhancement is disabled")
}

func (disabledClient) Close() error { return nil }
