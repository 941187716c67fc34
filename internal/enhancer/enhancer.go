package enhancer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kmuindi/resume-tailor/internal/llm"
	"github.com/kmuindi/resume-tailor/internal/models"
)

// ErrEnhancementUnavailable reports that no LLM call succeeded at all.
// The enhanced resume returned alongside it still carries the original
// content and is safe to synthesize.
var ErrEnhancementUnavailable = errors.New("enhancement service unavailable")

const (
	maxRetries   = 3
	retryBackoff = 10 * time.Second
	callTimeout  = 60 * time.Second

	// concurrentBatches caps in-flight experience rewrites to stay under
	// API rate limits.
	concurrentBatches = 2

	// maxGrowthRatio rejects rewrites that ballooned past the original
	// bullet; oversized rewrites break the document layout.
	maxGrowthRatio = 1.3
)

// ProgressFunc is called to report progress during enhancement.
type ProgressFunc func(current, total int, message string)

// Enhancer rewrites resume content toward a job posting. Every failure
// path degrades to the original text rather than propagating an error,
// so a broken or absent LLM never blocks document generation.
type Enhancer struct {
	client llm.Client
}

func New(client llm.Client) *Enhancer {
	return &Enhancer{client: client}
}

// experienceResult is the outcome of rewriting one work experience.
type experienceResult struct {
	bullets    []string
	aiEnhanced []bool
}

// EnhanceResume rewrites the resume's bullets, summary and cover letter
// for the given job. It returns ErrEnhancementUnavailable only when
// every LLM call failed; partial failures degrade the affected pieces to
// their original text.
func (e *Enhancer) EnhanceResume(ctx context.Context, resume *models.StructuredResume, job *models.JobPosting, progress ProgressFunc) (*models.EnhancedResume, error) {
	report := func(current, total int, message string) {
		if progress != nil {
			progress(current, total, message)
		}
	}

	enhanced := &models.EnhancedResume{Resume: *resume}

	var calls, failures atomic.Int32

	results := make([]experienceResult, len(resume.WorkExperiences))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrentBatches)

	total := len(resume.WorkExperiences) + 2 // experiences + summary + cover letter
	var done atomic.Int32

	for i := range resume.WorkExperiences {
		exp := resume.WorkExperiences[i]
		if len(exp.BulletPoints) == 0 {
			results[i] = experienceResult{bullets: nil, aiEnhanced: nil}
			done.Add(1)
			continue
		}

		g.Go(func() error {
			calls.Add(1)
			rewritten, err := e.rewriteBullets(gctx, exp, job)
			if err != nil {
				failures.Add(1)
				log.Printf("Bullet rewrite failed for %s, keeping originals: %v", exp.Company, err)
				results[i] = degradedResult(exp.BulletPoints)
			} else {
				results[i] = rewritten
			}
			report(int(done.Add(1)), total, fmt.Sprintf("Rewrote experience at %s", exp.Company))
			return nil
		})
	}

	// Goroutines never return errors; degradation happens in place.
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	enhanced.Experiences = make([]models.EnhancedExperience, 0, len(results))
	for i, res := range results {
		enhanced.Experiences = append(enhanced.Experiences, models.EnhancedExperience{
			ExperienceIndex: i,
			Bullets:         res.bullets,
		})
	}

	calls.Add(1)
	summary, err := e.generateSummary(ctx, resume, job)
	if err != nil {
		failures.Add(1)
		log.Printf("Summary generation failed, falling back to resume content: %v", err)
		summary = fallbackSummary(resume)
	}
	enhanced.Summary = summary
	report(int(done.Add(1)), total, "Generated summary")

	calls.Add(1)
	coverLetter, err := e.generateCoverLetter(ctx, resume, job, summary)
	if err != nil {
		failures.Add(1)
		log.Printf("Cover letter generation failed, using template: %v", err)
		coverLetter = fallbackCoverLetter(resume, job, summary)
	}
	enhanced.CoverLetter = coverLetter
	report(int(done.Add(1)), total, "Generated cover letter")

	enhanced.BulletStatuses = bulletStatuses(resume, results)

	if calls.Load() > 0 && failures.Load() == calls.Load() {
		return enhanced, ErrEnhancementUnavailable
	}
	return enhanced, nil
}

// rewriteBullets asks the model for a same-length JSON array of rewritten
// bullets for one work experience, then applies the growth guard per
// bullet.
func (e *Enhancer) rewriteBullets(ctx context.Context, exp models.WorkExperience, job *models.JobPosting) (experienceResult, error) {
	prompt := bulletPrompt(exp, job)

	budget := llm.BulletTokens * int32(len(exp.BulletPoints))
	response, err := e.generate(ctx, prompt, budget)
	if err != nil {
		return experienceResult{}, err
	}

	rewritten, err := parseBulletList(response, len(exp.BulletPoints))
	if err != nil {
		return experienceResult{}, err
	}

	result := experienceResult{
		bullets:    make([]string, len(exp.BulletPoints)),
		aiEnhanced: make([]bool, len(exp.BulletPoints)),
	}
	for i, original := range exp.BulletPoints {
		candidate := strings.TrimSpace(rewritten[i])
		if candidate == "" || float64(len(candidate)) > maxGrowthRatio*float64(len(original)) {
			result.bullets[i] = original
			continue
		}
		result.bullets[i] = candidate
		result.aiEnhanced[i] = candidate != original
	}
	return result, nil
}

// generate calls the model, retrying on rate-limit errors with a fixed
// backoff. Other errors fail immediately.
func (e *Enhancer) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		response, err := e.client.GenerateContent(callCtx, prompt, maxTokens)
		cancel()
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !llm.IsRateLimitError(err) {
			return "", err
		}

		log.Printf("Rate limited (attempt %d/%d), backing off %v", attempt, maxRetries, retryBackoff)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	return "", fmt.Errorf("giving up after %d attempts: %w", maxRetries, lastErr)
}

// degradedResult keeps the original bullets with no enhancement flags.
func degradedResult(bullets []string) experienceResult {
	res := experienceResult{
		bullets:    make([]string, len(bullets)),
		aiEnhanced: make([]bool, len(bullets)),
	}
	copy(res.bullets, bullets)
	return res
}

// bulletStatuses builds the per-bullet status list over the flattened
// bullet index. Enhanced bullets enter the pending-write state; the
// synthesizer finalizes them.
func bulletStatuses(resume *models.StructuredResume, results []experienceResult) []models.BulletUpdateStatus {
	var statuses []models.BulletUpdateStatus
	flatIndex := 0
	for i := range resume.WorkExperiences {
		for j := range resume.WorkExperiences[i].BulletPoints {
			status := models.BulletUpdateStatus{
				BulletIndex: flatIndex,
				Status:      models.BulletUnchanged,
			}
			if i < len(results) && j < len(results[i].aiEnhanced) && results[i].aiEnhanced[j] {
				status.AIEnhanced = true
				status.Status = models.BulletEnhancedPendingWrite
			}
			statuses = append(statuses, status)
			flatIndex++
		}
	}
	return statuses
}
