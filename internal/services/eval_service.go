package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"clinician-notes-service/internal/adapters"
	"clinician-notes-service/internal/domain/dtos"

	"github.com/google/uuid"
)

// EvalQueue is the queue name for generation-output scoring jobs.
const EvalQueue = "eval_generation_outputs"

// EvalJob carries one generation output and its transcript for asynchronous
// quality scoring. Jobs stay in process; the transcript is never persisted
// by the pipeline.
type EvalJob struct {
	SuggestionID uuid.UUID      `json:"suggestion_id"`
	Output       *dtos.AiOutput `json:"output"`
	Transcript   string         `json:"transcript"`
}

// EvalStats is a snapshot of the aggregated quality counters.
type EvalStats struct {
	OutputsScored     int
	SectionsTotal     int
	SectionsCited     int
	CitationsTotal    int
	CitationsGrounded int
}

// CitationCoverage is the share of major sections carrying at least one
// citation.
func (s EvalStats) CitationCoverage() float64 {
	if s.SectionsTotal == 0 {
		return 0
	}
	return float64(s.SectionsCited) / float64(s.SectionsTotal)
}

// Groundedness is the share of citations that verify against their
// transcript.
func (s EvalStats) Groundedness() float64 {
	if s.CitationsTotal == 0 {
		return 0
	}
	return float64(s.CitationsGrounded) / float64(s.CitationsTotal)
}

// EvalServiceContract scores generation outputs off the request path.
type EvalServiceContract interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Submit(ctx context.Context, job EvalJob) error
	Stats() EvalStats
}

// EvalServiceImpl implements EvalServiceContract with a worker pool fed by
// the queue adapter. Scoring never blocks generation requests.
type EvalServiceImpl struct {
	queue      adapters.QueueAdapter
	guardrails GuardrailsServiceContract
	logger     *log.Logger
	numWorkers int

	mu    sync.Mutex
	stats EvalStats
}

var _ EvalServiceContract = (*EvalServiceImpl)(nil)

func NewEvalService(queue adapters.QueueAdapter, guardrails GuardrailsServiceContract, logger *log.Logger) *EvalServiceImpl {
	return &EvalServiceImpl{
		queue:      queue,
		guardrails: guardrails,
		logger:     logger,
		numWorkers: 3,
	}
}

// Start launches the consumer workers.
func (s *EvalServiceImpl) Start(ctx context.Context) error {
	for i := 1; i <= s.numWorkers; i++ {
		if err := s.queue.StartConsuming(ctx, EvalQueue, s.handleJob); err != nil {
			return fmt.Errorf("failed to start eval worker %d: %w", i, err)
		}
	}
	s.logger.Printf("%d eval workers started", s.numWorkers)
	return nil
}

// Stop drains the queue consumers.
func (s *EvalServiceImpl) Stop(ctx context.Context) error {
	s.queue.Stop()
	s.logger.Println("Eval service stopped")
	return nil
}

// Submit enqueues a job for scoring.
func (s *EvalServiceImpl) Submit(ctx context.Context, job EvalJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to serialize eval job: %w", err)
	}
	return s.queue.Publish(ctx, EvalQueue, data)
}

func (s *EvalServiceImpl) handleJob(ctx context.Context, data []byte) error {
	var job EvalJob
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("failed to parse eval job: %w", err)
	}
	if job.Output == nil {
		return fmt.Errorf("eval job %s has no output", job.SuggestionID)
	}

	result := s.score(&job)

	s.mu.Lock()
	s.stats.OutputsScored++
	s.stats.SectionsTotal += result.SectionsTotal
	s.stats.SectionsCited += result.SectionsCited
	s.stats.CitationsTotal += result.CitationsTotal
	s.stats.CitationsGrounded += result.CitationsGrounded
	s.mu.Unlock()

	s.logger.Printf("Scored suggestion %s: coverage=%d/%d grounded=%d/%d",
		job.SuggestionID, result.SectionsCited, result.SectionsTotal,
		result.CitationsGrounded, result.CitationsTotal)
	return nil
}

// score computes per-output counters: section coverage over the four SOAP
// sections, the diagnosis block and the medication block, and groundedness
// over every citation in the document.
func (s *EvalServiceImpl) score(job *EvalJob) EvalStats {
	var result EvalStats
	output := job.Output

	checkSection := func(citations []dtos.Citation) {
		result.SectionsTotal++
		if len(citations) > 0 {
			result.SectionsCited++
		}
		s.checkCitations(citations, job.Transcript, &result)
	}

	if output.Soap != nil {
		for _, section := range []*dtos.SOAPSection{output.Soap.Subjective, output.Soap.Objective, output.Soap.Assessment, output.Soap.Plan} {
			if section != nil {
				checkSection(section.Citations)
			}
		}
	}

	if output.Diagnosis != nil {
		result.SectionsTotal++
		cited := false
		if output.Diagnosis.Primary != nil {
			s.checkCitations(output.Diagnosis.Primary.Citations, job.Transcript, &result)
			cited = len(output.Diagnosis.Primary.Citations) > 0
		}
		for _, dx := range output.Diagnosis.Differential {
			s.checkCitations(dx.Citations, job.Transcript, &result)
			if len(dx.Citations) > 0 {
				cited = true
			}
		}
		if cited {
			result.SectionsCited++
		}
	}

	if output.Medications != nil {
		result.SectionsTotal++
		cited := false
		for _, med := range output.Medications.Medications {
			s.checkCitations(med.Citations, job.Transcript, &result)
			if len(med.Citations) > 0 {
				cited = true
			}
		}
		if cited {
			result.SectionsCited++
		}
	}

	return result
}

func (s *EvalServiceImpl) checkCitations(citations []dtos.Citation, transcript string, result *EvalStats) {
	for _, c := range citations {
		result.CitationsTotal++
		if s.guardrails.ValidateCitation(c.Text, transcript, MaxCitationWords) {
			result.CitationsGrounded++
		}
	}
}

// Stats returns a snapshot of the aggregate counters.
func (s *EvalServiceImpl) Stats() EvalStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
