package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"talentscreen/job-screening/internal/models"
)

// PipelineError wraps any failure inside a pipeline invocation, tagged with
// the stage that produced it. No partial result survives a PipelineError.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}

// PipelineInput is the immutable request context for one invocation.
type PipelineInput struct {
	CVPath      string
	ProjectPath string
	JobTitle    string
	JobContext  string
}

// EvaluationPipeline orchestrates the three generation stages over retrieved
// context: CV scoring, project scoring, and synthesis. The CV and project
// stages have no data dependency on each other and run concurrently; the
// synthesis stage consumes both of their structured outputs.
type EvaluationPipeline interface {
	Run(ctx context.Context, input PipelineInput) (*models.EvaluationResult, error)
}

type evaluationPipeline struct {
	pdfParser PDFParserService
	embedder  EmbeddingService
	searcher  VectorSearcher
	generator GenerationService
	prompts   *PromptBuilder
	topK      int
}

func NewEvaluationPipeline(
	pdfParser PDFParserService,
	embedder EmbeddingService,
	searcher VectorSearcher,
	generator GenerationService,
	topK int,
) EvaluationPipeline {
	return &evaluationPipeline{
		pdfParser: pdfParser,
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		prompts:   NewPromptBuilder(),
		topK:      topK,
	}
}

type cvStageOutput struct {
	MatchRate       *float64           `json:"match_rate"`
	Feedback        string             `json:"feedback"`
	ParameterScores map[string]float64 `json:"parameter_scores"`
}

type projectStageOutput struct {
	Score           *float64           `json:"score"`
	Feedback        string             `json:"feedback"`
	ParameterScores map[string]float64 `json:"parameter_scores"`
}

type synthesisStageOutput struct {
	OverallSummary  string             `json:"overall_summary"`
	ParameterScores map[string]float64 `json:"parameter_scores"`
}

// Run implements EvaluationPipeline.
func (p *evaluationPipeline) Run(ctx context.Context, input PipelineInput) (*models.EvaluationResult, error) {
	cvText, err := p.pdfParser.ExtractText(input.CVPath)
	if err != nil {
		return nil, stageErr("extraction", fmt.Errorf("failed to extract CV text: %w", err))
	}

	projectText, err := p.pdfParser.ExtractText(input.ProjectPath)
	if err != nil {
		return nil, stageErr("extraction", fmt.Errorf("failed to extract project report text: %w", err))
	}

	// Retrieval happens once per invocation; both scoring stages share the
	// fetched context.
	cvContext, err := p.retrieveContext(ctx, input.JobTitle, input.JobContext,
		[]string{"job_description", "cv_rubric"})
	if err != nil {
		return nil, stageErr("retrieval", err)
	}

	projectContext, err := p.retrieveContext(ctx, input.JobTitle, input.JobContext,
		[]string{"case_study", "project_rubric"})
	if err != nil {
		return nil, stageErr("retrieval", err)
	}

	var (
		cvOut      cvStageOutput
		projectOut projectStageOutput
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prompt := p.prompts.BuildCVStagePrompt(cvText, cvContext, input.JobTitle, input.JobContext)
		response, err := p.generator.GenerateText(gctx, prompt, 0.3)
		if err != nil {
			return stageErr("cv", err)
		}
		if err := parseStageResponse(response, &cvOut); err != nil {
			return stageErr("cv", err)
		}
		if cvOut.MatchRate == nil || cvOut.Feedback == "" {
			return stageErr("cv", fmt.Errorf("response missing required fields: %s", response))
		}
		return nil
	})

	g.Go(func() error {
		prompt := p.prompts.BuildProjectStagePrompt(projectText, projectContext)
		response, err := p.generator.GenerateText(gctx, prompt, 0.3)
		if err != nil {
			return stageErr("project", err)
		}
		if err := parseStageResponse(response, &projectOut); err != nil {
			return stageErr("project", err)
		}
		if projectOut.Score == nil || projectOut.Feedback == "" {
			return stageErr("project", fmt.Errorf("response missing required fields: %s", response))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	cvMatchRate := clampScore(*cvOut.MatchRate)
	projectScore := clampScore(*projectOut.Score)

	// Synthesis depends only on the structured outputs of the two stages
	// above; it does not re-consult retrieval.
	synthPrompt := p.prompts.BuildSynthesisPrompt(
		cvOut.Feedback,
		projectOut.Feedback,
		cvMatchRate,
		projectScore,
		input.JobTitle,
	)

	synthResponse, err := p.generator.GenerateText(ctx, synthPrompt, 0.5)
	if err != nil {
		return nil, stageErr("synthesis", err)
	}

	var synthOut synthesisStageOutput
	if err := parseStageResponse(synthResponse, &synthOut); err != nil {
		return nil, stageErr("synthesis", err)
	}
	if strings.TrimSpace(synthOut.OverallSummary) == "" {
		return nil, stageErr("synthesis", fmt.Errorf("response missing overall_summary: %s", synthResponse))
	}

	parameterScores := mergeParameterScores(cvOut.ParameterScores, projectOut.ParameterScores, synthOut.ParameterScores)

	return &models.EvaluationResult{
		CVMatchRate:     cvMatchRate,
		CVFeedback:      cvOut.Feedback,
		ProjectScore:    projectScore,
		ProjectFeedback: projectOut.Feedback,
		OverallSummary:  strings.TrimSpace(synthOut.OverallSummary),
		ParameterScores: parameterScores,
	}, nil
}

func (p *evaluationPipeline) retrieveContext(ctx context.Context, jobTitle, jobContext string, docTypes []string) (string, error) {
	query := fmt.Sprintf("Job requirements, rubrics and evaluation criteria for %s. %s", jobTitle, jobContext)

	embedding, err := p.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	var allResults []SearchResult
	for _, docType := range docTypes {
		results, err := p.searcher.SearchSimilar(ctx, embedding, docType, p.topK)
		if err != nil {
			log.Printf("⚠️  Failed to search for %s: %v\n", docType, err)
			continue
		}
		allResults = append(allResults, results...)
	}

	return FormatRetrievedContext(allResults), nil
}

// parseStageResponse extracts the JSON payload from an LLM response (which
// may be wrapped in markdown fences) and unmarshals it into target. Any
// failure here is a schema-validation failure for the whole stage.
func parseStageResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w\nResponse: %s", err, response)
	}
	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// clampScore bounds a backend-produced score into [0,100]. Out-of-range
// values are clamped rather than rejected.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func mergeParameterScores(maps ...map[string]float64) map[string]float64 {
	merged := make(map[string]float64)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = clampScore(v)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
