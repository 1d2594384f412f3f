package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVStagePrompt creates the prompt for the CV scoring stage.
func (pb *PromptBuilder) BuildCVStagePrompt(cvText, retrievedContext, jobTitle, jobContext string) string {
	return fmt.Sprintf(`You are an expert HR recruiter evaluating a candidate's CV for a %s position.

RETRIEVED JOB DESCRIPTION AND SCORING RUBRIC:
%s

ADDITIONAL JOB CONTEXT:
%s

CANDIDATE CV:
%s

Evaluate the CV against the job description using the rubric. Consider
technical skills match, experience level, relevant achievements, and
cultural/collaboration fit.

Return your response in the following JSON format:
{
  "match_rate": <number 0-100, how well the CV matches the position>,
  "feedback": "<detailed feedback 3-5 sentences explaining strengths and gaps>",
  "parameter_scores": {
    "technical_skills": <number 0-100>,
    "experience_level": <number 0-100>,
    "achievements": <number 0-100>,
    "cultural_fit": <number 0-100>
  }
}

Be objective and thorough. Provide specific examples from the CV to justify your scores.`,
		jobTitle, retrievedContext, jobContext, cvText)
}

// BuildProjectStagePrompt creates the prompt for the project-report scoring
// stage.
func (pb *PromptBuilder) BuildProjectStagePrompt(projectText, retrievedContext string) string {
	return fmt.Sprintf(`You are an expert technical evaluator assessing a candidate's project report for a take-home assignment.

RETRIEVED CASE STUDY BRIEF AND SCORING RUBRIC:
%s

CANDIDATE'S PROJECT REPORT:
%s

Evaluate the report against the case study requirements using the rubric.
Consider correctness, code quality, resilience and error handling,
documentation, and creativity.

Return your response in the following JSON format:
{
  "score": <number 0-100, overall project score>,
  "feedback": "<detailed feedback 3-5 sentences explaining what was done well and what could be improved>",
  "parameter_scores": {
    "correctness": <number 0-100>,
    "code_quality": <number 0-100>,
    "resilience": <number 0-100>,
    "documentation": <number 0-100>,
    "creativity": <number 0-100>
  }
}

Be thorough and specific. Reference actual implementation details from the report.`,
		retrievedContext, projectText)
}

// BuildSynthesisPrompt creates the prompt for the final synthesis stage. It
// consumes only the structured outputs of the two prior stages, no retrieved
// context.
func (pb *PromptBuilder) BuildSynthesisPrompt(cvFeedback, projectFeedback string, cvMatchRate, projectScore float64, jobTitle string) string {
	return fmt.Sprintf(`You are an expert technical hiring manager making a final assessment of a candidate for a %s position.

CV EVALUATION RESULTS:
- Match Rate: %.1f (out of 100)
- Feedback: %s

PROJECT EVALUATION RESULTS:
- Project Score: %.1f (out of 100)
- Feedback: %s

Based on both evaluations, write a concise overall summary (3-5 sentences)
covering the candidate's strengths, key gaps, and a final recommendation
(Strong Hire / Hire / Maybe / No Hire).

Return your response in the following JSON format:
{
  "overall_summary": "<the summary text>",
  "parameter_scores": {
    "cv_match_rate": <number 0-100>,
    "project_score": <number 0-100>
  }
}`,
		jobTitle, cvMatchRate, cvFeedback, projectScore, projectFeedback)
}

// FormatRetrievedContext renders similarity-search hits into a prompt block.
func FormatRetrievedContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
