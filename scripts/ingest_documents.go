package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"talentscreen/job-screening/internal/config"
	"talentscreen/job-screening/internal/services"
)

// Ingests the reference corpus (job descriptions, case-study briefs,
// scoring rubrics) into the vector store so the evaluation pipeline has
// retrieval context to ground its generation stages.
func main() {
	log.Println("🚀 Starting reference document ingestion...")

	cfg := config.Load()

	geminiService, err := services.NewGeminiService(cfg.LLM.GeminiAPIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	ctx := context.Background()

	documents := []struct {
		Path    string
		DocType string
		Name    string
	}{
		{
			Path:    "./reference_docs/job_description.pdf",
			DocType: "job_description",
			Name:    "Job Description",
		},
		{
			Path:    "./reference_docs/case_study_brief.pdf",
			DocType: "case_study",
			Name:    "Case Study Brief",
		},
		{
			Path:    "./reference_docs/cv_scoring_rubric.pdf",
			DocType: "cv_rubric",
			Name:    "CV Scoring Rubric",
		},
		{
			Path:    "./reference_docs/project_scoring_rubric.pdf",
			DocType: "project_rubric",
			Name:    "Project Scoring Rubric",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("📄 Processing: %s (%s)", doc.Name, doc.DocType)

		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		text, err := pdfParser.ExtractText(doc.Path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		chunks := chunker.ChunkText(services.CleanText(text), 1000, 200)
		log.Printf("   ✂️  Created %d chunks", len(chunks))

		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			docID := fmt.Sprintf("%s_chunk_%d", doc.DocType, i)
			if err := qdrantService.UpsertDocument(ctx, docID, doc.DocType, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
		}

		log.Printf("   ✅ Ingested %s", doc.Name)
		successCount++
	}

	log.Printf("📊 Ingestion finished: %d succeeded, %d failed", successCount, failCount)
	if failCount > 0 {
		os.Exit(1)
	}
}
