package llm

import (
	_ "embed"
	"fmt"
)

var (
	//go:embed prompts/analysis.txt
	analysisInstruction string
	//go:embed prompts/generation.txt
	generationInstruction string
)

// AnalysisInstruction returns the system instruction for resume analysis.
func AnalysisInstruction() string {
	return analysisInstruction
}

// GenerationInstruction returns the system instruction for resume rewriting.
func GenerationInstruction() string {
	return generationInstruction
}

// AnalysisPrompt builds the user prompt for analysis. The job description
// block is always present, empty when none was supplied.
func AnalysisPrompt(resume, role, jobDescription string) string {
	return fmt.Sprintf("%s\n\nJob Description (Optional):\n---\n%s\n---", GenerationPrompt(resume, role), jobDescription)
}

// GenerationPrompt builds the user prompt for rewriting. Inputs are passed
// through verbatim.
func GenerationPrompt(resume, role string) string {
	return fmt.Sprintf("Resume:\n---\n%s\n---\n\nJob Role:\n---\n%s\n---", resume, role)
}
