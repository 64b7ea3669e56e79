package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-coach/internal/coach"
	"resume-coach/internal/extract"
	"resume-coach/internal/llm/gemini"
	"resume-coach/internal/shared/config"
	"resume-coach/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stderr, "console", cfg.LogLevel)

	resumePath := flag.String("resume", "", "Path to resume file (pdf or txt)")
	role := flag.String("role", "", "Target job role")
	jdPath := flag.String("jd", "", "Path to job description file (optional)")
	mode := flag.String("mode", "analyze", "analyze or generate")
	outPath := flag.String("out", "", "Path to write output (optional)")
	model := flag.String("model", cfg.GeminiModel, "Gemini model")
	flag.Parse()

	if strings.TrimSpace(*resumePath) == "" {
		exitErr("resume path is required")
	}
	if err := cfg.Validate(); err != nil {
		exitErr(err.Error())
	}

	ctx := context.Background()

	resumeText, err := readResume(ctx, *resumePath)
	if err != nil {
		exitErr(err.Error())
	}

	jobDescription := ""
	if strings.TrimSpace(*jdPath) != "" {
		jdBytes, err := os.ReadFile(*jdPath)
		if err != nil {
			exitErr(fmt.Sprintf("read job description: %v", err))
		}
		jobDescription = string(jdBytes)
	}

	client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, *model, cfg.GeminiTimeout)
	if err != nil {
		exitErr(err.Error())
	}

	out, err := run(ctx, coach.NewService(client), *mode, resumeText, *role, jobDescription)
	if err != nil {
		exitErr(err.Error())
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if err := writeOutput(os.Stdout, out); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

// run executes one operation and returns printable output: indented JSON
// for analyze, raw markdown for generate.
func run(ctx context.Context, svc *coach.Service, mode, resume, role, jobDescription string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "analyze":
		result, err := svc.Analyze(ctx, coach.AnalyzeInput{Resume: resume, JobRole: role, JobDescription: jobDescription})
		if err != nil {
			return nil, fmt.Errorf("analyze: %w", err)
		}
		return json.MarshalIndent(result, "", "  ")
	case "generate":
		polished, err := svc.Generate(ctx, coach.GenerateInput{Resume: resume, JobRole: role})
		if err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
		return []byte(polished), nil
	default:
		return nil, fmt.Errorf("unsupported mode: %s", mode)
	}
}

func readResume(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extract.FromBytes(ctx, data)
	case ".txt", ".md":
		if strings.TrimSpace(string(data)) == "" {
			return "", extract.ErrMissingResume
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(path))
	}
}

func writeOutput(w io.Writer, out []byte) error {
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) == 0 || !bytes.HasSuffix(out, []byte("\n")) {
		_, err := w.Write([]byte("\n"))
		return err
	}
	return nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
