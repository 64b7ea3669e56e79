package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Source names which input a resume was taken from.
type Source string

const (
	SourcePDF  Source = "pdf"
	SourceText Source = "text"
)

const (
	msgMissingResume   = "Resume text is required. Please paste text or upload a file."
	msgEmptyExtraction = "Could not extract text from the PDF. It might be an image-based file (like a scan). Please use a text-based PDF or paste the text directly."
)

// Input is the raw resume as submitted by the form.
type Input struct {
	Text string
	File *multipart.FileHeader
}

// FromInput resolves the resume text for a request.
//
// Precedence: an uploaded file with a non-empty filename always wins over the
// pasted text field. A file part with an empty filename is treated as absent.
// PDF text is whitespace-collapsed; pasted text is returned as supplied.
func FromInput(ctx context.Context, in Input) (string, Source, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	if in.File != nil && in.File.Filename != "" {
		data, err := readUpload(in.File)
		if err != nil {
			return "", SourcePDF, corrupt(err)
		}
		text, err := FromBytes(ctx, data)
		return text, SourcePDF, err
	}

	if strings.TrimSpace(in.Text) == "" {
		return "", SourceText, &Error{Kind: ErrMissingResume, Msg: msgMissingResume}
	}
	return in.Text, SourceText, nil
}

// FromBytes extracts and normalizes text from an in-memory PDF.
func FromBytes(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	raw, err := extractPDF(data)
	if err != nil {
		return "", corrupt(err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", &Error{Kind: ErrEmptyExtraction, Msg: msgEmptyExtraction}
	}
	return CollapseWhitespace(raw), nil
}

// CollapseWhitespace replaces every run of whitespace, newlines included,
// with a single space and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// extractPDF joins the text of every page that yields any, one page per line.
// The pdf package panics on some malformed inputs; those surface as errors.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func corrupt(err error) error {
	return &Error{
		Kind: ErrCorruptFile,
		Msg:  fmt.Sprintf("Failed to process PDF: %v. The file may be corrupted.", err),
		Err:  err,
	}
}
