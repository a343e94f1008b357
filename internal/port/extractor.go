package port

import "context"

// ExtractInput carries the raw bytes handed to an extraction collaborator.
type ExtractInput struct {
	FileBytes    []byte
	ContentType  string
	Filename     string
	DocumentType string // optional hint; empty means the extractor should classify
}

// ExtractOutput contains the flat field map produced by an extractor.
// Confidence scores are per-field in [0,1]; extractors that cannot estimate
// confidence may leave the map nil.
type ExtractOutput struct {
	DocumentType string
	Fields       map[string]string
	Confidence   map[string]float64
	ProviderUsed string
}

// DocumentExtractor abstracts field extraction from raw document bytes.
type DocumentExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
