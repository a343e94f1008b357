package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/config"
	"rinsetu/internal/port"
)

func TestNewExtractorRegexBuiltIn(t *testing.T) {
	ext, err := NewExtractor(&config.ExtractorProviderConfig{Provider: "regex"})
	require.NoError(t, err)
	require.NotNil(t, ext)

	out, err := ext.Extract(context.Background(), port.ExtractInput{
		Filename:    "pan.txt",
		ContentType: "text/plain",
		FileBytes:   []byte("Permanent Account Number: ABCPE1234F Name: Asha Verma"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ABCPE1234F", out.Fields["pan_number"])
}

func TestNewExtractorUnknownProvider(t *testing.T) {
	_, err := NewExtractor(&config.ExtractorProviderConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extraction provider")
}

func TestBuildChainDefaultConfig(t *testing.T) {
	// The shipped defaults name regex as the primary and no secondary; the
	// chain must build without any startup registration and without a
	// duplicate regex tail.
	cfg := &config.ExtractorConfig{
		Primary: config.ExtractorProviderConfig{Provider: "regex"},
	}

	chain, err := BuildChain(&cfg.Primary, cfg.SecondaryConfig())
	require.NoError(t, err)
	require.Equal(t, []string{"regex"}, chain.names)
}

func TestBuildChainAppendsRegexAnchor(t *testing.T) {
	stub := &stubExtractor{out: &port.ExtractOutput{}}
	RegisterProvider("stub", func(*config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return stub, nil
	})
	defer delete(providers, "stub")

	chain, err := BuildChain(&config.ExtractorProviderConfig{Provider: "stub"})
	require.NoError(t, err)
	assert.Equal(t, []string{"stub", "regex"}, chain.names)
	assert.Len(t, chain.extractors, 2)
}

func TestBuildChainUnknownProviderFails(t *testing.T) {
	_, err := BuildChain(&config.ExtractorProviderConfig{Provider: "nope"})
	require.Error(t, err)
}

func TestBuildChainSkipsEmptySlots(t *testing.T) {
	chain, err := BuildChain(nil, &config.ExtractorProviderConfig{Provider: ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"regex"}, chain.names)
}
