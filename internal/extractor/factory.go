package extractor

import (
	"fmt"

	"rinsetu/internal/config"
	"rinsetu/internal/extractor/regexfb"
	"rinsetu/internal/port"
)

// ProviderFactory is a function that creates a DocumentExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error)

// registry of extraction provider factories. The regex provider is built in
// so the default configuration works offline; network-backed providers are
// registered during startup wiring.
var providers = map[string]ProviderFactory{
	"regex": func(*config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
		return regexfb.New(), nil
	},
}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a DocumentExtractor from a provider config using the registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// BuildChain assembles the fallback chain from the configured providers, in
// order, skipping empty slots. The regex provider always anchors the chain so
// extraction has an offline path even when every remote provider is down; it
// is appended only when not already configured last.
func BuildChain(providerCfgs ...*config.ExtractorProviderConfig) (*FallbackExtractor, error) {
	var chain []port.DocumentExtractor
	var names []string

	for _, pc := range providerCfgs {
		if pc == nil || pc.Provider == "" {
			continue
		}
		ext, err := NewExtractor(pc)
		if err != nil {
			return nil, err
		}
		chain = append(chain, ext)
		names = append(names, pc.Provider)
	}

	if len(names) == 0 || names[len(names)-1] != "regex" {
		chain = append(chain, regexfb.New())
		names = append(names, "regex")
	}

	return NewFallbackExtractor(chain, names), nil
}
