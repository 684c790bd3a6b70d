package llm

import (
	"fmt"
	"strings"
)

// NewAssistant creates an assistant from configuration. An empty provider
// disables the assist layer and returns nil, nil.
func NewAssistant(config Config) (Assistant, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIAssistant(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown assist provider: %s (supported: openai)", config.Provider)
	}
}
