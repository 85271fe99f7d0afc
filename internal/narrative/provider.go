// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package narrative produces a short prose summary of a gap report with a
// text-completion provider: the Anthropic or OpenAI HTTP APIs, or a local
// command that reads the prompt on stdin.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/citegap/pkg/types"
)

// ProviderKind names a completion provider.
type ProviderKind string

const (
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderCommand   ProviderKind = "command"
)

// UnknownProviderError is returned for a provider name outside the
// supported set.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown narrative provider %q (want anthropic, openai or command)", e.Name)
}

// ParseProviderKind maps a configured name to a ProviderKind.
func ParseProviderKind(name string) (ProviderKind, error) {
	switch k := ProviderKind(strings.ToLower(strings.TrimSpace(name))); k {
	case ProviderAnthropic, ProviderOpenAI, ProviderCommand:
		return k, nil
	default:
		return "", &UnknownProviderError{Name: name}
	}
}

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DefaultTimeout bounds one completion call.
const DefaultTimeout = 90 * time.Second

// New builds the Completer selected by cfg.Provider.
func New(cfg types.NarrativeConfig) (Completer, error) {
	kind, err := ParseProviderKind(cfg.Provider)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	switch kind {
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL, timeout), nil
	case ProviderCommand:
		return NewCommand(cfg.Command, timeout)
	}
	return nil, &UnknownProviderError{Name: cfg.Provider}
}
