// Package oracle provides the language model client used for
// extraction fallback.
package oracle

import "context"

// Options constrains a single completion request.
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Completer is the narrow interface the rest of the engine depends
// on. Everything outside this package works against it, so tests run
// with a scripted double instead of the network.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string, opts Options) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	return f(ctx, prompt, opts)
}
