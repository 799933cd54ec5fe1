// Package llm is the contract between the classifier and a completion service.
package llm

import "context"

// Request is a single system + user exchange.
type Request struct {
	System string
	User   string
	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool
}

// Provider returns the model's text answer to a request.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
