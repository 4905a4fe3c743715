package llm

import "context"

// unconfiguredProvider stands in when no credential is available. The
// application still starts; every generation fails with ErrAPIKeyNotSet.
type unconfiguredProvider struct {
	err   *ErrAPIKeyNotSet
	model string
}

// NewUnconfiguredProvider returns a Provider whose every call fails with err.
func NewUnconfiguredProvider(err *ErrAPIKeyNotSet, model string) Provider {
	return &unconfiguredProvider{err: err, model: model}
}

func (p *unconfiguredProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, p.err
}

func (p *unconfiguredProvider) ModelID() string {
	return p.model
}
