package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	Watchable      bool   `json:"watchable"`
}

// State implements introspection.Introspectable.
func (s *QuoteService) State() any {
	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}
	_, watchable := s.repo.(Watchable)

	return ServiceState{
		RepositoryType: repoType,
		Watchable:      watchable,
	}
}

// ComponentType implements introspection.Component.
func (s *QuoteService) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*QuoteService)(nil)
var _ introspection.Component = (*QuoteService)(nil)
