package service

import (
	repository "github.com/jakedibattista/Scout/internal/adapters/repository"
	"github.com/jakedibattista/Scout/internal/domain/plan"
	"github.com/jakedibattista/Scout/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the profile store backing the service.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPlanner sets the plan acquirer used for query understanding.
func WithPlanner(acquirer *plan.Acquirer) Option {
	return func(s *Service) {
		if acquirer != nil {
			s.planner = acquirer
		}
	}
}

// WithFetchBatchSize caps athlete IDs per candidate fetch chunk. Values
// above the store's batch limit are clamped to it.
func WithFetchBatchSize(size int) Option {
	return func(s *Service) {
		if size <= 0 {
			return
		}
		if size > repository.MaxIDBatch {
			size = repository.MaxIDBatch
		}
		s.fetchBatchSize = size
	}
}

// WithMaxResults caps the ranked rows returned per search.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
