package loader

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

type Option func(*Service)

// WithFs sets the storage service images are read from.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithStorageOptions passes options (e.g. an *embed.FS) to every storage call.
func WithStorageOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.options = append(s.options, options...)
	}
}

// WithRegistry sets the registry entries are resolved from.
func WithRegistry(registry *Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}
