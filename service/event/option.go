package event

import (
	"github.com/viant/afs"
	"github.com/viant/kproc/service/messaging/fs"
	"github.com/viant/kproc/service/messaging/memory"
)

type Option func(s *Service)

// WithMemoryConfig sets the memory queue configuration.
func WithMemoryConfig(config memory.Config) Option {
	return func(s *Service) {
		s.memoryConfig = config
	}
}

// WithFsConfig sets the journal queue configuration.
func WithFsConfig(config fs.QueueConfig) Option {
	return func(s *Service) {
		s.fsConfig = &config
	}
}

// WithFs sets the storage service used by the journal queue.
func WithFs(service afs.Service) Option {
	return func(s *Service) {
		s.fs = service
	}
}
