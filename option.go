package posts

import (
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/posts/model"
	"github.com/viant/posts/service/dao"
	"github.com/viant/posts/service/event"
	"github.com/viant/posts/service/messaging"
)

// Option configures a Service
type Option func(s *Service)

// WithConfig sets the service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger injects a logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPostDAO sets the post collection
func WithPostDAO(dao dao.Service[model.Post]) Option {
	return func(s *Service) {
		s.dao = dao
	}
}

// WithFs sets the file system used by Export
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithQueue sets the queue receiving post.created events. Unless WithEventHandler
// is also given, the caller is responsible for consuming it.
func WithQueue(queue messaging.Queue[event.Event[model.Post]]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithEventHandler starts a listener passing every post.created event to handler.
// A handler error nacks the event so it is redelivered, up to the queue's retry limit.
func WithEventHandler(handler func(*event.Event[model.Post]) error) Option {
	return func(s *Service) {
		s.handler = handler
	}
}
