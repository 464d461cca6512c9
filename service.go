package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/posts/model"
	"github.com/viant/posts/service/dao"
	pmemory "github.com/viant/posts/service/dao/post/memory"
	"github.com/viant/posts/service/event"
	"github.com/viant/posts/service/messaging"
	mmemory "github.com/viant/posts/service/messaging/memory"
	"github.com/viant/posts/tracing"
)

const (
	// Name is reported as the tracing service name
	Name = "posts"
	// Version is reported as the tracing service version
	Version = "0.1.0"
)

// Service is the post collection facade: a single instance created at start
// and shared by every transport.
type Service struct {
	config    *Config
	logger    *slog.Logger
	dao       dao.Service[model.Post]
	fs        afs.Service
	queue     messaging.Queue[event.Event[model.Post]]
	publisher *event.Publisher[model.Post]
	handler   func(*event.Event[model.Post]) error
	listener  *event.Listener[model.Post]
	traced    bool
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	if s.config.Tracing.Enabled {
		if err := tracing.Init(Name, Version, s.config.Tracing.OutputFile); err != nil {
			s.logger.Warn("tracing disabled", "error", err)
		} else {
			s.traced = true
		}
	}
	if s.queue != nil {
		s.publisher = event.NewPublisher[model.Post](s.queue)
		if s.handler != nil {
			s.listener = event.NewListener[model.Post](s.publisher, s.handler, s.logger)
			s.listener.Start(context.Background())
		}
	}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.dao == nil {
		s.dao = pmemory.New()
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	// without a handler nothing would drain the default queue
	if s.queue == nil && s.handler != nil && s.config.Events.Enabled {
		queueConfig := mmemory.DefaultConfig()
		queueConfig.Buffer = s.config.Events.QueueBuffer
		s.queue = mmemory.NewQueue[event.Event[model.Post]](queueConfig)
	}
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Create appends a new post built from payload and returns it.
func (s *Service) Create(ctx context.Context, payload *model.Payload) (post *model.Post, err error) {
	ctx, span := tracing.StartSpan(ctx, "posts.create", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	if payload == nil {
		return nil, dao.ErrNilEntity
	}
	started := time.Now()
	if post, err = s.dao.Create(ctx, model.NewPost(payload)); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	span.WithAttributes(map[string]string{"post.id": post.ID})
	s.logger.Debug("post created", "id", post.ID)
	s.notify(ctx, post, time.Since(started))
	return post, nil
}

// notify publishes post.created; failures are logged and never fail the create.
func (s *Service) notify(ctx context.Context, post *model.Post, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}
	evt := event.NewEvent(&event.Context{
		EventType:   event.PostCreated,
		Service:     Name,
		Method:      "create",
		TimeTakenMs: int(elapsed.Milliseconds()),
	}, *post)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish event", "type", event.PostCreated, "id", post.ID, "error", err)
	}
}

// FindMany returns the posts selected by the optional dao.Skip and dao.Limit
// parameters in creation order. Without parameters every post is returned.
func (s *Service) FindMany(ctx context.Context, parameters ...*dao.Parameter) (posts []*model.Post, err error) {
	ctx, span := tracing.StartSpan(ctx, "posts.findMany", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	if posts, err = s.dao.FindMany(ctx, parameters...); err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	span.WithInt("posts.count", len(posts))
	s.logger.Debug("posts found", "count", len(posts))
	return posts, nil
}

// Load returns the post with the supplied id or an error wrapping dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (post *model.Post, err error) {
	ctx, span := tracing.StartSpan(ctx, "posts.load", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	if post, err = s.dao.Load(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load post %q: %w", id, err)
	}
	return post, nil
}

// Count returns the collection size
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.dao.Count(ctx)
}

// Export writes a JSON snapshot of the whole collection to URL (any afs
// supported scheme). The snapshot is never read back.
func (s *Service) Export(ctx context.Context, URL string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "posts.export", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	posts, err := s.dao.FindMany(ctx)
	if err != nil {
		return fmt.Errorf("failed to read posts: %w", err)
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to export posts to %s: %w", URL, err)
	}
	s.logger.Info("posts exported", "url", URL, "count", len(posts))
	return nil
}

// Close stops the event listener and flushes tracing, if either was started.
func (s *Service) Close() {
	if s.listener != nil {
		s.listener.Stop()
	}
	if s.traced {
		if err := tracing.Shutdown(context.Background()); err != nil {
			s.logger.Warn("failed to shutdown tracing", "error", err)
		}
	}
}

func New(options ...Option) *Service {
	ret := &Service{}
	ret.init(options)
	return ret
}
