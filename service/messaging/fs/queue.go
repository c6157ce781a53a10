package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/kproc/service/messaging"
)

// MessageState represents the state of a journaled message.
type MessageState string

const (
	MessageStatePending    MessageState = "pending"
	MessageStateProcessing MessageState = "processing"
	MessageStateCompleted  MessageState = "completed"
	MessageStateFailed     MessageState = "failed"
)

// Message implements messaging.Message for the journal queue.
type Message[T any] struct {
	ID        string       `json:"id"`
	Seq       uint64       `json:"seq"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	queue     *Queue[T]
	name      string
	processed bool
	mu        sync.Mutex
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to the completed directory.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrProcessed
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, m.queue.completedDir)
}

// Nack moves the message to the failed directory with the error recorded.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return messaging.ErrProcessed
	}
	m.processed = true
	m.State = MessageStateFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, m.queue.failedDir)
}

// QueueConfig holds configuration for the journal queue.
type QueueConfig struct {
	// BaseURL is any afs location, e.g. a local directory or mem://localhost/events.
	BaseURL string
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() QueueConfig {
	return QueueConfig{BaseURL: "/tmp/kproc/events"}
}

// Queue journals every message as a JSON file. Files are named after a
// per-queue sequence so that Consume returns them in publish order.
type Queue[T any] struct {
	fs            afs.Service
	config        QueueConfig
	pendingDir    string
	processingDir string
	completedDir  string
	failedDir     string
	seq           atomic.Uint64
	mu            sync.Mutex
}

// NewQueue creates the journal directories under config.BaseURL.
func NewQueue[T any](fs afs.Service, config QueueConfig) (*Queue[T], error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	q := &Queue[T]{
		fs:            fs,
		config:        config,
		pendingDir:    path.Join(config.BaseURL, "pending"),
		processingDir: path.Join(config.BaseURL, "processing"),
		completedDir:  path.Join(config.BaseURL, "completed"),
		failedDir:     path.Join(config.BaseURL, "failed"),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.processingDir, q.completedDir, q.failedDir} {
		exists, _ := fs.Exists(ctx, dir)
		if !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish writes the message to the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := time.Now()
	message := &Message[T]{
		ID:        uuid.New().String(),
		Seq:       q.seq.Add(1),
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	message.name = q.filename(message)
	return q.write(ctx, path.Join(q.pendingDir, message.name), message)
}

// Consume returns the oldest pending message, or nil when none is pending.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var pending []storage.Object
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), ".json") {
			pending = append(pending, obj)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Name() < pending[j].Name() })
	obj := pending[0]

	message, err := q.read(ctx, obj.URL())
	if err != nil {
		_ = q.fs.Move(ctx, obj.URL(), path.Join(q.failedDir, "invalid-"+obj.Name()))
		return nil, err
	}
	message.queue = q
	message.name = obj.Name()
	message.State = MessageStateProcessing
	message.UpdatedAt = time.Now()
	if err = q.write(ctx, path.Join(q.processingDir, obj.Name()), message); err != nil {
		return nil, fmt.Errorf("failed to move message to processing directory: %w", err)
	}
	if err = q.fs.Delete(ctx, obj.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete pending message: %w", err)
	}
	return message, nil
}

// Pending returns the number of messages waiting to be consumed.
func (q *Queue[T]) Pending(ctx context.Context) (int, error) {
	objects, err := q.fs.List(ctx, q.pendingDir)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), ".json") {
			count++
		}
	}
	return count, nil
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], dir string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.write(ctx, path.Join(dir, m.name), m); err != nil {
		return err
	}
	processing := path.Join(q.processingDir, m.name)
	if exists, _ := q.fs.Exists(ctx, processing); exists {
		if err := q.fs.Delete(ctx, processing); err != nil {
			return fmt.Errorf("failed to delete message from processing directory: %w", err)
		}
	}
	return nil
}

func (q *Queue[T]) filename(m *Message[T]) string {
	return fmt.Sprintf("%020d-%s.json", m.Seq, m.ID)
}

func (q *Queue[T]) write(ctx context.Context, URL string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return &message, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
