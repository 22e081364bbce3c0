// Package output delivers change events to downstream consumers and exports
// the revenue series.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chrisdamba/menusight/internal/models"
)

type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// NoopOutput discards every message.
type NoopOutput struct{}

func (NoopOutput) WriteMessage(string, []byte) error { return nil }
func (NoopOutput) Close() error                      { return nil }

type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends JSON lines to basePath/<topic>/day=YYYY-MM-DD/events.jsonl.
type FileOutput struct {
	basePath string
	now      func() time.Time
	mu       sync.Mutex
	files    map[string]*os.File
}

func NewFileOutput(basePath string) *FileOutput {
	return &FileOutput{
		basePath: basePath,
		now:      time.Now,
		files:    make(map[string]*os.File),
	}
}

func (f *FileOutput) WriteMessage(topic string, msg []byte) error {
	partition := "day=" + f.now().UTC().Format("2006-01-02")
	dir := filepath.Join(f.basePath, topic, partition)

	f.mu.Lock()
	defer f.mu.Unlock()

	file, ok := f.files[dir]
	if !ok {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		var err error
		file, err = os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open event file: %w", err)
		}
		f.files[dir] = file
	}
	if _, err := file.Write(append(append([]byte(nil), msg...), '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (f *FileOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for key, file := range f.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(f.files, key)
	}
	return firstErr
}

// NewOutputDestination picks the event sink named in the config.
func NewOutputDestination(cfg models.EventsConfig) (OutputDestination, error) {
	switch cfg.Sink {
	case "", "none":
		return NoopOutput{}, nil
	case "console":
		return NewConsoleOutput(os.Stdout), nil
	case "file":
		if cfg.FilePath == "" {
			return nil, models.NewValidationError("events.file_path", "required for the file sink")
		}
		return NewFileOutput(cfg.FilePath), nil
	case "kafka":
		return NewKafkaOutput(cfg.KafkaBrokerList)
	case "amqp":
		return NewAMQPOutput(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		return nil, fmt.Errorf("unsupported event sink %q: %w", cfg.Sink, models.ErrValidation)
	}
}

// Publisher encodes change events and writes them to a destination.
type Publisher struct {
	dest  OutputDestination
	topic string
}

func NewPublisher(dest OutputDestination, topic string) *Publisher {
	if dest == nil {
		dest = NoopOutput{}
	}
	return &Publisher{dest: dest, topic: topic}
}

func (p *Publisher) Publish(event models.ChangeEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.dest.WriteMessage(p.topic, msg)
}

func (p *Publisher) Close() error {
	return p.dest.Close()
}
