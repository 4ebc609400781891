package kafka

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler returns nil only when the message is fully processed and its
// offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

// reader is the part of *kafka.Reader the consumer uses.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r          reader
	workers    int
	logger     *zap.Logger
	backoff    time.Duration
	maxBackoff time.Duration
}

func NewConsumer(brokers []string, group string, topics []string, workers int, logger *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return newConsumer(r, workers, logger)
}

func newConsumer(r reader, workers int, logger *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		r:          r,
		workers:    workers,
		logger:     logger,
		backoff:    200 * time.Millisecond,
		maxBackoff: 10 * time.Second,
	}
}

// Start fetches messages until ctx is cancelled. Every partition is pinned
// to one worker, which handles its messages in offset order and retries a
// failing message until it succeeds, so a committed offset never skips an
// unprocessed message. The reader is closed only after all workers return.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	lanes := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range lanes {
		lanes[i] = make(chan kafka.Message, 64)
		wg.Add(1)
		go func(in <-chan kafka.Message) {
			defer wg.Done()
			for m := range in {
				if !c.process(ctx, h, m) {
					return
				}
			}
		}(lanes[i])
	}
	defer func() {
		for _, l := range lanes {
			close(l)
		}
		wg.Wait()
		_ = c.r.Close()
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case lanes[c.lane(m)] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Consumer) lane(m kafka.Message) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(m.Topic))
	_, _ = h.Write([]byte(strconv.Itoa(m.Partition)))
	return int(h.Sum32() % uint32(c.workers))
}

// process reports false when ctx ended before m was handled.
func (c *Consumer) process(ctx context.Context, h Handler, m kafka.Message) bool {
	wait := c.backoff
	for attempt := 1; ; attempt++ {
		err := h(ctx, m)
		if err == nil {
			if err := c.r.CommitMessages(ctx, m); err != nil {
				c.logger.Warn("commit offset", zap.String("topic", m.Topic), zap.Int64("offset", m.Offset), zap.Error(err))
			}
			return true
		}
		c.logger.Error("handle message",
			zap.String("topic", m.Topic),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
		wait = min(wait*2, c.maxBackoff)
	}
}
