// Package queue exposes the scoring engine over RabbitMQ: requests carrying a
// résumé and a job arrive on one queue, analyses are published on another.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/job-matcher/internal/records"
	"github.com/spigell/job-matcher/internal/scoring"
)

const contentTypeJSON = "application/json"

var errMissingRecords = errors.New("request must carry both resume and job")

// Config describes the broker side of the worker.
type Config struct {
	URL          string `mapstructure:"rabbitmq-url"`
	RequestQueue string `mapstructure:"request-queue" validate:"required"`
	ResultQueue  string `mapstructure:"result-queue" validate:"required"`
	Consumers    int    `mapstructure:"consumers" validate:"gte=1"`
}

// Request is the body of an incoming message. Resume and Job are decoded
// with the same loose rules as record files.
type Request struct {
	RequestID string         `json:"request_id"`
	Resume    map[string]any `json:"resume"`
	Job       map[string]any `json:"job"`
}

// Response is published for every accepted request; exactly one of Analysis
// and Error is set.
type Response struct {
	RequestID string               `json:"request_id"`
	Analysis  *scoring.JobAnalysis `json:"analysis,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// Channel is the subset of *amqp.Channel the worker uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Scorer scores one résumé/job pair.
type Scorer interface {
	Analyze(ctx context.Context, resume *records.ResumeProfile, job *records.JobRecord) (*scoring.JobAnalysis, error)
}

// Worker consumes scoring requests and publishes analyses.
type Worker struct {
	ch     Channel
	scorer Scorer
	cfg    Config
	logger *zap.Logger
}

// NewWorker builds a worker on an open channel.
func NewWorker(ch Channel, scorer Scorer, cfg Config, logger *zap.Logger) (*Worker, error) {
	if ch == nil {
		return nil, errors.New("amqp channel is required")
	}
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if strings.TrimSpace(cfg.RequestQueue) == "" || strings.TrimSpace(cfg.ResultQueue) == "" {
		return nil, errors.New("request and result queues are required")
	}
	if cfg.Consumers < 1 {
		cfg.Consumers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Worker{ch: ch, scorer: scorer, cfg: cfg, logger: logger}, nil
}

// Dial connects to the broker and opens a channel. The caller closes both.
func Dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	return conn, ch, nil
}

// Run declares the queues and processes deliveries with the configured
// number of consumers until ctx is done or the delivery channel closes.
func (w *Worker) Run(ctx context.Context) error {
	for _, name := range []string{w.cfg.RequestQueue, w.cfg.ResultQueue} {
		if _, err := w.ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %q: %w", name, err)
		}
	}

	if err := w.ch.Qos(w.cfg.Consumers, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := w.ch.Consume(w.cfg.RequestQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %q: %w", w.cfg.RequestQueue, err)
	}

	w.logger.Info("worker started",
		zap.String("request_queue", w.cfg.RequestQueue),
		zap.String("result_queue", w.cfg.ResultQueue),
		zap.Int("consumers", w.cfg.Consumers),
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Consumers; i++ {
		consumer := i + 1
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				case d, ok := <-deliveries:
					if !ok {
						w.logger.Info("delivery channel closed", zap.Int("consumer", consumer))
						return nil
					}
					w.handle(gctx, d)
				}
			}
		})
	}

	return g.Wait()
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var req Request
	if err := json.Unmarshal(d.Body, &req); err != nil {
		w.logger.Warn("rejecting malformed message", zap.Error(err))
		if err := d.Reject(false); err != nil {
			w.logger.Error("reject failed", zap.Error(err))
		}
		return
	}

	if req.RequestID = strings.TrimSpace(req.RequestID); req.RequestID == "" {
		req.RequestID = d.CorrelationId
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	log := w.logger.With(zap.String("request_id", req.RequestID))
	resp := Response{RequestID: req.RequestID}

	analysis, err := w.score(ctx, req)
	if err != nil {
		log.Warn("scoring request failed", zap.Error(err))
		resp.Error = err.Error()
	} else {
		resp.Analysis = analysis
		log.Info("request scored",
			zap.String("job_id", analysis.JobID),
			zap.Float64("overall", analysis.MatchScore.OverallScore),
			zap.String("recommendation", string(analysis.Recommendation)),
		)
	}

	if err := w.publish(d, resp); err != nil {
		log.Error("publishing result failed, requeueing", zap.Error(err))
		if err := d.Nack(false, true); err != nil {
			log.Error("nack failed", zap.Error(err))
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error("ack failed", zap.Error(err))
	}
}

func (w *Worker) score(ctx context.Context, req Request) (*scoring.JobAnalysis, error) {
	if req.Resume == nil || req.Job == nil {
		return nil, errMissingRecords
	}

	resume, err := records.DecodeResume(req.Resume)
	if err != nil {
		return nil, err
	}

	job, err := records.DecodeJob(req.Job)
	if err != nil {
		return nil, err
	}

	return w.scorer.Analyze(ctx, resume, job)
}

// publish sends resp to the delivery's reply-to queue when set, and to the
// result queue otherwise.
func (w *Worker) publish(d amqp.Delivery, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	key := w.cfg.ResultQueue
	if d.ReplyTo != "" {
		key = d.ReplyTo
	}

	return w.ch.Publish("", key, false, false, amqp.Publishing{
		ContentType:   contentTypeJSON,
		CorrelationId: resp.RequestID,
		DeliveryMode:  amqp.Persistent,
		Body:          body,
	})
}
