package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config
	now    func() time.Time

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates the inbox service. Workers run once Start is
// called. Persisted notifications are pushed to hub when it is not nil.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	return &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		now:    time.Now,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}
}

func (s *service) Start() {
	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	slog.Info("notification service started",
		"workers", s.config.WorkerCount,
		"batch_size", s.config.BatchSize,
		"flush_interval", s.config.FlushInterval,
	)
}

// Stop flushes pending batches and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, 0, len(batch))
		for _, req := range batch {
			n, err := s.build(req)
			if err != nil {
				slog.Error("failed to build notification", "worker", id, "error", err)
				continue
			}
			notifications = append(notifications, n)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("failed to insert notification batch", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("notification batch inserted", "worker", id, "count", len(notifications))
			s.publish(notifications...)
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) build(req notification.CreateNotificationRequest) (*notification.Notification, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &notification.Notification{
		ID:          id.String(),
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   s.now(),
	}, nil
}

// QueueNotification queues a notification for async insertion. When the
// queue is full it is written directly.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if req.RecipientID == "" {
		return nil
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.directInsert(ctx, req)
	}
}

func (s *service) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.WarnContext(ctx, "failed to queue notification",
				"recipient_id", req.RecipientID,
				"type", req.Type,
				"error", err,
			)
		}
	}
	return nil
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n, err := s.build(req)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("%w: %v", notification.ErrQueueFull, err)
	}
	s.publish(n)
	return nil
}

func (s *service) publish(notifications ...*notification.Notification) {
	if s.hub == nil {
		return
	}
	for _, n := range notifications {
		s.hub.Publish(sse.Event{
			RecipientID: n.RecipientID,
			Name:        "notification",
			Data:        notification.ToResponse(*n),
		})
	}
}

// Subscribe opens a live stream of the caller's new notifications.
func (s *service) Subscribe(ctx context.Context) (<-chan sse.Event, func(), error) {
	if s.hub == nil {
		return nil, nil, notification.ErrStreamUnavailable
	}
	recipientID, err := recipient(ctx)
	if err != nil {
		return nil, nil, err
	}
	events, cancel := s.hub.Subscribe(recipientID)
	return events, cancel, nil
}

func (s *service) List(ctx context.Context, filter notification.NotificationFilter) (pagination.Page[notification.NotificationResponse], error) {
	recipientID, err := recipient(ctx)
	if err != nil {
		return pagination.Page[notification.NotificationResponse]{}, err
	}
	if err := filter.Normalize().Err(); err != nil {
		return pagination.Page[notification.NotificationResponse]{}, err
	}
	filter.RecipientID = recipientID

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[notification.NotificationResponse]{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return pagination.NewPage(pagination.Map(items, notification.ToResponse), total, filter.Params), nil
}

func (s *service) GetUnreadCount(ctx context.Context) (int, error) {
	recipientID, err := recipient(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, recipientID)
}

func (s *service) MarkAsRead(ctx context.Context, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	recipientID, err := recipient(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, recipientID)
}

func (s *service) MarkAllAsRead(ctx context.Context) error {
	recipientID, err := recipient(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, recipientID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	recipientID, err := recipient(ctx)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, recipientID)
}

// recipient returns the employee whose inbox the caller reads.
func recipient(ctx context.Context) (string, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return "", err
	}
	if actor.EmployeeID == nil {
		return "", user.ErrEmployeeProfileRequired
	}
	return *actor.EmployeeID, nil
}
