package notification

import (
	"context"

	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-timekeeping-backend-go/internal/pkg/sse"
)

// Service is the inbox behind workflow events. Queue calls never fail the
// caller's workflow; delivery problems are logged.
type Service interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	List(ctx context.Context, filter NotificationFilter) (pagination.Page[NotificationResponse], error)
	GetUnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error

	// Subscribe streams the caller's notifications as they are stored.
	Subscribe(ctx context.Context) (<-chan sse.Event, func(), error)

	Start()
	Stop()
}
