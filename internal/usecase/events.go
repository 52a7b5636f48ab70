package usecase

import (
	"context"

	"bookstore/internal/domain/model"
)

// 外部へのイベント送信（RabbitMQ実装とNop実装がある）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, v any) error
}

const (
	RoutingCheckoutCompleted = "checkout.completed"
	RoutingBookCreated       = "catalog.book.created"
	RoutingBookUpdated       = "catalog.book.updated"
)

type CheckoutCompletedEvent struct {
	OrderNumber string               `json:"order_number"`
	UserID      int64                `json:"user_id"`
	Charged     int64                `json:"charged"`
	Items       []CheckoutItemOutput `json:"items"`
}

type BookChangedEvent struct {
	Action model.AuditAction `json:"action"`
	Book   model.Book        `json:"book"`
}
