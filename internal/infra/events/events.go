package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Типы событий, публикуемых сервисом
const (
	TypeBookingCreated      = "booking.created"
	TypeBookingTransitioned = "booking.transitioned"
	TypeSlotBlockChanged    = "slot_block.changed"
)

// BookingCreated событие создания бронирования
type BookingCreated struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id"`
	Kind       string    `json:"kind"`
	CustomerID int64     `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingTransitioned событие смены статуса бронирования
type BookingTransitioned struct {
	Type       string    `json:"type"`
	BookingID  int64     `json:"booking_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    int64     `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SlotBlockChanged событие изменения ручных блокировок на дату
type SlotBlockChanged struct {
	Type       string    `json:"type"`
	Date       string    `json:"date"`
	Operation  string    `json:"operation"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer публикует доменные события в Kafka.
// Публикация выполняется после фиксации транзакции; ошибки доставки
// не влияют на результат операции и остаются на совести вызывающего.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer создает продюсер событий
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer, topic: topic}
}

// Publish отправляет событие с уникальным ключом сообщения
func (p *Producer) Publish(ctx context.Context, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: Publish - marshal: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(uuid.NewString()),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("events: Publish - write message: %w", err)
	}
	return nil
}

// Close закрывает продюсер
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
