package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/domain/entity"
)

var _ stock.MovementPublisher = (*MovementPublisher)(nil)

// StockMovementEvent es el payload publicado por cada movimiento confirmado.
type StockMovementEvent struct {
	MovementID             string          `json:"movement_id"`
	ProductID              string          `json:"product_id"`
	OriginWarehouseID      *string         `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID *string         `json:"destination_warehouse_id,omitempty"`
	BatchID                *string         `json:"batch_id,omitempty"`
	Type                   string          `json:"type"`
	Quantity               decimal.Decimal `json:"quantity"`
	UnitType               string          `json:"unit_type"`
	ReferenceNumber        *string         `json:"reference_number,omitempty"`
	CreatedBy              string          `json:"created_by"`
	CreatedAt              time.Time       `json:"created_at"`
}

// MovementPublisher publica movimientos de stock a Kafka después del commit.
// Best-effort: un fallo aquí nunca revierte la operación de inventario.
type MovementPublisher struct {
	writer *kafka.Writer
}

// NewMovementPublisher construye el publisher con el writer configurado.
func NewMovementPublisher(brokers []string, topic string) *MovementPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}
	return &MovementPublisher{writer: writer}
}

// PublishMovement serializa y envía el evento. Key = product_id para que los
// movimientos de un producto lleguen en orden a la misma partición.
func (p *MovementPublisher) PublishMovement(ctx context.Context, m *entity.StockMovement) error {
	event := StockMovementEvent{
		MovementID:             m.ID,
		ProductID:              m.ProductID,
		OriginWarehouseID:      m.OriginWarehouseID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		BatchID:                m.BatchID,
		Type:                   m.Type,
		Quantity:               m.Quantity,
		UnitType:               m.UnitType,
		ReferenceNumber:        m.ReferenceNumber,
		CreatedBy:              m.CreatedBy,
		CreatedAt:              m.CreatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal evento de movimiento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(m.ProductID),
		Value: data,
		Time:  m.CreatedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar movimiento a kafka: %w", err)
	}
	return nil
}

// Close cierra el writer.
func (p *MovementPublisher) Close() error {
	return p.writer.Close()
}
