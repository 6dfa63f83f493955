package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// EventTypeStockMovement tipo de evento en la cabecera event_type.
const EventTypeStockMovement = "inventory.stock_movement.recorded"

var _ inventory.MovementPublisher = (*MovementPublisher)(nil)

// StockMovementEvent cuerpo JSON de cada mensaje.
type StockMovementEvent struct {
	EventID           string    `json:"event_id"`
	EventType         string    `json:"event_type"`
	PartNumber        string    `json:"part_number"`
	Warehouse         string    `json:"warehouse"`
	Location          string    `json:"location"`
	MovementType      string    `json:"movement_type"`
	Quantity          int64     `json:"quantity"`
	MovementDate      time.Time `json:"movement_date"`
	ReferenceDocument string    `json:"reference_document"`
	Description       string    `json:"description"`
	Operator          *string   `json:"operator,omitempty"`
}

// MovementPublisher publica los asientos confirmados del libro en un tópico Kafka.
// La clave del mensaje es el número de parte: los movimientos de una parte quedan en orden
// dentro de su partición.
type MovementPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewMovementPublisher crea el productor síncrono contra brokers.
func NewMovementPublisher(brokers []string, topic string, log *logger.Logger) (*MovementPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("publicador de movimientos inicializado")
	return NewMovementPublisherWithProducer(producer, topic, log), nil
}

// NewMovementPublisherWithProducer usa un productor existente (tests con sarama/mocks).
func NewMovementPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *MovementPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementPublisher{producer: producer, topic: topic, log: log}
}

// PublishMovements envía un mensaje por asiento en un solo lote.
func (p *MovementPublisher) PublishMovements(ctx context.Context, movs []*entity.StockMovement) error {
	if len(movs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msgs := make([]*sarama.ProducerMessage, 0, len(movs))
	for _, m := range movs {
		body, err := json.Marshal(toEvent(m))
		if err != nil {
			return fmt.Errorf("serializar movimiento %s: %w", m.ID, err)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(m.PartNumber),
			Value: sarama.ByteEncoder(body),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event_type"), Value: []byte(EventTypeStockMovement)},
				{Key: []byte("event_id"), Value: []byte(m.ID)},
				{Key: []byte("movement_type"), Value: []byte(m.MovementType)},
			},
		})
	}
	if err := p.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("publicar %d movimientos: %w", len(msgs), err)
	}
	p.log.Debug().Int("movements", len(msgs)).Str("topic", p.topic).Msg("movimientos publicados")
	return nil
}

// Close cierra el productor.
func (p *MovementPublisher) Close() error {
	return p.producer.Close()
}

func toEvent(m *entity.StockMovement) StockMovementEvent {
	return StockMovementEvent{
		EventID:           m.ID,
		EventType:         EventTypeStockMovement,
		PartNumber:        m.PartNumber,
		Warehouse:         m.Warehouse,
		Location:          m.Location,
		MovementType:      m.MovementType,
		Quantity:          m.Quantity,
		MovementDate:      m.MovementDate,
		ReferenceDocument: m.ReferenceDocument,
		Description:       m.Description,
		Operator:          m.Operator,
	}
}
