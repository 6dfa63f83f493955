package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

func sampleMovements() []*entity.StockMovement {
	at := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)
	return []*entity.StockMovement{
		{ID: "m-1", PartNumber: "P-001", Warehouse: "WH-A", Location: "A-01", MovementType: entity.MovementOutgoing,
			Quantity: 4, MovementDate: at, ReferenceDocument: "A-01", Description: "traslado"},
		{ID: "m-2", PartNumber: "P-001", Warehouse: "WH-A", Location: "A-02", MovementType: entity.MovementIncoming,
			Quantity: 4, MovementDate: at, ReferenceDocument: "A-02", Description: "traslado"},
	}
}

func TestPublishMovements_OneMessagePerMovement(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	var seen []StockMovementEvent
	check := func(val []byte) error {
		var ev StockMovementEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		seen = append(seen, ev)
		return nil
	}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(check)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(check)

	pub := NewMovementPublisherWithProducer(producer, "inventory.stock-movements", nil)
	require.NoError(t, pub.PublishMovements(context.Background(), sampleMovements()))
	require.NoError(t, pub.Close())

	require.Len(t, seen, 2)
	assert.Equal(t, "m-1", seen[0].EventID)
	assert.Equal(t, EventTypeStockMovement, seen[0].EventType)
	assert.Equal(t, entity.MovementOutgoing, seen[0].MovementType)
	assert.Equal(t, "A-02", seen[1].Location)
	assert.Equal(t, int64(4), seen[1].Quantity)
}

func TestPublishMovements_ProducerError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndSucceed()

	pub := NewMovementPublisherWithProducer(producer, "t", nil)
	err := pub.PublishMovements(context.Background(), sampleMovements())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publicar 2 movimientos")
	require.NoError(t, pub.Close())
}

func TestPublishMovements_EmptyBatchIsNoop(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	pub := NewMovementPublisherWithProducer(producer, "t", nil)
	assert.NoError(t, pub.PublishMovements(context.Background(), nil))
	require.NoError(t, pub.Close())
}
