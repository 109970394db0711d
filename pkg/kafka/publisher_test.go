package kafka

import (
	"context"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/questx-lab/lottery/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		require.Equal(t, `{"id":"e1"}`, string(val))
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &publisher{clientID: "test", producer: producer}
	pack := &pubsub.Pack{Key: []byte("e1"), Msg: []byte(`{"id":"e1"}`)}

	require.NoError(t, p.Publish(context.Background(), "cycle_completed", pack))
	require.ErrorIs(t, p.Publish(context.Background(), "cycle_completed", pack), sarama.ErrOutOfBrokers)
	require.NoError(t, p.Stop(context.Background()))
}
