package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/trimly/internal/pkg/config"
	"github.com/shandysiswandi/trimly/internal/pkg/goroutine"
	"github.com/shandysiswandi/trimly/internal/pkg/instrument"
	"github.com/shandysiswandi/trimly/internal/pkg/messaging"
	"github.com/shandysiswandi/trimly/internal/pkg/uid"
	"github.com/shandysiswandi/trimly/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.realtime.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubsub
		handler            messaging.Handler
	}{
		{
			name:               event.ChallengeChangedDestinationConsumerRealtime,
			topic:              event.ChallengeChangedDestination,
			nsqConsumerName:    event.ChallengeChangedDestinationConsumerRealtime,
			natsConsumerName:   event.ChallengeChangedDestinationConsumerRealtime,
			kafkaConsumerName:  event.ChallengeChangedDestinationConsumerRealtime,
			pubsubConsumerName: event.ChallengeChangedDestinationConsumerRealtime,
			handler:            mqHandler.ChallengeChanged,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(1),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
