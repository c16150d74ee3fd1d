package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/gomodoro/internal/pkg/config"
	"github.com/shandysiswandi/gomodoro/internal/pkg/goroutine"
	"github.com/shandysiswandi/gomodoro/internal/pkg/instrument"
	"github.com/shandysiswandi/gomodoro/internal/pkg/messaging"
	"github.com/shandysiswandi/gomodoro/internal/pkg/uid"
	"github.com/shandysiswandi/gomodoro/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Consumer,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.history.consumer_names")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		group   string // kafka group, nsq channel, nats queue group
		handler messaging.Handler
	}{
		{
			name:    event.TimerCompletedConsumerHistory,
			topic:   event.TimerCompletedDestination,
			group:   event.TimerCompletedConsumerHistory,
			handler: mqHandler.TimerCompletedHistory,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithGroup(consumer.group),
					messaging.WithConcurrency(4),
				)
			})
		}
	}
}
