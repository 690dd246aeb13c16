package components

import (
	"context"

	"storefront/internal/notifier"

	"go.uber.org/fx"
)

var NotifierModule = fx.Module("notifier",
	fx.Provide(
		notifier.NewLogMailer,
		notifier.NewWorker,
	),
	fx.Invoke(startNotifier),
)

func startNotifier(lc fx.Lifecycle, worker *notifier.Worker) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			worker.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return worker.Stop(ctx)
		},
	})
}
