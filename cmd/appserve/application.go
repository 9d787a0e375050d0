package main

import (
	"log/slog"
	"net/http"

	"github.com/dogmatiq/appserve/application"
	_ "github.com/dogmatiq/appserve/application/mainapp"
	"github.com/dogmatiq/appserve/health"
	"github.com/dogmatiq/imbue"
)

// entryPoint is the application that handles every request.
const entryPoint = "main:app"

func init() {
	imbue.With0(
		container,
		func(
			ctx imbue.Context,
		) (*health.State, error) {
			return health.NewState(), nil
		},
	)

	imbue.With2(
		container,
		func(
			ctx imbue.Context,
			state *health.State,
			logger *slog.Logger,
		) (http.Handler, error) {
			logger.Debug(
				"resolving application",
				slog.String("entry_point", entryPoint),
			)

			return application.Resolve(
				entryPoint,
				application.Dependencies{
					Logger: logger,
					Health: state,
					Debug:  debugEnabled.Value(),
				},
			)
		},
	)
}
