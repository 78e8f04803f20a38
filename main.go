package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/eduquest/bootstrap"
	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/events"
	"github.com/cppla/eduquest/routes"
	"github.com/cppla/eduquest/services"
	"github.com/cppla/eduquest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	openCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := bootstrap.OpenStore(openCtx, cfg)
	cancel()
	if err != nil {
		utils.Logger.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, utils.Logger)
	if err != nil {
		// Analytics mirroring is optional; keep serving without it
		utils.Logger.Warn("amqp publisher disabled", zap.Error(err))
		publisher, _ = events.NewPublisher("", cfg.AMQPExchange, utils.Logger)
	}

	recorder := services.NewRecorder(st.Analytics(), publisher, utils.Logger)
	learning := services.NewLearningService(st, recorder, utils.Logger)

	r := routes.SetupRouter(routes.Deps{
		Store:    st,
		Learning: learning,
		Recorder: recorder,
		Logger:   utils.Logger,
	})

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := publisher.Close(); err != nil {
			utils.Logger.Warn("close publisher", zap.Error(err))
		}
		if err := st.Close(ctx); err != nil {
			utils.Logger.Warn("close store", zap.Error(err))
		}
		utils.CloseRedis()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful, store=%s)", cfg.AppPort, cfg.StoreDriver)
	if err := utils.GraceServer(":"+cfg.AppPort, r, cleanup); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
