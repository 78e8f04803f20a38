package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/eduquest/bootstrap"
	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/seed"
	"github.com/cppla/eduquest/utils"
)

func main() {
	randSeed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for demo enrollments")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall seeding timeout")
	flag.Parse()

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	st, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		utils.Logger.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			utils.Logger.Warn("close store", zap.Error(err))
		}
	}()

	sum, err := seed.New(st, utils.Logger, *randSeed).Run(ctx)
	if err != nil {
		_ = st.Close(context.Background())
		utils.Logger.Fatal("seed failed", zap.Uint64("seed", *randSeed), zap.Error(err))
	}
	utils.Sugar.Infof("seeded %d users, %d courses, %d enrollments, %d surveys (password %q)",
		sum.Users, sum.Courses, sum.Progress, sum.Surveys, seed.DemoPassword)
}
