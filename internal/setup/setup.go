package setup

import (
	"context"

	"github.com/nullchan-dev/nullchan/internal/config"
	"github.com/nullchan-dev/nullchan/internal/handler"
	"github.com/nullchan-dev/nullchan/internal/service"
	"github.com/nullchan-dev/nullchan/internal/storage/mongo"
	"github.com/nullchan-dev/nullchan/internal/utils"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Config  *config.Config
	Storage *mongo.Storage
	Handler *handler.Handler
}

// SetupDependencies connects to the store and wires services and handlers.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := mongo.New(ctx, cfg.MongoURI(), cfg.Public.Mongo)
	if err != nil {
		return nil, err
	}

	hasher := utils.NewPasswordHasher(cfg.Public.BcryptCost)

	thread := service.NewThread(storage, hasher, cfg.Public)
	reply := service.NewReply(storage, storage, hasher)

	h := handler.New(thread, reply, cfg.Public.OpTimeout())

	return &Dependencies{
		Config:  cfg,
		Storage: storage,
		Handler: h,
	}, nil
}
