// Command document manages the registry directly against the configured
// storage backend (STORAGE_BACKEND and friends, see internal/config).
package main

import (
	"context"
	"os"

	"github.com/gogotex/docregistry/internal/config"
	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/repository"
	"github.com/gogotex/docregistry/internal/document/service"
	"github.com/gogotex/docregistry/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	open := func(ctx context.Context) (service.Service, func(), error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		repo, cleanup, err := repository.New(ctx, cfg, nil)
		if err != nil {
			return nil, nil, err
		}
		ids, err := document.NewIDGenerator(cfg.Storage.IDScheme)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		svc := service.New(repo, service.Options{RequireDescription: cfg.Documents.RequireDescription, IDs: ids})
		return svc, cleanup, nil
	}

	if err := newRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}
