package main

import (
	"fmt"
	"log/slog"

	"github.com/alfierilab/ddtft/internal/domain/address"
	"github.com/alfierilab/ddtft/internal/domain/alias"
	"github.com/alfierilab/ddtft/internal/domain/classify"
	"github.com/alfierilab/ddtft/internal/domain/clientname"
	"github.com/alfierilab/ddtft/internal/domain/items"
	"github.com/alfierilab/ddtft/internal/domain/parse"
	"github.com/alfierilab/ddtft/internal/domain/totals"
	"github.com/alfierilab/ddtft/pkg/config"
	"github.com/alfierilab/ddtft/pkg/cron"
	"github.com/alfierilab/ddtft/pkg/storage"
	"github.com/alfierilab/ddtft/pkg/tables"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	AliasResolver *alias.Resolver
	Scheduler     *cron.Scheduler
	ParseService  *parse.Service
	Archive       storage.Archive
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	aliases, err := tables.LoadClientAliases(cfg.Tables.ClientAliasPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load client aliases: %w", err)
	}
	denylist, err := tables.LoadSenderDenylist(cfg.Tables.SenderDenyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender denylist: %w", err)
	}
	codes, err := tables.LoadArticleCodes(cfg.Tables.ArticleCodesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load article codes: %w", err)
	}
	var fixed []tables.FixedAddress
	if cfg.Tables.FixedAddressesOn {
		fixed, err = tables.LoadFixedAddresses(cfg.Tables.FixedAddressPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixed addresses: %w", err)
		}
	}

	deps.AliasResolver, err = alias.NewResolver(
		func() ([]tables.ClientAlias, error) {
			return tables.LoadClientAliases(cfg.Tables.ClientAliasPath)
		},
		cfg.Alias.CacheTTL,
		cfg.Alias.FuzzyThreshold,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init alias resolver: %w", err)
	}

	deps.Scheduler = cron.NewScheduler(deps.AliasResolver, cfg.Alias.RefreshCron, logger)

	validator := address.NewValidator(denylist, logger)
	addresses := address.NewResolver(validator, address.Options{
		ColumnXThreshold: cfg.Parsing.ColumnXThreshold,
		FixedAddresses:   fixed,
	}, logger)

	normalizer := clientname.NewNormalizer(aliases)
	extractor := clientname.NewExtractor(normalizer, logger)

	deps.ParseService = parse.New(
		classify.New(logger),
		extractor,
		deps.AliasResolver,
		addresses,
		items.New(codes, cfg.Parsing.DiscountTolerance, logger),
		totals.New(cfg.Parsing.TotalsTolerance),
		logger,
	)

	deps.Archive, err = storage.New(&storage.Config{LocalPath: cfg.Archive.Dir})
	if err != nil {
		return nil, fmt.Errorf("failed to init archive: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}
