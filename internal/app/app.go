package app

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/Raushanritik30891/zyro-sub000/internal/config"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/economy"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/extraction"
	"github.com/Raushanritik30891/zyro-sub000/internal/domain/ledger"
	"github.com/Raushanritik30891/zyro-sub000/internal/infrastructure/account/identity"
	"github.com/Raushanritik30891/zyro-sub000/internal/infrastructure/extraction/vision"
	"github.com/Raushanritik30891/zyro-sub000/internal/infrastructure/repository/memory"
	"github.com/Raushanritik30891/zyro-sub000/internal/infrastructure/repository/postgres"
	"github.com/Raushanritik30891/zyro-sub000/internal/interfaces/httpapi"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/cache"
	idgen "github.com/Raushanritik30891/zyro-sub000/internal/platform/id"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/resilience"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

// NewHTTPServer wires repositories, usecases and the HTTP surface. An empty
// DB_URL selects the in-memory repository tier, which is the local/dev setup.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, accounts, purchases, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	leaderboardSvc := usecase.NewLeaderboardService(store, cacheStore)
	ingestionSvc := usecase.NewIngestionService(store, buildExtractor(cfg, logger), leaderboardSvc, logger)
	revertSvc := usecase.NewRevertService(store, leaderboardSvc, logger)
	pointsSvc := usecase.NewPointsService(accounts, purchases, idgen.NewRandomGenerator(), logger)
	profileSvc := usecase.NewProfileService(accounts, logger)
	exportSvc := usecase.NewExportService(store, purchases, cfg.ExportWorkers, logger)

	identityClient := identity.NewClient(
		&http.Client{Timeout: cfg.IdentityTimeout},
		cfg.IdentityBaseURL,
		cfg.IdentityIntrospectPath,
		cfg.AdminUserIDs,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.IdentityCircuitEnabled,
			FailureThreshold: cfg.IdentityCircuitFailureCount,
			OpenTimeout:      cfg.IdentityCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.IdentityCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(
		leaderboardSvc,
		ingestionSvc,
		revertSvc,
		pointsSvc,
		profileSvc,
		exportSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, identityClient, logger, cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (ledger.Store, economy.AccountRepository, economy.PurchaseRepository, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		accounts := memory.NewAccountRepository()
		return memory.NewLedgerStore(), accounts, memory.NewPurchaseRepository(accounts), nil
	}

	db, err := otelsqlx.Connect("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))

	return postgres.NewLedgerStore(db), postgres.NewAccountRepository(db), postgres.NewPurchaseRepository(db), nil
}

func buildExtractor(cfg config.Config, logger *logging.Logger) extraction.Extractor {
	if !cfg.VisionEnabled {
		logger.Info("vision extractor disabled", "reason", "VISION_ENABLED=false")
		return nil
	}

	return vision.NewClient(vision.ClientConfig{
		BaseURL:     cfg.VisionBaseURL,
		APIKey:      cfg.VisionAPIKey,
		ExtractPath: cfg.VisionExtractPath,
		Timeout:     cfg.VisionTimeout,
		MaxRetries:  cfg.VisionMaxRetries,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.VisionCircuitEnabled,
			FailureThreshold: cfg.VisionCircuitFailureCount,
			OpenTimeout:      cfg.VisionCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.VisionCircuitHalfOpenMaxReq,
		},
	})
}
