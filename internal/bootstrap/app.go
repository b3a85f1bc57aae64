package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "returns-backend/internal/auth"
	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
	"returns-backend/internal/llm"
	"returns-backend/internal/llm/gemini"
	"returns-backend/internal/llm/openai"
	"returns-backend/internal/orders"
	"returns-backend/internal/photos"
	"returns-backend/internal/pipeline"
	"returns-backend/internal/policies"
	"returns-backend/internal/queue"
	"returns-backend/internal/review"
	"returns-backend/internal/shared/config"
	"returns-backend/internal/shared/server"
	"returns-backend/internal/shared/storage/db"
	"returns-backend/internal/shared/storage/object"
	localstore "returns-backend/internal/shared/storage/object/local"
	s3store "returns-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies for the api and worker binaries.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Publisher

	ClaimsRepo    claims.Repo
	DecisionsRepo decisions.Repo
	PoliciesRepo  policies.Repo
	OrdersRepo    orders.Repo

	LLM llm.Client

	ClaimsService   *claims.Service
	PoliciesService *policies.Service
	PipelineService *pipeline.Service
	ReviewService   *review.Service
	OrdersService   *orders.Service

	ClaimsHandler    *claims.Handler
	DecisionsHandler *decisions.Handler
	PoliciesHandler  *policies.Handler
	PipelineHandler  *pipeline.Handler
	ReviewHandler    *review.Handler
	OrdersHandler    *orders.Handler
	PhotosHandler    *photos.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  publisher,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		ClaimsHandler:    app.ClaimsHandler,
		DecisionsHandler: app.DecisionsHandler,
		PoliciesHandler:  app.PoliciesHandler,
		PipelineHandler:  app.PipelineHandler,
		ReviewHandler:    app.ReviewHandler,
		OrdersHandler:    app.OrdersHandler,
		PhotosHandler:    app.PhotosHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.PhotoBucket, cfg.PhotoPrefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Publisher, error) {
	if strings.TrimSpace(os.Getenv("RB_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSPublisher(ctx)
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return gemini.NewClient(context.Background(), cfg.LLMModel)
	case "openai":
		key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		if key == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; using placeholder LLM client")
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(key, cfg.LLMModel, cfg.LLMGatewayURL)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.ClaimsRepo = &claims.PGRepo{DB: app.DB}
		app.DecisionsRepo = &decisions.PGRepo{DB: app.DB}
		app.PoliciesRepo = &policies.PGRepo{DB: app.DB}
		app.OrdersRepo = &orders.PGRepo{DB: app.DB}
	} else {
		app.ClaimsRepo = claims.NewMemoryRepo()
		app.DecisionsRepo = decisions.NewMemoryRepo()
		app.PoliciesRepo = policies.NewMemoryRepo()
		app.OrdersRepo = orders.NewMemoryRepo()
	}

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}
	app.LLM = llmClient

	app.ClaimsService = claims.NewService(app.ClaimsRepo)
	app.PoliciesService = policies.NewService(app.PoliciesRepo)
	app.ReviewService = review.NewService(app.ClaimsRepo, app.DecisionsRepo)
	app.OrdersService = orders.NewService(app.OrdersRepo)

	pl := pipeline.New(app.ClaimsRepo, app.DecisionsRepo, app.PoliciesRepo, app.LLM)
	app.PipelineService = pipeline.NewService(pl, app.ClaimsRepo, app.Queue)

	app.ClaimsHandler = claims.NewHandler(app.ClaimsService)
	app.DecisionsHandler = decisions.NewHandler(app.DecisionsRepo, app.ClaimsRepo)
	app.PoliciesHandler = policies.NewHandler(app.PoliciesService)
	app.PipelineHandler = pipeline.NewHandler(app.PipelineService)
	app.ReviewHandler = review.NewHandler(app.ReviewService)
	app.OrdersHandler = orders.NewHandler(app.OrdersService)
	app.PhotosHandler = photos.NewHandler(app.Store)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
