package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"policy-qa-be/internal/config"
	"policy-qa-be/internal/controller"
	"policy-qa-be/internal/pkg/logger"
	"policy-qa-be/internal/repository/implementation"
	"policy-qa-be/internal/repository/memory"
	"policy-qa-be/internal/repository/unitofwork"
	"policy-qa-be/internal/service"
	"policy-qa-be/pkg/agent"
	"policy-qa-be/pkg/embedding"
	"policy-qa-be/pkg/llm/factory"
	"policy-qa-be/pkg/retrieval"
	"policy-qa-be/pkg/trace"

	pktNats "policy-qa-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AgentController    controller.IAgentController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for the CLI entrypoints that bypass HTTP
	AgentPipeline *agent.Pipeline
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sysLogger.Info("bootstrap", "Container initialization started", nil)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaEmbedModel,
	)
	sysLogger.Info("bootstrap", "Using Embedding Provider: OLLAMA", map[string]interface{}{
		"model": cfg.Ai.OllamaEmbedModel,
	})

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("bootstrap", "Using LLM Provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Infrastructure
	// NATS (optional; services degrade to no events)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (optional; answer cache is disabled without it)
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, answer cache disabled: %v", err)
		rdb = nil
	}

	// In-memory session storage for the history endpoint
	sessionRepo := memory.NewSessionRepository()

	// 5. Agent Pipeline
	traceSink, err := trace.NewFileSink(cfg.Agent.TraceDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to create trace sink: %v", err)
	}

	pipelineLogger := initPipelineLogger()

	chunkRepo := implementation.NewChunkEmbeddingRepository(db)
	searcher := retrieval.NewPgvectorSearcher(embeddingProvider, chunkRepo)
	retriever := retrieval.NewAdapter(searcher, retrieval.Config{
		TopKRecall:   cfg.Agent.TopKRecall,
		TopKFinal:    cfg.Agent.TopKFinal,
		KeywordBonus: cfg.Agent.KeywordBonus,
	})
	selector := agent.NewSelector(llmProvider, cfg.Agent.SelectorThreshold, pipelineLogger)
	pipeline := agent.NewPipeline(
		llmProvider,
		retriever,
		selector,
		traceSink,
		cfg.Agent.MaxAttempts,
		pipelineLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Agent.EmbedTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Agent.EmbedTopicName,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	documentService := service.NewDocumentService(publisherService, uowFactory)
	agentService := service.NewAgentService(
		pipeline,
		uowFactory,
		sessionRepo,
		natsPub,
		rdb,
		time.Duration(cfg.Agent.AnswerCacheTTLSec)*time.Second,
	)

	// 7. Controllers
	return &Container{
		AgentController:    controller.NewAgentController(agentService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService: consumerService,

		AgentPipeline: pipeline,
	}
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "agent_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
