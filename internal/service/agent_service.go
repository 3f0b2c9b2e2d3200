package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"policy-qa-be/internal/dto"
	"policy-qa-be/internal/entity"
	"policy-qa-be/internal/repository/memory"
	"policy-qa-be/internal/repository/specification"
	"policy-qa-be/internal/repository/unitofwork"
	"policy-qa-be/pkg/agent"
	"policy-qa-be/pkg/events"
	pktNats "policy-qa-be/pkg/nats"
	"policy-qa-be/pkg/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type IAgentService interface {
	Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error)
	GetHistory(ctx context.Context, sessionID string) (*dto.GetHistoryResponse, error)
	GetRecord(ctx context.Context, traceID string) (*dto.QARecordResponse, error)
}

type agentService struct {
	pipeline       *agent.Pipeline
	uowFactory     unitofwork.RepositoryFactory
	sessionRepo    *memory.SessionRepository
	eventPublisher *pktNats.Publisher
	redisClient    *redis.Client
	cacheTTL       time.Duration
}

func NewAgentService(
	pipeline *agent.Pipeline,
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	eventPublisher *pktNats.Publisher,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) IAgentService {
	return &agentService{
		pipeline:       pipeline,
		uowFactory:     uowFactory,
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
		redisClient:    redisClient,
		cacheTTL:       cacheTTL,
	}
}

func (s *agentService) Ask(ctx context.Context, request *dto.AskRequest) (*dto.AskResponse, error) {
	if res, ok := s.cachedAnswer(ctx, request.Query); ok {
		log.Printf("[INFO] Answer cache hit for query hash %s", answerCacheKey(request.Query))
		return res, nil
	}

	result, err := s.pipeline.Run(ctx, request.Query, request.SessionId)
	if err != nil {
		return nil, err
	}

	res := toAskResponse(result)

	// Everything past this point is bookkeeping; the answer is already final.
	s.persistRecord(ctx, request, result)
	s.appendToSession(request, result)
	s.publishAnswered(ctx, request.Query, result)
	s.cacheAnswer(ctx, request.Query, res)

	return res, nil
}

func (s *agentService) GetHistory(ctx context.Context, sessionID string) (*dto.GetHistoryResponse, error) {
	res := &dto.GetHistoryResponse{
		SessionId: sessionID,
		Exchanges: []dto.HistoryExchangeDTO{},
	}

	session, found := s.sessionRepo.Get(sessionID)
	if found {
		for _, e := range session.Exchanges {
			res.Exchanges = append(res.Exchanges, dto.HistoryExchangeDTO{
				Query:        e.Query,
				Answer:       e.Answer,
				TraceId:      e.TraceID,
				Attempts:     e.Attempts,
				IsAnswerable: e.IsAnswerable,
				AskedAt:      e.AskedAt,
			})
		}
		return res, nil
	}

	// Memory sessions expire; fall back to the persisted records.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.QARecordRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		res.Exchanges = append(res.Exchanges, dto.HistoryExchangeDTO{
			Query:        r.Query,
			Answer:       r.Answer,
			TraceId:      r.TraceID,
			Attempts:     r.Attempts,
			IsAnswerable: r.IsAnswerable,
			AskedAt:      r.CreatedAt,
		})
	}
	return res, nil
}

func (s *agentService) GetRecord(ctx context.Context, traceID string) (*dto.QARecordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	record, err := uow.QARecordRepository().FindOne(ctx, specification.ByTraceID{TraceID: traceID})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	var citations []dto.CitationDTO
	if err := json.Unmarshal(record.Citations, &citations); err != nil {
		citations = nil
	}
	var usedTools []string
	if err := json.Unmarshal(record.UsedTools, &usedTools); err != nil {
		usedTools = nil
	}

	return &dto.QARecordResponse{
		TraceId:      record.TraceID,
		SessionId:    record.SessionID,
		Query:        record.Query,
		Answer:       record.Answer,
		Citations:    citations,
		UsedTools:    usedTools,
		Attempts:     record.Attempts,
		IsAnswerable: record.IsAnswerable,
		CreatedAt:    record.CreatedAt,
	}, nil
}

func toAskResponse(result *agent.Result) *dto.AskResponse {
	citations := make([]dto.CitationDTO, 0, len(result.Citations))
	for _, c := range result.Citations {
		citations = append(citations, dto.CitationDTO{
			DocId:   c.DocID,
			ChunkId: c.ChunkID,
			Source:  c.Source,
			Quote:   c.Quote,
		})
	}
	return &dto.AskResponse{
		Answer:       result.Answer,
		Citations:    citations,
		TraceId:      result.TraceID,
		Attempts:     result.Attempts,
		UsedTools:    result.UsedTools,
		IsAnswerable: result.IsAnswerable,
	}
}

func (s *agentService) persistRecord(ctx context.Context, request *dto.AskRequest, result *agent.Result) {
	citationsJson, err := json.Marshal(result.Citations)
	if err != nil {
		citationsJson = []byte("[]")
	}
	toolsJson, err := json.Marshal(result.UsedTools)
	if err != nil {
		toolsJson = []byte("[]")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record := &entity.QARecord{
		Id:           uuid.New(),
		TraceID:      result.TraceID,
		SessionID:    request.SessionId,
		Query:        request.Query,
		Answer:       result.Answer,
		Citations:    citationsJson,
		UsedTools:    toolsJson,
		Attempts:     result.Attempts,
		IsAnswerable: result.IsAnswerable,
		CreatedAt:    time.Now(),
	}
	if err := uow.QARecordRepository().Create(ctx, record); err != nil {
		log.Printf("[WARN] Failed to persist qa record %s: %v", result.TraceID, err)
	}
}

func (s *agentService) appendToSession(request *dto.AskRequest, result *agent.Result) {
	if request.SessionId == "" {
		return
	}

	session, found := s.sessionRepo.Get(request.SessionId)
	if !found {
		session = &store.Session{ID: request.SessionId}
	}
	session.Append(store.Exchange{
		Query:        request.Query,
		Answer:       result.Answer,
		TraceID:      result.TraceID,
		Attempts:     result.Attempts,
		IsAnswerable: result.IsAnswerable,
		AskedAt:      time.Now(),
	})
	s.sessionRepo.Save(session)
}

func (s *agentService) publishAnswered(ctx context.Context, query string, result *agent.Result) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewQueryAnsweredEvent(result.TraceID, query, result.Attempts, result.IsAnswerable)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish QUERY_ANSWERED event: %v", err)
	}
}

func answerCacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "answer:" + hex.EncodeToString(sum[:])
}

func (s *agentService) cachedAnswer(ctx context.Context, query string) (*dto.AskResponse, bool) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	data, err := s.redisClient.Get(ctx, answerCacheKey(query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] Answer cache read failed: %v", err)
		}
		return nil, false
	}
	var res dto.AskResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false
	}
	return &res, true
}

func (s *agentService) cacheAnswer(ctx context.Context, query string, res *dto.AskResponse) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return
	}
	// Only answers grounded in evidence are worth caching.
	if !res.IsAnswerable {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, answerCacheKey(query), data, s.cacheTTL).Err(); err != nil {
		log.Printf("[WARN] Answer cache write failed: %v", err)
	}
}
