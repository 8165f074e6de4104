package service

import (
	"context"
	"encoding/json"
	"time"

	"wikivoice-be/internal/constant"
	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/entity"
	"wikivoice-be/internal/pkg/logger"
	"wikivoice-be/internal/repository/specification"
	"wikivoice-be/internal/repository/unitofwork"
	"wikivoice-be/pkg/events"
	pktNats "wikivoice-be/pkg/nats"
	"wikivoice-be/pkg/rag/prompt"
	"wikivoice-be/pkg/rag/response"
	"wikivoice-be/pkg/rag/topic"
	"wikivoice-be/pkg/wikipedia"

	"github.com/google/uuid"
)

const (
	historyWindow = 5
	maxArticles   = 3
)

type IQueryService interface {
	ProcessQuery(ctx context.Context, userId uuid.UUID, req *dto.QueryRequest) (*dto.QueryResponse, error)
	GetConversationHistory(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ConversationHistoryResponse, error)
}

// queryService runs the retrieval pipeline for one turn: extract the
// topic, pull Wikipedia context, compose the grounded prompt, generate,
// then persist the turn and its provenance.
type queryService struct {
	uowFactory        unitofwork.RepositoryFactory
	topicExtractor    *topic.Extractor
	wikipediaClient   *wikipedia.Client
	responseGenerator *response.Generator
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewQueryService(
	uowFactory unitofwork.RepositoryFactory,
	topicExtractor *topic.Extractor,
	wikipediaClient *wikipedia.Client,
	responseGenerator *response.Generator,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		uowFactory:        uowFactory,
		topicExtractor:    topicExtractor,
		wikipediaClient:   wikipediaClient,
		responseGenerator: responseGenerator,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

func (s *queryService) ProcessQuery(ctx context.Context, userId uuid.UUID, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwned(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	searchTopic := s.topicExtractor.Extract(ctx, req.QueryText)

	contextText, wikiSources := s.wikipediaClient.GetContextForTopic(ctx, searchTopic, maxArticles)
	s.logger.Info("QUERY", "Wikipedia retrieval finished", map[string]interface{}{
		"session_id":   session.Id,
		"topic":        searchTopic,
		"source_count": len(wikiSources),
	})

	// Newest first from the repository, then reversed so the prompt
	// reads in chronological order.
	recent, err := uow.QueryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: historyWindow},
	)
	if err != nil {
		return nil, err
	}

	turns := make([]prompt.Turn, len(recent))
	for i, q := range recent {
		turns[len(recent)-1-i] = prompt.Turn{Query: q.QueryText, Response: q.ResponseText}
	}

	messages := prompt.Build(contextText, turns, req.QueryText)
	responseText := s.responseGenerator.Generate(ctx, messages)

	inputMode := req.InputMode
	if inputMode == "" {
		inputMode = constant.InputModeText
	}

	// Sources are attached only when the answer was actually grounded:
	// both the composed context and the source list must be non-empty.
	var sourceRefs []entity.SourceRef
	if contextText != "" && len(wikiSources) > 0 {
		sourceRefs = make([]entity.SourceRef, len(wikiSources))
		for i, src := range wikiSources {
			sourceRefs[i] = entity.SourceRef{Title: src.Title, URL: src.URL}
		}
	}

	record := &entity.Query{
		Id:           uuid.New(),
		SessionId:    session.Id,
		QueryText:    req.QueryText,
		ResponseText: responseText,
		InputMode:    inputMode,
		Sources:      sourceRefs,
		CreatedAt:    time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.QueryRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	// First turn names the session after the query. Truncation counts
	// runes, not bytes, so multibyte queries are never split mid-rune.
	if len(recent) == 0 {
		title := req.QueryText
		if runes := []rune(title); len(runes) > constant.SessionTitleMaxLength {
			title = string(runes[:constant.SessionTitleMaxLength]) + "..."
		}
		session.Title = title
		if err := uow.SessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishProcessed(ctx, userId, session.Id, record, searchTopic)

	sources := make([]dto.SourceResponse, len(sourceRefs))
	for i, ref := range sourceRefs {
		sources[i] = dto.SourceResponse{Title: ref.Title, URL: ref.URL}
	}

	return &dto.QueryResponse{
		QueryId:      record.Id,
		QueryText:    record.QueryText,
		ResponseText: record.ResponseText,
		InputMode:    record.InputMode,
		Sources:      sources,
		CreatedAt:    record.CreatedAt,
	}, nil
}

func (s *queryService) GetConversationHistory(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ConversationHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	queries, err := uow.QueryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QueryResponse, len(queries))
	for i, q := range queries {
		responses[i] = dto.QueryResponse{
			QueryId:      q.Id,
			QueryText:    q.QueryText,
			ResponseText: q.ResponseText,
			InputMode:    q.InputMode,
			Sources:      []dto.SourceResponse{},
			CreatedAt:    q.CreatedAt,
		}
	}

	return &dto.ConversationHistoryResponse{
		SessionId: session.Id,
		Title:     session.Title,
		Queries:   responses,
	}, nil
}

// publishProcessed is best effort. Delivery failures are logged and never
// surfaced to the caller.
func (s *queryService) publishProcessed(ctx context.Context, userId, sessionId uuid.UUID, record *entity.Query, searchTopic string) {
	if s.publisherService != nil {
		payload, err := json.Marshal(dto.PublishQueryProcessedMessage{
			QueryId:     record.Id,
			SessionId:   sessionId,
			UserId:      userId,
			Topic:       searchTopic,
			InputMode:   record.InputMode,
			SourceCount: len(record.Sources),
		})
		if err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				s.logger.Warn("QUERY", "Failed to publish processed message", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeQueryProcessed,
			Data: map[string]interface{}{
				"query_id":   record.Id,
				"session_id": sessionId,
				"user_id":    userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("QUERY", "Failed to publish event", map[string]interface{}{
				"event_type": events.TypeQueryProcessed,
				"error":      err.Error(),
			})
		}
	}
}
