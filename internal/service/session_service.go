package service

import (
	"context"
	"errors"
	"time"

	"wikivoice-be/internal/constant"
	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/entity"
	"wikivoice-be/internal/repository/specification"
	"wikivoice-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ErrSessionNotFound covers both a missing session and a session owned
// by another user. Callers must not be able to tell the two apart.
var ErrSessionNotFound = errors.New("session not found")

const (
	defaultSessionLimit = 10
	maxSessionLimit     = 100
)

type ISessionService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error)
	GetUserSessions(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.SessionResponse, error)
	UpdateSessionTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
	}
}

// findOwned resolves a session only when it belongs to userId.
func findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	title := constant.DefaultSessionTitle
	if req != nil && req.Title != "" {
		title = req.Title
	}

	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *sessionService) GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) GetUserSessions(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.SessionResponse, error) {
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = toSessionResponse(session)
	}
	return responses, nil
}

func (s *sessionService) UpdateSessionTitle(ctx context.Context, userId uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	session.Title = req.Title
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := findOwned(ctx, uow, userId, sessionId); err != nil {
		return err
	}
	return uow.SessionRepository().Delete(ctx, sessionId)
}

func toSessionResponse(session *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
