package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/entity"
	"wikivoice-be/internal/pkg/logger"
	"wikivoice-be/internal/repository/specification"
	"wikivoice-be/internal/repository/unitofwork"
	"wikivoice-be/pkg/auth/stytch"
	"wikivoice-be/pkg/events"
	pktNats "wikivoice-be/pkg/nats"

	"github.com/google/uuid"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, *stytch.SessionData, error)
	CheckUser(ctx context.Context, req *dto.CheckUserRequest) (*dto.CheckUserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *stytch.SessionData, error)
	Logout(ctx context.Context, sessionJWT string) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	stytchClient   *stytch.Client
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	stytchClient *stytch.Client,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		stytchClient:   stytchClient,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, *stytch.SessionData, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, errors.New("email already registered")
	}

	// Stytch owns the credentials. Our row only links the identities.
	session, err := s.stytchClient.CreatePasswordUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &entity.User{
		Id:           uuid.New(),
		StytchUserId: session.StytchUserID,
		Email:        req.Email,
		CreatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{
		"user_id":        user.Id,
		"stytch_user_id": session.StytchUserID,
	})

	s.publishEvent(ctx, events.TypeUserRegistered, map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
	})

	return &dto.RegisterResponse{Email: user.Email}, session, nil
}

func (s *authService) CheckUser(ctx context.Context, req *dto.CheckUserRequest) (*dto.CheckUserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	return &dto.CheckUserResponse{Exists: existing != nil, Email: req.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *stytch.SessionData, error) {
	session, err := s.stytchClient.AuthenticatePassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByStytchUserID{StytchUserID: session.StytchUserID})
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, stytch.ErrInvalidCredentials
	}

	s.publishEvent(ctx, events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id,
		"time":    time.Now().Format(time.RFC822),
	})

	return &dto.LoginResponse{Email: user.Email}, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionJWT string) error {
	if sessionJWT == "" {
		return nil
	}
	return s.stytchClient.RevokeSession(ctx, sessionJWT)
}

func (s *authService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("AUTH", "Failed to publish event", map[string]interface{}{
			"event_type": eventType,
			"error":      err.Error(),
		})
	}
}
