package service

import (
	"context"
	"testing"
	"time"

	"wikivoice-be/internal/constant"
	"wikivoice-be/internal/dto"
	"wikivoice-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionTestSetup() (*fakeStore, ISessionService) {
	store := &fakeStore{}
	return store, NewSessionService(&fakeFactory{store: store})
}

func TestCreateSessionDefaultTitle(t *testing.T) {
	store, svc := newSessionTestSetup()
	userId := uuid.New()

	res, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	assert.Equal(t, constant.DefaultSessionTitle, res.Title)
	require.Len(t, store.sessions, 1)
	assert.Equal(t, userId, store.sessions[0].UserId)
}

func TestCreateSessionCustomTitle(t *testing.T) {
	_, svc := newSessionTestSetup()

	res, err := svc.CreateSession(context.Background(), uuid.New(), &dto.CreateSessionRequest{Title: "Watches"})
	require.NoError(t, err)
	assert.Equal(t, "Watches", res.Title)
}

func TestGetUserSessionsNewestFirst(t *testing.T) {
	store, svc := newSessionTestSetup()
	userId := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		store.sessions = append(store.sessions, &entity.Session{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     "s",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// Foreign session must never leak into the listing.
	store.sessions = append(store.sessions, &entity.Session{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "foreign",
		CreatedAt: time.Now(),
	})

	res, err := svc.GetUserSessions(context.Background(), userId, 10, 0)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.True(t, res[0].CreatedAt.After(res[1].CreatedAt))
	assert.True(t, res[1].CreatedAt.After(res[2].CreatedAt))

	page, err := svc.GetUserSessions(context.Background(), userId, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, res[1].Id, page[0].Id)
}

func TestUpdateSessionTitleOwnership(t *testing.T) {
	store, svc := newSessionTestSetup()
	userId := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: userId, Title: "old", CreatedAt: time.Now()}
	store.sessions = append(store.sessions, session)

	res, err := svc.UpdateSessionTitle(context.Background(), userId, &dto.UpdateSessionRequest{Id: session.Id, Title: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", res.Title)
	assert.Equal(t, "new", store.sessions[0].Title)

	_, err = svc.UpdateSessionTitle(context.Background(), uuid.New(), &dto.UpdateSessionRequest{Id: session.Id, Title: "hijack"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, "new", store.sessions[0].Title)
}

func TestDeleteSessionOwnership(t *testing.T) {
	store, svc := newSessionTestSetup()
	userId := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: userId, Title: "t", CreatedAt: time.Now()}
	store.sessions = append(store.sessions, session)

	err := svc.DeleteSession(context.Background(), uuid.New(), session.Id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Len(t, store.sessions, 1)

	err = svc.DeleteSession(context.Background(), userId, session.Id)
	require.NoError(t, err)
	assert.Empty(t, store.sessions)
}

func TestGetSession(t *testing.T) {
	store, svc := newSessionTestSetup()
	userId := uuid.New()
	session := &entity.Session{Id: uuid.New(), UserId: userId, Title: "t", CreatedAt: time.Now()}
	store.sessions = append(store.sessions, session)

	res, err := svc.GetSession(context.Background(), userId, session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, res.Id)

	_, err = svc.GetSession(context.Background(), uuid.New(), session.Id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
