package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"wikivoice-be/internal/entity"
	"wikivoice-be/internal/repository/contract"
	"wikivoice-be/internal/repository/specification"
	"wikivoice-be/internal/repository/unitofwork"
	"wikivoice-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory repository fakes. Specifications are interpreted by type
// instead of being applied to a gorm.DB.

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubLLM struct {
	extractReply  string
	generateReply string
	err           error
	genMessages   []llm.Message
}

// The extractor runs at temperature 0 with a 50 token budget; the
// generator runs at 0.7. That difference routes the stub's replies.
func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	opts := llm.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.MaxTokens == 50 {
		return s.extractReply, nil
	}
	s.genMessages = history
	return s.generateReply, nil
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakeStore struct {
	users    []*entity.User
	sessions []*entity.Session
	queries  []*entity.Query
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUow) QueryRepository() contract.QueryRepository {
	return &fakeQueryRepo{store: u.store}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type querySpec struct {
	id           *uuid.UUID
	userId       *uuid.UUID
	sessionId    *uuid.UUID
	email        string
	stytchUserId string
	orderDesc    bool
	ordered      bool
	limit        int
	offset       int
}

func interpret(specs []specification.Specification) querySpec {
	q := querySpec{limit: -1}
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			q.id = &id
		case specification.UserOwnedBy:
			id := s.UserID
			q.userId = &id
		case specification.BySessionID:
			id := s.SessionID
			q.sessionId = &id
		case specification.ByEmail:
			q.email = s.Email
		case specification.ByStytchUserID:
			q.stytchUserId = s.StytchUserID
		case specification.OrderBy:
			q.ordered = true
			q.orderDesc = s.Desc
		case specification.Limit:
			q.limit = s.N
		case specification.Pagination:
			q.limit = s.Limit
			q.offset = s.Offset
		}
	}
	return q
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	cp := *user
	r.store.users = append(r.store.users, &cp)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	for i, u := range r.store.users {
		if u.Id == user.Id {
			cp := *user
			r.store.users[i] = &cp
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	q := interpret(specs)
	for _, u := range r.store.users {
		if q.id != nil && u.Id != *q.id {
			continue
		}
		if q.email != "" && u.Email != q.email {
			continue
		}
		if q.stytchUserId != "" && u.StytchUserId != q.stytchUserId {
			continue
		}
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.store.users, nil
}

type fakeSessionRepo struct {
	store *fakeStore
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	cp := *session
	r.store.sessions = append(r.store.sessions, &cp)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	for i, s := range r.store.sessions {
		if s.Id == session.Id {
			cp := *session
			r.store.sessions[i] = &cp
		}
	}
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.store.sessions[:0]
	for _, s := range r.store.sessions {
		if s.Id != id {
			kept = append(kept, s)
		}
	}
	r.store.sessions = kept
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	q := interpret(specs)
	for _, s := range r.store.sessions {
		if q.id != nil && s.Id != *q.id {
			continue
		}
		if q.userId != nil && s.UserId != *q.userId {
			continue
		}
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	q := interpret(specs)
	var out []*entity.Session
	for _, s := range r.store.sessions {
		if q.userId != nil && s.UserId != *q.userId {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	if q.ordered {
		sort.Slice(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return paginate(out, q), nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeQueryRepo struct {
	store *fakeStore
}

func (r *fakeQueryRepo) Create(ctx context.Context, query *entity.Query) error {
	cp := *query
	r.store.queries = append(r.store.queries, &cp)
	return nil
}

func (r *fakeQueryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Query, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeQueryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Query, error) {
	q := interpret(specs)
	var out []*entity.Query
	for _, record := range r.store.queries {
		if q.sessionId != nil && record.SessionId != *q.sessionId {
			continue
		}
		cp := *record
		out = append(out, &cp)
	}
	if q.ordered {
		sort.Slice(out, func(i, j int) bool {
			if q.orderDesc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return paginate(out, q), nil
}

func (r *fakeQueryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func paginate[T any](in []T, q querySpec) []T {
	if q.offset > 0 {
		if q.offset >= len(in) {
			return nil
		}
		in = in[q.offset:]
	}
	if q.limit >= 0 && len(in) > q.limit {
		in = in[:q.limit]
	}
	return in
}

// mediaWikiHandler serves a minimal MediaWiki API for retrieval tests.
type mediaWikiArticle struct {
	Title     string
	WordCount int
	Extract   string
}

func mediaWikiHandler(articles []mediaWikiArticle) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("list") == "search":
			hits := make([]map[string]interface{}, len(articles))
			for i, a := range articles {
				hits[i] = map[string]interface{}{
					"title":     a.Title,
					"snippet":   "snippet",
					"wordcount": a.WordCount,
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"query": map[string]interface{}{"search": hits},
			})
		case q.Get("prop") == "extracts":
			title := q.Get("titles")
			extract := ""
			for _, a := range articles {
				if a.Title == title {
					extract = a.Extract
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"query": map[string]interface{}{
					"pages": map[string]interface{}{
						"1": map[string]string{"title": title, "extract": extract},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})
}
