package mapper

import (
	"encoding/json"

	"wikivoice-be/internal/entity"
	"wikivoice-be/internal/model"

	"gorm.io/datatypes"
)

type QueryMapper struct{}

func NewQueryMapper() *QueryMapper {
	return &QueryMapper{}
}

func (m *QueryMapper) ToEntity(q *model.Query) *entity.Query {
	if q == nil {
		return nil
	}

	var sources []entity.SourceRef
	if len(q.Sources) > 0 {
		// A corrupt sources column degrades to no provenance, never an error.
		_ = json.Unmarshal(q.Sources, &sources)
	}

	return &entity.Query{
		Id:           q.Id,
		SessionId:    q.SessionId,
		QueryText:    q.QueryText,
		ResponseText: q.ResponseText,
		InputMode:    q.InputMode,
		Sources:      sources,
		CreatedAt:    q.CreatedAt,
	}
}

func (m *QueryMapper) ToModel(q *entity.Query) *model.Query {
	if q == nil {
		return nil
	}

	var sources datatypes.JSON
	if len(q.Sources) > 0 {
		if raw, err := json.Marshal(q.Sources); err == nil {
			sources = raw
		}
	}

	return &model.Query{
		Id:           q.Id,
		SessionId:    q.SessionId,
		QueryText:    q.QueryText,
		ResponseText: q.ResponseText,
		InputMode:    q.InputMode,
		Sources:      sources,
		CreatedAt:    q.CreatedAt,
	}
}

func (m *QueryMapper) ToEntities(models []*model.Query) []*entity.Query {
	entities := make([]*entity.Query, len(models))
	for i, q := range models {
		entities[i] = m.ToEntity(q)
	}
	return entities
}
