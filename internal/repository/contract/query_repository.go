package contract

import (
	"context"

	"wikivoice-be/internal/entity"
	"wikivoice-be/internal/repository/specification"
)

type QueryRepository interface {
	Create(ctx context.Context, query *entity.Query) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Query, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Query, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
