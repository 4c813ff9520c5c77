package pets

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Filter replica los filtros del listado original: breed y age por substring
// (case-insensitive), sex y size por igualdad exacta. Campos vacíos no filtran.
type Filter struct {
	Breed string
	Sex   string
	Size  string
	Age   string
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// FindByProfileURL busca por la clave natural. ok=false cuando no hay
	// match (no es error: dispara la rama de insert del upsert).
	FindByProfileURL(ctx context.Context, profileURL string) (Pet, bool, error)

	List(ctx context.Context, f Filter) ([]Pet, error)
	ListAll(ctx context.Context) ([]Pet, error)

	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)

	// WithinTx ejecuta fn contra un Repository transaccional: los writes del
	// batch se hacen visibles recién en el commit. Un error de fn hace
	// rollback completo.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
