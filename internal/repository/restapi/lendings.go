package restapi

import (
	"context"
	"fmt"
	"net/http"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/repository"
)

type lendingRepository struct {
	client *Client
}

func NewLendingRepository(client *Client) repository.LendingRepository {
	return &lendingRepository{client: client}
}

func (r *lendingRepository) List(ctx context.Context, auth domain.AuthContext) ([]domain.Lending, error) {
	body, err := r.client.do(ctx, auth, request{method: http.MethodGet, path: "/peminjaman"})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeCollection[lendingDTO](body)
	if err != nil {
		return nil, malformed("GET /peminjaman", err)
	}
	return mapAll[lendingDTO, domain.Lending](dtos), nil
}

// GetByID selects from the full listing; the backend has no single-lending endpoint.
func (r *lendingRepository) GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Lending, error) {
	lendings, err := r.List(ctx, auth)
	if err != nil {
		return nil, err
	}
	for i := range lendings {
		if lendings[i].ID == id {
			return &lendings[i], nil
		}
	}
	return nil, fmt.Errorf("lending %d: %w", id, domain.ErrNotFound)
}

func (r *lendingRepository) Create(ctx context.Context, auth domain.AuthContext, draft domain.LendingDraft) (*domain.Lending, error) {
	body, err := r.client.do(ctx, auth, request{
		method: http.MethodPost,
		path:   "/peminjaman",
		body:   newCreateLendingBody(draft),
	})
	if err != nil {
		return nil, err
	}
	dto, err := decodeObject[lendingDTO](body)
	if err != nil {
		return nil, malformed("POST /peminjaman", err)
	}
	l := dto.toDomain()
	return &l, nil
}

// MarkReturned records the return. The backend routes it as a PUT sent over
// POST with a method override.
func (r *lendingRepository) MarkReturned(ctx context.Context, auth domain.AuthContext, id int32) error {
	_, err := r.client.do(ctx, auth, request{
		method:  http.MethodPost,
		path:    fmt.Sprintf("/peminjaman/pengembalian/%d", id),
		body:    map[string]string{"_method": http.MethodPut},
		headers: map[string]string{"X-HTTP-Method-Override": http.MethodPut},
	})
	return err
}
