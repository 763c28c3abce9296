package restapi

import (
	"context"
	"fmt"
	"net/http"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/repository"
)

type bookRepository struct {
	client *Client
}

func NewBookRepository(client *Client) repository.BookRepository {
	return &bookRepository{client: client}
}

func (r *bookRepository) List(ctx context.Context, auth domain.AuthContext) ([]domain.Book, error) {
	body, err := r.client.do(ctx, auth, request{method: http.MethodGet, path: "/buku"})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeCollection[bookDTO](body)
	if err != nil {
		return nil, malformed("GET /buku", err)
	}
	return mapAll[bookDTO, domain.Book](dtos), nil
}

func (r *bookRepository) GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Book, error) {
	body, err := r.client.do(ctx, auth, request{method: http.MethodGet, path: fmt.Sprintf("/buku/%d", id)})
	if err != nil {
		return nil, err
	}
	dto, err := decodeObject[bookDTO](body)
	if err != nil {
		return nil, malformed(fmt.Sprintf("GET /buku/%d", id), err)
	}
	b := dto.toDomain()
	return &b, nil
}
