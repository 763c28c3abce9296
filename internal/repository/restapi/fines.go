package restapi

import (
	"context"
	"net/http"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/repository"
)

type fineRepository struct {
	client *Client
}

func NewFineRepository(client *Client) repository.FineRepository {
	return &fineRepository{client: client}
}

func (r *fineRepository) List(ctx context.Context, auth domain.AuthContext) ([]domain.Fine, error) {
	body, err := r.client.do(ctx, auth, request{method: http.MethodGet, path: "/denda"})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeCollection[fineDTO](body)
	if err != nil {
		return nil, malformed("GET /denda", err)
	}
	return mapAll[fineDTO, domain.Fine](dtos), nil
}

func (r *fineRepository) Create(ctx context.Context, auth domain.AuthContext, draft domain.FineDraft, idempotencyKey string) (*domain.Fine, error) {
	req := request{
		method: http.MethodPost,
		path:   "/denda",
		body:   newCreateFineBody(draft),
	}
	if idempotencyKey != "" {
		req.headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	body, err := r.client.do(ctx, auth, req)
	if err != nil {
		return nil, err
	}
	dto, err := decodeObject[fineDTO](body)
	if err != nil {
		return nil, malformed("POST /denda", err)
	}
	f := dto.toDomain()
	return &f, nil
}
