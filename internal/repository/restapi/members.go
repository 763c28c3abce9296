package restapi

import (
	"context"
	"fmt"
	"net/http"

	"libratrack-admin-backend/internal/domain"
	"libratrack-admin-backend/internal/repository"
)

type memberRepository struct {
	client *Client
}

func NewMemberRepository(client *Client) repository.MemberRepository {
	return &memberRepository{client: client}
}

func (r *memberRepository) List(ctx context.Context, auth domain.AuthContext) ([]domain.Member, error) {
	body, err := r.client.do(ctx, auth, request{method: http.MethodGet, path: "/member"})
	if err != nil {
		return nil, err
	}
	dtos, err := decodeCollection[memberDTO](body)
	if err != nil {
		return nil, malformed("GET /member", err)
	}
	return mapAll[memberDTO, domain.Member](dtos), nil
}

func (r *memberRepository) GetByID(ctx context.Context, auth domain.AuthContext, id int32) (*domain.Member, error) {
	body, err := r.client.do(ctx, auth, request{method: http.MethodGet, path: fmt.Sprintf("/member/%d", id)})
	if err != nil {
		return nil, err
	}
	dto, err := decodeObject[memberDTO](body)
	if err != nil {
		return nil, malformed(fmt.Sprintf("GET /member/%d", id), err)
	}
	m := dto.toDomain()
	return &m, nil
}
