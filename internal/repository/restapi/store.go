package restapi

import (
	"time"

	"libratrack-admin-backend/internal/repository"
)

// Store bundles the backend repositories over one HTTP client.
type Store struct {
	repository.BookRepository
	repository.MemberRepository
	repository.LendingRepository
	repository.FineRepository
}

func NewStore(baseURL string, timeout time.Duration) *Store {
	return NewStoreWithClient(NewClient(baseURL, timeout))
}

func NewStoreWithClient(client *Client) *Store {
	return &Store{
		BookRepository:    NewBookRepository(client),
		MemberRepository:  NewMemberRepository(client),
		LendingRepository: NewLendingRepository(client),
		FineRepository:    NewFineRepository(client),
	}
}
