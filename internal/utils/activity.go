package utils

import (
	"fmt"
	"slices"
	"time"

	"libratrack-admin-backend/internal/domain"
)

const (
	UnknownMember = "Unknown Member"
	UnknownBook   = "Unknown Book"
)

// BuildActivityFeed merges the four collections into one feed, newest first,
// truncated to limit.
//
// Events are projected in a fixed order: borrows for every lending, returns for
// returned lendings, fines, new books, new members. The sort is stable, so
// events sharing a timestamp keep that order. Elements without a timestamp
// are skipped.
func BuildActivityFeed(members []domain.Member, books []domain.Book, lendings []domain.Lending, fines []domain.Fine, limit int) ([]domain.ActivityEvent, error) {
	if limit < 0 {
		return nil, fmt.Errorf("feed limit %d: %w", limit, domain.ErrInvalidInput)
	}

	memberNames := make(map[int32]string, len(members))
	for _, m := range members {
		memberNames[m.ID] = m.Name
	}
	bookTitles := make(map[int32]string, len(books))
	for _, b := range books {
		bookTitles[b.ID] = b.Title
	}
	memberName := func(id int32) string {
		if name, ok := memberNames[id]; ok {
			return name
		}
		return UnknownMember
	}
	bookTitle := func(id int32) string {
		if title, ok := bookTitles[id]; ok {
			return title
		}
		return UnknownBook
	}

	events := make([]domain.ActivityEvent, 0, 2*len(lendings)+len(fines)+len(books)+len(members))

	for _, l := range lendings {
		if l.CreatedAt.IsZero() {
			continue
		}
		events = append(events, domain.ActivityEvent{
			Type:     domain.ActivityTypeBorrow,
			Time:     l.CreatedAt,
			User:     memberName(l.MemberID),
			Book:     bookTitle(l.BookID),
			MemberID: ptr(l.MemberID),
			BookID:   ptr(l.BookID),
		})
	}
	for _, l := range lendings {
		if !l.Returned || l.UpdatedAt.IsZero() {
			continue
		}
		events = append(events, domain.ActivityEvent{
			Type:     domain.ActivityTypeReturn,
			Time:     l.UpdatedAt,
			User:     memberName(l.MemberID),
			Book:     bookTitle(l.BookID),
			MemberID: ptr(l.MemberID),
			BookID:   ptr(l.BookID),
		})
	}
	for _, f := range fines {
		if f.CreatedAt.IsZero() {
			continue
		}
		ev := domain.ActivityEvent{
			Type:     domain.ActivityTypeFine,
			Time:     f.CreatedAt,
			User:     memberName(f.MemberID),
			MemberID: ptr(f.MemberID),
			Amount:   ptr(f.Amount),
		}
		if f.BookID != nil {
			ev.BookID = ptr(*f.BookID)
			if title, ok := bookTitles[*f.BookID]; ok {
				ev.Book = title
			} else {
				ev.Book = fmt.Sprintf("Book #%d", *f.BookID)
			}
		}
		events = append(events, ev)
	}
	for _, b := range books {
		if b.CreatedAt.IsZero() {
			continue
		}
		events = append(events, domain.ActivityEvent{
			Type:   domain.ActivityTypeAddBook,
			Time:   b.CreatedAt,
			Book:   b.Title,
			BookID: ptr(b.ID),
		})
	}
	for _, m := range members {
		if m.CreatedAt.IsZero() {
			continue
		}
		events = append(events, domain.ActivityEvent{
			Type:     domain.ActivityTypeNewMember,
			Time:     m.CreatedAt,
			User:     m.Name,
			MemberID: ptr(m.ID),
		})
	}

	slices.SortStableFunc(events, func(a, b domain.ActivityEvent) int {
		return compareTimeDesc(a.Time, b.Time)
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func compareTimeDesc(a, b time.Time) int {
	switch {
	case a.After(b):
		return -1
	case a.Before(b):
		return 1
	}
	return 0
}

func ptr[T any](v T) *T {
	return &v
}
