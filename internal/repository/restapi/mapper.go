package restapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"libratrack-admin-backend/internal/domain"
)

type bookDTO struct {
	ID              flexInt  `json:"id"`
	Title           string   `json:"judul"`
	Author          string   `json:"pengarang"`
	Publisher       string   `json:"penerbit"`
	PublicationYear flexInt  `json:"tahun_terbit"`
	ShelfNumber     string   `json:"no_rak"`
	Stock           flexInt  `json:"stok"`
	Description     string   `json:"detail"`
	CreatedAt       flexTime `json:"created_at"`
}

type memberDTO struct {
	ID         flexInt  `json:"id"`
	NationalID string   `json:"no_ktp"`
	Name       string   `json:"nama"`
	Address    string   `json:"alamat"`
	BirthDate  string   `json:"tgl_lahir"`
	CreatedAt  flexTime `json:"created_at"`
}

type lendingDTO struct {
	ID         flexInt  `json:"id"`
	MemberID   flexInt  `json:"id_member"`
	BookID     flexInt  `json:"id_buku"`
	BorrowDate flexTime `json:"tgl_pinjam"`
	DueDate    flexTime `json:"tgl_pengembalian"`
	Returned   flexBool `json:"status_pengembalian"`
	CreatedAt  flexTime `json:"created_at"`
	UpdatedAt  flexTime `json:"updated_at"`
}

type fineDTO struct {
	ID          flexInt         `json:"id"`
	LendingID   *flexInt        `json:"id_peminjaman"`
	MemberID    flexInt         `json:"id_member"`
	BookID      *flexInt        `json:"id_buku"`
	Amount      decimal.Decimal `json:"jumlah_denda"`
	Kind        string          `json:"jenis_denda"`
	Description string          `json:"deskripsi"`
	CreatedAt   flexTime        `json:"created_at"`
}

type createLendingBody struct {
	MemberID   int32  `json:"id_member"`
	BookID     int32  `json:"id_buku"`
	BorrowDate string `json:"tgl_pinjam"`
	DueDate    string `json:"tgl_pengembalian"`
}

type createFineBody struct {
	LendingID   *int32      `json:"id_peminjaman,omitempty"`
	MemberID    int32       `json:"id_member"`
	BookID      *int32      `json:"id_buku"`
	Amount      json.Number `json:"jumlah_denda"`
	Kind        string      `json:"jenis_denda"`
	Description string      `json:"deskripsi"`
}

const dateLayout = "2006-01-02"

var fineKindToWire = map[domain.FineKind]string{
	domain.FineKindLate:   "terlambat",
	domain.FineKindDamage: "kerusakan",
	domain.FineKindOther:  "lainnya",
}

// fineKindFromWire maps backend values (Indonesian or English) to a kind.
// Unrecognised values are reported as other.
func fineKindFromWire(s string) domain.FineKind {
	switch s {
	case "terlambat", "late":
		return domain.FineKindLate
	case "kerusakan", "damage":
		return domain.FineKindDamage
	}
	return domain.FineKindOther
}

func (d bookDTO) toDomain() domain.Book {
	return domain.Book{
		ID:              int32(d.ID),
		Title:           d.Title,
		Author:          d.Author,
		Publisher:       d.Publisher,
		PublicationYear: int32(d.PublicationYear),
		ShelfNumber:     d.ShelfNumber,
		Stock:           int32(d.Stock),
		Description:     d.Description,
		CreatedAt:       time.Time(d.CreatedAt),
	}
}

func (d memberDTO) toDomain() domain.Member {
	return domain.Member{
		ID:         int32(d.ID),
		NationalID: d.NationalID,
		Name:       d.Name,
		Address:    d.Address,
		BirthDate:  d.BirthDate,
		CreatedAt:  time.Time(d.CreatedAt),
	}
}

func (d lendingDTO) toDomain() domain.Lending {
	return domain.Lending{
		ID:         int32(d.ID),
		MemberID:   int32(d.MemberID),
		BookID:     int32(d.BookID),
		BorrowDate: time.Time(d.BorrowDate),
		DueDate:    time.Time(d.DueDate),
		Returned:   bool(d.Returned),
		CreatedAt:  time.Time(d.CreatedAt),
		UpdatedAt:  time.Time(d.UpdatedAt),
	}
}

func (d fineDTO) toDomain() domain.Fine {
	f := domain.Fine{
		ID:          int32(d.ID),
		MemberID:    int32(d.MemberID),
		Amount:      d.Amount,
		Kind:        fineKindFromWire(d.Kind),
		Description: d.Description,
		CreatedAt:   time.Time(d.CreatedAt),
	}
	if d.BookID != nil {
		id := int32(*d.BookID)
		f.BookID = &id
	}
	if d.LendingID != nil && *d.LendingID > 0 {
		id := int32(*d.LendingID)
		f.LendingID = &id
	}
	return f
}

func mapAll[D interface{ toDomain() T }, T any](dtos []D) []T {
	out := make([]T, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.toDomain())
	}
	return out
}

func newCreateLendingBody(draft domain.LendingDraft) createLendingBody {
	return createLendingBody{
		MemberID:   draft.MemberID,
		BookID:     draft.BookID,
		BorrowDate: draft.BorrowDate.Format(dateLayout),
		DueDate:    draft.DueDate.Format(dateLayout),
	}
}

func newCreateFineBody(draft domain.FineDraft) createFineBody {
	body := createFineBody{
		MemberID:    draft.MemberID,
		BookID:      draft.BookID,
		Amount:      json.Number(draft.Amount.String()),
		Kind:        fineKindToWire[draft.Kind],
		Description: draft.Description,
	}
	if draft.LendingID > 0 {
		id := draft.LendingID
		body.LendingID = &id
	}
	return body
}
