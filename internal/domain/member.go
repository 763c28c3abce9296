package domain

import "time"

type Member struct {
	ID         int32     `json:"id"`
	NationalID string    `json:"national_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	BirthDate  string    `json:"birth_date"`
	CreatedAt  time.Time `json:"created_at"`
}
