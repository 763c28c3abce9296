package domain

import "time"

type Book struct {
	ID              int32     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Publisher       string    `json:"publisher"`
	PublicationYear int32     `json:"publication_year"`
	ShelfNumber     string    `json:"shelf_number"`
	Stock           int32     `json:"stock"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}
