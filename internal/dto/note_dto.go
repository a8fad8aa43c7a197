package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title   string `json:"title" form:"title" validate:"required"`
	Content string `json:"content" form:"content"`
	// Attachment metadata, filled by the controller after the upload is
	// written to storage. FileName is display-only; FileKey is the name
	// on disk.
	FileName string `json:"-" form:"-"`
	FileKey  string `json:"-" form:"-"`
}

type NoteResponse struct {
	Id      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

type NoteListItem struct {
	Id       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	FileName string    `json:"filename"`
}

type ShowNoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	FileName  string     `json:"filename"`
	FileKey   string     `json:"file_key,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-" form:"-"`
	Title   string    `json:"title" form:"title" validate:"required"`
	Content string    `json:"content" form:"content"`
}
