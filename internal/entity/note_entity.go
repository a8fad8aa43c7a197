package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id      uuid.UUID
	Title   string
	Content string
	// FileName is the client-supplied name of the attachment, kept as
	// display metadata only. FileKey is the generated name the file is
	// actually stored under, decoupled from user input.
	FileName  string
	FileKey   string
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

func (n *Note) HasFile() bool {
	return n.FileKey != ""
}
