package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string) error

	// Reset token management lives here for cohesion with the user row.
	CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error
	FindPasswordResetToken(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error)
	MarkTokenUsed(ctx context.Context, id uuid.UUID) error
}
