package service

import (
	"context"
	"fmt"
	"time"

	"notekeeper-be/internal/apperrors"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/mailer"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	accessTokenExpiry = 24 * time.Hour
	resetTokenTTL     = time.Hour
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error)
	// ForgotPassword returns the reset link so the page can surface it
	// directly alongside the email delivery.
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (string, error)
	// ValidateResetToken backs the reset page itself: an unknown, used,
	// or expired token is rejected before the form is ever shown.
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	publisher    IPublisherService
	log          logger.ILogger
	baseURL      string
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	publisher IPublisherService,
	log logger.ILogger,
	baseURL string,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		publisher:    publisher,
		log:          log,
		baseURL:      baseURL,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, apperrors.ErrPasswordTooShort
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, events.UserRegistered, map[string]interface{}{
		"user_id":  user.Id,
		"username": user.Username,
	})

	return &dto.RegisterResponse{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	signedToken, err := serverutils.GenerateAccessToken(user.Id, accessTokenExpiry)
	if err != nil {
		return nil, err
	}

	s.publishActivity(ctx, events.UserLogin, map[string]interface{}{
		"user_id": user.Id,
	})

	return &dto.LoginResult{
		User: &dto.UserDTO{
			Id:       user.Id,
			Username: user.Username,
			Email:    user.Email,
		},
		AccessToken: signedToken,
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.ErrEmailNotFound
	}

	token := uuid.New().String()
	resetToken := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		Used:      false,
		CreatedAt: time.Now(),
	}

	if err := uow.UserRepository().CreatePasswordResetToken(ctx, resetToken); err != nil {
		return "", err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.baseURL, token)

	go func() {
		if emailErr := s.emailService.SendResetLink(user.Email, resetLink); emailErr != nil {
			s.log.Warn("auth", "failed to send reset link email", map[string]interface{}{
				"error": emailErr.Error(),
			})
		}
	}()

	return resetLink, nil
}

func (s *authService) ValidateResetToken(ctx context.Context, token string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tokenEntity, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: token})
	if err != nil {
		return err
	}
	if tokenEntity == nil || tokenEntity.Used || time.Now().After(tokenEntity.ExpiresAt) {
		return apperrors.ErrInvalidResetToken
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tokenEntity, err := uow.UserRepository().FindPasswordResetToken(ctx, specification.ByToken{Token: req.Token})
	if err != nil {
		return err
	}
	if tokenEntity == nil || tokenEntity.Used || time.Now().After(tokenEntity.ExpiresAt) {
		return apperrors.ErrInvalidResetToken
	}

	if len(req.NewPassword) < minPasswordLength {
		return apperrors.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, tokenEntity.UserId, string(hash)); err != nil {
		return err
	}

	if err := uow.UserRepository().MarkTokenUsed(ctx, tokenEntity.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) publishActivity(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewActivityEvent(eventType, data)); err != nil {
		s.log.Warn("auth", "failed to publish activity event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
