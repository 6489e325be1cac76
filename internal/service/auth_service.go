package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/repository"
	"motoparts-inventory/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrOperatorInactive   = errors.New("operator account is inactive")
	ErrSessionExpired     = errors.New("session expired (logged in on another device)")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	// Authenticate resolves a bearer token to the operator behind it.
	Authenticate(ctx context.Context, token string) (*model.Operator, error)
	ChangePassword(ctx context.Context, actor Actor, req *ChangePasswordRequest) error
	SetPassword(ctx context.Context, username, newPassword string, actor Actor) error
	CreateOperator(ctx context.Context, req *CreateOperatorRequest, actor Actor) (*model.Operator, error)
	// EnsureOperator creates the operator unless the username already exists.
	EnsureOperator(ctx context.Context, req *CreateOperatorRequest) (bool, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string                 `json:"token"`
	Operator model.OperatorResponse `json:"operator"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type CreateOperatorRequest struct {
	Username string `json:"username" validate:"notblank,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"max=255"`
}

type authService struct {
	operatorRepo repository.OperatorRepository
	tokens       *jwt.Manager
	log          zerolog.Logger
}

func NewAuthService(operatorRepo repository.OperatorRepository, tokens *jwt.Manager, log zerolog.Logger) AuthService {
	return &authService{
		operatorRepo: operatorRepo,
		tokens:       tokens,
		log:          log.With().Str("component", "auth").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	// 1. Find operator by username
	operator, err := s.operatorRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if operator is active
	if !operator.IsActive {
		return nil, ErrOperatorInactive
	}

	// 3. Verify password
	if !operator.CheckPassword(password) {
		s.log.Warn().Str("username", username).Msg("failed login")
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	tokenVersion := uuid.New().String()
	if err := s.operatorRepo.StartSession(ctx, operator.ID, tokenVersion); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	token, err := s.tokens.GenerateToken(operator.ID, operator.Username, operator.FullName, tokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.Info().Uint("operator_id", operator.ID).Str("username", operator.Username).Msg("operator logged in")
	return &LoginResponse{Token: token, Operator: operator.ToResponse()}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.Operator, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	operator, err := s.operatorRepo.FindByID(ctx, claims.OperatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}
	if !operator.IsActive {
		return nil, ErrOperatorInactive
	}
	if operator.TokenVersion == "" || operator.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return operator, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	operator, err := s.operatorRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return translate(err, ErrInvalidCredentials)
	}
	if !operator.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := operator.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// ends the current session as well
	if err := s.operatorRepo.UpdatePassword(ctx, operator.ID, operator.Password, actor.Username); err != nil {
		return translate(err, ErrInvalidCredentials)
	}
	s.log.Info().Uint("operator_id", operator.ID).Msg("password changed")
	return nil
}

func (s *authService) SetPassword(ctx context.Context, username, newPassword string, actor Actor) error {
	if err := validate(&ChangePasswordRequest{OldPassword: "-", NewPassword: newPassword}); err != nil {
		return err
	}

	operator, err := s.operatorRepo.FindByUsername(ctx, username)
	if err != nil {
		return translate(err, ErrReferenceNotFound)
	}
	if err := operator.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.operatorRepo.UpdatePassword(ctx, operator.ID, operator.Password, actor.Username); err != nil {
		return translate(err, ErrReferenceNotFound)
	}
	s.log.Info().Str("username", username).Str("actor", actor.Username).Msg("password reset")
	return nil
}

func (s *authService) CreateOperator(ctx context.Context, req *CreateOperatorRequest, actor Actor) (*model.Operator, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	operator := &model.Operator{
		Username: req.Username,
		FullName: req.FullName,
		IsActive: true,
	}
	if err := operator.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	operator.StampCreated(actor.Username)

	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		return nil, translate(err, ErrReferenceNotFound)
	}
	s.log.Info().Uint("operator_id", operator.ID).Str("username", operator.Username).Msg("operator created")
	return operator, nil
}

func (s *authService) EnsureOperator(ctx context.Context, req *CreateOperatorRequest) (bool, error) {
	_, err := s.operatorRepo.FindByUsername(ctx, req.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if _, err := s.CreateOperator(ctx, req, System); err != nil {
		return false, err
	}
	return true, nil
}
