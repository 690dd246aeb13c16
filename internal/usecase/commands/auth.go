package commands

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/user"
	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/password"
	"storefront/internal/usecase/queries"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

type authCommandsImpl struct {
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	userReadModel, hashedPassword, err := a.readStore.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same error as password mismatch to prevent user enumeration
		return nil, ErrInvalidCredentials
	}

	if !userReadModel.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(userReadModel.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateToken(userReadModel.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{
		UserID:      userReadModel.ID,
		AccessToken: accessToken,
	}, nil
}
