package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/propkeeper/internal/common"
	"github.com/dmitrijs2005/propkeeper/internal/server/auth"
	"github.com/dmitrijs2005/propkeeper/internal/server/config"
	"github.com/dmitrijs2005/propkeeper/internal/server/refreshtokens"
	"golang.org/x/crypto/bcrypt"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// dummyHash is compared against when the user does not exist, so a login
// for an unknown name costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("propkeeper"), bcrypt.MinCost)

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

func (s *Service) Register(ctx context.Context, username string, password []byte) (*User, error) {
	if username == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{UserName: username, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, userName string, password []byte) (*TokenPair, error) {

	user, err := s.repo.GetByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, password)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, password) != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID)
}

// RefreshToken consumes a refresh token and issues a new pair. The consumed
// token is blacklisted, so presenting it again fails with
// common.ErrRefreshTokenRevoked.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken, common.TokenTypeRefresh, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, err
	}

	if err := s.consume(ctx, claims.ID); err != nil {
		return nil, err
	}

	return s.generateTokenPair(ctx, claims.UserID)
}

// Logout blacklists refreshToken. Unknown and already revoked tokens fail
// the same way as on refresh.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := auth.ParseToken(refreshToken, common.TokenTypeRefresh, s.jwtSecret)
	if err != nil {
		return err
	}
	return s.consume(ctx, claims.ID)
}

// Authenticate returns the user id carried by a valid access token.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

func (s *Service) consume(ctx context.Context, jti string) error {
	err := s.refreshTokenRepo.Revoke(ctx, jti)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}

	revoked, err := s.refreshTokenRepo.IsRevoked(ctx, jti)
	if err != nil {
		return common.ErrorInternal
	}
	if revoked {
		return common.ErrRefreshTokenRevoked
	}
	return common.ErrInvalidToken
}

func (s *Service) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, _, err := auth.GenerateToken(userID, common.TokenTypeAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, jti, err := auth.GenerateToken(userID, common.TokenTypeRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.refreshTokenRepo.Create(ctx, &refreshtokens.RefreshToken{
		ID:      jti,
		UserID:  userID,
		Expires: time.Now().Add(s.refreshTokenValidityDuration),
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
