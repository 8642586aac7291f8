package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/auth"
	"github.com/baharkarakas/blog-backend/internal/metrics"
	"github.com/baharkarakas/blog-backend/internal/models"
	repo "github.com/baharkarakas/blog-backend/internal/repository"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

const invalidCredentials = "Invalid credentials"

type UserService struct {
	resolver
	tokens  *auth.TokenManager
	hasher  auth.Hasher
	isAdmin func(username string) bool
}

// NewUserService wires account operations. isAdmin decides which usernames
// register with the admin role; nil means none.
func NewUserService(repos repo.Repositories, tokens *auth.TokenManager, hasher auth.Hasher, isAdmin func(string) bool, log *slog.Logger) *UserService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &UserService{
		resolver: resolver{repos: repos, log: log},
		tokens:   tokens,
		hasher:   hasher,
		isAdmin:  isAdmin,
	}
}

type AuthResult struct {
	User         models.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
}

func (s *UserService) Register(ctx context.Context, in validate.RegisterInput) (models.User, error) {
	reg, err := in.Validate()
	if err != nil {
		return models.User{}, err
	}
	if err := s.checkUsernameTaken(ctx, reg.Username, 0); err != nil {
		return models.User{}, err
	}
	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return models.User{}, apperr.Internal("users.hash", err)
	}
	role := models.RoleUser
	if s.isAdmin(reg.Username) {
		role = models.RoleAdmin
	}
	u, err := s.repos.Users.Create(ctx, reg.Username, hash, role)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, errUsernameTaken()
	}
	if err != nil {
		return models.User{}, s.storeErr(ctx, "users.create", "user", 0, err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login answers every failure with the same message so callers cannot probe
// which usernames exist.
func (s *UserService) Login(ctx context.Context, in validate.LoginInput) (AuthResult, error) {
	creds, err := in.Validate()
	if err != nil {
		return AuthResult{}, err
	}
	u, err := s.repos.Users.GetByUsername(ctx, creds.Username)
	if errors.Is(err, repo.ErrNotFound) {
		metrics.LoginFailures.Inc()
		return AuthResult{}, apperr.Unauthenticated(invalidCredentials)
	}
	if err != nil {
		return AuthResult{}, s.storeErr(ctx, "users.get_by_username", "user", 0, err)
	}
	if err := s.hasher.Verify(creds.Password, u.PasswordHash); err != nil {
		if !errors.Is(err, auth.ErrWrongPassword) {
			s.log.WarnContext(ctx, "password verify failed", "user_id", u.ID, "err", err)
		}
		metrics.LoginFailures.Inc()
		return AuthResult{}, apperr.Unauthenticated(invalidCredentials)
	}
	return s.issue(u)
}

// Refresh trades a refresh token for a new pair carrying the user's current role.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if refreshToken == "" {
		return AuthResult{}, apperr.InvalidInput("Refresh token is required")
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return AuthResult{}, apperr.Unauthenticated("Invalid refresh token")
	}
	u, err := s.repos.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return AuthResult{}, apperr.Unauthenticated("Invalid refresh token")
	}
	if err != nil {
		return AuthResult{}, s.storeErr(ctx, "users.get", "user", claims.UserID, err)
	}
	return s.issue(u)
}

func (s *UserService) issue(u models.User) (AuthResult, error) {
	pair, err := s.tokens.GeneratePair(u.Principal())
	if err != nil {
		return AuthResult{}, apperr.Internal("auth.sign", err)
	}
	return AuthResult{User: u, Token: pair.Access, RefreshToken: pair.Refresh, ExpiresIn: pair.ExpiresIn}, nil
}

// Principal reloads the acting user so that role changes apply immediately.
func (s *UserService) Principal(ctx context.Context, id int64) (models.Principal, error) {
	u, err := s.repos.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Principal{}, apperr.Unauthenticated("User no longer exists")
	}
	if err != nil {
		return models.Principal{}, s.storeErr(ctx, "users.get", "user", id, err)
	}
	return u.Principal(), nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (models.User, error) {
	u, err := s.resolveUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	n, err := s.repos.Users.CountPosts(ctx, id)
	if err != nil {
		return models.User{}, s.storeErr(ctx, "users.count_posts", "user", id, err)
	}
	u.PostCount = &n
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, page repo.Page) ([]models.User, error) {
	users, err := s.repos.Users.List(ctx, page)
	if err != nil {
		return nil, s.storeErr(ctx, "users.list", "user", 0, err)
	}
	return users, nil
}

func (s *UserService) UpdateUser(ctx context.Context, p models.Principal, id int64, in validate.UpdateUserInput) (models.User, error) {
	ch, err := in.Validate()
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.resolveUser(ctx, id); err != nil {
		return models.User{}, err
	}
	if err := authorizeAccount(ctx, s.log, p, id); err != nil {
		return models.User{}, err
	}
	if ch.Username != nil {
		if err := s.checkUsernameTaken(ctx, *ch.Username, id); err != nil {
			return models.User{}, err
		}
	}

	update := repo.UserChanges{Username: ch.Username}
	if ch.Password != nil {
		hash, err := s.hasher.Hash(*ch.Password)
		if err != nil {
			return models.User{}, apperr.Internal("users.hash", err)
		}
		update.PasswordHash = &hash
	}
	u, err := s.repos.Users.Update(ctx, id, update)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, errUsernameTaken()
	}
	if err != nil {
		return models.User{}, s.storeErr(ctx, "users.update", "user", id, err)
	}
	return u, nil
}

// DeleteUser removes the account together with its posts and comments.
func (s *UserService) DeleteUser(ctx context.Context, p models.Principal, id int64) (models.User, error) {
	if _, err := s.resolveUser(ctx, id); err != nil {
		return models.User{}, err
	}
	if err := authorizeAccount(ctx, s.log, p, id); err != nil {
		return models.User{}, err
	}
	u, err := s.repos.Users.Delete(ctx, id)
	if err != nil {
		return models.User{}, s.storeErr(ctx, "users.delete", "user", id, err)
	}
	s.log.InfoContext(ctx, "user deleted", "user_id", id, "by", p.ID)
	return u, nil
}

func (s *UserService) SetRole(ctx context.Context, p models.Principal, id int64, in validate.RoleInput) (models.User, error) {
	role, err := validate.CheckRole(in.Role)
	if err != nil {
		return models.User{}, err
	}
	if _, err := s.resolveUser(ctx, id); err != nil {
		return models.User{}, err
	}
	if err := authorizeAdmin(ctx, s.log, p); err != nil {
		return models.User{}, err
	}
	u, err := s.repos.Users.SetRole(ctx, id, role)
	if err != nil {
		return models.User{}, s.storeErr(ctx, "users.set_role", "user", id, err)
	}
	s.log.InfoContext(ctx, "role changed", "user_id", id, "role", role, "by", p.ID)
	return u, nil
}
