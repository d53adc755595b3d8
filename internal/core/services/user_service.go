package services

import (
	"context"
	"log"
	"strings"

	"nfc-cooperative/internal/adapters/persistence/models"
	"nfc-cooperative/internal/adapters/persistence/repositories"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/pagination"
	"nfc-cooperative/internal/pkg/password"
)

// User service errors
var (
	ErrUserNotFound          = domain.NewError(domain.ErrNotFound, "user not found")
	ErrUsernameAlreadyExists = domain.NewError(domain.ErrDuplicateEntry, "username already exists")
	ErrCannotChangeOwnRole   = domain.NewError(domain.ErrForbidden, "cannot change your own role")
	ErrCannotDeactivateSelf  = domain.NewError(domain.ErrForbidden, "cannot deactivate yourself")
	ErrLastAdmin             = domain.NewError(domain.ErrRuleViolation, "at least one active admin is required")
	ErrOldPasswordWrong      = domain.NewError(domain.ErrInvalidInput, "old password is incorrect")
	ErrWeakPassword          = domain.NewError(domain.ErrInvalidInput, "password must be at least 8 characters with letters and digits")
	ErrInvalidUsername       = domain.NewError(domain.ErrInvalidInput, "username must be 3 to 50 characters")
)

// UserService handles user management
type UserService struct {
	store *repositories.Store
}

// NewUserService creates a new user service
func NewUserService(store *repositories.Store) *UserService {
	return &UserService{store: store}
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role" validate:"required"`
}

// UpdateUserInput represents admin update input
type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// CreateUser creates a user with the permission bits of its role
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input *CreateUserInput) (*models.UserResponse, error) {
	username := strings.TrimSpace(input.Username)
	if len(username) < 3 || len(username) > 50 {
		return nil, ErrInvalidUsername
	}
	role := domain.Role(input.Role)
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.store.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     true,
	}
	user.ApplyRole(role)

	err = s.store.WithTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return duplicate(err, ErrUsernameAlreadyExists)
		}
		return audit(ctx, tx, actor, models.AuditCreate, "users", username, nil, user.ToResponse())
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s (%s)", user.Username, user.Role)
	return user.ToResponse(), nil
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, params *pagination.Params) ([]*models.UserResponse, int64, error) {
	users, total, err := s.store.Users.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, total, nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user.ToResponse(), nil
}

// UpdateUser changes a user's name, role or active flag
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	var result *models.UserResponse
	err := s.store.WithTx(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		before := user.ToResponse()

		if input.FullName != nil {
			user.FullName = strings.TrimSpace(*input.FullName)
		}

		if input.Role != nil && *input.Role != user.Role {
			if id == actor.UserID {
				return ErrCannotChangeOwnRole
			}
			role := domain.Role(*input.Role)
			if !role.IsValid() {
				return domain.ErrInvalidRole
			}
			if err := s.guardLastAdmin(ctx, tx, user); err != nil {
				return err
			}
			user.ApplyRole(role)
		}

		if input.IsActive != nil && *input.IsActive != user.IsActive {
			if !*input.IsActive {
				if id == actor.UserID {
					return ErrCannotDeactivateSelf
				}
				if err := s.guardLastAdmin(ctx, tx, user); err != nil {
					return err
				}
			}
			user.IsActive = *input.IsActive
		}

		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}
		if !user.IsActive {
			if err := tx.RefreshTokens.RevokeAllByUserID(ctx, user.ID); err != nil {
				return err
			}
		}

		result = user.ToResponse()
		return audit(ctx, tx, actor, models.AuditUpdate, "users", user.Username, before, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeactivateUser disables a login. Users are never deleted.
func (s *UserService) DeactivateUser(ctx context.Context, actor Actor, id uint) error {
	inactive := false
	_, err := s.UpdateUser(ctx, actor, id, &UpdateUserInput{IsActive: &inactive})
	return err
}

// guardLastAdmin refuses to demote or disable the only active admin
func (s *UserService) guardLastAdmin(ctx context.Context, tx *repositories.Store, user *models.User) error {
	if user.Role != string(domain.RoleAdmin) || !user.IsActive {
		return nil
	}
	count, err := tx.Users.CountActiveByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastAdmin
	}
	return nil
}

// ChangePassword changes the caller's password
func (s *UserService) ChangePassword(ctx context.Context, actor Actor, input *ChangePasswordInput) error {
	user, err := s.store.Users.GetByID(ctx, actor.UserID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if !password.Verify(input.OldPassword, user.PasswordHash) {
		return ErrOldPasswordWrong
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	return s.store.WithTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.Update(ctx, user); err != nil {
			return err
		}
		// Existing sessions must sign in again
		if err := tx.RefreshTokens.RevokeAllByUserID(ctx, user.ID); err != nil {
			return err
		}
		return audit(ctx, tx, actor, models.AuditUpdate, "users", user.Username, nil, map[string]string{"password": "changed"})
	})
}
