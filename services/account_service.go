package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"broomate_server/models"
	broomate_errors "broomate_server/pkg/errors"
	"broomate_server/repository"
	"broomate_server/storage"
)

// AccountService handles signup, authentication and profile management
// for both roles.
type AccountService struct {
	Store   repository.Store
	Storage storage.ObjectStorage
	Log     *zap.Logger
}

// TenantProfileInput carries the mutable tenant profile fields.
type TenantProfileInput struct {
	Name               string
	Phone              string
	Description        string
	Age                int
	Gender             models.Gender
	StayLengthMonths   int
	MoveInDate         string
	Smoking            bool
	Cooking            bool
	BudgetPerMonth     float64
	PreferredDistricts []string
	NeedWindow         bool
	MightShareBedRoom  bool
	MightShareToilet   bool
}

// SignupTenant registers a tenant account. Email is unique per role.
func (s *AccountService) SignupTenant(ctx context.Context, email, password, name string) (*models.Tenant, error) {
	account, err := s.newAccount(ctx, email, password, name, models.RoleTenant)
	if err != nil {
		return nil, err
	}
	tenant := &models.Tenant{Account: *account}
	if err := s.Store.CreateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	s.Log.Info("tenant registered", zap.String("tenantId", tenant.ID))
	return tenant, nil
}

// SignupLandlord registers a landlord account.
func (s *AccountService) SignupLandlord(ctx context.Context, email, password, name string) (*models.Landlord, error) {
	account, err := s.newAccount(ctx, email, password, name, models.RoleLandlord)
	if err != nil {
		return nil, err
	}
	landlord := &models.Landlord{Account: *account}
	if err := s.Store.CreateLandlord(ctx, landlord); err != nil {
		return nil, err
	}
	s.Log.Info("landlord registered", zap.String("landlordId", landlord.ID))
	return landlord, nil
}

func (s *AccountService) newAccount(ctx context.Context, email, password, name string, role models.AccountRole) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", broomate_errors.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", broomate_errors.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", broomate_errors.ErrInvalidInput)
	}

	var taken bool
	switch role {
	case models.RoleTenant:
		existing, err := s.Store.FindTenantByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		taken = existing != nil
	case models.RoleLandlord:
		existing, err := s.Store.FindLandlordByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		taken = existing != nil
	}
	if taken {
		return nil, fmt.Errorf("%w: email %s is already registered", broomate_errors.ErrConflict, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	return &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Authenticate verifies credentials for the given role and returns the
// account. Wrong email and wrong password are indistinguishable to the
// caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string, role models.AccountRole) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var account *models.Account
	switch role {
	case models.RoleTenant:
		tenant, err := s.Store.FindTenantByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if tenant != nil {
			account = &tenant.Account
		}
	case models.RoleLandlord:
		landlord, err := s.Store.FindLandlordByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if landlord != nil {
			account = &landlord.Account
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", broomate_errors.ErrInvalidInput, role)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: invalid credentials", broomate_errors.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", broomate_errors.ErrForbidden)
	}
	if !account.Active {
		return nil, fmt.Errorf("%w: account is deactivated", broomate_errors.ErrForbidden)
	}
	return account, nil
}

// GetTenantProfile returns the tenant record.
func (s *AccountService) GetTenantProfile(ctx context.Context, tenantID string) (*models.Tenant, error) {
	tenant, err := s.Store.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, tenantID)
	}
	return tenant, nil
}

// UpdateTenantProfile replaces the mutable profile fields and optionally
// swaps the avatar. The new avatar is uploaded first; if the record
// write fails it is deleted again, and the old avatar is only deleted
// after the write succeeds.
func (s *AccountService) UpdateTenantProfile(ctx context.Context, tenantID string, input TenantProfileInput, avatar *storage.File) (*models.Tenant, error) {
	tenant, err := s.Store.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, tenantID)
	}

	saga := storage.NewSaga()
	defer saga.Rollback(ctx)

	var newAvatar string
	if avatar != nil {
		newAvatar, err = s.Storage.UploadFile(ctx, *avatar, storage.FolderAvatars)
		if err != nil {
			return nil, err
		}
		saga.RecordDelete(s.Storage, newAvatar)
	}

	oldAvatar := tenant.AvatarURL
	tenant.Name = input.Name
	tenant.Phone = input.Phone
	tenant.Description = input.Description
	tenant.Age = input.Age
	tenant.Gender = input.Gender
	tenant.StayLengthMonths = input.StayLengthMonths
	tenant.MoveInDate = input.MoveInDate
	tenant.Smoking = input.Smoking
	tenant.Cooking = input.Cooking
	tenant.BudgetPerMonth = input.BudgetPerMonth
	tenant.PreferredDistricts = input.PreferredDistricts
	tenant.NeedWindow = input.NeedWindow
	tenant.MightShareBedRoom = input.MightShareBedRoom
	tenant.MightShareToilet = input.MightShareToilet
	if newAvatar != "" {
		tenant.AvatarURL = newAvatar
	}
	tenant.UpdatedAt = time.Now()

	if err := s.Store.UpdateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	saga.Commit()
	if newAvatar != "" && oldAvatar != "" {
		s.Storage.DeleteFile(ctx, oldAvatar)
	}
	return tenant, nil
}

// UpdateLandlordProfile replaces the landlord's mutable fields with the
// same avatar handling as the tenant path.
func (s *AccountService) UpdateLandlordProfile(ctx context.Context, landlordID, name, phone, description string, avatar *storage.File) (*models.Landlord, error) {
	landlord, err := s.Store.FindLandlordByID(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	if landlord == nil {
		return nil, fmt.Errorf("%w: landlord %s", broomate_errors.ErrNotFound, landlordID)
	}

	saga := storage.NewSaga()
	defer saga.Rollback(ctx)

	var newAvatar string
	if avatar != nil {
		newAvatar, err = s.Storage.UploadFile(ctx, *avatar, storage.FolderAvatars)
		if err != nil {
			return nil, err
		}
		saga.RecordDelete(s.Storage, newAvatar)
	}

	oldAvatar := landlord.AvatarURL
	landlord.Name = name
	landlord.Phone = phone
	landlord.Description = description
	if newAvatar != "" {
		landlord.AvatarURL = newAvatar
	}
	landlord.UpdatedAt = time.Now()

	if err := s.Store.UpdateLandlord(ctx, landlord); err != nil {
		return nil, err
	}
	saga.Commit()
	if newAvatar != "" && oldAvatar != "" {
		s.Storage.DeleteFile(ctx, oldAvatar)
	}
	return landlord, nil
}

// ChangePassword verifies the current password before storing the new
// hash.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", broomate_errors.ErrInvalidInput)
	}
	tenant, err := s.Store.FindTenantByID(ctx, accountID)
	if err != nil {
		return err
	}
	if tenant != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(tenant.PasswordHash), []byte(current)); err != nil {
			return fmt.Errorf("%w: current password does not match", broomate_errors.ErrForbidden)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		tenant.PasswordHash = string(hash)
		tenant.UpdatedAt = time.Now()
		return s.Store.UpdateTenant(ctx, tenant)
	}

	landlord, err := s.Store.FindLandlordByID(ctx, accountID)
	if err != nil {
		return err
	}
	if landlord == nil {
		return fmt.Errorf("%w: account %s", broomate_errors.ErrNotFound, accountID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(landlord.PasswordHash), []byte(current)); err != nil {
		return fmt.Errorf("%w: current password does not match", broomate_errors.ErrForbidden)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	landlord.PasswordHash = string(hash)
	landlord.UpdatedAt = time.Now()
	return s.Store.UpdateLandlord(ctx, landlord)
}

// SetActive flips an account's active flag. Deactivated tenants drop
// out of candidate feeds; their matches and conversations remain.
func (s *AccountService) SetActive(ctx context.Context, accountID string, active bool) error {
	tenant, err := s.Store.FindTenantByID(ctx, accountID)
	if err != nil {
		return err
	}
	if tenant != nil {
		tenant.Active = active
		tenant.UpdatedAt = time.Now()
		return s.Store.UpdateTenant(ctx, tenant)
	}
	landlord, err := s.Store.FindLandlordByID(ctx, accountID)
	if err != nil {
		return err
	}
	if landlord == nil {
		return fmt.Errorf("%w: account %s", broomate_errors.ErrNotFound, accountID)
	}
	landlord.Active = active
	landlord.UpdatedAt = time.Now()
	return s.Store.UpdateLandlord(ctx, landlord)
}
