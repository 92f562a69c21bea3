package services

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"hotel-backoffice/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxNameLength     = 50
	maxAddressLength  = 200
	minPasswordLength = 6
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

type UserService struct {
	DB *gorm.DB
	deps
}

func NewUserService(db *gorm.DB, opts ...Option) *UserService {
	return &UserService{DB: db, deps: newDeps(opts)}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Phone    string
	Address  string
}

// UpdateUserInput is a partial update. Role may only be set by an admin caller.
type UpdateUserInput struct {
	Name     *string
	Phone    *string
	Address  *string
	IsActive *bool
	Role     *models.Role
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", Validationf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", Validationf("please provide a valid email")
	}
	return email, nil
}

func validateName(name string) error {
	if name == "" {
		return Validationf("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return Validationf("name cannot exceed %d characters", maxNameLength)
	}
	return nil
}

func validatePhone(phone string) error {
	if phone != "" && !phonePattern.MatchString(phone) {
		return Validationf("phone must be 10 digits")
	}
	return nil
}

func validateAddress(address string) error {
	if utf8.RuneCountInString(address) > maxAddressLength {
		return Validationf("address cannot exceed %d characters", maxAddressLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", Validationf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(in.Phone)
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	address := strings.TrimSpace(in.Address)
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleGuest
	}
	if !in.Role.IsValid() {
		return nil, Validationf("invalid role %q", in.Role)
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     in.Role,
		IsActive: true,
		Phone:    phone,
		Address:  address,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, Conflictf("user with email %s already exists", email)
		}
		return nil, storeError(err, "user")
	}
	s.log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeError(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, storeError(err, "user")
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context, role models.Role) ([]models.User, error) {
	q := s.DB.WithContext(ctx)
	if role != "" {
		if !role.IsValid() {
			return nil, Validationf("invalid role %q", role)
		}
		q = q.Where("role = ?", role)
	}
	users := []models.User{}
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	db := s.DB.WithContext(ctx)
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, storeError(err, "user")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
		updates["phone"] = phone
	}
	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		if err := validateAddress(address); err != nil {
			return nil, err
		}
		updates["address"] = address
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Role != nil {
		if !in.Role.IsValid() {
			return nil, Validationf("invalid role %q", *in.Role)
		}
		updates["role"] = *in.Role
	}

	if len(updates) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, storeError(err, "user")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a user that has no bookings.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return storeError(err, "user")
		}
		var bookings int64
		if err := tx.Model(&models.Booking{}).Where("guest_id = ?", id).Count(&bookings).Error; err != nil {
			return err
		}
		if bookings > 0 {
			return Conflictf("user %d has bookings and cannot be deleted", id)
		}
		if err := tx.Delete(&user).Error; err != nil {
			if isForeignKeyError(err) {
				return Conflictf("user %d is still referenced", id)
			}
			return fmt.Errorf("delete user: %w", err)
		}
		s.log.Info().Uint("user_id", id).Msg("user deleted")
		return nil
	})
}
