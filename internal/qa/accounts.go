package qa

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/querynet/backend/internal/models"
)

const minPassword = 6

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfilePatch holds profile changes; nil means unchanged.
type ProfilePatch struct {
	Username *string
	Bio      *string
	Location *string
	Website  *string
	Avatar   *string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username, err := cleanUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := cleanEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPassword {
		return nil, Validation("Password must be at least %d characters", minPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal("Failed to hash password", err)
	}
	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAccountExists
		}
		return nil, internal("Failed to create user", err)
	}
	return &user, nil
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, Validation("Please provide an email and password")
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal("Failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	s.touch(ctx, user.ID)
	return &user, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor Actor, current, next string) error {
	if actor.ID == "" {
		return ErrUnauthenticated
	}
	if len(next) < minPassword {
		return Validation("Password must be at least %d characters", minPassword)
	}
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "password").First(&user, "id = ?", actor.ID).Error; err != nil {
		return wrapInternal("Failed to load user", notFound(err, ErrUserNotFound))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return internal("Failed to hash password", err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("password", string(hash)).Error; err != nil {
		return internal("Failed to update password", err)
	}
	return nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor Actor, p ProfilePatch) (*models.User, error) {
	if actor.ID == "" {
		return nil, ErrUnauthenticated
	}
	updates := map[string]any{}
	if p.Username != nil {
		u, err := cleanUsername(*p.Username)
		if err != nil {
			return nil, err
		}
		updates["username"] = u
	}
	if p.Bio != nil {
		if err := checkLength("Bio", *p.Bio, maxBio); err != nil {
			return nil, err
		}
		updates["bio"] = *p.Bio
	}
	if p.Location != nil {
		loc := strings.TrimSpace(*p.Location)
		if err := checkLength("Location", loc, maxLocation); err != nil {
			return nil, err
		}
		updates["location"] = loc
	}
	if p.Website != nil {
		site := strings.TrimSpace(*p.Website)
		if err := checkLength("Website", site, maxWebsite); err != nil {
			return nil, err
		}
		updates["website"] = site
	}
	if p.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*p.Avatar)
	}

	user := models.User{ID: actor.ID}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return nil, ErrAccountExists
			}
			return nil, internal("Failed to update profile", err)
		}
	}
	return s.GetUser(ctx, actor.ID)
}

// touch records activity without firing hooks.
func (s *Service) touch(ctx context.Context, userID string) {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("last_active", s.now()).Error
	if err != nil {
		s.log.WarnContext(ctx, "failed to record user activity", "user_id", userID, "error", err)
	}
}
