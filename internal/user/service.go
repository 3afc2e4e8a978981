package user

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	"github.com/saulo-duarte/classroom-lms/internal/validation"
)

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error)
	GetProfile(ctx context.Context, actor access.Actor) (*UserResponse, error)
	UpdateProfile(ctx context.Context, actor access.Actor, dto UpdateProfileDTO, image *storage.Upload) (*UserResponse, error)
	GetInstructor(ctx context.Context, id uint) (*InstructorResponse, error)
}

type userService struct {
	repo     UserRepository
	store    storage.Store
	tokenTTL time.Duration
}

func NewUserService(repo UserRepository, store storage.Store, tokenTTL time.Duration) UserService {
	return &userService{repo: repo, store: store, tokenTTL: tokenTTL}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	dto.Email = normalizeEmail(dto.Email)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	role, ok := access.ParseRole(dto.Role)
	if !ok {
		return nil, apperror.Validation("invalid request payload", apperror.FieldError{
			Field: "role",
			Error: "role must be LEARNER or INSTRUCTOR",
		})
	}

	email := dto.Email
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if existing != nil {
		return nil, apperror.Conflict("email already registered")
	}

	hash, err := HashPassword(dto.Password)
	if err != nil {
		return nil, apperror.Internal(err, "failed to hash password")
	}

	u := &User{
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already registered")
		}
		log.WithError(err).Error("Failed to create user")
		return nil, apperror.Internal(err, "failed to create user")
	}

	log.WithField("user_id", u.ID).Infof("Registered %s", u.Role)
	resp := ToResponse(u)
	return &resp, nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	log := config.WithContext(ctx)

	dto.Email = normalizeEmail(dto.Email)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, dto.Email)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)) != nil {
		log.Warn("Login failed")
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, err := auth.GenerateJWT(strconv.FormatUint(uint64(u.ID), 10), string(u.Role), s.tokenTTL)
	if err != nil {
		return nil, apperror.Internal(err, "failed to issue token")
	}

	log.WithField("user_id", u.ID).Info("User logged in")
	return &AuthResponse{Token: token, User: ToResponse(u)}, nil
}

func (s *userService) GetProfile(ctx context.Context, actor access.Actor) (*UserResponse, error) {
	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}
	if u == nil {
		return nil, apperror.NotFound("user not found")
	}
	resp := ToResponse(u)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor access.Actor, dto UpdateProfileDTO, image *storage.Upload) (*UserResponse, error) {
	log := config.WithContext(ctx)

	if dto.Email != nil {
		email := normalizeEmail(*dto.Email)
		dto.Email = &email
	}
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}
	if u == nil {
		return nil, apperror.NotFound("user not found")
	}

	if dto.Email != nil {
		email := *dto.Email
		other, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, apperror.Internal(err, "failed to look up user")
		}
		if other != nil && other.ID != u.ID {
			return nil, apperror.Conflict("email already in use")
		}
		u.Email = email
	}
	if dto.Name != nil {
		u.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Phone != nil {
		u.Phone = dto.Phone
	}
	if dto.Password != nil {
		hash, err := HashPassword(*dto.Password)
		if err != nil {
			return nil, apperror.Internal(err, "failed to hash password")
		}
		u.PasswordHash = hash
	}

	var obj *storage.Object
	if image != nil {
		defer image.Body.Close()
		if obj, err = s.store.Save(ctx, storage.CategoryProfiles, image.Filename, image.Body); err != nil {
			return nil, err
		}
		u.ProfileImageURL = &obj.URL
	}

	if err := s.repo.Update(ctx, u); err != nil {
		storage.Discard(ctx, s.store, obj)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already in use")
		}
		log.WithError(err).Error("Failed to update user")
		return nil, apperror.Internal(err, "failed to update user")
	}

	log.Info("Profile updated")
	resp := ToResponse(u)
	return &resp, nil
}

func (s *userService) GetInstructor(ctx context.Context, id uint) (*InstructorResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}
	if u == nil {
		return nil, apperror.NotFound("instructor not found")
	}
	if u.Role != access.Instructor {
		return nil, apperror.NotFound("user is not an instructor")
	}

	count, err := s.repo.CountCourses(ctx, u.ID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to count courses")
	}
	return &InstructorResponse{UserResponse: ToResponse(u), CourseCount: count}, nil
}
