package user

import (
	"FoodShare/domain"
	"FoodShare/entities"
	"FoodShare/pkg/jwt"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
		OAuthLogin(ctx context.Context, req domain.OAuthLoginRequest) (*domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (*domain.UserProfile, error)
		SelectCampus(ctx context.Context, userID string, req domain.SelectCampusRequest) (*domain.UserProfile, error)
		GetFilters(ctx context.Context, userID string) (*domain.FilterSettings, error)
		SaveFilters(ctx context.Context, userID string, req domain.FilterSettings) (*domain.FilterSettings, error)
		GetEmails(ctx context.Context, userIDs []string) ([]string, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		oauthVerifier  jwt.OAuthVerifier
		now            func() time.Time
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, oauthVerifier jwt.OAuthVerifier) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		oauthVerifier:  oauthVerifier,
		now:            time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailAlreadyUsed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entities.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Provider:     domain.ProviderPassword,
		Role:         domain.RoleUser,
		Filters:      fromFilterSettings(domain.DefaultFilterSettings()),
		LastLogin:    &now,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(user), nil
}

// OAuthLogin signs in with a provider identity token. The profile is created
// on first use and merged with the provider's email, name and photo after.
func (s *userService) OAuthLogin(ctx context.Context, req domain.OAuthLoginRequest) (*domain.AuthResponse, error) {
	identity, err := s.oauthVerifier.Verify(req.Provider, req.IDToken)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(identity.Email))

	user, err := s.userRepository.GetUserByProvider(ctx, identity.Provider, identity.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) && email != "" {
		user, err = s.userRepository.GetUserByEmail(ctx, email)
	}
	now := s.now()
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &entities.User{
			ID:              uuid.New(),
			Email:           email,
			DisplayName:     identity.DisplayName,
			PhotoURL:        identity.PhotoURL,
			Provider:        identity.Provider,
			ProviderSubject: identity.Subject,
			Role:            domain.RoleUser,
			Filters:         fromFilterSettings(domain.DefaultFilterSettings()),
			LastLogin:       &now,
		}
		if err := s.userRepository.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return s.authResponse(user), nil
	case err != nil:
		return nil, err
	}

	user.Email = email
	user.DisplayName = identity.DisplayName
	user.PhotoURL = identity.PhotoURL
	user.ProviderSubject = identity.Subject
	if user.PasswordHash == "" {
		user.Provider = identity.Provider
	}
	user.LastLogin = &now
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.authResponse(user), nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := toProfile(user)
	return &profile, nil
}

func (s *userService) SelectCampus(ctx context.Context, userID string, req domain.SelectCampusRequest) (*domain.UserProfile, error) {
	if err := s.userRepository.UpdateSelectedCampus(ctx, userID, req.CampusID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.Me(ctx, userID)
}

func (s *userService) GetFilters(ctx context.Context, userID string) (*domain.FilterSettings, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	filters := toFilterSettings(user.Filters)
	return &filters, nil
}

func (s *userService) SaveFilters(ctx context.Context, userID string, req domain.FilterSettings) (*domain.FilterSettings, error) {
	req = req.Normalized()
	if err := s.userRepository.UpdateFilters(ctx, userID, fromFilterSettings(req)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &req, nil
}

// GetEmails returns the addresses of the given users, skipping unknown ids.
func (s *userService) GetEmails(ctx context.Context, userIDs []string) ([]string, error) {
	emails := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.userRepository.GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if user.Email != "" {
			emails = append(emails, user.Email)
		}
	}
	return emails, nil
}

func (s *userService) getUser(ctx context.Context, userID string) (*entities.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) authResponse(user *entities.User) *domain.AuthResponse {
	return &domain.AuthResponse{
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
		User:  toProfile(user),
	}
}

func toProfile(user *entities.User) domain.UserProfile {
	return domain.UserProfile{
		ID:             user.ID.String(),
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		PhotoURL:       user.PhotoURL,
		Provider:       user.Provider,
		SelectedCampus: user.SelectedCampus,
		Filters:        toFilterSettings(user.Filters),
		LastLogin:      user.LastLogin,
	}
}

// toFilterSettings drops tags that are no longer known.
func toFilterSettings(f entities.UserFilters) domain.FilterSettings {
	var cats domain.CategorySet
	for _, c := range f.Categories {
		cats = cats.Add(domain.Category(c))
	}
	return domain.FilterSettings{
		Categories: cats,
		TodayOnly:  f.TodayOnly,
		StartHour:  f.StartHour,
		StartAmPm:  f.StartAmPm,
		EndHour:    f.EndHour,
		EndAmPm:    f.EndAmPm,
	}.Normalized()
}

func fromFilterSettings(f domain.FilterSettings) entities.UserFilters {
	return entities.UserFilters{
		Categories: f.Categories.Strings(),
		TodayOnly:  f.TodayOnly,
		StartHour:  f.StartHour,
		StartAmPm:  f.StartAmPm,
		EndHour:    f.EndHour,
		EndAmPm:    f.EndAmPm,
	}
}
