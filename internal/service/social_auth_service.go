package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sefazor/ticketgate-backend/internal/config"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/repository"
	"github.com/sefazor/ticketgate-backend/pkg/bcrypt"
	jwtPkg "github.com/sefazor/ticketgate-backend/pkg/jwt"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// oauthProvider bundles the oauth2 config with the provider's userinfo
// endpoint and how to read its response.
type oauthProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// OAuthProfile is the provider-neutral identity the callback resolves to.
type OAuthProfile struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

// SocialAuthService implements social login: send the user to the
// provider, exchange the callback code, fetch the profile, then link or
// create the local account and hand back the usual JWT.
type SocialAuthService struct {
	providers  map[string]*oauthProvider
	userRepo   *repository.UserRepository
	socialRepo *repository.SocialAccountRepository
	httpClient *http.Client
}

func NewSocialAuthService(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	socialRepo *repository.SocialAccountRepository,
) *SocialAuthService {
	providers := map[string]*oauthProvider{
		"google": {
			config: &oauth2.Config{
				ClientID:     cfg.OAuth.GoogleClientID,
				ClientSecret: cfg.OAuth.GoogleClientSecret,
				RedirectURL:  cfg.OAuth.RedirectBase + "/google/callback",
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	return &SocialAuthService{
		providers:  providers,
		userRepo:   userRepo,
		socialRepo: socialRepo,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// RedirectURL returns the provider consent page URL for the handler to
// redirect to.
func (s *SocialAuthService) RedirectURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}
	return p.config.AuthCodeURL(state), nil
}

// HandleCallback exchanges the authorization code and signs the user in,
// creating or linking accounts as needed.
func (s *SocialAuthService) HandleCallback(ctx context.Context, provider, code string) (*models.AuthResponse, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth code exchange failed: %w", err)
	}

	profile, err := s.fetchProfile(ctx, p, token)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(provider, profile, token)
	if err != nil {
		return nil, err
	}

	jwtToken, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: jwtToken,
		User:  *user,
	}, nil
}

func (s *SocialAuthService) fetchProfile(ctx context.Context, p *oauthProvider, token *oauth2.Token) (*OAuthProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned %d", resp.StatusCode)
	}

	var raw struct {
		ID      string `json:"id"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	profile := &OAuthProfile{
		ID:     raw.ID,
		Email:  raw.Email,
		Name:   raw.Name,
		Avatar: raw.Picture,
	}
	if profile.ID == "" {
		profile.ID = raw.Sub
	}
	if profile.ID == "" {
		return nil, errors.New("provider returned no user id")
	}
	return profile, nil
}

func (s *SocialAuthService) resolveUser(provider string, profile *OAuthProfile, token *oauth2.Token) (*models.User, error) {
	// Existing link: refresh tokens and sign in.
	account, err := s.socialRepo.GetByProvider(provider, profile.ID)
	if err == nil {
		account.Avatar = profile.Avatar
		account.Token = token.AccessToken
		account.RefreshToken = token.RefreshToken
		if err := s.socialRepo.Update(account); err != nil {
			return nil, err
		}
		return s.userRepo.GetByID(account.UserID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// No link yet: match by email when the provider shared one.
	var user *models.User
	if profile.Email != "" {
		user, err = s.userRepo.GetByEmail(profile.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if user == nil {
		user, err = s.createSocialUser(profile)
		if err != nil {
			return nil, err
		}
	}

	err = s.socialRepo.Create(&models.SocialAccount{
		UserID:       user.ID,
		Provider:     provider,
		ProviderID:   profile.ID,
		Avatar:       profile.Avatar,
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *SocialAuthService) createSocialUser(profile *OAuthProfile) (*models.User, error) {
	name := profile.Name
	if name == "" && profile.Email != "" {
		name = strings.SplitN(profile.Email, "@", 2)[0]
	}
	if name == "" {
		name = "User"
	}

	email := profile.Email
	if email == "" {
		// Apple/Facebook may withhold the address.
		email = utils.GenerateRandomString(16) + "@no-email.local"
	}

	// Random password; social users never sign in with one.
	hashed, err := bcrypt.HashPassword(utils.GenerateRandomString(32))
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:  name,
		Email:     email,
		Password:  hashed,
		AvatarURL: profile.Avatar,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
