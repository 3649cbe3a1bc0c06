package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometeylabs/lander/internal/middleware"
	"github.com/prometeylabs/lander/internal/models"
	jwtpkg "github.com/prometeylabs/lander/internal/pkg/jwt"
	"github.com/prometeylabs/lander/internal/pkg/response"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLen = 8

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLen)
)

// dummyHash keeps the timing of unknown-user logins close to wrong-password ones.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lander-dummy-password"), bcrypt.DefaultCost)

type LoginDTO struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=128"`
}

type userResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	IsStaff     bool       `json:"is_staff"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func toUserResponse(u *models.StaffUser) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, IsStaff: u.IsStaff, LastLoginAt: u.LastLoginAt}
}

type Service struct {
	db     *gorm.DB
	tokens *jwtpkg.Manager
	log    *zap.Logger
}

func NewService(db *gorm.DB, tokens *jwtpkg.Manager, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, tokens: tokens, log: log}
}

// Login checks credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password, ip string) (string, *models.StaffUser, error) {
	var u models.StaffUser
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(u.ID, u.IsStaff)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	if err := s.db.WithContext(ctx).Model(&u).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": ip,
	}).Error; err != nil {
		s.log.Warn("record last login", zap.String("user_id", u.ID), zap.Error(err))
	}
	return token, &u, nil
}

// ResolveStaff loads the account behind a token. Unknown ids give (nil, nil).
func (s *Service) ResolveStaff(ctx context.Context, userID string) (*models.StaffUser, error) {
	var u models.StaffUser
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// CreateStaff adds an account from the command line.
func (s *Service) CreateStaff(ctx context.Context, username, password string, isStaff bool) (*models.StaffUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(password) < MinPasswordLen {
		return nil, ErrWeakPassword
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.StaffUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := models.StaffUser{Username: username, Password: string(hash), IsStaff: isStaff}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create staff user: %w", err)
	}
	return &u, nil
}

type Handler struct {
	svc          *Service
	secureCookie bool
	cookieTTL    time.Duration
}

func NewHandler(svc *Service, secureCookie bool) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie, cookieTTL: jwtpkg.DefaultTTL}
}

// RegisterRoutes mounts /auth. throttle guards the login endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, throttle gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login/", throttle, h.login)
	a.POST("/logout/", h.logout)
	a.GET("/me/", authMW, h.me)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}
	token, user, err := h.svc.Login(c.Request.Context(), dto.Username, dto.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		response.InternalError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, token, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
	response.OK(c, gin.H{"token": token, "user": toUserResponse(user)})
}

func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", h.secureCookie, true)
	response.Message(c, "Logged out")
}

func (h *Handler) me(c *gin.Context) {
	user := middleware.CurrentStaff(c)
	if user == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, gin.H{"user": toUserResponse(user)})
}
