package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/pkg/config"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	DeleteAdmin(ctx context.Context, email string) error
	AdminLastLogins(ctx context.Context) ([]models.AdminLastLogin, error)
	InsertLoginEvent(ctx context.Context, event *models.LoginEvent) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type tokenIssuer interface {
	TokensFor(ctx context.Context, user *models.User, ip, userAgent string) (*models.LoginResponse, error)
}

// UserService covers the student login flow and admin account
// management. Students never carry a password: the institutional email
// asserted upstream is trusted, gated on the allowed domain.
type UserService struct {
	repo      userRepository
	tokens    tokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.FeedbackConfig
	now       func() time.Time
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, tokens tokenIssuer, validate *validator.Validate, logger *zap.Logger, cfg config.FeedbackConfig) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, tokens: tokens, validator: validate, logger: logger, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// Login signs in a student by institutional email. First-time logins
// create the account; every login records a login event for the rate
// analytics.
func (s *UserService) Login(ctx context.Context, req models.UserLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if s.cfg.AllowedEmailDomain != "" && !strings.HasSuffix(email, "@"+s.cfg.AllowedEmailDomain) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("only %s accounts may sign in", s.cfg.AllowedEmailDomain))
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
		}
		user = &models.User{
			Email:  email,
			RollNo: rollNoFromEmail(email),
			Role:   models.RoleUser,
			Active: true,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
		}
	}

	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account is inactive")
	}

	if err := s.repo.InsertLoginEvent(ctx, &models.LoginEvent{RollNo: user.RollNo, LoggedAt: s.now()}); err != nil {
		s.logger.Warn("failed to record login event", zap.String("roll_no", user.RollNo), zap.Error(err))
	}

	return s.tokens.TokensFor(ctx, user, req.IP, req.UserAgent)
}

// CreateAdmin registers a new admin account.
func (s *UserService) CreateAdmin(ctx context.Context, req models.CreateAdminRequest, actorID *string) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "account already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actorID,
		Action:     models.AuditActionAdminCreate,
		Resource:   "admin",
		ResourceID: &user.ID,
		NewValues:  []byte(fmt.Sprintf(`{"created":%q}`, email)),
	}); err != nil {
		s.logger.Warn("failed to record admin create audit log", zap.Error(err))
	}

	return user, nil
}

// DeleteAdmin removes an admin account by email.
func (s *UserService) DeleteAdmin(ctx context.Context, email string, actorID *string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.repo.DeleteAdmin(ctx, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admin")
	}

	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:    actorID,
		Action:    models.AuditActionAdminDelete,
		Resource:  "admin",
		NewValues: []byte(fmt.Sprintf(`{"deleted":%q}`, email)),
	}); err != nil {
		s.logger.Warn("failed to record admin delete audit log", zap.Error(err))
	}
	return nil
}

// AdminLastLogins lists every admin with its last login timestamp.
func (s *UserService) AdminLastLogins(ctx context.Context) ([]models.AdminLastLogin, error) {
	logins, err := s.repo.AdminLastLogins(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admin logins")
	}
	return logins, nil
}

// rollNoFromEmail derives the roll number from the institutional email
// local part, e.g. 21pt01@psgtech.ac.in becomes 21PT01.
func rollNoFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	return strings.ToUpper(local)
}
