// Package auth implements login, registration and logout against the
// backend, persisting the issued credentials before navigating on.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/proofhq/proof/internal/api"
	"github.com/proofhq/proof/internal/session"
	"github.com/proofhq/proof/pkg/models"
	"go.uber.org/zap"
)

// DashboardRoute is where a successful login or registration leads.
const DashboardRoute = "/dashboard"

const minPasswordLength = 8

// Localized user-facing messages
const (
	MsgMissingLogin      = "이메일과 비밀번호를 입력해주세요"
	MsgMissingRegister   = "모든 필수 항목을 입력해주세요"
	MsgPasswordMismatch  = "비밀번호가 일치하지 않습니다"
	MsgPasswordTooShort  = "비밀번호는 8자 이상이어야 합니다"
	MsgLoginFailed       = "로그인에 실패했습니다"
	MsgRegisterFailed    = "회원가입에 실패했습니다"
	MsgNetwork           = "서버에 연결할 수 없습니다. 백엔드 서버가 실행 중인지 확인해주세요."
	MsgInvalidCredential = "이메일 또는 비밀번호가 잘못되었습니다"
	MsgUserNotFound      = "등록되지 않은 사용자입니다"
	MsgEmailTaken        = "이미 사용 중인 이메일입니다"
)

// Backend error codes with a fixed translation. A mapped code always
// wins over whatever message the backend sent with it.
var codeMessages = map[string]string{
	"INVALID_CREDENTIALS":  MsgInvalidCredential,
	"USER_NOT_FOUND":       MsgUserNotFound,
	"EMAIL_ALREADY_EXISTS": MsgEmailTaken,
}

// ValidationError is a form problem caught before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Failure is a login or registration rejected by the backend or the
// network. Msg is the localized text to show the user.
type Failure struct {
	Msg string
	Err error
}

func (e *Failure) Error() string { return e.Msg }
func (e *Failure) Unwrap() error { return e.Err }

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Service runs the auth flows.
type Service struct {
	client        *api.Client
	session       *session.Session
	nav           Navigator
	redirectDelay time.Duration
	logger        *zap.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

// NewService returns a Service. nav may be nil.
func NewService(client *api.Client, sess *session.Session, nav Navigator, redirectDelay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Service{
		client:        client,
		session:       sess,
		nav:           nav,
		redirectDelay: redirectDelay,
		logger:        logger,
		sleep:         sleepContext,
	}
}

// Login authenticates with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &ValidationError{Msg: MsgMissingLogin}
	}

	var res models.AuthResult
	err := s.client.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &res)
	if err != nil {
		return nil, s.failure(err, MsgLoginFailed)
	}
	if err := s.complete(ctx, &res, MsgLoginFailed); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account.
func (s *Service) Register(ctx context.Context, p models.Profile) (*models.AuthResult, error) {
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}

	var res models.AuthResult
	if err := s.client.Post(ctx, "/auth/register", p, &res); err != nil {
		return nil, s.failure(err, MsgRegisterFailed)
	}
	if err := s.complete(ctx, &res, MsgRegisterFailed); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout tells the backend best-effort and clears local credentials.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		s.logger.Info("logout request failed", zap.Error(err))
	}
	return s.session.Clear(ctx)
}

// ValidateProfile checks a registration form.
func ValidateProfile(p models.Profile) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" || p.Password == "" {
		return &ValidationError{Msg: MsgMissingRegister}
	}
	if p.Password != p.ConfirmPassword {
		return &ValidationError{Msg: MsgPasswordMismatch}
	}
	if len([]rune(p.Password)) < minPasswordLength {
		return &ValidationError{Msg: MsgPasswordTooShort}
	}
	return nil
}

// complete persists credentials and only then navigates.
func (s *Service) complete(ctx context.Context, res *models.AuthResult, fallback string) error {
	if res.AccessToken == "" || res.UserID == "" {
		return &Failure{Msg: fallback, Err: errors.New("response missing credentials")}
	}
	err := s.session.SaveCredentials(ctx, session.Credentials{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		UserID:       res.UserID,
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	if err := s.sleep(ctx, s.redirectDelay); err != nil {
		return err
	}
	s.nav.Navigate(DashboardRoute)
	return nil
}

// failure maps an error to the message the user should see.
func (s *Service) failure(err error, fallback string) error {
	if api.IsNetwork(err) {
		s.logger.Warn("backend unreachable", zap.Error(err))
		return &Failure{Msg: MsgNetwork, Err: err}
	}
	return &Failure{Msg: MessageFor(err, fallback), Err: err}
}

// MessageFor translates a backend error. Known codes use the fixed table;
// others use the backend message, then fallback.
func MessageFor(err error, fallback string) string {
	if msg, ok := codeMessages[api.Code(err)]; ok {
		return msg
	}
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
