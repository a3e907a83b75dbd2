package controller

import (
	"context"
	"net/http"
	"testing"

	"chatlink-auth/entity"
	"chatlink-auth/pkg/apperror"
	"chatlink-auth/pkg/logger"
	"chatlink-auth/service"
	"chatlink-auth/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResetService struct {
	identifier string
	commitErr  error
	cancelled  string
}

func (s *stubResetService) RequestPasswordResetOTP(_ context.Context, identifier string) (*entity.OTPResponse, error) {
	s.identifier = identifier
	return &entity.OTPResponse{Message: "If an account matches, an OTP has been sent.", Token: "reset-1"}, nil
}

func (s *stubResetService) VerifyPasswordResetOTP(context.Context, *entity.VerifyPasswordResetRequest) (*entity.MessageResponse, error) {
	return &entity.MessageResponse{Message: "OTP verified"}, nil
}

func (s *stubResetService) ResendPasswordResetOTP(context.Context, string) (*entity.OTPResponse, error) {
	return &entity.OTPResponse{Token: "reset-1"}, nil
}

func (s *stubResetService) CommitPasswordReset(context.Context, *entity.ResetPasswordRequest) (*entity.MessageResponse, error) {
	if s.commitErr != nil {
		return nil, s.commitErr
	}
	return &entity.MessageResponse{Message: "Password reset"}, nil
}

func (s *stubResetService) CancelPasswordReset(_ context.Context, token string) error {
	s.cancelled = token
	return nil
}

type stubProfileService struct {
	language string
	err      error
}

func (s *stubProfileService) GetProfile(_ context.Context, userID int) (*entity.UserResponse, error) {
	return &entity.UserResponse{ID: userID, Username: "mona_99"}, nil
}

func (s *stubProfileService) UpdateProfile(_ context.Context, userID int, req *entity.UpdateProfileRequest) (*entity.UserResponse, error) {
	return &entity.UserResponse{ID: userID, FullName: req.FullName}, nil
}

func (s *stubProfileService) UpdateLearningLanguage(_ context.Context, userID int, learningLanguage string) (*entity.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.language = learningLanguage
	return &entity.UserResponse{ID: userID}, nil
}

func TestPasswordController(t *testing.T) {
	e := echo.New()

	t.Run("forgot", func(t *testing.T) {
		svc := &stubResetService{}
		c := NewPasswordController(svc, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodPost, "/api/v1/auth/password/forgot", `{"identifier":"mona_99"}`)
		require.NoError(t, c.Forgot(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "mona_99", svc.identifier)
		assert.Equal(t, "reset-1", decode(t, rec)["token"])
	})

	t.Run("reset with stale session", func(t *testing.T) {
		svc := &stubResetService{commitErr: apperror.SessionExpired("Password reset session expired. Please start again.")}
		c := NewPasswordController(svc, validator.New(), logger.NewNop())
		body := `{"token":"reset-1","password":"secret123","confirm_password":"secret123"}`
		req, rec := newRequest(http.MethodPost, "/api/v1/auth/password/reset", body)
		require.NoError(t, c.Reset(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusGone, rec.Code)
		assert.Equal(t, "session_expired", decode(t, rec)["error"])
	})

	t.Run("verify rejects short code", func(t *testing.T) {
		c := NewPasswordController(&stubResetService{}, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodPost, "/api/v1/auth/password/verify", `{"token":"reset-1","code":"12"}`)
		require.NoError(t, c.Verify(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cancel", func(t *testing.T) {
		svc := &stubResetService{}
		c := NewPasswordController(svc, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodDelete, "/api/v1/auth/password?token=reset-1", "")
		require.NoError(t, c.Cancel(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "reset-1", svc.cancelled)
	})
}

func TestProfileController(t *testing.T) {
	e := echo.New()
	claims := &service.JWTClaims{UserID: 7, Username: "mona_99"}

	t.Run("get requires claims", func(t *testing.T) {
		c := NewProfileController(&stubProfileService{}, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodGet, "/api/v1/profile", "")
		require.NoError(t, c.GetProfile(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("get", func(t *testing.T) {
		c := NewProfileController(&stubProfileService{}, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodGet, "/api/v1/profile", "")
		ctx := e.NewContext(req, rec)
		ctx.Set(ClaimsContextKey, claims)
		require.NoError(t, c.GetProfile(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(7), decode(t, rec)["id"])
	})

	t.Run("learning language in cooldown", func(t *testing.T) {
		svc := &stubProfileService{err: apperror.Cooldown("You can change your learning language again in 3 day(s).")}
		c := NewProfileController(svc, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodPut, "/api/v1/profile/learning-language", `{"learning_language":"fr"}`)
		ctx := e.NewContext(req, rec)
		ctx.Set(ClaimsContextKey, claims)
		require.NoError(t, c.UpdateLearningLanguage(ctx))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "You can change your learning language again in 3 day(s).", decode(t, rec)["details"])
	})

	t.Run("learning language unknown code", func(t *testing.T) {
		svc := &stubProfileService{}
		c := NewProfileController(svc, validator.New(), logger.NewNop())
		req, rec := newRequest(http.MethodPut, "/api/v1/profile/learning-language", `{"learning_language":"zz1"}`)
		ctx := e.NewContext(req, rec)
		ctx.Set(ClaimsContextKey, claims)
		require.NoError(t, c.UpdateLearningLanguage(ctx))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.language)
	})
}
