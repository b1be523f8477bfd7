package service

import (
	"ailearn_backend/internal/config"
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(RegisterRequest{Name: "小明", Email: "ming@example.com", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Error("register should return a token")
	}
	if resp.User.Role != model.Learner {
		t.Errorf("role = %s, want learner", resp.User.Role)
	}
	if resp.User.Password == "secret123" {
		t.Error("password must not be stored in plain text")
	}

	// token 可被同一 secret 解析
	claims, err := util.ParseJWT(resp.Token, "test-secret")
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("claims userID = %d, want %d", claims.UserID, resp.User.ID)
	}

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(RegisterRequest{Name: "小红", Email: "ming@example.com", Password: "another1"})
		if !errors.Is(err, util.ErrEmailRegistered) {
			t.Errorf("err = %v, want ErrEmailRegistered", err)
		}
	})

	t.Run("login with correct password", func(t *testing.T) {
		got, err := svc.Login(LoginRequest{Email: "ming@example.com", Password: "secret123"})
		if err != nil {
			t.Fatal(err)
		}
		if got.Token == "" {
			t.Error("login should return a token")
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		if _, err := svc.Login(LoginRequest{Email: "ming@example.com", Password: "wrong"}); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		if _, err := svc.Login(LoginRequest{Email: "ghost@example.com", Password: "whatever"}); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}
