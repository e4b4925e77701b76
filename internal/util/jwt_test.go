package util

import (
	"testing"
	"time"

	"smart_learning_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 42},
		Email:     "student@example.com",
		Role:      model.Student,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "student@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.Teacher}
	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Error("expected verification failure with a different secret")
	}
}

func TestMustParseUint(t *testing.T) {
	if got := MustParseUint("123"); got != 123 {
		t.Errorf("MustParseUint(123) = %d", got)
	}
	if got := MustParseUint("abc"); got != 0 {
		t.Errorf("MustParseUint(abc) = %d, want 0", got)
	}
	if got := FormatUint(123); got != "123" {
		t.Errorf("FormatUint(123) = %q", got)
	}
}
