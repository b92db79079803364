package util

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", "budget-ledger", 42, "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.SessionID() != "sess-1" || claims.Issuer != "budget-ledger" {
		t.Errorf("claims = %+v", claims)
	}

	// 错误的密钥
	if _, err := ParseToken("other", token); err == nil {
		t.Error("wrong secret should fail")
	}
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	token, err := GenerateToken("secret", "", 1, "sess", -time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	// ttl <= 0 时回退到 24 小时
	if _, err := ParseToken("secret", token); err != nil {
		t.Errorf("ParseToken() error = %v", err)
	}
}

func TestParseToken_MissingSession(t *testing.T) {
	token, _ := GenerateToken("secret", "", 1, "", time.Hour)
	if _, err := ParseToken("secret", token); err == nil {
		t.Error("token without jti should be rejected")
	}
}
