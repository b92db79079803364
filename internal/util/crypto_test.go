package util

import (
	"strings"
	"testing"
)

// ============ 密码哈希测试 ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	// 测试正常哈希（使用最小 cost 加快测试）
	hashed, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("哈希格式错误: %s", hashed)
	}

	// 测试空密码
	if _, err := HashPassword("", 4); err == nil {
		t.Error("空密码应返回错误")
	}

	// 测试相同密码生成不同哈希
	hashed2, _ := HashPassword(password, 4)
	if hashed == hashed2 {
		t.Error("相同密码应生成不同哈希（随机salt）")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, 4)

	if !CheckPassword(password, hashed) {
		t.Error("正确密码验证失败")
	}
	if CheckPassword("WrongPass", hashed) {
		t.Error("错误密码不应通过验证")
	}
	if CheckPassword("", hashed) {
		t.Error("空密码不应通过验证")
	}
	if CheckPassword(password, "") {
		t.Error("空哈希不应通过验证")
	}
	if CheckPassword(password, "invalid-format") {
		t.Error("无效格式不应通过验证")
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		pwd  string
		want bool
	}{
		{"Password1", true},
		{"password1", false},
		{"PASSWORD1", false},
		{"Password", false},
		{"Pw1", false},
		{strings.Repeat("Aa1", 22), false},
	}
	for _, tt := range tests {
		if got := IsStrongPassword(tt.pwd); got != tt.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", tt.pwd, got, tt.want)
		}
	}
}

// ============ AES 加密测试 ============

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"

	testCases := []string{
		"Hello World",
		"中文测试",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		if err != nil {
			t.Fatalf("加密失败 '%s': %v", plaintext, err)
		}

		decrypted, err := DecryptAES(key, encrypted)
		if err != nil {
			t.Fatalf("解密失败 '%s': %v", plaintext, err)
		}

		if string(decrypted) != plaintext {
			t.Errorf("数据不匹配\n期望: %s\n实际: %s", plaintext, string(decrypted))
		}
	}
}

func TestEncryptAES_DifferentKeys(t *testing.T) {
	plaintext := []byte("Secret Data")

	encrypted1, _ := EncryptAES("key1", plaintext)
	encrypted2, _ := EncryptAES("key2", plaintext)

	if string(encrypted1) == string(encrypted2) {
		t.Error("不同密钥应生成不同密文")
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	encrypted, _ := EncryptAES("correct-key", []byte("Data"))

	if _, err := DecryptAES("wrong-key", encrypted); err == nil {
		t.Error("错误密钥应解密失败")
	}
}

func TestDecryptAES_InvalidData(t *testing.T) {
	key := "test-key"

	// 数据太短
	if _, err := DecryptAES(key, []byte{1, 2, 3}); err == nil {
		t.Error("过短数据应返回错误")
	}

	// 空数据
	if _, err := DecryptAES(key, []byte{}); err == nil {
		t.Error("空数据应返回错误")
	}
}

func TestEncryptField_RoundTrip(t *testing.T) {
	key := "field-key"

	enc, err := EncryptField(key, "POST /api/deposits")
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if enc == "POST /api/deposits" {
		t.Error("密文不应等于明文")
	}
	if got := DecryptField(key, enc); got != "POST /api/deposits" {
		t.Errorf("DecryptField() = %q", got)
	}

	// 没有 key 时原样返回
	if got, _ := EncryptField("", "plain"); got != "plain" {
		t.Errorf("EncryptField without key = %q", got)
	}
	// 解不开的数据原样返回
	if got := DecryptField(key, "not-base64!"); got != "not-base64!" {
		t.Errorf("DecryptField(garbage) = %q", got)
	}
}

// ============ 性能测试 ============

func BenchmarkEncryptAES(b *testing.B) {
	key := "bench-key"
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EncryptAES(key, data)
	}
}

func BenchmarkDecryptAES(b *testing.B) {
	key := "bench-key"
	data := []byte("Benchmark data")
	encrypted, _ := EncryptAES(key, data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DecryptAES(key, encrypted)
	}
}
