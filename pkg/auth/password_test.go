package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("формат хеша: %s", hash)
	}

	ok, err := VerifyPassword("Sup3rSecret!", hash)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !ok {
		t.Error("правильный пароль должен проходить проверку")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if ok {
		t.Error("неверный пароль не должен проходить проверку")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	second, err := HashPassword("Sup3rSecret!")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if first == second {
		t.Error("хеши одного пароля должны отличаться из-за соли")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("password", "not-a-hash"); err == nil {
		t.Error("некорректный хеш должен возвращать ошибку")
	}
}
