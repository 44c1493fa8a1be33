package auth

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not be the plain text")
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword("correct horse battery stapler", hash) {
		t.Fatal("wrong password should not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	second, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two hashes of the same password should differ")
	}
	if !VerifyPassword("hunter2", first) || !VerifyPassword("hunter2", second) {
		t.Fatal("both hashes should still verify")
	}
}
