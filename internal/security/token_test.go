package security

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerifyReportToken(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.IssueReportToken("report-1")
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.VerifyReportToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != "report-1" {
		t.Errorf("report id = %q", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).IssueReportToken("report-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).VerifyReportToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)
	token, err := m.IssueReportToken("report-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyReportToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	if _, err := m.VerifyReportToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
