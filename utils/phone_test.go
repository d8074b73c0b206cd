package utils_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/store_backend/utils"
)

func TestNormalizePhone(t *testing.T) {
	t.Setenv("DEFAULT_PHONE_REGION", "PH")

	got, err := utils.NormalizePhone("0917 123 4567")
	if err != nil {
		t.Fatalf("NormalizePhone: %v", err)
	}
	if got != "+639171234567" {
		t.Fatalf("got %q, want +639171234567", got)
	}

	// already in international form, region is ignored
	got, err = utils.NormalizePhone("+14155552671")
	if err != nil {
		t.Fatalf("NormalizePhone international: %v", err)
	}
	if got != "+14155552671" {
		t.Fatalf("got %q, want +14155552671", got)
	}

	if _, err := utils.NormalizePhone("not a number"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}
