package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestInstallIsIdempotent(t *testing.T) {
	var first, second bytes.Buffer
	Install(&first)
	Install(&second)
	if !Installed() {
		t.Fatal("Installed() = false after Install")
	}

	Logger().Info("hello")
	if !strings.Contains(first.String(), "hello") {
		t.Fatalf("first writer got %q, expected the log line", first.String())
	}
	if second.Len() != 0 {
		t.Fatalf("second Install must be a no-op, got %q", second.String())
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover("boom", &err)
		var cells []int
		_ = cells[3]
		return nil
	}
	err := run()
	if err == nil {
		t.Fatal("expected recovered error")
	}
	if !strings.Contains(err.Error(), "[boom] recovered panic") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestRecoverWithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover("quiet", &err)
		return nil
	}
	if err := run(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
