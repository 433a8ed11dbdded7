package notify

import "testing"

func TestRecorderKeepsOrder(t *testing.T) {
	r := NewRecorder()
	r.Success("logged in")
	r.Error("upload failed")

	toasts := r.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("got %d toasts, want 2", len(toasts))
	}
	if toasts[0].Level != LevelSuccess || toasts[0].Message != "logged in" {
		t.Errorf("first toast = %+v", toasts[0])
	}
	if toasts[1].Level != LevelError || toasts[1].Message != "upload failed" {
		t.Errorf("second toast = %+v", toasts[1])
	}
	if toasts[0].ID == toasts[1].ID {
		t.Error("toast IDs are not unique")
	}
}

func TestToastsReturnsCopy(t *testing.T) {
	r := NewRecorder()
	r.Success("one")

	first := r.Toasts()
	r.Success("two")
	if len(first) != 1 {
		t.Errorf("earlier snapshot grew to %d entries", len(first))
	}
}
