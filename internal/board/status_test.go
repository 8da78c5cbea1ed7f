package board

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
		err  bool
	}{
		{in: "TODO", want: StatusTodo},
		{in: "TO_DO", want: StatusTodo},
		{in: "todo", want: StatusTodo},
		{in: "in-progress", want: StatusInProgress},
		{in: " In Progress ", want: StatusInProgress},
		{in: "IN_REVIEW", want: StatusInReview},
		{in: "review", want: StatusInReview},
		{in: "done", want: StatusDone},
		{in: "archived", err: true},
		{in: "", err: true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.err {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("ParseStatus(%q) err = %v, want ErrInvalidStatus", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestStatusesAreValid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("BACKLOG").Valid() {
		t.Error("BACKLOG should not be valid")
	}
}

func TestDisplayIDRoundTrip(t *testing.T) {
	id := DisplayID("WEBRED", 7)
	if id != "WEBRED-7" {
		t.Fatalf("DisplayID = %q", id)
	}
	code, seq, err := ParseDisplayID(id)
	if err != nil || code != "WEBRED" || seq != 7 {
		t.Errorf("ParseDisplayID(%q) = %q, %d, %v", id, code, seq, err)
	}

	for _, bad := range []string{"", "WEBRED", "-7", "WEBRED-", "WEBRED-x", "WEBRED-0"} {
		if _, _, err := ParseDisplayID(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseDisplayID(%q) err = %v, want ErrValidation", bad, err)
		}
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err    error
		code   Code
		status int
	}{
		{err: ErrNotFound, code: CodeNotFound, status: 404},
		{err: ErrOwnershipMismatch, code: CodeOwnershipMismatch, status: 403},
		{err: ErrValidation, code: CodeValidation, status: 400},
		{err: ErrInvalidStatus, code: CodeValidation, status: 400},
		{err: ErrConflict, code: CodeConflict, status: 409},
		{err: errors.New("disk on fire"), code: CodeInternal, status: 500},
	}
	for _, tt := range tests {
		wrapped := errors.Join(errors.New("context"), tt.err)
		if got := CodeOf(wrapped); got != tt.code {
			t.Errorf("CodeOf(%v) = %s, want %s", tt.err, got, tt.code)
		}
		if got := tt.code.HTTPStatus(); got != tt.status {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.status)
		}
	}
}
