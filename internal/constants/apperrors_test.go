package constants

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeFor(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{ErrEventNotFound, CodeEventNotFound},
		{ErrEventFull, CodeEventFull},
		{ErrRateLimited, CodeRateLimited},
		{fmt.Errorf("wrapped: %w", ErrExternalFailure), CodeExternalFailure},
		{&MissingTagsError{MissingTags: []string{"golang"}}, CodeMissingRequiredTags},
		{ErrValidation, CodeValidation},
		{errors.New("something else"), CodeInternal},
	}

	for _, tc := range cases {
		if got := CodeFor(tc.err); got != tc.want {
			t.Errorf("CodeFor(%v): expected %s, got %s", tc.err, tc.want, got)
		}
	}
}

func TestMissingTagsError_Unwrap(t *testing.T) {
	err := fmt.Errorf("request rejected: %w", &MissingTagsError{MissingTags: []string{"golang"}})

	if !errors.Is(err, ErrMissingTags) {
		t.Error("Expected errors.Is to match the sentinel through wrapping")
	}

	var typed *MissingTagsError
	if !errors.As(err, &typed) {
		t.Fatal("Expected errors.As to recover the typed error")
	}
	if len(typed.MissingTags) != 1 || typed.MissingTags[0] != "golang" {
		t.Errorf("Expected missing [golang], got %v", typed.MissingTags)
	}
}
