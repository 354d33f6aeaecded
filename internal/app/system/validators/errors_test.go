package validators

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestCommandCode(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", mongo.CommandError{Code: codeNamespaceExists, Message: "collection already exists"})
	if got := commandCode(wrapped); got != codeNamespaceExists {
		t.Errorf("commandCode = %d, want %d", got, codeNamespaceExists)
	}
	if got := commandCode(errors.New("boom")); got != 0 {
		t.Errorf("commandCode(plain) = %d, want 0", got)
	}
}

func TestUnsupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"command not found", mongo.CommandError{Code: codeCommandNotFound}, true},
		{"not implemented", mongo.CommandError{Code: codeNotImplemented}, true},
		{"message only", errors.New("collMod: no such command"), true},
		{"validation failure", mongo.CommandError{Code: 2, Message: "bad schema"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unsupported(tt.err); got != tt.want {
				t.Errorf("unsupported = %v, want %v", got, tt.want)
			}
		})
	}
}
