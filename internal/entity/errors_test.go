package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "not an image", err: ErrNotAnImage, want: KindValidation},
		{name: "too large", err: ErrFileTooLarge, want: KindValidation},
		{name: "too small", err: ErrImageTooSmall, want: KindValidation},
		{name: "unreadable dimensions", err: ErrUnreadableImage, want: KindValidation},
		{name: "missing configuration", err: ErrConfiguration, want: KindConfiguration},
		{name: "storage failure", err: ErrStorageFailure, want: KindStorage},
		{name: "database failure", err: ErrDatabaseFailure, want: KindDatabase},
		{name: "network failure", err: ErrNetworkFailure, want: KindNetwork},
		{name: "wrapped storage failure", err: fmt.Errorf("%w: connection reset", ErrStorageFailure), want: KindStorage},
		{name: "unknown error", err: errors.New("something else"), want: KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
