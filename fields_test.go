package chassis

import (
	"testing"
	"time"
)

func TestKeyNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{KeyField.Field("login").Key().Name(), "field"},
		{KeyOperation.Field("update").Key().Name(), "operation"},
		{KeyRevision.Field(3).Key().Name(), "revision"},
		{KeyReason.Field("login_taken").Key().Name(), "reason"},
		{KeyOldStatus.Field("pending").Key().Name(), "old_status"},
		{KeyNewStatus.Field("valid").Key().Name(), "new_status"},
		{KeySubscriber.Field("id").Key().Name(), "subscriber"},
		{KeyState.Field("healthy").Key().Name(), "state"},
		{KeyOldState.Field("loading").Key().Name(), "old_state"},
		{KeyNewState.Field("healthy").Key().Name(), "new_state"},
		{KeyError.Field("boom").Key().Name(), "error"},
		{KeyDebounce.Field(100 * time.Millisecond).Key().Name(), "debounce"},
		{KeyContentType.Field("application/json").Key().Name(), "content_type"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected key %q, got %q", tt.want, tt.got)
		}
	}
}
