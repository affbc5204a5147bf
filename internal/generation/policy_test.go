package generation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLinearBackoff(t *testing.T) {
	b := LinearBackoff(time.Second)
	for i := 1; i <= 5; i++ {
		assert.Equal(t, time.Duration(i)*time.Second, b(i))
	}
}

func TestTableBackoff(t *testing.T) {
	b := TableBackoff(100*time.Millisecond, 300*time.Millisecond, time.Second)
	assert.Equal(t, 100*time.Millisecond, b(1))
	assert.Equal(t, 300*time.Millisecond, b(2))
	assert.Equal(t, time.Second, b(3))
	assert.Equal(t, time.Second, b(9))
	assert.Equal(t, time.Duration(0), TableBackoff()(1))
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 5, p.MaxRetries)
	assert.Empty(t, p.PrimaryModel)
	assert.Empty(t, p.FallbackModel)
	assert.Equal(t, 5*time.Second, p.Backoff(5))
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"no retries needs no backoff", Policy{MaxRetries: 0}, false},
		{"negative retries", Policy{MaxRetries: -1}, true},
		{"missing backoff", Policy{MaxRetries: 2}, true},
		{"flat backoff", Policy{MaxRetries: 3, Backoff: func(int) time.Duration { return time.Second }}, true},
		{"zero step", Policy{MaxRetries: 2, Backoff: LinearBackoff(0)}, true},
		{"short table", Policy{MaxRetries: 3, Backoff: TableBackoff(time.Second, 2*time.Second)}, true},
		{"full table", Policy{MaxRetries: 3, Backoff: TableBackoff(time.Second, 2*time.Second, 4*time.Second)}, false},
		{"decreasing table", Policy{MaxRetries: 2, Backoff: TableBackoff(2*time.Second, time.Second)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
