package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJWT(t *testing.T) {
	valid, err := GenerateJWT("teacher-1", RoleTeacher, "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT("teacher-1", RoleTeacher, "secret", -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr bool
	}{
		{name: "valid token", token: valid, secret: "secret"},
		{name: "wrong secret", token: valid, secret: "other", wantErr: true},
		{name: "expired token", token: expired, secret: "secret", wantErr: true},
		{name: "garbage", token: "lmaooolol", secret: "secret", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseJWT(tt.token, tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "teacher-1", claims.UserID)
			assert.Equal(t, RoleTeacher, claims.Role)
		})
	}
}
