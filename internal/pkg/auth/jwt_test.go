package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/projecttracker/internal/pkg/apperrors"
)

func newTestService(now time.Time) *JWTService {
	svc := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "uspt"})
	svc.now = func() time.Time { return now }
	return svc
}

func TestJWTService_RoundTrip(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(issued)

	token, err := svc.GenerateToken("user-1", "student")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, issued.Add(DefaultTokenExpiration), claims.ExpiresAt.Time.UTC())
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_Expired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(issued)

	token, err := svc.GenerateToken("user-1", "student")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(31 * 24 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := newTestService(time.Now())

	other := NewJWTService(JWTConfig{SecretKey: "another-secret"})
	foreign, err := other.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	noRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	noRoleToken, err := noRole.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", apperrors.ErrTokenInvalid},
		{"malformed", "not-a-jwt", apperrors.ErrInvalidFormat},
		{"wrong secret", foreign, apperrors.ErrTokenInvalid},
		{"missing role", noRoleToken, apperrors.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc", "", true},
		{"abc.def.ghi", "", true},
		{"Bearer ", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}
