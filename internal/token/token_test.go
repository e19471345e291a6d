package token

import (
	"testing"
	"time"

	"github.com/fauzanhakim/ratebase/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *entity.User {
	return &entity.User{
		ID:        uuid.New(),
		Username:  "reader",
		Email:     "reader@example.com",
		UpdatedAt: time.Now(),
	}
}

func TestCodeEngineIssueIsDeterministic(t *testing.T) {
	engine := NewCodeEngine("test-secret")
	u := testUser()

	first := engine.Issue(u)
	second := engine.Issue(u)

	assert.Equal(t, first, second)
	assert.Len(t, first, 40)
	assert.True(t, engine.Verify(u, first))
}

func TestCodeEngineRejectsWrongCode(t *testing.T) {
	engine := NewCodeEngine("test-secret")
	u := testUser()

	assert.False(t, engine.Verify(u, "not-a-real-code"))
	assert.False(t, engine.Verify(u, ""))
}

func TestCodeEngineInvalidatesOnUserChange(t *testing.T) {
	engine := NewCodeEngine("test-secret")
	u := testUser()
	code := engine.Issue(u)

	u.UpdatedAt = u.UpdatedAt.Add(time.Second)
	assert.False(t, engine.Verify(u, code))
}

func TestCodeEngineSurvivesTimestampStoreRoundTrip(t *testing.T) {
	engine := NewCodeEngine("test-secret")
	u := testUser()
	u.UpdatedAt = time.Unix(1700000000, 123456789)

	code := engine.Issue(u)

	// Postgres keeps timestamps at microsecond precision, so the row read
	// back has the nanosecond digits dropped. The code issued before the
	// round trip must still verify against it.
	reloaded := *u
	reloaded.UpdatedAt = u.UpdatedAt.Truncate(time.Microsecond)
	assert.True(t, engine.Verify(&reloaded, code))

	// A genuine update at the stored precision still invalidates.
	reloaded.UpdatedAt = reloaded.UpdatedAt.Add(time.Microsecond)
	assert.False(t, engine.Verify(&reloaded, code))
}

func TestCodeEngineSecretsAreIndependent(t *testing.T) {
	u := testUser()
	code := NewCodeEngine("secret-a").Issue(u)
	assert.False(t, NewCodeEngine("secret-b").Verify(u, code))
}

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	userID := uuid.New()

	tokenString, err := issuer.Issue(userID)
	require.NoError(t, err)

	parsed, err := issuer.Parse(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestIssuerRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	tokenString, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Parse(tokenString)
	assert.Error(t, err)
}

func TestIssuerRejectsForeignSignature(t *testing.T) {
	tokenString, err := NewIssuer("secret-a", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).Parse(tokenString)
	assert.Error(t, err)
}

func TestIssuerRejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := issuer.Parse("definitely.not.ajwt")
	assert.Error(t, err)
}
