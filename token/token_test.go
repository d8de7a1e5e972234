package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	svc, err := New("test-secret", 0)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue(Payload{Email: "voter@example.com", UserID: 42})
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	payload := svc.Verify(tok)
	require.NotNil(t, payload)
	assert.Equal(t, "voter@example.com", payload.Email)
	assert.Equal(t, uint(42), payload.UserID)
}

func TestVerify_TamperedToken(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	tok, err := svc.Issue(Payload{Email: "voter@example.com", UserID: 1})
	require.NoError(t, err)

	// Flip one byte of the signature.
	last := tok[len(tok)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	assert.Nil(t, svc.Verify(tok[:len(tok)-1]+string(flipped)))

	// Tamper with the payload segment.
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	parts[1] = "eyJmYWtlIjoicGF5bG9hZCJ9"
	assert.Nil(t, svc.Verify(strings.Join(parts, ".")))
}

func TestVerify_Expired(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)
	svc.ttl = -time.Minute

	tok, err := svc.Issue(Payload{Email: "voter@example.com", UserID: 1})
	require.NoError(t, err)
	assert.Nil(t, svc.Verify(tok))
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, err := New("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := New("secret-b", time.Hour)
	require.NoError(t, err)

	tok, err := issuer.Issue(Payload{Email: "voter@example.com", UserID: 1})
	require.NoError(t, err)
	assert.Nil(t, verifier.Verify(tok))
}

func TestVerify_Garbage(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	assert.Nil(t, svc.Verify(""))
	assert.Nil(t, svc.Verify("not-a-token"))
	assert.Nil(t, svc.Verify("a.b.c"))
}

func TestIssue_DistinctPayloadsDistinctTokens(t *testing.T) {
	svc, err := New("test-secret", time.Hour)
	require.NoError(t, err)

	tok1, err := svc.Issue(Payload{Email: "a@example.com", UserID: 1})
	require.NoError(t, err)
	tok2, err := svc.Issue(Payload{Email: "b@example.com", UserID: 2})
	require.NoError(t, err)
	assert.NotEqual(t, tok1, tok2)
}
