package claimstest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/boogy/actions-oidc-claims/pkg/claims"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New()

	assert.Equal(t, claims.Issuer, c.Issuer)
	assert.Equal(t, claims.VisibilityPublic, c.RepositoryVisibility)
	assert.Equal(t, claims.RunnerGitHubHosted, c.RunnerEnvironment)
	assert.Empty(t, c.Subject, "no repository means no derived subject")

	_, err := uuid.Parse(c.TokenID)
	assert.NoError(t, err)
	assert.NotEqual(t, c.TokenID, New().TokenID)
}

func TestSubject(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		expected string
	}{
		{
			name:     "branch",
			opts:     []Option{WithRepository("acme", "app")},
			expected: "repo:acme/app:ref:refs/heads/main",
		},
		{
			name:     "tag",
			opts:     []Option{WithRepository("acme", "app"), WithRef("refs/tags/v1.2.0")},
			expected: "repo:acme/app:ref:refs/tags/v1.2.0",
		},
		{
			name:     "environment",
			opts:     []Option{WithRepository("acme", "app"), WithEnvironment("production")},
			expected: "repo:acme/app:environment:production",
		},
		{
			name:     "explicit",
			opts:     []Option{WithRepository("acme", "app"), WithSubject("repo:acme/app:pull_request")},
			expected: "repo:acme/app:pull_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.opts...).Subject)
		})
	}
}

func TestOptions(t *testing.T) {
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c := New(
		WithRef("refs/tags/v2.0.0"),
		WithRepository("acme", "app"),
		WithActor("octocat"),
		WithEvent("workflow_dispatch"),
		WithReusableWorkflow("acme/shared/.github/workflows/release.yml@refs/heads/main", "cafebabe"),
		WithVisibility(claims.VisibilityInternal),
		WithRunnerEnvironment(claims.RunnerSelfHosted),
		WithRun(100, 7, 3),
		WithIssuedAt(issued, 5*time.Minute),
		WithClaim("enterprise", "acme-corp"),
	)

	assert.Equal(t, "tag", c.RefType)
	assert.Equal(t, "acme/app", c.Repository)
	assert.Equal(t, "acme", c.RepositoryOwner)
	assert.NotEmpty(t, c.RepositoryID)
	assert.Equal(t, c.RepositoryID, New(WithRepository("acme", "app")).RepositoryID)
	assert.Equal(t, "acme/app/.github/workflows/ci.yml@refs/tags/v2.0.0", c.WorkflowRef)
	assert.Equal(t, "octocat", c.Actor)
	assert.NotEmpty(t, c.ActorID)
	assert.Equal(t, "workflow_dispatch", c.EventName)
	require.NotNil(t, c.JobWorkflowRef)
	assert.Equal(t, "cafebabe", *c.JobWorkflowSHA)
	assert.Equal(t, claims.VisibilityInternal, c.RepositoryVisibility)
	assert.Equal(t, claims.RunnerSelfHosted, c.RunnerEnvironment)
	assert.Equal(t, "100", c.RunID)
	assert.Equal(t, "7", c.RunNumber)
	assert.Equal(t, "3", c.RunAttempt)
	assert.Equal(t, float64(issued.Unix()), c.IssuedAt)
	assert.Equal(t, float64(issued.Unix()), c.NotBefore)
	assert.Equal(t, float64(issued.Add(5*time.Minute).Unix()), c.ExpiresAt)
	assert.JSONEq(t, `"acme-corp"`, string(c.Extra["enterprise"]))

	data, err := claims.Encode(c)
	require.NoError(t, err)
	decoded, err := claims.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestWithClaimPanicsOnUnencodableValue(t *testing.T) {
	assert.Panics(t, func() {
		WithClaim("bad", make(chan int))
	})
}

func TestSignRS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	original := New(WithRepository("acme", "app"), WithAudience("sts.amazonaws.com"))
	token, err := Sign(original, jwt.SigningMethodRS256, key, "test-key-001")
	require.NoError(t, err)

	var parsed claims.Claims
	tok, err := jwt.ParseWithClaims(token, &parsed, func(tok *jwt.Token) (any, error) {
		assert.Equal(t, "test-key-001", tok.Header["kid"])
		return &key.PublicKey, nil
	})
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, original, &parsed)
}

func TestSignPayloadUsesWireNames(t *testing.T) {
	original := New(WithRepository("acme", "app"))
	token, err := Sign(original, jwt.SigningMethodHS256, []byte("secret"), "")
	require.NoError(t, err)

	tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "refs/heads/main", mapClaims["ref"])
	assert.Equal(t, "public", mapClaims["repository_visibility"])
	assert.Equal(t, "github-hosted", mapClaims["runner_environment"])
	assert.NotContains(t, mapClaims, "kid")

	raw, err := json.Marshal(mapClaims)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "GitRef")
}

func TestSignError(t *testing.T) {
	_, err := Sign(New(), jwt.SigningMethodHS256, "not-a-byte-slice", "")
	assert.Error(t, err)
}
