// Package claimstest builds claim sets and signed tokens for tests of code
// that consumes GitHub Actions OIDC tokens.
package claimstest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/boogy/actions-oidc-claims/pkg/claims"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Option adjusts a claim set built by New.
type Option func(c *claims.Claims)

// New starts from claims.MakeDummy, sets the GitHub issuer and a random
// token ID, then applies opts. When a repository is set and no option
// chose them, sub and workflow_ref are derived the way GitHub fills them.
func New(opts ...Option) *claims.Claims {
	c := claims.MakeDummy()
	c.Issuer = claims.Issuer
	c.TokenID = uuid.NewString()

	for _, opt := range opts {
		opt(c)
	}

	if c.Repository != "" {
		if c.Subject == "" {
			c.Subject = Subject(c)
		}
		if c.WorkflowRef == "" {
			c.WorkflowRef = c.Repository + "/.github/workflows/ci.yml@" + c.GitRef
		}
	}
	return c
}

// Subject returns GitHub's default sub claim for c: the environment form
// when the job uses an environment, the ref form otherwise.
func Subject(c *claims.Claims) string {
	if c.Environment != nil {
		return fmt.Sprintf("repo:%s:environment:%s", c.Repository, *c.Environment)
	}
	return fmt.Sprintf("repo:%s:ref:%s", c.Repository, c.GitRef)
}

func WithAudience(audience string) Option {
	return func(c *claims.Claims) {
		c.Audience = audience
	}
}

func WithSubject(subject string) Option {
	return func(c *claims.Claims) {
		c.Subject = subject
	}
}

// WithRepository sets the repository claims. IDs are filled with stable
// values derived from the names so two builds of the same repository match.
func WithRepository(owner, name string) Option {
	return func(c *claims.Claims) {
		c.Repository = owner + "/" + name
		c.RepositoryOwner = owner
		c.RepositoryID = stableID(c.Repository)
		c.RepositoryOwnerID = stableID(owner)
	}
}

// WithRef sets ref and ref_type. Refs under refs/tags/ are typed "tag",
// everything else "branch".
func WithRef(ref string) Option {
	return func(c *claims.Claims) {
		c.GitRef = ref
		c.RefType = "branch"
		if strings.HasPrefix(ref, "refs/tags/") {
			c.RefType = "tag"
		}
	}
}

func WithActor(actor string) Option {
	return func(c *claims.Claims) {
		c.Actor = actor
		c.ActorID = stableID(actor)
	}
}

func WithEvent(eventName string) Option {
	return func(c *claims.Claims) {
		c.EventName = eventName
	}
}

func WithEnvironment(environment string) Option {
	return func(c *claims.Claims) {
		c.Environment = &environment
	}
}

// WithReusableWorkflow sets the job_workflow_ref and job_workflow_sha claims.
func WithReusableWorkflow(ref, sha string) Option {
	return func(c *claims.Claims) {
		c.JobWorkflowRef = &ref
		c.JobWorkflowSHA = &sha
	}
}

func WithVisibility(visibility claims.Visibility) Option {
	return func(c *claims.Claims) {
		c.RepositoryVisibility = visibility
	}
}

func WithRunnerEnvironment(runner claims.RunnerEnvironment) Option {
	return func(c *claims.Claims) {
		c.RunnerEnvironment = runner
	}
}

func WithRun(id, number, attempt int) Option {
	return func(c *claims.Claims) {
		c.RunID = strconv.Itoa(id)
		c.RunNumber = strconv.Itoa(number)
		c.RunAttempt = strconv.Itoa(attempt)
	}
}

// WithIssuedAt sets iat and nbf to issued and exp to issued+ttl.
func WithIssuedAt(issued time.Time, ttl time.Duration) Option {
	return func(c *claims.Claims) {
		c.IssuedAt = float64(issued.Unix())
		c.NotBefore = c.IssuedAt
		c.ExpiresAt = float64(issued.Add(ttl).Unix())
	}
}

// WithClaim adds an unmodelled claim to Extra. It panics if value cannot
// be encoded as JSON.
func WithClaim(key string, value any) Option {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("claimstest: cannot encode claim %q: %v", key, err))
	}

	return func(c *claims.Claims) {
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage)
		}
		c.Extra[key] = raw
	}
}

// Sign returns c as a compact JWS signed with key. keyID, when set, is
// written to the kid header.
func Sign(c *claims.Claims, method jwt.SigningMethod, key any, keyID string) (string, error) {
	token := jwt.NewWithClaims(method, c)
	if keyID != "" {
		token.Header["kid"] = keyID
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign claims: %w", err)
	}
	return signed, nil
}

func stableID(name string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
	return strconv.FormatUint(uint64(id.ID()), 10)
}
