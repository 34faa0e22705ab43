// Package claims models the payload of the OIDC token GitHub Actions issues
// to workflow jobs, as consumed by cloud trust brokers for workload
// identity federation.
//
// The package only maps the claim set to and from JSON. It does not verify
// signatures, check expiry or make access decisions; callers do that.
//
// Claim reference:
// https://docs.github.com/en/actions/deployment/security-hardening-your-deployments/about-security-hardening-with-openid-connect#understanding-the-oidc-token
package claims

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/boogy/actions-oidc-claims/pkg/utils"
)

// Issuer is the iss claim of every token GitHub Actions issues on github.com.
const Issuer = "https://token.actions.githubusercontent.com"

// Claims is the claim set of a GitHub Actions OIDC token.
//
// Optional claims are pointers; nil means the claim was absent (or null).
type Claims struct {
	// Standard claims. Audience defaults to the repository owner URL and is
	// the only claim a workflow can customize; Subject is what trust
	// policies usually match on.
	Audience  string  `json:"aud"`
	Issuer    string  `json:"iss"`
	Subject   string  `json:"sub"`
	ExpiresAt float64 `json:"exp"`
	IssuedAt  float64 `json:"iat"`
	TokenID   string  `json:"jti"`
	NotBefore float64 `json:"nbf"`

	// Header-style claims, only carried by legacy tokens
	Algorithm *string `json:"alg,omitempty"`
	KeyID     *string `json:"kid,omitempty"`
	Type      *string `json:"typ,omitempty"`

	// GitHub claims. Environment is set only when the job references an
	// environment, the JobWorkflow pair only for reusable workflows.
	Actor                string            `json:"actor"`
	ActorID              string            `json:"actor_id"`
	BaseRef              string            `json:"base_ref"`
	Environment          *string           `json:"environment,omitempty"`
	EventName            string            `json:"event_name"`
	HeadRef              string            `json:"head_ref"`
	JobWorkflowRef       *string           `json:"job_workflow_ref,omitempty"`
	JobWorkflowSHA       *string           `json:"job_workflow_sha,omitempty"`
	GitRef               string            `json:"ref"`
	RefProtected         *string           `json:"ref_protected,omitempty"`
	RefType              string            `json:"ref_type"`
	RepositoryVisibility Visibility        `json:"repository_visibility"`
	Repository           string            `json:"repository"`
	RepositoryID         string            `json:"repository_id"`
	RepositoryOwner      string            `json:"repository_owner"`
	RepositoryOwnerID    string            `json:"repository_owner_id"`
	RunID                string            `json:"run_id"`
	RunNumber            string            `json:"run_number"`
	RunAttempt           string            `json:"run_attempt"`
	RunnerEnvironment    RunnerEnvironment `json:"runner_environment"`
	SHA                  *string           `json:"sha,omitempty"`
	Workflow             string            `json:"workflow"`
	WorkflowRef          string            `json:"workflow_ref"`
	WorkflowSHA          string            `json:"workflow_sha"`

	// Extra holds claims this model does not know about. They are written
	// back by MarshalJSON so a decode/encode cycle loses nothing.
	Extra map[string]json.RawMessage `json:"-"`
}

// Decode parses a claims document using the current revision.
func Decode(data []byte) (*Claims, error) {
	return DecodeRevision(data, RevisionCurrent)
}

// DecodeRevision parses a claims document, enforcing the required claims of rev.
func DecodeRevision(data []byte, rev Revision) (*Claims, error) {
	if !rev.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRevision, int(rev))
	}

	var c Claims
	if err := c.decode(data, rev); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode returns the canonical JSON form of c.
func Encode(c *Claims) ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalJSON decodes using the current revision.
func (c *Claims) UnmarshalJSON(data []byte) error {
	return c.decode(data, RevisionCurrent)
}

// MarshalJSON writes the modelled claims merged with Extra. An Extra key
// never replaces a modelled claim.
func (c Claims) MarshalJSON() ([]byte, error) {
	type wire Claims

	data, err := json.Marshal(wire(c))
	if err != nil || len(c.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range c.Extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}

	return json.Marshal(merged)
}

func (c *Claims) decode(data []byte, rev Revision) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Debug("Rejected malformed claims document",
			slog.String("error", err.Error()),
			slog.String("bodyPreview", utils.TruncateString(string(data), 100)))
		return &DecodeError{Kind: ErrMalformed, Err: err}
	}
	if raw == nil {
		return &DecodeError{Kind: ErrMalformed}
	}

	var out Claims
	for _, f := range claimFields {
		p := f.presence[rev]
		if p == absent {
			continue
		}

		value, ok := raw[f.key]
		if !ok || isNull(value) {
			if p == required {
				return &DecodeError{Field: f.key, Kind: ErrMissingField}
			}
			delete(raw, f.key)
			continue
		}

		if err := json.Unmarshal(value, f.target(&out)); err != nil {
			return &DecodeError{Field: f.key, Kind: ErrFieldType, Err: err}
		}
		delete(raw, f.key)
	}

	if len(raw) > 0 {
		out.Extra = raw
	}

	if !out.RepositoryVisibility.Known() {
		slog.Debug("Unrecognized repository visibility, keeping it verbatim",
			slog.String("value", out.RepositoryVisibility.String()))
	}
	if !out.RunnerEnvironment.Known() {
		slog.Debug("Unrecognized runner environment, keeping it verbatim",
			slog.String("value", out.RunnerEnvironment.String()))
	}

	*c = out
	return nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// Branch returns the branch name of GitRef ("refs/heads/main" -> "main").
// Tag and pull request refs are returned unchanged.
func (c *Claims) Branch() string {
	return utils.ExtractBranchFromRef(c.GitRef)
}

// LogValue implements slog.LogValuer with the claims that identify the run.
func (c *Claims) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("repository", c.Repository),
		slog.String("ref", c.GitRef),
		slog.String("branch", c.Branch()),
		slog.String("actor", c.Actor),
		slog.String("workflow", c.Workflow),
		slog.String("runId", c.RunID),
		slog.String("runAttempt", c.RunAttempt),
		slog.String("subject", c.Subject),
		slog.String("tokenId", c.TokenID),
	)
}
