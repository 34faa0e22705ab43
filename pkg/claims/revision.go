package claims

import (
	"fmt"
	"strings"
)

// Revision selects which claims a document must carry. GitHub has changed
// the token shape over time; older tokens carried the header-style alg,
// kid and typ claims, always had the job_workflow_* claims, and predate
// the environment claim.
type Revision int

const (
	RevisionCurrent Revision = iota
	RevisionLegacy

	revisionCount
)

func (r Revision) String() string {
	switch r {
	case RevisionCurrent:
		return "current"
	case RevisionLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Revision(%d)", int(r))
	}
}

func (r Revision) valid() bool {
	return r >= 0 && r < revisionCount
}

// ParseRevision converts a revision name ("current" or "legacy") into a Revision.
func ParseRevision(name string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "current", "":
		return RevisionCurrent, nil
	case "legacy":
		return RevisionLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRevision, name)
	}
}

type presence uint8

const (
	required presence = iota
	optional
	absent // not part of the revision; the key, if sent, ends up in Extra
)

// claimField maps one wire key to its Claims field. presence is indexed
// by Revision.
type claimField struct {
	key      string
	presence [revisionCount]presence
	target   func(c *Claims) any
}

func always(key string, target func(c *Claims) any) claimField {
	return claimField{key: key, presence: [revisionCount]presence{required, required}, target: target}
}

func field(key string, current, legacy presence, target func(c *Claims) any) claimField {
	return claimField{key: key, presence: [revisionCount]presence{current, legacy}, target: target}
}

// claimFields is the wire table, in the order claims are checked.
var claimFields = []claimField{
	always("aud", func(c *Claims) any { return &c.Audience }),
	always("iss", func(c *Claims) any { return &c.Issuer }),
	always("sub", func(c *Claims) any { return &c.Subject }),
	always("exp", func(c *Claims) any { return &c.ExpiresAt }),
	always("iat", func(c *Claims) any { return &c.IssuedAt }),
	always("jti", func(c *Claims) any { return &c.TokenID }),
	always("nbf", func(c *Claims) any { return &c.NotBefore }),
	field("alg", absent, required, func(c *Claims) any { return &c.Algorithm }),
	field("kid", absent, required, func(c *Claims) any { return &c.KeyID }),
	field("typ", absent, required, func(c *Claims) any { return &c.Type }),
	always("actor", func(c *Claims) any { return &c.Actor }),
	always("actor_id", func(c *Claims) any { return &c.ActorID }),
	always("base_ref", func(c *Claims) any { return &c.BaseRef }),
	field("environment", optional, absent, func(c *Claims) any { return &c.Environment }),
	always("event_name", func(c *Claims) any { return &c.EventName }),
	always("head_ref", func(c *Claims) any { return &c.HeadRef }),
	field("job_workflow_ref", optional, required, func(c *Claims) any { return &c.JobWorkflowRef }),
	field("job_workflow_sha", optional, required, func(c *Claims) any { return &c.JobWorkflowSHA }),
	always("ref", func(c *Claims) any { return &c.GitRef }),
	field("ref_protected", optional, optional, func(c *Claims) any { return &c.RefProtected }),
	always("ref_type", func(c *Claims) any { return &c.RefType }),
	always("repository_visibility", func(c *Claims) any { return &c.RepositoryVisibility }),
	always("repository", func(c *Claims) any { return &c.Repository }),
	always("repository_id", func(c *Claims) any { return &c.RepositoryID }),
	always("repository_owner", func(c *Claims) any { return &c.RepositoryOwner }),
	always("repository_owner_id", func(c *Claims) any { return &c.RepositoryOwnerID }),
	always("run_id", func(c *Claims) any { return &c.RunID }),
	always("run_number", func(c *Claims) any { return &c.RunNumber }),
	always("run_attempt", func(c *Claims) any { return &c.RunAttempt }),
	always("runner_environment", func(c *Claims) any { return &c.RunnerEnvironment }),
	field("sha", optional, optional, func(c *Claims) any { return &c.SHA }),
	always("workflow", func(c *Claims) any { return &c.Workflow }),
	always("workflow_ref", func(c *Claims) any { return &c.WorkflowRef }),
	always("workflow_sha", func(c *Claims) any { return &c.WorkflowSHA }),
}
