// Package sessiontags turns a GitHub Actions claim set into the session
// tags and role session name a trust broker passes to sts:AssumeRole.
package sessiontags

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/boogy/actions-oidc-claims/pkg/claims"
	"github.com/boogy/actions-oidc-claims/pkg/utils"
)

// STS limits for session tags and role session names.
const (
	MaxTags            = 50
	MaxTagKeyLength    = 128
	MaxTagValueLength  = 256
	MaxSessionNameSize = 64
)

var (
	invalidTagChars     = regexp.MustCompile(`[^[:alnum:]+=._:/@-]`)
	invalidSessionChars = regexp.MustCompile(`[^[:word:]+=,.@-]`)
)

// Tags creates session tags from the claims for audit trails and
// tag-based access control in role policies. Empty claims produce no tag.
// The result is sorted by key.
func Tags(c *claims.Claims) []types.Tag {
	if c == nil {
		return nil
	}

	_, repoName := utils.SplitRepository(c.Repository)

	tagMappings := map[string]string{
		"repo":               repoName,
		"repo-owner":         c.RepositoryOwner,
		"actor":              c.Actor,
		"ref":                c.GitRef,
		"ref-type":           c.RefType,
		"event-name":         c.EventName,
		"visibility":         c.RepositoryVisibility.String(),
		"runner-environment": c.RunnerEnvironment.String(),
	}
	if c.Environment != nil {
		tagMappings["environment"] = *c.Environment
	}

	tags := make([]types.Tag, 0, len(tagMappings))
	for key, value := range tagMappings {
		cleanKey := sanitizeTagValue(key, MaxTagKeyLength)
		cleanValue := sanitizeTagValue(value, MaxTagValueLength)
		if cleanKey == "" || cleanValue == "" {
			continue
		}

		tags = append(tags, types.Tag{
			Key:   aws.String(cleanKey),
			Value: aws.String(cleanValue),
		})
	}

	sort.Slice(tags, func(i, j int) bool {
		return aws.ToString(tags[i].Key) < aws.ToString(tags[j].Key)
	})

	if len(tags) > MaxTags {
		slog.Warn("Too many session tags generated, truncating",
			slog.Int("originalCount", len(tags)),
			slog.Int("max", MaxTags))
		tags = tags[:MaxTags]
	}

	return tags
}

// SessionName builds a role session name of the form prefix-runID-attempt,
// stripped to the characters STS accepts. Names longer than 64 characters
// keep their tail, where the run identifiers are.
func SessionName(prefix string, c *claims.Claims) string {
	parts := []string{prefix}
	if c != nil {
		parts = append(parts, c.RunID, c.RunAttempt)
	}

	var nonEmpty []string
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	name := invalidSessionChars.ReplaceAllLiteralString(strings.Join(nonEmpty, "-"), "")
	if len(name) > MaxSessionNameSize {
		return name[len(name)-MaxSessionNameSize:]
	}
	return name
}

// sanitizeTagValue sanitizes a tag value to comply with AWS session tag requirements
func sanitizeTagValue(value string, maxLength int) string {
	if value == "" {
		return ""
	}

	// AWS session tags allow alphanumeric characters plus: + - = . _ : / @
	sanitized := invalidTagChars.ReplaceAllLiteralString(value, "")

	if len(sanitized) > maxLength {
		return sanitized[:maxLength]
	}
	return sanitized
}
