package claims

// Placeholder timestamps used by MakeDummy.
const (
	DummyExpiresAt = 33247274880 // year 3023
	DummyIssuedAt  = 1690366107
)

// MakeDummy returns a claim set with every required claim filled in and
// every optional claim unset.
//
// It is a starting point for tests, not a sample token: most strings are
// empty and the values do not resemble what GitHub issues. Callers are
// expected to adjust the fields they care about.
func MakeDummy() *Claims {
	return &Claims{
		ExpiresAt:            DummyExpiresAt,
		IssuedAt:             DummyIssuedAt,
		NotBefore:            DummyIssuedAt,
		GitRef:               "refs/heads/main",
		RefType:              "branch",
		RepositoryVisibility: VisibilityPublic,
		RunAttempt:           "1",
		RunnerEnvironment:    RunnerGitHubHosted,
	}
}
