package claims

// Visibility is the repository_visibility claim. GitHub may add values
// without notice, so any string is accepted and kept verbatim; use Known
// to tell the documented values from the rest.
type Visibility string

const (
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
)

// Known reports whether v is one of the documented visibility values.
func (v Visibility) Known() bool {
	switch v {
	case VisibilityInternal, VisibilityPrivate, VisibilityPublic:
		return true
	}
	return false
}

func (v Visibility) String() string {
	return string(v)
}

// RunnerEnvironment is the runner_environment claim. Like Visibility it is
// open: unrecognized values are preserved.
type RunnerEnvironment string

const (
	RunnerGitHubHosted RunnerEnvironment = "github-hosted"
	RunnerSelfHosted   RunnerEnvironment = "self-hosted"
)

// Known reports whether r is one of the documented runner types.
func (r RunnerEnvironment) Known() bool {
	switch r {
	case RunnerGitHubHosted, RunnerSelfHosted:
		return true
	}
	return false
}

func (r RunnerEnvironment) String() string {
	return string(r)
}
