package analysis

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"
)

// Fatal fetch error kinds. Only the repository metadata lookup produces them.
var (
	ErrNotFound       = errors.New("repository not found")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrTransientFetch = errors.New("failed to fetch repository")
)

// FetchError reports a fatal failure to load a repository.
// It matches one of the kind sentinels with errors.Is.
type FetchError struct {
	Repo string
	Kind error
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("repository %s not found. Make sure it exists and is public", e.Repo)
	case ErrRateLimited:
		return "GitHub rate limit exceeded. Please try again later"
	default:
		return fmt.Sprintf("failed to fetch repository %s: %v", e.Repo, e.Err)
	}
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyFetchError maps a metadata lookup failure onto a FetchError.
func ClassifyFetchError(repo string, err error) *FetchError {
	fe := &FetchError{Repo: repo, Kind: ErrTransientFetch, Err: err}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		fe.Kind = ErrRateLimited
	case errors.As(err, &respErr) && respErr.Response != nil:
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			fe.Kind = ErrNotFound
		case http.StatusForbidden, http.StatusTooManyRequests:
			fe.Kind = ErrRateLimited
		}
	}
	return fe
}
