package gh

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	github "github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"
)

const defaultUserAgent = "revcheck"

// NewRESTFactory returns a StatusReporter factory backed by the go-github
// REST client. When base and upload URLs are provided, the factory targets a
// GitHub Enterprise instance.
func NewRESTFactory(baseURL, uploadURL string) Factory {
	return &restFactory{
		userAgent: defaultUserAgent,
		baseURL:   strings.TrimSpace(baseURL),
		uploadURL: strings.TrimSpace(uploadURL),
	}
}

type restFactory struct {
	userAgent string
	baseURL   string
	uploadURL string
}

func (f *restFactory) New(ctx context.Context, token, owner, repo, statusContext string) (StatusReporter, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	var client *github.Client
	if f.baseURL != "" {
		if f.uploadURL == "" {
			return nil, fmt.Errorf("github upload url must be provided when base url is set")
		}

		base, err := normalizeGitHubURL(f.baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		upload, err := normalizeGitHubURL(f.uploadURL)
		if err != nil {
			return nil, fmt.Errorf("parse github upload url: %w", err)
		}

		client, err = github.NewClient(tc).WithEnterpriseURLs(base, upload)
		if err != nil {
			return nil, fmt.Errorf("construct enterprise github client: %w", err)
		}
	} else {
		if f.uploadURL != "" {
			return nil, fmt.Errorf("github upload url cannot be set without base url")
		}
		client = github.NewClient(tc)
	}

	if f.userAgent != "" {
		client.UserAgent = f.userAgent
	}

	return &restReporter{
		client:  client,
		owner:   owner,
		repo:    repo,
		context: StatusContext(statusContext),
	}, nil
}

func normalizeGitHubURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("url %q must include scheme and host", raw)
	}

	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return parsed.String(), nil
}

type restReporter struct {
	client  *github.Client
	owner   string
	repo    string
	context string
}

func (r *restReporter) ReportPending(ctx context.Context, sha string) error {
	return r.createStatus(ctx, sha, "pending", "checks are running")
}

func (r *restReporter) ReportResult(ctx context.Context, sha string, passed bool, description string) error {
	state := "failure"
	if passed {
		state = "success"
	}
	return r.createStatus(ctx, sha, state, description)
}

func (r *restReporter) createStatus(ctx context.Context, sha, state, description string) error {
	status := &github.RepoStatus{
		State:       github.String(state),
		Context:     github.String(r.context),
		Description: github.String(truncateDescription(description)),
	}

	_, _, err := r.client.Repositories.CreateStatus(ctx, r.owner, r.repo, sha, status)
	if err != nil {
		return fmt.Errorf("create commit status for %s: %w", sha, err)
	}
	return nil
}
