package source

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/chipkajb/mr-bot/internal/model"
)

// GitHub fetches pull request changes from the GitHub API.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	log    *zap.Logger
}

// NewGitHub builds a client for the given owner/name repository. baseURL is
// only needed for enterprise instances; token may be empty for public repos.
func NewGitHub(repo, token, baseURL string, log *zap.Logger) (*GitHub, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repository must be owner/name, got %q", repo)
	}

	var httpClient = oauth2.NewClient(context.Background(), nil)
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URL: %w", err)
		}
	}

	return &GitHub{client: client, owner: owner, repo: name, log: log}, nil
}

// PullRequest fetches the metadata and per-file changes of a pull request.
// File patches come back from the API as bare fragments starting at the hunk
// header, which the parser accepts as-is.
func (g *GitHub) PullRequest(ctx context.Context, number int) (model.ReviewRequest, []model.FileChange, error) {
	pr, _, err := g.client.PullRequests.Get(ctx, g.owner, g.repo, number)
	if err != nil {
		return model.ReviewRequest{}, nil, fmt.Errorf("fetching pull request %d: %w", number, err)
	}

	req := model.ReviewRequest{
		ID:           strconv.Itoa(number),
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		SourceBranch: pr.GetHead().GetRef(),
		TargetBranch: pr.GetBase().GetRef(),
		Description:  pr.GetBody(),
		WebURL:       pr.GetHTMLURL(),
	}

	var changes []model.FileChange
	opts := &github.ListOptions{PerPage: 100}
	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, g.owner, g.repo, number, opts)
		if err != nil {
			return model.ReviewRequest{}, nil, fmt.Errorf("listing files for pull request %d: %w", number, err)
		}
		for _, f := range files {
			changes = append(changes, commitFileChange(f))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	g.log.Debug("fetched pull request",
		zap.Int("number", number),
		zap.Int("files", len(changes)))

	return req, changes, nil
}

func commitFileChange(f *github.CommitFile) model.FileChange {
	fc := model.FileChange{
		Path:      f.GetFilename(),
		Diff:      f.GetPatch(),
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
	}
	fc.SizeBytes = int64(len(fc.Diff))

	switch f.GetStatus() {
	case "added":
		fc.Kind = model.ChangeAdded
	case "removed":
		fc.Kind = model.ChangeDeleted
	case "renamed":
		fc.Kind = model.ChangeRenamed
		fc.OldPath = f.GetPreviousFilename()
	default:
		fc.Kind = model.ChangeModified
	}

	return fc
}
