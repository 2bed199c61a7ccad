// Package github wraps the GitHub REST API for reading and writing issue labels.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"
)

// Client wraps the GitHub API client.
type Client struct {
	client *github.Client
}

// ListLabels returns every label attached to an issue or pull request.
func (c *Client) ListLabels(ctx context.Context, org, repo string, number int) ([]*github.Label, error) {
	var all []*github.Label
	opts := &github.ListOptions{PerPage: 100}

	for {
		labels, resp, err := c.client.Issues.ListLabelsByIssue(ctx, org, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list labels: %w", err)
		}
		all = append(all, labels...)
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// AddLabels adds labels to an issue.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabel removes a single label from an issue.
// Removing a label that is not present is not an error.
func (c *Client) RemoveLabel(ctx context.Context, org, repo string, number int, label string) error {
	if label == "" {
		return fmt.Errorf("label cannot be empty")
	}

	resp, err := c.client.Issues.RemoveLabelForIssue(ctx, org, repo, number, label)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to remove label: %w", err)
	}
	return nil
}

// GetFileContent fetches a file from a repository at the given ref.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file content: %w", err)
	}
	if file == nil {
		return nil, fmt.Errorf("path %s is a directory, not a file", path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}
	return []byte(content), nil
}
