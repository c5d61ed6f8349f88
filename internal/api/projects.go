package api

import (
	"context"
	"fmt"
)

// Project is a test-management project record
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

// ProjectRequest is the payload for creating or updating a project
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by,omitempty"`
}

// Release is a release record belonging to a project
type Release struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ReleaseRequest is the payload for creating or updating a release
type ReleaseRequest struct {
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// GetProjectsForUser lists all projects assigned to a user
func (c *Client) GetProjectsForUser(ctx context.Context, username string) ([]Project, error) {
	var projects []Project
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/projects/all/%s/", username), nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject retrieves one project by id
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/projects/%d/", id), nil, &project); err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// AddProject creates a new project
func (c *Client) AddProject(ctx context.Context, req ProjectRequest) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, "POST", "/projects/", req, &project); err != nil {
		return nil, fmt.Errorf("failed to add project: %w", err)
	}
	return &project, nil
}

// UpdateProject updates an existing project
func (c *Client) UpdateProject(ctx context.Context, id int64, req ProjectRequest) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/projects/%d/", id), req, &project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &project, nil
}

// DeleteProject deletes a project
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/projects/%d/", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// GetReleasesByProject lists all releases for a project
func (c *Client) GetReleasesByProject(ctx context.Context, projectID int64) ([]Release, error) {
	var releases []Release
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/projects/releases/all/%d/", projectID), nil, &releases); err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	return releases, nil
}

// GetRelease retrieves one release by id
func (c *Client) GetRelease(ctx context.Context, id int64) (*Release, error) {
	var release Release
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/projects/releases/%d/", id), nil, &release); err != nil {
		return nil, fmt.Errorf("failed to get release: %w", err)
	}
	return &release, nil
}

// AddRelease creates a new release
func (c *Client) AddRelease(ctx context.Context, req ReleaseRequest) (*Release, error) {
	var release Release
	if err := c.doJSON(ctx, "POST", "/projects/releases/", req, &release); err != nil {
		return nil, fmt.Errorf("failed to add release: %w", err)
	}
	return &release, nil
}

// UpdateRelease updates an existing release
func (c *Client) UpdateRelease(ctx context.Context, id int64, req ReleaseRequest) (*Release, error) {
	var release Release
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/projects/releases/%d/", id), req, &release); err != nil {
		return nil, fmt.Errorf("failed to update release: %w", err)
	}
	return &release, nil
}

// DeleteRelease deletes a release
func (c *Client) DeleteRelease(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/projects/releases/%d/", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete release: %w", err)
	}
	return nil
}
