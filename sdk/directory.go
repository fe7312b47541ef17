package sdk

import (
	"context"
	"strings"
)

// GetMe fetches the caller's own profile
func (c *Client) GetMe(ctx context.Context) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser fetches a single directory profile
func (c *Client) GetUser(ctx context.Context, userId string) (*UserInfo, error) {
	var result UserInfo
	if err := c.get(ctx, "/users/"+userId, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getUsersResponse wraps the batch profile envelope
type getUsersResponse struct {
	Users []*UserInfo `json:"users"`
}

// GetUsers fetches a batch of directory profiles
func (c *Client) GetUsers(ctx context.Context, userIds []string) ([]*UserInfo, error) {
	params := map[string]string{"ids": strings.Join(userIds, ",")}
	var result getUsersResponse
	if err := c.get(ctx, "/users/batch", params, &result); err != nil {
		return nil, err
	}
	return result.Users, nil
}

// UpdateProfileRequest represents a profile update
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// UpdateProfile updates the caller's own profile
func (c *Client) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) error {
	return c.put(ctx, "/users/me", req, nil)
}

// CreateTeamRequest represents a create team request
type CreateTeamRequest struct {
	Name      string   `json:"name"`
	MemberIds []string `json:"member_ids"`
}

// CreateTeam creates a team and its team conversation
func (c *Client) CreateTeam(ctx context.Context, req *CreateTeamRequest) (*TeamInfo, error) {
	var result TeamInfo
	if err := c.post(ctx, "/teams", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTeam fetches a team
func (c *Client) GetTeam(ctx context.Context, teamId string) (*TeamInfo, error) {
	var result TeamInfo
	if err := c.get(ctx, "/teams/"+teamId, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddTeamMember adds a user to a team and its team conversation
func (c *Client) AddTeamMember(ctx context.Context, teamId, userId string) error {
	body := map[string]string{"user_id": userId}
	return c.post(ctx, "/teams/"+teamId+"/members", body, nil)
}
