package sdk

import (
	"context"
	"strings"
)

// SetOnline announces the caller as online or offline. Clients holding a
// stream connection do not need this; the server tracks their presence from
// the connection itself.
func (c *Client) SetOnline(ctx context.Context, online bool) error {
	body := map[string]bool{"online": online}
	return c.post(ctx, "/presence", body, nil)
}

// queryOnlineResponse wraps the presence query envelope
type queryOnlineResponse struct {
	Online map[string]bool `json:"online"`
}

// QueryOnline returns the online flag for a batch of users
func (c *Client) QueryOnline(ctx context.Context, userIds []string) (map[string]bool, error) {
	params := map[string]string{"ids": strings.Join(userIds, ",")}
	var result queryOnlineResponse
	if err := c.get(ctx, "/presence", params, &result); err != nil {
		return nil, err
	}
	return result.Online, nil
}
