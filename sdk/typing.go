package sdk

import "context"

// AnnounceTyping announces the caller's typing state in a conversation.
// typing=true refreshes the typing window, typing=false clears it early.
func (c *Client) AnnounceTyping(ctx context.Context, conversationId string, typing bool) error {
	body := map[string]interface{}{
		"conversation_id": conversationId,
		"typing":          typing,
	}
	return c.post(ctx, "/typing", body, nil)
}

// activeTypistsResponse wraps the active typists envelope
type activeTypistsResponse struct {
	UserIds []string `json:"user_ids"`
}

// ActiveTypists returns users currently typing in a conversation
func (c *Client) ActiveTypists(ctx context.Context, conversationId string) ([]string, error) {
	params := map[string]string{"conversation_id": conversationId}
	var result activeTypistsResponse
	if err := c.get(ctx, "/typing", params, &result); err != nil {
		return nil, err
	}
	return result.UserIds, nil
}
