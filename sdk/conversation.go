package sdk

import "context"

// listConversationsResponse wraps the conversation list envelope
type listConversationsResponse struct {
	Conversations []*ConversationInfo `json:"conversations"`
}

// ListConversations fetches all conversations the caller participates in
func (c *Client) ListConversations(ctx context.Context) ([]*ConversationInfo, error) {
	var result listConversationsResponse
	if err := c.get(ctx, "/conversations", nil, &result); err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

// GetConversation fetches a single conversation
func (c *Client) GetConversation(ctx context.Context, conversationId string) (*ConversationInfo, error) {
	var result ConversationInfo
	if err := c.get(ctx, "/conversations/"+conversationId, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartDirectConversation starts (or returns the existing) direct
// conversation with a peer
func (c *Client) StartDirectConversation(ctx context.Context, peerId string) (*ConversationInfo, error) {
	var result ConversationInfo
	body := map[string]string{"peer_id": peerId}
	if err := c.post(ctx, "/conversations/direct", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkRead zeroes the caller's unread count for a conversation
func (c *Client) MarkRead(ctx context.Context, conversationId string) error {
	return c.post(ctx, "/conversations/"+conversationId+"/read", nil, nil)
}

// SetArchived archives or unarchives a conversation for the caller
func (c *Client) SetArchived(ctx context.Context, conversationId string, archived bool) error {
	body := map[string]bool{"archived": archived}
	return c.put(ctx, "/conversations/"+conversationId+"/archive", body, nil)
}
