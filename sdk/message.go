package sdk

import (
	"context"
	"strconv"
)

// SendMessage sends a message to a conversation
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageInfo, error) {
	var result MessageInfo
	if err := c.post(ctx, "/messages", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendTextMessage is a convenience method to send a plain text message
func (c *Client) SendTextMessage(ctx context.Context, conversationId, text string) (*MessageInfo, error) {
	return c.SendMessage(ctx, &SendMessageRequest{
		ConversationId: conversationId,
		Content:        text,
	})
}

// listMessagesResponse wraps the message page envelope
type listMessagesResponse struct {
	Messages []*MessageInfo `json:"messages"`
}

// ListMessages fetches a page of messages. offset counts backwards from the
// newest message; the page itself runs oldest-first.
func (c *Client) ListMessages(ctx context.Context, conversationId string, limit, offset int) ([]*MessageInfo, error) {
	params := map[string]string{
		"conversation_id": conversationId,
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}
	if offset > 0 {
		params["offset"] = strconv.Itoa(offset)
	}

	var result listMessagesResponse
	if err := c.get(ctx, "/messages", params, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// EditMessage replaces the content of a message the caller sent
func (c *Client) EditMessage(ctx context.Context, messageId, content string) (*MessageInfo, error) {
	var result MessageInfo
	body := map[string]string{"content": content}
	if err := c.put(ctx, "/messages/"+messageId, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMessage deletes a message the caller sent. hard=true removes the
// row, otherwise the message is tombstoned in place.
func (c *Client) DeleteMessage(ctx context.Context, messageId string, hard bool) error {
	params := map[string]string{}
	if hard {
		params["hard"] = "true"
	}
	return c.delete(ctx, "/messages/"+messageId, params, nil)
}
