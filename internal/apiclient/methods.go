package apiclient

import "context"

// Typed wrappers around Call for the platform methods the plugin chain
// actually invokes (spec §6 "Methods used").

func (c *Client) GetMe(ctx context.Context) Result {
	return c.Call(ctx, "getMe", map[string]any{})
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) Result {
	return c.Call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID string) Result {
	return c.Call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	})
}

func (c *Client) EditMessageText(ctx context.Context, chatID, messageID, text string) Result {
	return c.Call(ctx, "editMessageText", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	})
}

func (c *Client) EditInlineKeypad(ctx context.Context, chatID, messageID string, keypad map[string]any) Result {
	return c.Call(ctx, "editInlineKeypad", map[string]any{
		"chat_id":      chatID,
		"message_id":   messageID,
		"inline_keypad": keypad,
	})
}

func (c *Client) EditChatKeypad(ctx context.Context, chatID string, keypad map[string]any) Result {
	return c.Call(ctx, "editChatKeypad", map[string]any{
		"chat_id":    chatID,
		"chat_keypad": keypad,
	})
}

func (c *Client) BanChatMember(ctx context.Context, chatID, userID string) Result {
	return c.Call(ctx, "banChatMember", map[string]any{
		"chat_id": chatID,
		"user_id": userID,
	})
}

func (c *Client) UnbanChatMember(ctx context.Context, chatID, userID string) Result {
	return c.Call(ctx, "unbanChatMember", map[string]any{
		"chat_id": chatID,
		"user_id": userID,
	})
}

func (c *Client) SetCommands(ctx context.Context, commands []map[string]string) Result {
	return c.Call(ctx, "setCommands", map[string]any{
		"bot_commands": commands,
	})
}

func (c *Client) UpdateBotEndpoints(ctx context.Context, url, endpointType string) Result {
	return c.Call(ctx, "updateBotEndpoints", map[string]any{
		"url":  url,
		"type": endpointType,
	})
}
