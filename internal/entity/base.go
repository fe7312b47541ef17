package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/teamleaf/teamops/pkg/constant"
)

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// GenDirectConversationId generates the conversation Id for a direct chat.
// Format: dc_{min(userA,userB)}:{max(userA,userB)}
// The sorted pair makes direct conversations deduplicate per participant pair.
// Uses ":" as separator between userIds to support userIds containing "_"
func GenDirectConversationId(userA, userB string) string {
	users := []string{userA, userB}
	sort.Strings(users)
	return fmt.Sprintf("%s%s:%s", constant.DirectConversationPrefix, users[0], users[1])
}

// IsDirectConversation checks if conversation Id is for a direct chat
func IsDirectConversation(conversationId string) bool {
	return len(conversationId) > 3 && conversationId[:3] == constant.DirectConversationPrefix
}
