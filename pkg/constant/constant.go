package constant

// Collections exposed by the record API and the change stream
const (
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionTyping        = "typing"
	CollectionPresence      = "presence"
	CollectionTimeOff       = "time_off"
	CollectionTimesheets    = "timesheets"
	CollectionHolidays      = "holidays"
	CollectionMeetings      = "meetings"
)

// Conversation types
const (
	ConversationTypeDirect  = "direct"
	ConversationTypeTeam    = "team"
	ConversationTypeProject = "project"
)

// Change event types
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// Time-off entry kinds
const (
	TimeOffVacation = "vacation"
	TimeOffSick     = "sick"
	TimeOffPersonal = "personal"
	TimeOffOther    = "other"
)

// Time-off entry statuses
const (
	TimeOffPending  = "pending"
	TimeOffApproved = "approved"
	TimeOffRejected = "rejected"
)

// Online status
const (
	StatusOffline = 0
	StatusOnline  = 1
)

// Direct conversation id prefix
const DirectConversationPrefix = "dc_"

// Redis key patterns (without prefix, use the RedisKey* getters for full keys)
const (
	redisKeyOnline      = "online:%s"      // online:{user_id}
	redisKeyOnlineConns = "online:conns:%s" // online:conns:{user_id}
	redisKeyTyping      = "typing:%s:%s"   // typing:{conversation_id}:{user_id}
	redisKeyUser        = "user:%s"        // user:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "teamops:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyOnline() string      { return redisKeyPrefix + redisKeyOnline }
func RedisKeyOnlineConns() string { return redisKeyPrefix + redisKeyOnlineConns }
func RedisKeyTyping() string      { return redisKeyPrefix + redisKeyTyping }
func RedisKeyUser() string        { return redisKeyPrefix + redisKeyUser }
