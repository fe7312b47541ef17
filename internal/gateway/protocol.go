package gateway

import "encoding/json"

// Request identifiers
const (
	WSSubscribe   int32 = 1
	WSUnsubscribe int32 = 2
	WSPushEvent   int32 = 10
)

// WSRequest represents a stream request message
type WSRequest struct {
	ReqIdentifier int32  `json:"req_identifier"` // Request type
	RequestId     string `json:"request_id"`     // Client request trace Id
	Data          []byte `json:"data"`           // Business data
}

// WSResponse represents a stream response or push envelope. Pushed change
// events use ReqIdentifier=WSPushEvent and carry a WSEvent in Data.
type WSResponse struct {
	ReqIdentifier int32  `json:"req_identifier"` // Request type (echo back)
	RequestId     string `json:"request_id"`     // Request Id (echo back)
	ErrCode       int    `json:"err_code"`       // Error code, 0 = success
	ErrMsg        string `json:"err_msg"`        // Error message
	Data          []byte `json:"data"`           // Response data
}

// SubscribeReq represents a subscribe request
type SubscribeReq struct {
	Collection     string `json:"collection"`
	ConversationId string `json:"conversation_id,omitempty"`
}

// SubscribeResp represents a subscribe response
type SubscribeResp struct {
	SubscriptionId string `json:"subscription_id"`
}

// UnsubscribeReq represents an unsubscribe request
type UnsubscribeReq struct {
	SubscriptionId string `json:"subscription_id"`
}

// WSEvent represents a pushed change event
type WSEvent struct {
	SubscriptionId string          `json:"subscription_id"`
	Type           string          `json:"type"`
	Collection     string          `json:"collection"`
	Record         json.RawMessage `json:"record"`
}

// Encode encodes data to JSON bytes
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes to struct
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
