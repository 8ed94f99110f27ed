package models

const (
	EventInsert = "insert"
	EventUpdate = "update"
)

// OrderEvent is the change-feed payload carried over Kafka and SSE.
type OrderEvent struct {
	Type  string `json:"type"`
	Order Order  `json:"order"`
}

type NotificationEvent struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}
