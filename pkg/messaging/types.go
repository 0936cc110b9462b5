package messaging

type ChangeTopic = string

const (
	SearchEvents ChangeTopic = "search_events"
)
