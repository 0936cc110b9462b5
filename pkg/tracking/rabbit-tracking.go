package tracking

import (
	"log"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/scoutly/creatorscout/pkg/messaging"
	"github.com/scoutly/creatorscout/pkg/types"
)

type RabbitTracking struct {
	connection *amqp.Connection
}

func NewRabbitTracking(url string) (*RabbitTracking, error) {
	ret := RabbitTracking{}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return messaging.DefineTopic(ch, "scout", messaging.SearchEvents)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) send(data any) error {
	return messaging.Publish(t.connection, "scout", messaging.SearchEvents, data)
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Event     uint16 `json:"event"`
}

type SessionEvent struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	err := t.send(SessionEvent{
		BaseEvent: &BaseEvent{Event: 0, SessionId: sessionId},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        ip,
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

type ApplyEvent struct {
	*BaseEvent
	Facets []types.FacetKey `json:"facets"`
}

func (t *RabbitTracking) TrackApply(sessionId string, facetKeys []types.FacetKey) {
	err := t.send(&ApplyEvent{
		BaseEvent: &BaseEvent{Event: 1, SessionId: sessionId},
		Facets:    facetKeys,
	})
	if err != nil {
		log.Println("Error sending apply event: ", err)
	}
}

func (t *RabbitTracking) TrackClear(sessionId string) {
	err := t.send(&BaseEvent{Event: 2, SessionId: sessionId})
	if err != nil {
		log.Println("Error sending clear event: ", err)
	}
}

type SearchEvent struct {
	*BaseEvent
	Facets          []types.FacetKey `json:"facets"`
	Sort            types.SortSpec   `json:"sort"`
	Page            int              `json:"page"`
	NumberOfResults int              `json:"noi"`
}

func (t *RabbitTracking) TrackSearch(sessionId string, query types.SearchQuery, totalCount int) {
	err := t.send(&SearchEvent{
		BaseEvent:       &BaseEvent{Event: 3, SessionId: sessionId},
		Facets:          query.Filters.Keys(),
		Sort:            query.Sort,
		Page:            query.Page,
		NumberOfResults: totalCount,
	})
	if err != nil {
		log.Println("Error sending search event: ", err)
	}
}
