package analytics

import (
	"time"

	"github.com/serroba/shortref/internal/shortener"
)

// TopicAccessed carries one AccessEvent per resolved code.
const TopicAccessed = "shortref.accessed"

// AccessEvent is the wire form of a shortener.Access.
type AccessEvent struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	AccessedAt time.Time `json:"accessedAt"`
	Referrer   string    `json:"referrer,omitempty"`
	ClientIP   string    `json:"clientIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
}

func NewAccessEvent(code shortener.Code, access shortener.Access) *AccessEvent {
	return &AccessEvent{
		ID:         access.ID,
		Code:       string(code),
		AccessedAt: access.At,
		Referrer:   access.Referrer,
		ClientIP:   access.ClientIP,
		UserAgent:  access.UserAgent,
	}
}

func (e *AccessEvent) Access() shortener.Access {
	return shortener.Access{
		ID:        e.ID,
		Code:      shortener.Code(e.Code),
		At:        e.AccessedAt,
		Referrer:  e.Referrer,
		ClientIP:  e.ClientIP,
		UserAgent: e.UserAgent,
	}
}
