package service

import "github.com/teamleaf/teamops/internal/entity"

// EventPublisher fans change events out to stream subscribers. The websocket
// gateway implements it; services hold it behind this interface so they can
// be tested without a running stream.
type EventPublisher interface {
	Publish(ev *entity.ChangeEvent)
}

// nopPublisher drops events. Used until a real publisher is attached.
type nopPublisher struct{}

func (nopPublisher) Publish(*entity.ChangeEvent) {}
