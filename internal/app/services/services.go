// Package services holds the business logic behind the HTTP controllers.
//
// Services depend on the small store interfaces in stores.go and on a
// db.Transactor, so multi-row work (enrollment writes, class scheduling with
// its outbox messages, course deletion) commits atomically.
package services

import "github.com/yigit/academy/internal/pkg/websocket"

type nopPublisher struct{}

func (nopPublisher) Publish(websocket.Event) {}

func publisherOrNop(p websocket.Publisher) websocket.Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
