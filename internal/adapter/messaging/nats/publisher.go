package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectListingCreated     = "car.listing.created"
	SubjectListingUpdated     = "car.listing.updated"
	SubjectListingDeactivated = "car.listing.deactivated"
)

// ListingEvent is the payload published on listing lifecycle subjects.
type ListingEvent struct {
	ListingID string    `json:"listing_id"`
	OwnerID   string    `json:"owner_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	At        time.Time `json:"at"`
}

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, jsonData)
}

func (p *Publisher) PublishListingEvent(ctx context.Context, subject, listingID, ownerID, make, model string) error {
	return p.Publish(ctx, subject, ListingEvent{
		ListingID: listingID,
		OwnerID:   ownerID,
		Make:      make,
		Model:     model,
		At:        time.Now().UTC(),
	})
}

func (p *Publisher) Close() {
	p.conn.Close()
}
