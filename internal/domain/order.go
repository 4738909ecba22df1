package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChannelKind is the origin tag persisted on the order header
type ChannelKind string

const (
	ChannelUnset    ChannelKind = ""
	ChannelDineIn   ChannelKind = "salon"
	ChannelDelivery ChannelKind = "delivery"
	ChannelCounter  ChannelKind = "mostrador"
)

var channelAliases = map[string]ChannelKind{
	"":          ChannelUnset,
	"salon":     ChannelDineIn,
	"salón":     ChannelDineIn,
	"dine-in":   ChannelDineIn,
	"dine_in":   ChannelDineIn,
	"dinein":    ChannelDineIn,
	"delivery":  ChannelDelivery,
	"mostrador": ChannelCounter,
	"counter":   ChannelCounter,
}

// ParseChannelKind maps an origin tag, case-insensitively, to its kind.
// The second result is false for unrecognised tags, which map to ChannelUnset.
func ParseChannelKind(raw string) (ChannelKind, bool) {
	kind, ok := channelAliases[strings.ToLower(strings.TrimSpace(raw))]
	return kind, ok
}

// Channel is the channel-specific metadata attached to an order.
// Exactly one of DineIn, Delivery, Counter or Unset.
type Channel interface {
	Kind() ChannelKind
	isChannel()
}

// DineIn orders are served at a table
type DineIn struct {
	Table     *int
	Server    string
	PartySize *int
}

// Delivery orders are sent to the customer
type Delivery struct {
	Phone   string
	Address string
}

// Counter orders are picked up at the counter
type Counter struct{}

// Unset orders carry no channel metadata
type Unset struct{}

func (DineIn) Kind() ChannelKind   { return ChannelDineIn }
func (Delivery) Kind() ChannelKind { return ChannelDelivery }
func (Counter) Kind() ChannelKind  { return ChannelCounter }
func (Unset) Kind() ChannelKind    { return ChannelUnset }

func (DineIn) isChannel()   {}
func (Delivery) isChannel() {}
func (Counter) isChannel()  {}
func (Unset) isChannel()    {}

// Order is an order header with its lines and channel metadata
type Order struct {
	ID           uuid.UUID
	CustomerName string
	Address      string
	Total        decimal.Decimal
	CreatedAt    time.Time
	Phone        string
	Waiter       string
	Comment      string
	EnteredBy    string
	Channel      Channel
	Lines        []OrderLine
}

// Origin returns the channel tag stored on the header
func (o *Order) Origin() ChannelKind {
	if o.Channel == nil {
		return ChannelUnset
	}
	return o.Channel.Kind()
}

// OrderLine is one product on an order. UnitPrice is the catalog price
// captured at submission and never re-derived.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Comment   *string

	// Read side only, joined from the catalog. Empty when the product was removed.
	ProductName string
	Category    string
}

// Subtotal is UnitPrice times Quantity
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
