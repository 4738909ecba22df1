// Package legacyinput recovers dine-in fields that older POS clients pack
// into the customer name and address text instead of sending them as
// structured fields. Structured values always take precedence.
package legacyinput

import (
	"regexp"
	"strconv"
	"strings"

	"restaurant-pos/internal/domain"

	"go.uber.org/zap"
)

var tablePattern = regexp.MustCompile(`(?i)mesa\s*(\d+)`)

const (
	serverToken = "mozo:"
	partyToken  = "personas:"
)

// TableFromName extracts N from a "Mesa N" mention in the customer name
func TableFromName(customerName string) (int, bool) {
	m := tablePattern.FindStringSubmatch(customerName)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// AddressTokens holds the values found in a "Mozo: X | Personas: N" address
type AddressTokens struct {
	Server    string
	PartySize *int
}

// ParseAddress scans the pipe-separated segments of the address text
func ParseAddress(address string) AddressTokens {
	var tokens AddressTokens
	for _, part := range strings.Split(address, "|") {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)

		switch {
		case strings.HasPrefix(lower, serverToken):
			tokens.Server = strings.TrimSpace(part[len(serverToken):])
		case strings.HasPrefix(lower, partyToken):
			if n, err := strconv.Atoi(strings.TrimSpace(part[len(partyToken):])); err == nil {
				tokens.PartySize = &n
			}
		}
	}
	return tokens
}

// Adapter fills in missing dine-in fields from free text
type Adapter struct {
	logger *zap.Logger
}

func NewAdapter(logger *zap.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// CompleteDineIn returns dine with any missing table, server or party size
// taken from the customer name and address text. Each recovered field is logged.
func (a *Adapter) CompleteDineIn(dine domain.DineIn, customerName, address string) domain.DineIn {
	if dine.Table == nil {
		if n, ok := TableFromName(customerName); ok {
			dine.Table = &n
			a.logger.Info("Dine-in table recovered from customer name",
				zap.Int("table", n),
				zap.String("customer_name", customerName),
			)
		}
	}

	if dine.Server != "" && dine.PartySize != nil {
		return dine
	}

	tokens := ParseAddress(address)
	if dine.Server == "" && tokens.Server != "" {
		dine.Server = tokens.Server
		a.logger.Info("Dine-in server recovered from address text", zap.String("server", tokens.Server))
	}
	if dine.PartySize == nil && tokens.PartySize != nil {
		dine.PartySize = tokens.PartySize
		a.logger.Info("Dine-in party size recovered from address text", zap.Int("party_size", *tokens.PartySize))
	}

	return dine
}
