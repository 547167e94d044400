package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Provider resolves token ids to cards. Implementations are supplied by the caller;
// the engine never fetches cards itself.
type Provider interface {
	Card(id TokenID) (Card, bool)
}

// Catalog is an in-memory Provider.
type Catalog map[TokenID]Card

// Card implements Provider.
func (c Catalog) Card(id TokenID) (Card, bool) {
	card, ok := c[id]
	return card, ok
}

// Add inserts cards, overwriting existing entries with the same token id.
func (c Catalog) Add(cards ...Card) {
	for _, card := range cards {
		c[card.TokenID] = card
	}
}

// MissingCardsError lists token ids a caller must fetch before retrying.
type MissingCardsError struct {
	Tokens []TokenID
}

func (e *MissingCardsError) Error() string {
	ids := lo.Map(e.Tokens, func(id TokenID, _ int) string { return fmt.Sprintf("%d", id) })
	return "catalog is missing tokens: " + strings.Join(ids, ", ")
}

// IsMissingCards reports whether err carries a MissingCardsError and returns it.
func IsMissingCards(err error) (*MissingCardsError, bool) {
	var mce *MissingCardsError
	if errors.As(err, &mce) {
		return mce, true
	}
	return nil, false
}

// Resolve looks up every id. When any are absent it returns a *MissingCardsError
// naming each absent id once, in ascending order.
func Resolve(p Provider, ids []TokenID) (map[TokenID]Card, error) {
	out := make(map[TokenID]Card, len(ids))
	var missing []TokenID
	for _, id := range ids {
		card, ok := p.Card(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		out[id] = card
	}
	if len(missing) > 0 {
		missing = lo.Uniq(missing)
		slices.Sort(missing)
		return nil, &MissingCardsError{Tokens: missing}
	}
	return out, nil
}

// LoadCatalog reads a JSON array of cards and validates each entry.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a JSON array of cards. Duplicate token ids are rejected.
func ParseCatalog(data []byte) (Catalog, error) {
	var list []Card
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	cat := make(Catalog, len(list))
	for _, card := range list {
		if err := card.Validate(); err != nil {
			return nil, err
		}
		if _, dup := cat[card.TokenID]; dup {
			return nil, fmt.Errorf("catalog lists token %d twice", card.TokenID)
		}
		cat[card.TokenID] = card
	}
	return cat, nil
}
