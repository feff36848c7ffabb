package recordController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	domainerrors "roomlog/internal/errors"
)

// PartyInput is the raw co-player list of a record request. Form bodies submit it
// as a multi-value field; JSON bodies may use numbers or numeric strings.
type PartyInput []string

func (p *PartyInput) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var values []any
	if err := decoder.Decode(&values); err != nil {
		return fmt.Errorf("party must be a list of user ids: %w", err)
	}

	party := make(PartyInput, 0, len(values))
	for _, value := range values {
		switch v := value.(type) {
		case json.Number:
			party = append(party, v.String())
		case string:
			party = append(party, v)
		default:
			return fmt.Errorf("party must be a list of user ids, got %T", value)
		}
	}

	*p = party
	return nil
}

// ParsePartyIDs normalizes a submitted party. nil means no party was submitted,
// and so does a list made only of blank entries, which is how an empty multi-value
// form field arrives. An explicit empty list stays empty and non-nil.
func ParsePartyIDs(input PartyInput) ([]int, error) {
	if input == nil {
		return nil, nil
	}

	ids := make([]int, 0, len(input))
	for _, raw := range input {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return nil, domainerrors.ErrNonExistingParty.WithDetails(map[string]string{"userId": raw})
		}
		ids = append(ids, id)
	}

	if len(input) > 0 && len(ids) == 0 {
		return nil, nil
	}

	return ids, nil
}
