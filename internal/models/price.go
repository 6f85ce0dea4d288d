package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Price est un montant en roubles.
// L'API renvoie les prix tantôt en nombre, tantôt en chaîne décimale ("1290.00").
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("prix invalide %q: %w", s, err)
		}
		*p = Price(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("prix invalide %s: %w", string(data), err)
	}
	*p = Price(f)
	return nil
}

func (p Price) Float() float64 {
	return float64(p)
}
