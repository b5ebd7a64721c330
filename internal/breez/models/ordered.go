package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Entry[T any] struct {
	Key   string
	Value T
}

// Ordered декодирует JSON-объект с сохранением порядка ключей.
// Порядок важен: постраничная выборка товаров и разрешение родителей категорий
// опираются на порядок записей в фиде.
type Ordered[T any] []Entry[T]

func (o *Ordered[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return fmt.Errorf("expected JSON object or array, got %v", tok)
	}

	var entries Ordered[T]
	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("expected object key, got %v", keyTok)
			}
			var value T
			if err := dec.Decode(&value); err != nil {
				return fmt.Errorf("failed to decode entry %q: %w", key, err)
			}
			entries = append(entries, Entry[T]{Key: key, Value: value})
		}
	case '[':
		// пустой PHP-массив приходит как [], списки - без ключей
		for dec.More() {
			var value T
			if err := dec.Decode(&value); err != nil {
				return fmt.Errorf("failed to decode element %d: %w", len(entries), err)
			}
			entries = append(entries, Entry[T]{Value: value})
		}
	default:
		return fmt.Errorf("unexpected delimiter %v", delim)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = entries
	return nil
}
