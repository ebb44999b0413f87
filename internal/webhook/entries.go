package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vi13x/antc-trx/internal/domain"
)

// Entry is a registry record together with its identifier.
type Entry struct {
	ID string `json:"id"`
	domain.WebhookConfig
}

// entries is a JSON object that remembers key insertion order.
type entries struct {
	order []string
	m     map[string]domain.WebhookConfig
}

func newEntries() entries {
	return entries{m: map[string]domain.WebhookConfig{}}
}

func (e *entries) set(id string, c domain.WebhookConfig) {
	if e.m == nil {
		e.m = map[string]domain.WebhookConfig{}
	}
	if _, ok := e.m[id]; !ok {
		e.order = append(e.order, id)
	}
	e.m[id] = c
}

func (e entries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range e.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.m[id])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *entries) UnmarshalJSON(b []byte) error {
	*e = newEntries()
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("webhooks: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("webhooks: unexpected key %v", tok)
		}
		var c domain.WebhookConfig
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("webhooks[%s]: %w", id, err)
		}
		e.set(id, c)
	}
	_, err = dec.Token()
	return err
}
