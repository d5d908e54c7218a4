// internal/domain/catalog/entity.go
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Book represents a catalog item as served by the remote catalog API
type Book struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Author      *Ref            `json:"author,omitempty"`
	Publisher   *Ref            `json:"publisher,omitempty"`
	Category    *Ref            `json:"category,omitempty"`
	ISBN        string          `json:"isbn,omitempty"`
	Year        int             `json:"year,omitempty"`
	Rating      float64         `json:"rating,omitempty"`
	Stock       int             `json:"stock,omitempty"`
	New         Flag            `json:"new"`
	BestSeller  Flag            `json:"bestSeller"`
	Cover       string          `json:"cover,omitempty"`
}

// AuthorName returns the author's display name or an empty string
func (b *Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.Name
}

// Reference is an entry of the authors, categories or publishers lists
type Reference struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ref is a related entity that the API sends either as a plain name
// string or as an object {id, name}. The incoming shape is kept so it
// round-trips unchanged.
type Ref struct {
	ID     int64
	Name   string
	Object bool
}

// NameRef builds a plain-string reference
func NameRef(name string) Ref {
	return Ref{Name: name}
}

// ObjectRef builds an object reference
func ObjectRef(id int64, name string) Ref {
	return Ref{ID: id, Name: name, Object: true}
}

type refObject struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// MarshalJSON implements json.Marshaler
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Object {
		return json.Marshal(refObject{ID: r.ID, Name: r.Name})
	}
	return json.Marshal(r.Name)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Ref{}
		return nil
	case data[0] == '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = NameRef(name)
		return nil
	case data[0] == '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = ObjectRef(obj.ID, obj.Name)
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object, got %s", data)
	}
}

// Flag is a boolean the API may encode as true/false, 0/1 or "0"/"1"
type Flag bool

// MarshalJSON implements json.Marshaler
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*f = false
			return nil
		}
	}

	if b, err := strconv.ParseBool(raw); err == nil {
		*f = Flag(b)
		return nil
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("flag value %s is not a boolean", data)
	}
	*f = n != 0
	return nil
}
