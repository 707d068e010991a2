package models

import (
	"bytes"
	"encoding/json"
)

// Optional, PATCH benzeri güncellemelerde bir alanın body'de olup olmadığını taşır.
//
//	{}                 → Set=false (dokunma)
//	{"notes": null}    → Set=true, Null=true (temizle)
//	{"notes": "hi"}    → Set=true, Value="hi"
//
// *string ile "yok" ve "null" ayırt edilemez; bu tip ikisini ayrı tutar.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some, dolu bir Optional döner. Testlerde ve service içinde kullanılır.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// UnmarshalJSON, alan body'de geçtiğinde çağrılır (null dahil).
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Present, alanın non-null bir değerle gönderildiğini döner.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}
