package jchain

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshalers returns the set of unmarshalers decoding into the ordered value
// model:
//   - any/interface{} -> objects as D, arrays as A, numbers as Number
//   - *D              -> direct ordered object decoding
//   - *A              -> direct array decoding
//
// Strings, booleans and null are left to the default logic via json.SkipFunc.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		unmarshalValue(),
		unmarshalDocument(),
		unmarshalCollection(),
	)
}

// Marshalers returns the marshalers that encode D in entry order and write
// Number verbatim.
func Marshalers() *json.Marshalers {
	return json.JoinMarshalers(
		json.MarshalToFunc(func(enc *jsontext.Encoder, d D) error {
			if err := enc.WriteToken(jsontext.BeginObject); err != nil {
				return err
			}
			for _, e := range d {
				if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
					return fmt.Errorf("write key %q: %w", e.Key, err)
				}
				if err := json.MarshalEncode(enc, e.Value); err != nil {
					return fmt.Errorf("write value for key %q: %w", e.Key, err)
				}
			}
			return enc.WriteToken(jsontext.EndObject)
		}),
		json.MarshalToFunc(func(enc *jsontext.Encoder, n Number) error {
			if err := enc.WriteValue(jsontext.Value(n)); err != nil {
				return fmt.Errorf("write number %q: %w", string(n), err)
			}
			return nil
		}),
	)
}

// Unmarshal decodes data into the ordered value model.
func Unmarshal(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v, json.WithUnmarshalers(Unmarshalers())); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalDocument decodes data that must hold a JSON object.
func UnmarshalDocument(data []byte) (D, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	d, ok := v.(D)
	if !ok {
		return nil, fmt.Errorf("decode document: %w (got %s)", ErrNotObject, kindOf(v))
	}
	return d, nil
}

// Marshal encodes v, keeping the entry order of every D it contains. Plain Go
// maps are written with sorted keys.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v, json.WithMarshalers(Marshalers()), json.Deterministic(true))
}

// MarshalIndent is like Marshal but indents nested values with indent.
func MarshalIndent(v any, indent string) ([]byte, error) {
	return json.Marshal(v, json.WithMarshalers(Marshalers()), json.Deterministic(true), jsontext.WithIndent(indent))
}

func unmarshalValue() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
		switch dec.PeekKind() {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return err
			}
			*v = d
			return nil
		case '[':
			arr, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = arr
			return nil
		case '0':
			raw, err := dec.ReadValue()
			if err != nil {
				return fmt.Errorf("read number: %w", err)
			}
			*v = Number(string(raw)) // copy, raw aliases the decoder buffer
			return nil
		default:
			return json.SkipFunc
		}
	})
}

func unmarshalDocument() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *D) error {
		if dec.PeekKind() != '{' {
			return json.SkipFunc
		}
		d, err := decodeObject(dec)
		if err != nil {
			return err
		}
		*v = d
		return nil
	})
}

func unmarshalCollection() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *A) error {
		if dec.PeekKind() != '[' {
			return json.SkipFunc
		}
		arr, err := decodeArray(dec)
		if err != nil {
			return err
		}
		*v = arr
		return nil
	})
}

// decodeObject decodes a JSON object into a D. Empty objects produce a
// non-nil empty D.
func decodeObject(dec *jsontext.Decoder) (D, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	res := D{}
	for dec.PeekKind() != '}' {
		var k string
		if err := json.UnmarshalDecode(dec, &k); err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		var vv any
		if err := json.UnmarshalDecode(dec, &vv); err != nil {
			return nil, fmt.Errorf("read object value for key %q: %w", k, err)
		}
		res = append(res, E{Key: k, Value: vv})
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return res, nil
}

func decodeArray(dec *jsontext.Decoder) (A, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := A{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem); err != nil {
			return nil, fmt.Errorf("read array element %d: %w", len(arr), err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}
