package fixture

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"gopkg.in/yaml.v3"

	"github.com/calumari/jchain"
)

// FromYAML decodes a YAML document into the ordered value model: mappings
// become jchain.D in document order, sequences jchain.A, numbers jchain.Number.
// Mapping keys must be scalars.
func FromYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil // empty input
	}
	return convertNode(&root)
}

func convertNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return convertNode(n.Content[0])
	case yaml.AliasNode:
		return convertNode(n.Alias)
	case yaml.MappingNode:
		d := make(jchain.D, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			val, err := convertNode(v)
			if err != nil {
				return nil, err
			}
			if d.Has(k.Value) {
				return nil, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
			}
			d = append(d, jchain.E{Key: k.Value, Value: val})
		}
		return d, nil
	case yaml.SequenceNode:
		a := make(jchain.A, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := convertNode(c)
			if err != nil {
				return nil, err
			}
			a = append(a, val)
		}
		return a, nil
	case yaml.ScalarNode:
		return convertScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

func convertScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int", "!!float":
		num, err := convertNumber(n)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return num, nil
	default:
		return n.Value, nil
	}
}

// convertNumber keeps the scalar text when it already is a JSON number, so
// large identifiers and trailing zeros survive. Other YAML spellings (hex,
// octal, binary, '_' separators, leading '+') are rewritten in decimal.
func convertNumber(n *yaml.Node) (jchain.Number, error) {
	if isJSONNumber(n.Value) {
		return jchain.Number(n.Value), nil
	}
	text := strings.ReplaceAll(n.Value, "_", "")

	if n.ShortTag() == "!!int" {
		i, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return "", fmt.Errorf("invalid integer %q", n.Value)
		}
		return jchain.Number(i.String()), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var yf float64
		if derr := n.Decode(&yf); derr != nil {
			return "", derr
		}
		f = yf
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%q has no JSON representation", n.Value)
	}
	return jchain.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return jsontext.Value(s).IsValid()
}
