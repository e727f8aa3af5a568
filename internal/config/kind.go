package config

import (
	"fmt"
	"strings"
)

const (
	KindFloat = "float"
	KindInt   = "int"
	KindPrice = "price"
)

func NormalizeValueKind(raw string) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(raw))
	if kind == "" {
		kind = KindFloat
	}
	switch kind {
	case KindFloat, KindInt, KindPrice:
		return kind, nil
	case "double":
		return KindFloat, nil
	case "integer":
		return KindInt, nil
	default:
		return "", fmt.Errorf(
			"invalid value kind %q (expected %s|%s|%s)",
			raw,
			KindFloat,
			KindInt,
			KindPrice,
		)
	}
}

func ValueKinds() []string {
	return []string{KindFloat, KindInt, KindPrice}
}
