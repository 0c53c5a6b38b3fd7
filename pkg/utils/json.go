package utils

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PrettyJson serializa o valor com indentação. Em caso de erro retorna string vazia.
func PrettyJson(in any) string {
	if raw, ok := in.([]byte); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return ""
		}
		in = decoded
	}

	out, err := json.MarshalIndent(in, "", "\t")
	if err != nil {
		return ""
	}

	return string(out)
}

// CanonicalJson serializa o valor de forma determinística (chaves de mapas ordenadas)
func CanonicalJson(in any) (string, error) {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(in)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
