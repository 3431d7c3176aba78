package event

import "encoding/json"

// DecodePayload decodes an event payload into T.
// Payloads published in-process are already T and are returned as is; payloads read back
// from storage or the dead-letter file arrive as maps and go through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	if p, ok := input.(*T); ok && p != nil {
		return *p, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// PayloadToMap converts any payload into a generic map for storage
func PayloadToMap(input interface{}) (map[string]interface{}, error) {
	if m, ok := input.(map[string]interface{}); ok {
		return m, nil
	}
	return DecodePayload[map[string]interface{}](input)
}
