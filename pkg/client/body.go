package client

import (
	"bytes"
	"encoding/json"
)

// mergeOptions encodes opts as a JSON object and copies its members into body.
// Numbers keep their literal form.
func mergeOptions(body map[string]any, opts any) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return invalidf("encode options: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return invalidf("encode options: %v", err)
	}

	for k, v := range fields {
		body[k] = v
	}
	return nil
}

// flattenBatchBody lifts the members of the nested "options" object to the top
// level of a batch scrape body. Batch-level members win over scrape options of
// the same name. body is not modified.
func flattenBatchBody(body map[string]any) map[string]any {
	nested, _ := body["options"].(map[string]any)

	out := make(map[string]any, len(body)+len(nested))
	for k, v := range nested {
		out[k] = v
	}
	for k, v := range body {
		if k == "options" {
			continue
		}
		out[k] = v
	}
	return out
}
