package uploads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/tendant/simple-giveaway/pkg/giveaway"
)

// maxBodyBytes caps the batch metadata body; it never carries file bytes.
const maxBodyBytes = 64 << 10

// DecodeRequest parses a presign batch body. Malformed JSON yields
// ValidationError "Invalid JSON body"; a well-formed body of the wrong shape
// yields ValidationError "Validation error" listing every issue found.
//
// Only JSON types are checked here: integers must not carry a fraction and
// strings must be strings. Value ranges are checked by the validate tags on
// giveaway.BatchRequest when the batch is presigned.
func DecodeRequest(r io.Reader) (giveaway.BatchRequest, error) {
	var req giveaway.BatchRequest

	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil || len(body) > maxBodyBytes || !json.Valid(body) {
		return req, giveaway.NewValidationError("Invalid JSON body", nil)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return req, shapeError(issue("", "Expected object"))
	}

	var issues []giveaway.Issue

	rawFiles, ok := top["files"]
	if !ok || isNull(rawFiles) {
		issues = append(issues, issue("files", "Required"))
	} else {
		var items []json.RawMessage
		if err := json.Unmarshal(rawFiles, &items); err != nil {
			issues = append(issues, issue("files", "Expected array"))
		}
		for i, raw := range items {
			item, itemIssues := decodeItem(fmt.Sprintf("files.%d", i), raw)
			issues = append(issues, itemIssues...)
			req.Files = append(req.Files, item)
		}
	}

	if rawPrefix, ok := top["prefix"]; ok && !isNull(rawPrefix) {
		if err := json.Unmarshal(rawPrefix, &req.Prefix); err != nil {
			issues = append(issues, issue("prefix", "Expected string"))
		}
	}

	if len(issues) > 0 {
		return giveaway.BatchRequest{}, shapeError(issues...)
	}
	return req, nil
}

func decodeItem(path string, raw json.RawMessage) (giveaway.UploadRequestItem, []giveaway.Issue) {
	var item giveaway.UploadRequestItem
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return item, []giveaway.Issue{issue(path, "Expected object")}
	}

	var issues []giveaway.Issue

	size, msg := integerField(fields, "size")
	if msg != "" {
		issues = append(issues, issue(path+".size", msg))
	}
	item.Size = size

	index, msg := integerField(fields, "index")
	switch {
	case msg != "":
		issues = append(issues, issue(path+".index", msg))
	case index > math.MaxInt32 || index < math.MinInt32:
		issues = append(issues, issue(path+".index", "Number is too large"))
	}
	item.Index = int(index)

	rawType, ok := fields["type"]
	if !ok || isNull(rawType) {
		issues = append(issues, issue(path+".type", "Required"))
	} else if err := json.Unmarshal(rawType, &item.Type); err != nil {
		issues = append(issues, issue(path+".type", "Expected string"))
	}

	return item, issues
}

// integerField reads fields[name] as a JSON number with no fractional part.
func integerField(fields map[string]json.RawMessage, name string) (int64, string) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return 0, "Required"
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, "Expected number"
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, "Expected number"
	}
	if i, err := n.Int64(); err == nil {
		return i, ""
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, "Expected integer"
	}
	return int64(f), ""
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func issue(field, message string) giveaway.Issue {
	return giveaway.Issue{Field: field, Message: message}
}

func shapeError(issues ...giveaway.Issue) error {
	return giveaway.NewValidationError("Validation error", issues)
}
