package meditrail

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Result is the JSON object returned by /ocr/process. No schema is enforced;
// the accessors below are lookups over the raw body.
type Result struct {
	raw []byte
}

// Metadata describes the uploaded file as seen by the server.
type Metadata struct {
	OriginalFileName string
	FileSize         string
	PageCount        int64
}

// Extraction is the decoded "response" field, which the API sends as a
// JSON-encoded string.
type Extraction struct {
	DocumentType string
	Summary      string

	raw []byte
}

func newResult(body []byte) *Result {
	raw := make([]byte, len(body))
	copy(raw, body)
	return &Result{raw: raw}
}

// Raw returns a copy of the response body.
func (r *Result) Raw() []byte {
	raw := make([]byte, len(r.raw))
	copy(raw, r.raw)
	return raw
}

// Get looks up a gjson path, e.g. "metadata.page_count".
func (r *Result) Get(path string) gjson.Result {
	return gjson.GetBytes(r.raw, path)
}

// Map decodes the whole body into a fresh map.
func (r *Result) Map() (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(r.raw, &m); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return m, nil
}

// ID returns the server-assigned document id.
func (r *Result) ID() string {
	return r.Get("id").String()
}

// ClinicalRelevance reports whether the server found the content medically meaningful.
func (r *Result) ClinicalRelevance() bool {
	return r.Get("clinical_relevance").Bool()
}

// DoctorNames accepts both a list and a single string.
func (r *Result) DoctorNames() []string {
	v := r.Get("doctor_names")
	if v.IsArray() {
		var names []string
		for _, item := range v.Array() {
			if s := item.String(); s != "" {
				names = append(names, s)
			}
		}
		return names
	}
	if s := v.String(); s != "" {
		return []string{s}
	}
	return nil
}

// Metadata returns the "metadata" object; missing fields are zero.
func (r *Result) Metadata() Metadata {
	m := r.Get("metadata")
	return Metadata{
		OriginalFileName: m.Get("original_file_name").String(),
		FileSize:         m.Get("file_size").String(),
		PageCount:        m.Get("page_count").Int(),
	}
}

// Extraction decodes the nested "response" field. A missing field yields an
// empty Extraction.
func (r *Result) Extraction() (*Extraction, error) {
	v := r.Get("response")

	var raw string
	switch v.Type {
	case gjson.Null:
		return &Extraction{raw: []byte("{}")}, nil
	case gjson.String:
		raw = v.Str
	case gjson.JSON:
		raw = v.Raw
	default:
		return nil, newAPIError(KindInvalidResponse, 0, "Invalid JSON response: response field is not an object", nil)
	}

	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return nil, newAPIError(KindInvalidResponse, 0, "Invalid JSON response: cannot decode response field", []byte(raw))
	}

	return &Extraction{
		DocumentType: gjson.Get(raw, "document_type").String(),
		Summary:      gjson.Get(raw, "summary").String(),
		raw:          []byte(raw),
	}, nil
}

// Get looks up a gjson path inside the extraction.
func (e *Extraction) Get(path string) gjson.Result {
	return gjson.GetBytes(e.raw, path)
}

// MarshalJSON emits the raw response body.
func (r *Result) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw(), nil
}

// UnmarshalJSON stores data as the raw body after validating it.
func (r *Result) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidResponse
	}
	r.raw = append(r.raw[:0], data...)
	return nil
}
