package chain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Job is one posting extracted from a career page.
type Job struct {
	Role        string     `json:"role"`
	Experience  FlexString `json:"experience"`
	Skills      Skills     `json:"skills"`
	Description string     `json:"description"`
}

// FlexString accepts a JSON string, number or boolean. Models are not
// consistent about how they report "experience".
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool:
		*f = FlexString(string(b))
		return nil
	}
	return fmt.Errorf("experience: unexpected JSON %s", b)
}

// Skills accepts either a JSON array of strings or one comma-separated string.
type Skills []string

func (s *Skills) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return err
		}
		*s = splitSkills(joined)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("skills: %w", err)
	}
	out := list[:0]
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*s = out
	return nil
}

func splitSkills(joined string) Skills {
	var out Skills
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
