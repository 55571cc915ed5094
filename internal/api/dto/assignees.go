package dto

import (
	"encoding/json"
	"strings"
)

// AssigneeList accepts either a JSON array of ids or a single string holding one
// id or several separated by commas.
type AssigneeList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *AssigneeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = ParseAssignees(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = normalize(many)
	return nil
}

// ParseAssignees splits a comma separated form value.
func ParseAssignees(raw string) AssigneeList {
	return normalize(strings.Split(raw, ","))
}

func normalize(values []string) AssigneeList {
	out := AssigneeList{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
