package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

const allScopeLiteral = "all"

// Scope selects the lectures a run covers: either every lecture of the set or
// an explicit list. It encodes as the string "all" or as an array of ids.
type Scope struct {
	All        bool
	LectureIDs []string
}

// AllLectures covers every lecture in a set, in set order.
var AllLectures = Scope{All: true}

// Lectures builds an explicit scope.
func Lectures(ids ...string) Scope {
	return Scope{LectureIDs: slices.Clone(ids)}
}

func (s Scope) String() string {
	if s.All {
		return allScopeLiteral
	}
	return fmt.Sprint(s.LectureIDs)
}

func (s Scope) MarshalJSON() ([]byte, error) {
	if s.All {
		return json.Marshal(allScopeLiteral)
	}
	ids := s.LectureIDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}

func (s *Scope) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var lit string
		if err := json.Unmarshal(b, &lit); err != nil {
			return err
		}
		if lit != allScopeLiteral {
			return fmt.Errorf("lecture scope: unknown literal %q", lit)
		}
		*s = AllLectures
		return nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return fmt.Errorf("lecture scope: %w", err)
	}
	*s = Scope{LectureIDs: ids}
	return nil
}
