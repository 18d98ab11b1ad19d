package checker

import (
	"github.com/pjlast/jsserver/internal/ast"
	"github.com/pjlast/jsserver/internal/types"
)

// buildUnion deduplicates members by structural equality and unwraps a
// singleton result to its sole element, matching the treatment the if
// inferencer gives its then/else candidates. maxSize caps the deduplicated
// alternative count; zero means unbounded.
func buildUnion(members []*types.Type, maxSize int, loc ast.SourceLocation) (*types.Type, error) {
	deduped := make([]*types.Type, 0, len(members))
	for _, m := range members {
		dup := false
		for _, existing := range deduped {
			if types.Equal(existing, m) {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, m)
		}
	}
	if maxSize > 0 && len(deduped) > maxSize {
		return nil, &UnionTooLargeError{Size: len(deduped), Max: maxSize, Loc: loc}
	}
	if len(deduped) == 1 {
		return deduped[0], nil
	}
	return types.Union(deduped...), nil
}
