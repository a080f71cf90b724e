package idl

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"gopkg.microglot.org/tsproto.go/internal/optional"
)

type Comment struct {
	Leading         string
	Trailing        string
	LeadingDetached []string
}

// SourceInfo indexes the comments of a file by their descriptor path.
type SourceInfo struct {
	comments map[string]Comment
}

func NewSourceInfo(info *descriptorpb.SourceCodeInfo) *SourceInfo {
	s := &SourceInfo{comments: make(map[string]Comment)}
	for _, loc := range info.GetLocation() {
		if loc.LeadingComments == nil && loc.TrailingComments == nil && len(loc.LeadingDetachedComments) == 0 {
			continue
		}
		key := pathKey(loc.GetPath())
		if _, ok := s.comments[key]; ok {
			continue
		}
		s.comments[key] = Comment{
			Leading:         loc.GetLeadingComments(),
			Trailing:        loc.GetTrailingComments(),
			LeadingDetached: loc.GetLeadingDetachedComments(),
		}
	}
	return s
}

// Lookup returns the comment attached to the element at path, if any.
func (s *SourceInfo) Lookup(path []int32) optional.Optional[Comment] {
	if s == nil {
		return optional.None[Comment]()
	}
	c, ok := s.comments[pathKey(path)]
	if !ok {
		return optional.None[Comment]()
	}
	return optional.Some(c)
}

func pathKey(path []int32) string {
	var b strings.Builder
	for x, p := range path {
		if x > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatInt(int64(p), 10))
	}
	return b.String()
}
