package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// shingleSize is the number of consecutive tags hashed together.
const shingleSize = 3

// Structure fingerprints the tag sequence of markup, ignoring text and
// attributes other than class. Two leaderboard pages with different rows
// but the same table layout produce the same or a very close value.
func Structure(markup string) uint64 {
	tags := structuralTags(markup)
	if len(tags) < shingleSize {
		return Fingerprint(tags)
	}

	shingles := make([]string, 0, len(tags)-shingleSize+1)
	for i := 0; i+shingleSize <= len(tags); i++ {
		shingles = append(shingles, strings.Join(tags[i:i+shingleSize], ">"))
	}
	return Fingerprint(shingles)
}

// structuralTags lists start tags in document order as "tag.class".
func structuralTags(markup string) []string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var tags []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "class" && len(val) > 0 {
					tag += "." + strings.Join(strings.Fields(string(val)), ".")
				}
			}
			tags = append(tags, tag)
		}
	}
}
