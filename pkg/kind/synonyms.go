package kind

// Synonyms maps every alias of a group to the group's canonical spelling.
// Build one with NewSynonyms; the zero value resolves nothing.
type Synonyms struct {
	canonical map[string]string
	groups    [][]string
}

// NewSynonyms builds a table from ordered alias groups. The first alias of
// each group is canonical. When an alias appears in more than one group the
// first group wins.
func NewSynonyms(groups ...[]string) Synonyms {
	s := Synonyms{canonical: make(map[string]string), groups: groups}
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		for _, alias := range g {
			if _, taken := s.canonical[alias]; !taken {
				s.canonical[alias] = g[0]
			}
		}
	}
	return s
}

// Canonical returns the canonical spelling of key.
func (s Synonyms) Canonical(key string) (string, bool) {
	c, ok := s.canonical[key]
	return c, ok
}

// Resolve returns the canonical spelling of key, or key itself when no
// group contains it.
func (s Synonyms) Resolve(key string) string {
	if c, ok := s.canonical[key]; ok {
		return c
	}
	return key
}

// Has reports whether any group contains key.
func (s Synonyms) Has(key string) bool {
	_, ok := s.canonical[key]
	return ok
}

// Aliases returns the group whose canonical spelling is canonical.
func (s Synonyms) Aliases(canonical string) []string {
	for _, g := range s.groups {
		if len(g) > 0 && g[0] == canonical {
			return append([]string(nil), g...)
		}
	}
	return nil
}

// =============================================================================
// Type tables
// =============================================================================

// LinkTypeSynonyms resolves human spellings of link types.
var LinkTypeSynonyms = NewSynonyms(
	[]string{"parent", "cat", "cats"},
	[]string{"child", "children", "struct", "content", "list", "items", "nodes"},
	[]string{"uses", "use"},
	[]string{"usage", "usages"},
	[]string{"prereq", "base"},
	[]string{"more"},
	[]string{"source", "src", "sources"},
	[]string{"receptor", "dst"},
	[]string{"also", "see_also"},
	[]string{"relation"},
	[]string{"reference"},
	[]string{"mention"},
)

// BlockTypeSynonyms resolves human spellings of block types.
var BlockTypeSynonyms = NewSynonyms(
	[]string{"title", "head", "header"},
	[]string{"struct"},
	[]string{"info", "text"},
	[]string{"props", "properties"},
	[]string{"image", "img"},
	[]string{"links", "link"},
)

// =============================================================================
// Record key tables
// =============================================================================

// Canonical node record keys.
const (
	KeyName   = "name"
	KeyTitles = "titles"
	KeyType   = "type"
	KeyBlocks = "blocks"
	KeyItems  = "items"
	KeyLinks  = "links"
)

// NodeKeys normalizes keys of node records.
var NodeKeys = NewSynonyms(
	[]string{KeyName, "id"},
	[]string{KeyTitles, "title"},
	[]string{KeyType},
	[]string{KeyBlocks},
	[]string{KeyItems, "node", "nodes", "content", "list", "struct"},
	[]string{KeyLinks, "link"},
)

// Canonical block record keys.
const (
	BlockKeyTitle  = "title"
	BlockKeyType   = "type"
	BlockKeyItems  = "items"
	BlockKeyAnchor = "anchor"
)

// BlockKeys normalizes keys of block records.
var BlockKeys = NewSynonyms(
	[]string{BlockKeyTitle, "caption"},
	[]string{BlockKeyType, "block_type"},
	[]string{BlockKeyItems, "node", "nodes", "content", "list", "struct"},
	[]string{BlockKeyAnchor, "bookmark"},
)

// ignoredKeys are passthrough metadata fields dropped during ingestion.
var ignoredKeys = map[string]bool{
	"snippet":    true,
	"properties": true,
	"url":        true,
	"author":     true,
	"year":       true,
	"org":        true,
}

// IsIgnoredKey reports whether a node record key carries passthrough
// metadata that ingestion drops.
func IsIgnoredKey(key string) bool { return ignoredKeys[key] }

// IsPrimitiveKey reports whether a mapping value under key is flattened to
// a single "k: v, k2: v2" string instead of being interpreted. Both the raw
// and the canonical spelling of the title key qualify.
func IsPrimitiveKey(key string) bool {
	switch key {
	case "title", KeyTitles, string(BlockInfo):
		return true
	}
	return false
}
