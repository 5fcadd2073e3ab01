// Package hierdoc parses indentation-structured outline text and interprets
// it into a [knowledge.Graph].
//
// # Outline grammar
//
// An outline is a sequence of UTF-8 lines. Blank lines are ignored and
// leading tabs count as one indent step (4 spaces) each. The first line is
// the document title; every following line nests under the closest
// preceding line with a smaller indent.
//
// After the indent, a line may start with a marker followed by one space:
//
//	* - + > & i =   content markers (kept)
//	0 x             comment markers (the line and its subtree are dropped)
//
// then an optional tag in brackets, then the text:
//
//	= [struct] (gc) The Go compiler
//	  ^ marker  ^ name  ^ content
//
// The name is the parenthesized prefix when present; otherwise the text
// before the first ":" or " - " divider, if that prefix is shorter than 20
// characters. Names are lower-cased, joined with underscores, limited to
// five words and transliterated from Cyrillic.
//
// # Interpretation
//
// An [Interpreter] turns a [Tree] into nodes. The root line names the node
// and its content gives the titles (separated by " = "). Each child line is
// read by tag and marker:
//
//	[parent] [category] [cat]          parent link to the named node
//	= or [child] [children] [struct]   child links collected into a struct block
//	[usage]                            usage links, creating their targets
//	anything else                      info text
//
// A struct or usage line that ends with ":" (or has no content) applies to
// each of its own children instead of itself.
//
// # Markdown
//
// [Tree.Markdown] renders an outline as Markdown: the first [MaxHeaderLevel]
// levels become headers, deeper lines keep their relative indent.
package hierdoc
