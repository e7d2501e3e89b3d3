package capability

import "strings"

// ResourcePath derives the asset lookup path of a qualified type name by
// replacing every qualifier separator with a path separator.
//
//	ResourcePath("Foo.Bar.Baz") == "Foo/Bar/Baz"
func ResourcePath(qualifiedName string) string {
	return strings.ReplaceAll(qualifiedName, ".", "/")
}
