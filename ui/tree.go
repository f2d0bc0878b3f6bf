package ui

import "strings"

// Tree hierarchy symbols using box drawing characters
const (
	TreeBranch     = "├── " // Branch connector (tee right + horizontal line + space)
	TreeLastBranch = "└── " // Last branch connector (bottom left corner + horizontal line + space)
	TreeVertical   = "│"    // Vertical line for continuing hierarchy

	TreeContinue = "│   " // Vertical line + 3 spaces (parent has more siblings)
	TreeIndent   = "    " // 4 spaces (parent was last, no vertical line needed)
)

// TreePrefixBuilder builds consistent tree prefixes based on hierarchy depth
// and position.
type TreePrefixBuilder struct{}

// BuildPrefix generates a tree prefix for a node at the given depth.
// parentIsLast records, per ancestor level, whether that ancestor was the
// last among its siblings, which decides between a vertical continuation and
// plain indentation.
func (TreePrefixBuilder) BuildPrefix(depth int, isLast bool, parentIsLast []bool) string {
	if depth == 0 {
		return ""
	}

	var prefix strings.Builder
	for i := 0; i < depth-1; i++ {
		if i < len(parentIsLast) && parentIsLast[i] {
			prefix.WriteString(TreeIndent)
		} else {
			prefix.WriteString(TreeContinue)
		}
	}

	if isLast {
		prefix.WriteString(TreeLastBranch)
	} else {
		prefix.WriteString(TreeBranch)
	}
	return prefix.String()
}
