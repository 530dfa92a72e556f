package corosync

// Attribute is a single name/value pair inside a section.
type Attribute struct {
	Name  string
	Value string
}

// Section 是最小 AST 节点：corosync.conf 的一个花括号块。
// Attributes keep insertion order and may repeat; child sections keep
// document order and may share a name. The format enforces neither
// uniqueness, so neither does the tree.
type Section struct {
	name       string
	attributes []Attribute
	sections   []*Section
	parent     *Section
}

// NewSection creates a named, empty section.
func NewSection(name string) *Section {
	return &Section{name: name}
}

// NewRoot creates the unnamed document root.
func NewRoot() *Section {
	return &Section{}
}

// Name returns the section name. The document root has an empty name.
func (s *Section) Name() string {
	return s.name
}

// Parent returns the owning section, or nil for a detached section or the
// root. The link exists only so a section can be removed from its parent;
// ownership always flows parent → child.
func (s *Section) Parent() *Section {
	return s.parent
}

// IsRoot reports whether the section has no parent.
func (s *Section) IsRoot() bool {
	return s.parent == nil
}

// IsEmpty reports whether the section has no attributes and no children.
func (s *Section) IsEmpty() bool {
	return len(s.attributes) == 0 && len(s.sections) == 0
}

// Attributes returns all attributes in insertion order.
// The returned slice is shared with the section; callers must not modify it.
func (s *Section) Attributes() []Attribute {
	return s.attributes
}

// AttributesByName returns every occurrence of the named attribute in order.
func (s *Section) AttributesByName(name string) []Attribute {
	var result []Attribute
	for _, attr := range s.attributes {
		if attr.Name == name {
			result = append(result, attr)
		}
	}
	return result
}

// AttributeValue returns the value of the last occurrence of the named
// attribute, and whether it occurred at all. Last occurrence wins, matching
// how corosync itself reads repeated keys.
func (s *Section) AttributeValue(name string) (string, bool) {
	value, found := "", false
	for _, attr := range s.attributes {
		if attr.Name == name {
			value, found = attr.Value, true
		}
	}
	return value, found
}

// AddAttribute appends an attribute, keeping any existing occurrences.
func (s *Section) AddAttribute(name, value string) {
	s.attributes = append(s.attributes, Attribute{Name: name, Value: value})
}

// SetAttribute sets the named attribute to a single occurrence with the
// given value: the first occurrence is updated in place, any later
// duplicates are dropped. If the attribute is absent it is appended.
func (s *Section) SetAttribute(name, value string) {
	found := false
	kept := s.attributes[:0]
	for _, attr := range s.attributes {
		if attr.Name != name {
			kept = append(kept, attr)
			continue
		}
		if !found {
			attr.Value = value
			kept = append(kept, attr)
			found = true
		}
	}
	s.attributes = kept
	if !found {
		s.attributes = append(s.attributes, Attribute{Name: name, Value: value})
	}
}

// DelAttributesByName removes every occurrence of the named attribute.
func (s *Section) DelAttributesByName(name string) {
	kept := s.attributes[:0]
	for _, attr := range s.attributes {
		if attr.Name != name {
			kept = append(kept, attr)
		}
	}
	s.attributes = kept
}

// Sections returns all child sections in document order.
// The returned slice is shared with the section; callers must not modify it.
func (s *Section) Sections() []*Section {
	return s.sections
}

// SectionsByName returns every child section with the given name in order.
func (s *Section) SectionsByName(name string) []*Section {
	var result []*Section
	for _, child := range s.sections {
		if child.name == name {
			result = append(result, child)
		}
	}
	return result
}

// AddSection appends child to this section's children. A child already
// owned elsewhere is detached from its old parent first, so a section is
// never reachable from two parents.
func (s *Section) AddSection(child *Section) {
	if child == nil || child == s {
		return
	}
	if child.parent != nil {
		child.parent.DelSection(child)
	}
	child.parent = s
	s.sections = append(s.sections, child)
}

// DelSection removes child (matched by identity) and clears its parent
// link. Removing a section that is not a child is a no-op.
func (s *Section) DelSection(child *Section) {
	kept := s.sections[:0]
	for _, existing := range s.sections {
		if existing == child {
			existing.parent = nil
			continue
		}
		kept = append(kept, existing)
	}
	s.sections = kept
}
