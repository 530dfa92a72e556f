package corosync

import "testing"

func TestSetAttribute_CollapsesDuplicates(t *testing.T) {
	section := NewSection("quorum")
	section.AddAttribute("two_node", "0")
	section.AddAttribute("provider", "corosync_votequorum")
	section.AddAttribute("two_node", "0")

	section.SetAttribute("two_node", "1")

	occurrences := section.AttributesByName("two_node")
	if len(occurrences) != 1 {
		t.Fatalf("expected single occurrence after set, got %d", len(occurrences))
	}
	if occurrences[0].Value != "1" {
		t.Errorf("expected value 1, got %q", occurrences[0].Value)
	}
	// The first occurrence slot is reused, so order is preserved.
	if section.Attributes()[0].Name != "two_node" {
		t.Errorf("expected two_node to stay first, got %q", section.Attributes()[0].Name)
	}
}

func TestSetAttribute_AppendsWhenAbsent(t *testing.T) {
	section := NewSection("quorum")
	section.SetAttribute("wait_for_all", "1")

	value, found := section.AttributeValue("wait_for_all")
	if !found || value != "1" {
		t.Fatalf("expected wait_for_all=1, got %q (found=%v)", value, found)
	}
}

func TestAttributeValue_LastOccurrenceWins(t *testing.T) {
	section := NewSection("node")
	section.AddAttribute("ring0_addr", "node1-old")
	section.AddAttribute("ring0_addr", "node1")

	value, found := section.AttributeValue("ring0_addr")
	if !found || value != "node1" {
		t.Fatalf("expected last occurrence node1, got %q", value)
	}
}

func TestDelAttributesByName_RemovesAllOccurrences(t *testing.T) {
	section := NewSection("quorum")
	section.AddAttribute("two_node", "1")
	section.AddAttribute("wait_for_all", "1")
	section.AddAttribute("two_node", "0")

	section.DelAttributesByName("two_node")

	if len(section.AttributesByName("two_node")) != 0 {
		t.Error("expected no two_node occurrences")
	}
	if len(section.Attributes()) != 1 {
		t.Errorf("expected one remaining attribute, got %d", len(section.Attributes()))
	}
}

func TestAddSection_DetachesFromPreviousParent(t *testing.T) {
	first := NewSection("quorum")
	second := NewSection("quorum")
	device := NewSection("device")

	first.AddSection(device)
	second.AddSection(device)

	if len(first.Sections()) != 0 {
		t.Error("device should have been detached from first parent")
	}
	if device.Parent() != second {
		t.Error("device parent should be the second section")
	}
}

func TestDelSection_MatchesByIdentity(t *testing.T) {
	quorum := NewSection("quorum")
	kept := NewSection("device")
	removed := NewSection("device")
	quorum.AddSection(kept)
	quorum.AddSection(removed)

	quorum.DelSection(removed)

	if len(quorum.Sections()) != 1 || quorum.Sections()[0] != kept {
		t.Fatal("expected only the untouched sibling to remain")
	}
	if removed.Parent() != nil {
		t.Error("removed section should have no parent")
	}
}

func TestIsEmpty(t *testing.T) {
	section := NewSection("quorum")
	if !section.IsEmpty() {
		t.Error("new section should be empty")
	}
	section.AddAttribute("two_node", "1")
	if section.IsEmpty() {
		t.Error("section with an attribute is not empty")
	}
	section.DelAttributesByName("two_node")
	section.AddSection(NewSection("device"))
	if section.IsEmpty() {
		t.Error("section with a child is not empty")
	}
}

func TestDuplicateSiblingSectionsAllowed(t *testing.T) {
	root := NewRoot()
	root.AddSection(NewSection("quorum"))
	root.AddSection(NewSection("quorum"))

	if len(root.SectionsByName("quorum")) != 2 {
		t.Fatal("the tree must allow duplicate sibling section names")
	}
}
