package quorumconf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	ast "github.com/honeybbq/corosyncconf/pkg/ast/corosync"
	"github.com/honeybbq/corosyncconf/pkg/reports"
)

// clusterConfig renders a synthetic config with the given node count.
func clusterConfig(nodeCount int) string {
	var b strings.Builder
	b.WriteString("totem {\n    version: 2\n}\nnodelist {\n")
	for i := 1; i <= nodeCount; i++ {
		fmt.Fprintf(&b, "    node {\n        ring0_addr: node%d\n        nodeid: %d\n    }\n", i, i)
	}
	b.WriteString("}\n")
	return b.String()
}

// TestFacadeProperties verifies the invariants that must hold for any
// sequence of valid writes, across generated inputs.
func TestFacadeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	genNodeCount := gen.IntRange(0, 8)
	genBool01 := gen.OneConstOf("0", "1")

	properties.Property("parse then render is stable", prop.ForAll(
		func(nodeCount int) bool {
			facade, err := FromText(clusterConfig(nodeCount))
			if err != nil {
				return false
			}
			first, err := facade.ToText()
			if err != nil {
				return false
			}
			reparsed, err := FromText(first)
			if err != nil {
				return false
			}
			second, err := reparsed.ToText()
			return err == nil && first == second
		},
		genNodeCount,
	))

	properties.Property("SetQuorumOptions is idempotent", prop.ForAll(
		func(nodeCount int, waitForAll, lastManStanding string) bool {
			options := map[string]string{
				"wait_for_all":      waitForAll,
				"last_man_standing": lastManStanding,
			}
			once, err := FromText(clusterConfig(nodeCount))
			if err != nil {
				return false
			}
			if err := once.SetQuorumOptions(reports.StrictProcessor{}, options); err != nil {
				return false
			}
			onceText, err := once.ToText()
			if err != nil {
				return false
			}

			twice, err := FromText(clusterConfig(nodeCount))
			if err != nil {
				return false
			}
			for i := 0; i < 2; i++ {
				if err := twice.SetQuorumOptions(reports.StrictProcessor{}, options); err != nil {
					return false
				}
			}
			twiceText, err := twice.ToText()
			return err == nil && onceText == twiceText
		},
		genNodeCount,
		genBool01,
		genBool01,
	))

	properties.Property("two_node present exactly for two-node clusters", prop.ForAll(
		func(nodeCount int) bool {
			facade, err := FromText(clusterConfig(nodeCount))
			if err != nil {
				return false
			}
			if err := facade.SetQuorumOptions(reports.StrictProcessor{}, map[string]string{"wait_for_all": "1"}); err != nil {
				return false
			}

			twoNodeSeen := false
			for _, quorum := range facade.Config().SectionsByName("quorum") {
				if len(quorum.AttributesByName("two_node")) > 0 {
					twoNodeSeen = true
				}
			}
			return twoNodeSeen == (nodeCount == 2)
		},
		genNodeCount,
	))

	properties.Property("no empty section survives a write", prop.ForAll(
		func(nodeCount int, value string) bool {
			facade, err := FromText(clusterConfig(nodeCount) + "quorum {\n}\nuninteresting {\n    inner {\n    }\n}\n")
			if err != nil {
				return false
			}
			if err := facade.SetQuorumOptions(reports.StrictProcessor{}, map[string]string{"auto_tie_breaker": value}); err != nil {
				return false
			}
			return !hasEmptySection(facade)
		},
		genNodeCount,
		gen.OneConstOf("", "0", "1"),
	))

	properties.TestingRun(t)
}

func hasEmptySection(facade *Facade) bool {
	var walk func(sections []*ast.Section) bool
	walk = func(sections []*ast.Section) bool {
		for _, section := range sections {
			if section.IsEmpty() || walk(section.Sections()) {
				return true
			}
		}
		return false
	}
	return walk(facade.Config().Sections())
}
