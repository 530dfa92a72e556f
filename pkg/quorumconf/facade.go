package quorumconf

import (
	"context"

	ast "github.com/honeybbq/corosyncconf/pkg/ast/corosync"
	"github.com/honeybbq/corosyncconf/pkg/cserrors"
	"github.com/honeybbq/corosyncconf/pkg/renderer"
	csrenderer "github.com/honeybbq/corosyncconf/pkg/renderer/corosync"
	"github.com/honeybbq/corosyncconf/pkg/reports"
)

// QuorumOptions is the option set the facade manages in quorum sections.
// Shared read-only; never mutated at runtime.
var QuorumOptions = []string{
	"auto_tie_breaker",
	"last_man_standing",
	"last_man_standing_window",
	"wait_for_all",
}

// Facade provides high level access to one corosync config document.
//
// Every write operation runs the same pipeline: validate the supplied
// options, hand the collected problems to the report processor, and only
// if it lets the operation proceed mutate the tree, re-derive the
// dependent settings (two_node, device algorithm) and prune empty
// sections. Validation never mutates; a processor that returns an error
// therefore leaves the document untouched.
//
// A Facade owns its tree for the duration of an edit session and is not
// safe for concurrent use; independent documents need independent
// facades.
type Facade struct {
	config   *ast.Section
	renderer renderer.Renderer[*ast.Section]
	parser   renderer.Parser[*ast.Section]
}

// FromText parses corosync config text and wraps a facade around it. The
// returned error carries one of the three parse kinds from cserrors; no
// partial document is ever returned.
func FromText(text string) (*Facade, error) {
	facade := New(nil)
	root, err := facade.parser.Parse(context.Background(), text)
	if err != nil {
		return nil, err
	}
	facade.config = root
	return facade, nil
}

// New wraps a facade around an already parsed document.
func New(config *ast.Section) *Facade {
	return &Facade{
		config:   config,
		renderer: csrenderer.NewPlainTextRenderer(),
		parser:   csrenderer.NewParser(),
	}
}

// Config exposes the underlying document root.
func (f *Facade) Config() *ast.Section {
	return f.config
}

// ToText renders the current document back to corosync config text.
func (f *Facade) ToText() (string, error) {
	return f.renderer.Render(context.Background(), f.config)
}

// GetNodes returns all defined nodes, in document order across every
// nodelist section. Pure projection, no validation.
func (f *Facade) GetNodes() NodeAddressList {
	return nodesFromConfig(f.config)
}

// GetQuorumOptions returns the managed quorum options. With duplicate
// quorum sections, later sections override earlier ones per option name.
func (f *Facade) GetQuorumOptions() map[string]string {
	options := map[string]string{}
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, attr := range quorum.Attributes() {
			if contains(QuorumOptions, attr.Name) {
				options[attr.Name] = attr.Value
			}
		}
	}
	return options
}

// SetQuorumOptions validates and applies options to the quorum section.
// An empty value deletes the option. Options land on the last quorum
// section; every other quorum section has the affected names stripped.
func (f *Facade) SetQuorumOptions(processor reports.Processor, options map[string]string) error {
	problems := quorumOptionsGrammar.validate(options, nil, false)
	if err := processor.Process(problems); err != nil {
		return err
	}
	quorumSections := ensureSection(f.config, "quorum")
	setSectionOptions(quorumSections, options)
	f.updateTwoNode()
	removeEmptySections(f.config)
	return nil
}

// HasQuorumDevice reports whether any quorum section carries a device
// child with a model attribute.
func (f *Facade) HasQuorumDevice() bool {
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, device := range quorum.SectionsByName("device") {
			if len(device.AttributesByName("model")) > 0 {
				return true
			}
		}
	}
	return false
}

// GetQuorumDeviceSettings returns the device model, the options of the
// model's own subsection and the generic device options. Across duplicate
// device sections later occurrences override earlier ones.
func (f *Facade) GetQuorumDeviceSettings() (string, map[string]string, map[string]string) {
	model := ""
	modelOptions := map[string]map[string]string{}
	genericOptions := map[string]string{}
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, device := range quorum.SectionsByName("device") {
			for _, attr := range device.Attributes() {
				if attr.Name == "model" {
					model = attr.Value
				} else {
					genericOptions[attr.Name] = attr.Value
				}
			}
			for _, subsection := range device.Sections() {
				byName, ok := modelOptions[subsection.Name()]
				if !ok {
					byName = map[string]string{}
					modelOptions[subsection.Name()] = byName
				}
				for _, attr := range subsection.Attributes() {
					byName[attr.Name] = attr.Value
				}
			}
		}
	}
	selected, ok := modelOptions[model]
	if !ok {
		selected = map[string]string{}
	}
	return model, selected, genericOptions
}

// AddQuorumDevice adds a quorum device configuration. Adding a second
// device is invalid call sequencing and fails with KindAlreadyDefined
// regardless of the processor's force policy.
func (f *Facade) AddQuorumDevice(
	processor reports.Processor,
	model string,
	modelOptions map[string]string,
	genericOptions map[string]string,
) error {
	if f.HasQuorumDevice() {
		return cserrors.Newf(cserrors.KindAlreadyDefined, "quorum device is already defined")
	}
	problems := validateModel(model)
	if grammar, ok := modelGrammar(model); ok {
		problems = append(problems, grammar.validate(modelOptions, f.GetNodes(), true)...)
	}
	problems = append(problems, genericDeviceGrammar.validate(genericOptions, nil, false)...)
	if err := processor.Process(problems); err != nil {
		return err
	}

	// Clear options a quorum device is incompatible with, everywhere.
	quorumSections := ensureSection(f.config, "quorum")
	setSectionOptions(quorumSections, map[string]string{
		"allow_downscale":          "",
		"auto_tie_breaker":         "",
		"last_man_standing":        "",
		"last_man_standing_window": "",
		"two_node":                 "",
	})
	// Stale device shells may exist even though none carries a model.
	for _, quorum := range quorumSections {
		for _, device := range copySections(quorum.SectionsByName("device")) {
			quorum.DelSection(device)
		}
	}

	quorum := quorumSections[len(quorumSections)-1]
	device := ast.NewSection("device")
	quorum.AddSection(device)
	setSectionOptions([]*ast.Section{device}, genericOptions)
	device.SetAttribute("model", model)
	modelSection := ast.NewSection(model)
	setSectionOptions([]*ast.Section{modelSection}, modelOptions)
	device.AddSection(modelSection)

	f.updateTwoNode()
	removeEmptySections(f.config)
	return nil
}

// UpdateQuorumDevice updates an existing quorum device configuration.
// Partial model option maps are allowed; required options are only
// enforced on add.
func (f *Facade) UpdateQuorumDevice(
	processor reports.Processor,
	modelOptions map[string]string,
	genericOptions map[string]string,
) error {
	if !f.HasQuorumDevice() {
		return cserrors.Newf(cserrors.KindNotDefined, "no quorum device is defined in this cluster")
	}
	model := ""
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, device := range quorum.SectionsByName("device") {
			if value, found := device.AttributeValue("model"); found {
				model = value
			}
		}
	}
	var problems []reports.Problem
	if grammar, ok := modelGrammar(model); ok {
		problems = append(problems, grammar.validate(modelOptions, f.GetNodes(), false)...)
	}
	problems = append(problems, genericDeviceGrammar.validate(genericOptions, nil, false)...)
	if err := processor.Process(problems); err != nil {
		return err
	}

	var deviceSections []*ast.Section
	var modelSections []*ast.Section
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, device := range quorum.SectionsByName("device") {
			deviceSections = append(deviceSections, device)
			modelSections = append(modelSections, device.SectionsByName(model)...)
		}
	}
	setSectionOptions(deviceSections, genericOptions)
	setSectionOptions(modelSections, modelOptions)

	f.updateTwoNode()
	removeEmptySections(f.config)
	return nil
}

// RemoveQuorumDevice removes all quorum device configuration.
func (f *Facade) RemoveQuorumDevice() error {
	if !f.HasQuorumDevice() {
		return cserrors.Newf(cserrors.KindNotDefined, "no quorum device is defined in this cluster")
	}
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, device := range copySections(quorum.SectionsByName("device")) {
			quorum.DelSection(device)
		}
	}
	f.updateTwoNode()
	removeEmptySections(f.config)
	return nil
}

// updateTwoNode re-derives the settings that depend on the node count:
// the two_node flag and the net device algorithm. Runs after every
// mutating operation.
func (f *Facade) updateTwoNode() {
	hasQuorumDevice := f.HasQuorumDevice()
	hasTwoNodes := len(f.GetNodes()) == 2
	autoTieBreaker := false
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, attr := range quorum.AttributesByName("auto_tie_breaker") {
			autoTieBreaker = attr.Value != "0"
		}
	}

	if hasTwoNodes && !autoTieBreaker && !hasQuorumDevice {
		quorumSections := ensureSection(f.config, "quorum")
		setSectionOptions(quorumSections, map[string]string{"two_node": "1"})
	} else {
		for _, quorum := range f.config.SectionsByName("quorum") {
			quorum.DelAttributesByName("two_node")
		}
	}

	// The quorum engine accepts "lms" only outside two-node clusters and
	// "2nodelms" only inside them; rewrite between the two on transitions.
	for _, quorum := range f.config.SectionsByName("quorum") {
		for _, device := range quorum.SectionsByName("device") {
			for _, net := range device.SectionsByName("net") {
				algorithm, _ := net.AttributeValue("algorithm")
				if algorithm == "lms" && hasTwoNodes {
					net.SetAttribute("algorithm", "2nodelms")
				} else if algorithm == "2nodelms" && !hasTwoNodes {
					net.SetAttribute("algorithm", "lms")
				}
			}
		}
	}
}

// setSectionOptions applies an option map with duplicate-section cleanup:
// every section but the last has the affected names stripped; the last
// section gets the values, where an empty value deletes the attribute.
// Options are applied in sorted name order for determinism.
func setSectionOptions(sections []*ast.Section, options map[string]string) {
	if len(sections) == 0 {
		return
	}
	for _, section := range sections[:len(sections)-1] {
		for name := range options {
			section.DelAttributesByName(name)
		}
	}
	last := sections[len(sections)-1]
	for _, name := range sortedKeys(options) {
		if options[name] == "" {
			last.DelAttributesByName(name)
		} else {
			last.SetAttribute(name, options[name])
		}
	}
}

// ensureSection returns the named child sections, creating one when none
// exist.
func ensureSection(parent *ast.Section, name string) []*ast.Section {
	sections := parent.SectionsByName(name)
	if len(sections) == 0 {
		section := ast.NewSection(name)
		parent.AddSection(section)
		sections = append(sections, section)
	}
	return sections
}

// removeEmptySections prunes, bottom-up, every section left with no
// attributes and no children.
func removeEmptySections(parent *ast.Section) {
	for _, section := range copySections(parent.Sections()) {
		removeEmptySections(section)
		if section.IsEmpty() {
			parent.DelSection(section)
		}
	}
}

// copySections snapshots a child list that is about to be mutated.
func copySections(sections []*ast.Section) []*ast.Section {
	return append([]*ast.Section(nil), sections...)
}
