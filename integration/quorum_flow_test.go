package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/honeybbq/corosyncconf/pkg/quorumconf"
	"github.com/honeybbq/corosyncconf/pkg/reports"
)

func loadFacade(t *testing.T, name string) *quorumconf.Facade {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	facade, err := quorumconf.FromText(string(raw))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return facade
}

func loadExpected(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read expected config: %v", err)
	}
	return string(raw)
}

func renderFacade(t *testing.T, facade *quorumconf.Facade) string {
	t.Helper()
	text, err := facade.ToText()
	if err != nil {
		t.Fatalf("render config: %v", err)
	}
	return text
}

func TestSetQuorumOptionsFlow(t *testing.T) {
	t.Parallel()

	facade := loadFacade(t, "two_node.conf")
	err := facade.SetQuorumOptions(reports.StrictProcessor{}, map[string]string{"wait_for_all": "1"})
	if err != nil {
		t.Fatalf("SetQuorumOptions failed: %v", err)
	}

	got := renderFacade(t, facade)
	want := loadExpected(t, "two_node_wait_for_all.conf")
	if !compareConfigs(got, want) {
		t.Fatalf("%s", formatConfigDiff(got, want))
	}
}

func TestAddQuorumDeviceFlow(t *testing.T) {
	t.Parallel()

	facade := loadFacade(t, "two_node.conf")
	err := facade.AddQuorumDevice(
		reports.StrictProcessor{},
		"net",
		map[string]string{"host": "qnetd.example.com", "algorithm": "ffsplit"},
		map[string]string{"timeout": "12000"},
	)
	if err != nil {
		t.Fatalf("AddQuorumDevice failed: %v", err)
	}

	got := renderFacade(t, facade)
	want := loadExpected(t, "two_node_with_device.conf")
	if !compareConfigs(got, want) {
		t.Fatalf("%s", formatConfigDiff(got, want))
	}
}

func TestDeviceLifecycleRestoresTwoNode(t *testing.T) {
	t.Parallel()

	facade := loadFacade(t, "two_node.conf")
	err := facade.AddQuorumDevice(
		reports.StrictProcessor{},
		"net",
		map[string]string{"host": "qnetd.example.com"},
		map[string]string{},
	)
	if err != nil {
		t.Fatalf("AddQuorumDevice failed: %v", err)
	}

	// Adding again without removing is invalid sequencing, both times.
	err = facade.AddQuorumDevice(
		reports.StrictProcessor{},
		"net",
		map[string]string{"host": "qnetd.example.com"},
		map[string]string{},
	)
	if err == nil {
		t.Fatal("second AddQuorumDevice must fail")
	}

	if err := facade.RemoveQuorumDevice(); err != nil {
		t.Fatalf("RemoveQuorumDevice failed: %v", err)
	}
	if facade.HasQuorumDevice() {
		t.Fatal("device should be gone")
	}

	options := facade.GetQuorumOptions()
	if len(options) != 0 {
		t.Fatalf("no managed quorum options expected, got %v", options)
	}

	// With the device gone the two-node special mode applies again.
	got := renderFacade(t, facade)
	reparsed, err := quorumconf.FromText(got)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	quorums := reparsed.Config().SectionsByName("quorum")
	if len(quorums) == 0 {
		t.Fatal("quorum section expected")
	}
	value, found := quorums[len(quorums)-1].AttributeValue("two_node")
	if !found || value != "1" {
		t.Fatalf("two_node = %q (found=%v), want 1", value, found)
	}
}

func TestUpdateQuorumDeviceFlow(t *testing.T) {
	t.Parallel()

	facade := loadFacade(t, "two_node.conf")
	err := facade.AddQuorumDevice(
		reports.StrictProcessor{},
		"net",
		map[string]string{"host": "qnetd.example.com", "port": "5403"},
		map[string]string{"timeout": "12000"},
	)
	if err != nil {
		t.Fatalf("AddQuorumDevice failed: %v", err)
	}

	err = facade.UpdateQuorumDevice(
		reports.StrictProcessor{},
		map[string]string{"port": "", "algorithm": "ffsplit"},
		map[string]string{"timeout": "", "sync_timeout": "30000"},
	)
	if err != nil {
		t.Fatalf("UpdateQuorumDevice failed: %v", err)
	}

	model, modelOptions, genericOptions := facade.GetQuorumDeviceSettings()
	if model != "net" {
		t.Fatalf("model = %q, want net", model)
	}
	if modelOptions["host"] != "qnetd.example.com" || modelOptions["algorithm"] != "ffsplit" {
		t.Fatalf("unexpected model options: %v", modelOptions)
	}
	if _, stillThere := modelOptions["port"]; stillThere {
		t.Fatal("port should have been deleted")
	}
	if genericOptions["sync_timeout"] != "30000" {
		t.Fatalf("unexpected generic options: %v", genericOptions)
	}
	if _, stillThere := genericOptions["timeout"]; stillThere {
		t.Fatal("timeout should have been deleted")
	}
}
