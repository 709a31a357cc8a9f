package report

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// generateJSON renders the report as indented JSON
func generateJSON(report *ScanReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// generateYAML renders the report as YAML
func generateYAML(report *ScanReport) ([]byte, error) {
	return yaml.Marshal(report)
}
