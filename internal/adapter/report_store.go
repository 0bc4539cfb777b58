package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "jlower.dev/pkg/jlower/internal/model"
)

const reportFileVersion = 1

// ReportStore persists the per-file outcome of a batch run.
type ReportStore interface {
	SaveReports(path m.Path, reports []m.Report) error
	LoadReports(path m.Path) ([]m.Report, error)
}

type reportFile struct {
	Version int        `yaml:"version"`
	Reports []m.Report `yaml:"reports"`
}

// YAMLReportStore keeps reports in a single YAML document.
type YAMLReportStore struct{}

// NewReportStore constructs a YAML-backed ReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReports writes reports to path, replacing any previous file.
func (s *YAMLReportStore) SaveReports(path m.Path, reports []m.Report) error {
	data, err := yaml.Marshal(reportFile{Version: reportFileVersion, Reports: reports})
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), defaultDirPerm); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err := os.WriteFile(string(path), data, defaultWritePerm); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	return nil
}

// LoadReports reads reports previously written by SaveReports.
func (s *YAMLReportStore) LoadReports(path m.Path) ([]m.Report, error) {
	// #nosec G304 - path is the user-selected report file
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}

	var file reportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode reports %s: %w", path, err)
	}

	if file.Version != reportFileVersion {
		return nil, fmt.Errorf("unsupported report version %d in %s", file.Version, path)
	}

	return file.Reports, nil
}
