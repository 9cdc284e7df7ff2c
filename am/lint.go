package am

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/teranos/formulary/errors"
)

// LintIssue is a problem found in a config file
type LintIssue struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// LintFile decodes configPath strictly and reports keys formulary does not
// understand, followed by any validation failure of the merged result.
// A file that cannot be parsed at all is returned as an error.
func LintFile(configPath string) ([]LintIssue, error) {
	var cfg Config
	md, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", configPath)
	}

	var issues []LintIssue
	for _, key := range md.Undecoded() {
		issues = append(issues, LintIssue{
			Key:     key.String(),
			Message: "unknown key (ignored)",
		})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Key < issues[j].Key })

	merged, err := LoadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		issues = append(issues, LintIssue{Key: "", Message: err.Error()})
	}

	return issues, nil
}
