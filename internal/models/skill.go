package models

// Skill is one row of the read-only skills catalogue, keyed by column name.
// Rows are passed through as stored since the hosted table's columns are
// not fixed.
type Skill map[string]any

// Name returns the name column, or "" when it is missing.
func (s Skill) Name() string {
	name, _ := s["name"].(string)
	return name
}
