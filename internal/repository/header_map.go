package repository

import (
	"regexp"
	"strings"

	"github.com/tirasundara/h1b-certified-stats/internal/domain"
)

// columnRule recognises a header field by its uppercased name
type columnRule struct {
	role  domain.ColumnRole
	match func(upperField string) bool
}

var workStatePattern = regexp.MustCompile(`WORK.*STATE`)

// petitionColumnRules is evaluated in order for every header field.
// Header naming varies across file vintages (SOC_NAME / LCA_CASE_SOC_NAME,
// STATUS / CASE_STATUS, WORKSITE_STATE / LCA_CASE_WORKLOC1_STATE).
var petitionColumnRules = []columnRule{
	{
		role:  domain.OccupationColumn,
		match: func(f string) bool { return strings.Contains(f, "SOC_NAME") },
	},
	{
		role:  domain.StatusColumn,
		match: func(f string) bool { return strings.Contains(f, "STATUS") },
	},
	{
		role:  domain.StateColumn,
		match: workStatePattern.MatchString,
	},
}

// createHeaderMap resolves each column role to the first header field matching its rule.
// A field takes the first rule it matches; fields matching an already resolved role are ignored.
func createHeaderMap(header []string, rules []columnRule) (domain.ColumnMap, error) {
	columnMap := make(domain.ColumnMap)

	for i, field := range header {
		upper := strings.ToUpper(field)

		for _, rule := range rules {
			if !rule.match(upper) {
				continue
			}

			if _, resolved := columnMap[rule.role]; !resolved {
				columnMap[rule.role] = i
			}
			break
		}
	}

	if err := columnMap.Validate(); err != nil {
		return nil, err
	}

	return columnMap, nil
}

// ResolvePetitionColumns finds the occupation, status and work state columns of a petition header
func ResolvePetitionColumns(header []string) (domain.ColumnMap, error) {
	return createHeaderMap(header, petitionColumnRules)
}
