package jira

import (
	"fmt"
	"strings"
)

// SearchParams are the structured filters accepted by SearchIssuesParams.
// Nil fields contribute no JQL clause.
type SearchParams struct {
	// Project filters by project key.
	Project *string

	// BoardID is accepted for API symmetry but contributes no clause on
	// its own: JQL has no board predicate, so board filtering only works in
	// combination with SprintID.
	BoardID *int

	// SprintID filters by sprint.
	SprintID *int

	// Assignee filters by assignee.
	Assignee *string

	// Status filters by workflow status.
	Status *string
}

// BuildJQL renders the params as a JQL expression by AND-joining the present
// clauses. With no clauses it falls back to "order by created DESC".
func BuildJQL(p SearchParams) string {
	var clauses []string

	if p.Project != nil {
		clauses = append(clauses, fmt.Sprintf("project = %s", quoteJQL(*p.Project)))
	}
	if p.Assignee != nil {
		clauses = append(clauses, fmt.Sprintf("assignee = %s", quoteJQL(*p.Assignee)))
	}
	if p.Status != nil {
		clauses = append(clauses, fmt.Sprintf("status = %s", quoteJQL(*p.Status)))
	}
	if p.SprintID != nil {
		clauses = append(clauses, fmt.Sprintf("sprint = %d", *p.SprintID))
	}

	if len(clauses) == 0 {
		return "order by created DESC"
	}
	return strings.Join(clauses, " AND ")
}

// quoteJQL wraps a value in double quotes, escaping embedded quotes and
// backslashes.
func quoteJQL(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
