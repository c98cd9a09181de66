package prospect

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serpapi"
)

// titleSeparator is the en-dash LinkedIn uses between a person's name and
// their headline in search result titles.
const titleSeparator = " – "

// ContactFinder discovers decision-maker contacts through LinkedIn profile
// search results.
type ContactFinder struct {
	client serpapi.Client
	roles  []string
}

// NewContactFinder creates a finder restricted to the given role titles.
func NewContactFinder(client serpapi.Client, roles []string) *ContactFinder {
	return &ContactFinder{client: client, roles: roles}
}

// Find searches for role-filtered LinkedIn profiles at the company.
func (f *ContactFinder) Find(ctx context.Context, companyName string) ([]model.Contact, error) {
	quoted := make([]string, 0, len(f.roles))
	for _, r := range f.roles {
		quoted = append(quoted, fmt.Sprintf("%q", r))
	}
	query := fmt.Sprintf("%q %s site:linkedin.com/in", companyName, strings.Join(quoted, " OR "))

	resp, err := f.client.Search(ctx, query, 10)
	if err != nil {
		return nil, eris.Wrapf(err, "prospect: contact search for %s", companyName)
	}
	return parseContacts(resp.OrganicResults, companyName), nil
}

// parseContacts keeps only linkedin.com/in profile hits and splits the
// result title into name and role.
func parseContacts(results []serpapi.OrganicResult, companyName string) []model.Contact {
	var contacts []model.Contact
	for _, r := range results {
		if !strings.Contains(r.Link, "linkedin.com/in") {
			continue
		}

		name := r.Title
		title := r.Snippet
		if i := strings.Index(r.Title, titleSeparator); i >= 0 {
			name = strings.TrimSpace(r.Title[:i])
			title = strings.TrimSpace(r.Title[i+len(titleSeparator):])
		}

		contacts = append(contacts, model.Contact{
			Name:     strings.TrimSpace(name),
			Title:    title,
			Company:  companyName,
			LinkedIn: r.Link,
			Snippet:  r.Snippet,
		})
	}
	return contacts
}
