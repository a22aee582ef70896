package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Projects: []ProjectImport{
			{ShortID: "SMITH01", Name: "Smith Residence"},
		},
	}
}

func TestValidate_ValidMinimal(t *testing.T) {
	assert.Empty(t, Validate(validMinimalSchema()))
}

func TestValidate_ValidSample(t *testing.T) {
	schema, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Empty(t, Validate(schema))
}

func TestValidate_NoProjects(t *testing.T) {
	errs := Validate(&ImportSchema{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one project")
}

func TestValidate_LowercaseShortIDAccepted(t *testing.T) {
	schema := validMinimalSchema()
	schema.Projects[0].ShortID = "smith01"
	assert.Empty(t, Validate(schema))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	schema := &ImportSchema{
		Projects: []ProjectImport{
			{
				ShortID: "S1",
				Stage:   "painting",
				Tasks: []TaskImport{
					{Title: "", Category: "plumbing", Status: "blocked", DueDate: ptrStr("03/01/2025")},
				},
				Returns: []ReturnImport{
					{Item: "", DueDate: "", Amount: -5, Status: "lost"},
				},
			},
		},
	}

	errs := Validate(schema)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}

	expected := []string{
		`projects[0].short_id: "S1" must be 3-6 letters followed by 2-4 digits`,
		"projects[0].name is required",
		`projects[0].stage: invalid value "painting"`,
		"projects[0].tasks[0].title is required",
		`projects[0].tasks[0].category: invalid value "plumbing"`,
		`projects[0].tasks[0].status: invalid value "blocked"`,
		`projects[0].tasks[0].due_date: invalid date format "03/01/2025" (expected YYYY-MM-DD)`,
		"projects[0].returns[0].item is required",
		"projects[0].returns[0].due_date is required",
		"projects[0].returns[0].amount must not be negative",
		`projects[0].returns[0].status: invalid value "lost"`,
	}
	assert.ElementsMatch(t, expected, msgs)
}

func TestValidate_DuplicateShortID(t *testing.T) {
	schema := &ImportSchema{
		Projects: []ProjectImport{
			{ShortID: "SMITH01", Name: "A"},
			{ShortID: "smith01", Name: "B"},
		},
	}
	errs := Validate(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "projects[1].short_id: duplicate")
}

func TestValidate_MissingCategory(t *testing.T) {
	schema := validMinimalSchema()
	schema.Projects[0].Tasks = []TaskImport{{Title: "Call client"}}
	errs := Validate(schema)
	require.Len(t, errs, 1)
	assert.Equal(t, "projects[0].tasks[0].category is required", errs[0].Error())
}
