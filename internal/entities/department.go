package entities

import (
	"regexp"

	"crud-gateway/internal/schema"
)

var (
	departmentNameRegex = regexp.MustCompile(`(?i)^[A-Z0-9][A-Z0-9 \-'",.]{0,98}[A-Z0-9]$`)
	departmentCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,19}$`)
)

// DepartmentLocations are the offices a department can be located in.
var DepartmentLocations = []string{"New York", "San Francisco", "London"}

// Department is served at /departments.
func Department() schema.Entity {
	return newDefinition("department",
		schema.Field{
			Name:            "name",
			Label:           "Name",
			Type:            schema.TypeString,
			RequiredMessage: "Name required",
			Checks: []*schema.Check{
				schema.MinLength(1, "Name required"),
				schema.Pattern(departmentNameRegex,
					"Name can be maximum 100 characters and can contain only letters, "+
						"numbers, spaces, hyphens, apostrophes and periods"),
			},
		},
		schema.Field{
			Name:            "code",
			Label:           "Code",
			Type:            schema.TypeString,
			RequiredMessage: "Code required",
			Checks: []*schema.Check{
				schema.MinLength(1, "Code required"),
				schema.Pattern(departmentCodeRegex,
					"Code can be maximum 20 characters and can contain only numbers and "+
						"capital letters"),
			},
		},
		schema.Field{
			Name:            "location",
			Label:           "Location",
			Type:            schema.TypeString,
			RequiredMessage: "Location not currently valid",
			TypeMessage:     "Location not currently valid",
			Checks: []*schema.Check{
				schema.OneOf(DepartmentLocations, "Location not currently valid"),
			},
		},
		schema.Field{
			Name:     "isActive",
			Label:    "Active flag",
			Type:     schema.TypeBoolean,
			Optional: true,
		},
	)
}
