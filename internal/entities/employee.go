package entities

import (
	"regexp"

	"crud-gateway/internal/schema"
)

var (
	personNameRegex  = regexp.MustCompile(`^\p{L}(?:[\p{L}'\- ]{0,98}\p{L})?$`)
	emailRegex       = regexp.MustCompile(`(?i)^[\w.%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	countryCodeRegex = regexp.MustCompile(`^\d{1,4}$`)
	phoneNumberRegex = regexp.MustCompile(`^\d{7,15}$`)
)

// Employee is served at /employees.
func Employee() schema.Entity {
	return newDefinition("employee",
		nameField("firstName", "First name"),
		nameField("lastName", "Last name"),
		nameField("title", "Job title"),
		schema.Field{
			Name:            "departmentId",
			Label:           "Department",
			Type:            schema.TypeString,
			RequiredMessage: "Department required",
		},
		schema.Field{
			Name:            "email",
			Label:           "Email address",
			Type:            schema.TypeString,
			RequiredMessage: "Email address required",
			Checks: []*schema.Check{
				schema.Pattern(emailRegex, "Email address must have a valid format"),
			},
		},
		schema.Field{
			Name:            "countryCode",
			Label:           "Country code",
			Type:            schema.TypeString,
			RequiredMessage: "Country code required",
			Checks: []*schema.Check{
				schema.Pattern(countryCodeRegex,
					"Country code must be between 1 and 4 digits and contain only digits"),
			},
		},
		schema.Field{
			Name:            "phoneNumber",
			Label:           "Phone number",
			Type:            schema.TypeString,
			RequiredMessage: "Phone number required",
			Checks: []*schema.Check{
				schema.Pattern(phoneNumberRegex,
					"Phone number must be between 7 and 15 digits and contain only digits"),
			},
		},
		schema.Field{
			Name:     "isActive",
			Label:    "Active flag",
			Type:     schema.TypeBoolean,
			Optional: true,
		},
		schema.Field{
			Name:            "hireDate",
			Label:           "Hire date",
			Type:            schema.TypeString,
			RequiredMessage: "Hire date required",
			Checks: []*schema.Check{
				// date() fails on anything it cannot parse; a bare clock time parses to year 0.
				schema.Expression(`date(value).Year() > 0`, "Hire date required"),
			},
		},
	)
}

func nameField(name, label string) schema.Field {
	return schema.Field{
		Name:            name,
		Label:           label,
		Type:            schema.TypeString,
		RequiredMessage: label + " required",
		Checks: []*schema.Check{
			schema.MinLength(1, label+" required"),
			schema.Pattern(personNameRegex,
				label+" can be maximum 100 characters and can contain only letters, "+
					"apostrophes, hyphens, and spaces between words"),
		},
	}
}
