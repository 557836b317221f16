package entities

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crud-gateway/internal/naming"
	"crud-gateway/internal/payload"
	"crud-gateway/internal/schema"
)

func validEmployee() *payload.Payload {
	return payload.FromEntries(
		payload.Entry{Key: "firstName", Value: "Michael"},
		payload.Entry{Key: "lastName", Value: "Smith"},
		payload.Entry{Key: "title", Value: "Manager"},
		payload.Entry{Key: "departmentId", Value: "1"},
		payload.Entry{Key: "email", Value: "michael.smith@example.com"},
		payload.Entry{Key: "countryCode", Value: "1"},
		payload.Entry{Key: "phoneNumber", Value: "1234567890"},
		payload.Entry{Key: "isActive", Value: true},
		payload.Entry{Key: "hireDate", Value: "2022-01-30"},
	)
}

func validDepartment() *payload.Payload {
	return payload.FromEntries(
		payload.Entry{Key: "name", Value: "IT Department"},
		payload.Entry{Key: "code", Value: "IT1"},
		payload.Entry{Key: "location", Value: "New York"},
		payload.Entry{Key: "isActive", Value: true},
	)
}

func without(p *payload.Payload, key string) *payload.Payload {
	out := payload.New()
	for _, e := range p.Entries() {
		if e.Key != key {
			out.Set(e.Key, e.Value)
		}
	}
	return out
}

// shouldFail sets field to each bad value in turn and expects the insert
// contract to reject the payload.
func shouldFail(t *testing.T, e schema.Entity, base func() *payload.Payload, field string, bad ...any) {
	t.Helper()
	for _, value := range bad {
		p := base()
		p.Set(field, value)
		assert.NotEmpty(t, e.InsertContract().Evaluate(p), "%s=%#v should fail", field, value)
	}
}

func TestEmployee_Valid(t *testing.T) {
	e := Employee()
	assert.Empty(t, e.InsertContract().Evaluate(validEmployee()))
	assert.Empty(t, e.InsertContract().Evaluate(without(validEmployee(), "isActive")))

	for _, date := range []string{"2023-01-15", "2023-01-15T09:30:00Z", "2023-01-15 09:30:00"} {
		p := validEmployee()
		p.Set("hireDate", date)
		assert.Empty(t, e.InsertContract().Evaluate(p), date)
	}

	p := validEmployee()
	p.Set("lastName", "O'Brien-Smith")
	assert.Empty(t, e.InsertContract().Evaluate(p))
}

func TestEmployee_Invalid(t *testing.T) {
	e := Employee()
	names := func(good string) []any {
		return []any{nil, "", strings.Repeat("I", 101), " " + good, good + " ", " " + good + " ",
			good + "123", good + "@", good + "!"}
	}

	shouldFail(t, e, validEmployee, "firstName", names("Michael")...)
	shouldFail(t, e, validEmployee, "lastName", names("Smith")...)
	shouldFail(t, e, validEmployee, "title", names("Manager")...)
	shouldFail(t, e, validEmployee, "departmentId", nil, float64(1))
	shouldFail(t, e, validEmployee, "email", nil, "", "invalid-email", "@example.com", "michael@",
		"michael@examplecom", "michael@.com", "michael@example.")
	shouldFail(t, e, validEmployee, "countryCode", nil, "", "12345", "abc", "12a", "a12")
	shouldFail(t, e, validEmployee, "phoneNumber", nil, "", "123456", "1234567890123456",
		"123-456-7890", "abc1234567", "123456789a")
	shouldFail(t, e, validEmployee, "hireDate", nil, "", "invalid-date", "not-a-date", "2023-13-45",
		"2023-25-01", "2023-01-45", "kangaroo", "2023/13/01", "13-01-2023", "10:30:00")
	shouldFail(t, e, validEmployee, "isActive", "yes")
}

func TestEmployee_Messages(t *testing.T) {
	e := Employee()

	p := validEmployee()
	p.Set("firstName", "")
	assert.Equal(t, []string{
		"First name required",
		"First name can be maximum 100 characters and can contain only letters, apostrophes, hyphens, and spaces between words",
	}, e.InsertContract().Evaluate(p))

	p = validEmployee()
	p.Set("hireDate", "kangaroo")
	assert.Equal(t, []string{"Hire date required"}, e.InsertContract().Evaluate(p))

	p = without(validEmployee(), "email")
	assert.Equal(t, []string{"Email address required"}, e.InsertContract().Evaluate(p))
}

func TestDepartment_Valid(t *testing.T) {
	d := Department()
	assert.Empty(t, d.InsertContract().Evaluate(validDepartment()))
	assert.Empty(t, d.InsertContract().Evaluate(without(validDepartment(), "isActive")))

	p := validDepartment()
	p.Set("name", "Sales, \"North\" Region's Team-2.0")
	assert.Empty(t, d.InsertContract().Evaluate(p))
}

func TestDepartment_Invalid(t *testing.T) {
	d := Department()

	shouldFail(t, d, validDepartment, "name", nil, "", strings.Repeat("I", 101), " IT", "IT ", " IT ",
		"IT&", "}", "IT-Department!")
	shouldFail(t, d, validDepartment, "code", nil, "", strings.Repeat("I", 21), " IT", "IT ", "it",
		"iT1", "1IT", "IT@", "IT-1", "IT_1")
	shouldFail(t, d, validDepartment, "location", nil, "", "Ur", "new york", "Chicago")

	p := validDepartment()
	p.Set("location", "Chicago")
	assert.Equal(t, []string{"Location not currently valid"}, d.InsertContract().Evaluate(p))
}

func TestUpdateContracts_ArePartial(t *testing.T) {
	for _, e := range All() {
		t.Run(e.Name(), func(t *testing.T) {
			update := e.UpdateContract()
			require.NotNil(t, update)
			assert.Empty(t, update.Evaluate(payload.New()), "nothing is required on update")

			insert := e.InsertContract()
			require.Len(t, update.Fields, len(insert.Fields))
			for i := range insert.Fields {
				assert.Equal(t, insert.Fields[i].Name, update.Fields[i].Name)
				assert.True(t, update.Fields[i].Optional)
			}
		})
	}

	p := payload.FromEntries(payload.Entry{Key: "code", Value: "it"})
	assert.NotEmpty(t, Department().UpdateContract().Evaluate(p), "format checks still apply")
}

func TestAll_Registers(t *testing.T) {
	r := schema.NewRegistry(naming.Default())
	require.NoError(t, r.Register(All()...))
	assert.Equal(t, []string{"employees", "departments"}, r.ResourceNames())

	v := schema.NewValidator(r)
	msgs, status := v.Validate(validEmployee(), "employees", schema.Insert)
	assert.Nil(t, msgs)
	assert.Equal(t, http.StatusOK, status)

	msgs, status = v.Validate(payload.FromEntries(payload.Entry{Key: "code", Value: "HR"}), "departments", schema.Update)
	assert.Nil(t, msgs)
	assert.Equal(t, http.StatusOK, status)
}
