package sim

import (
	"fmt"
	"slices"

	"github.com/dispatchlab/opsim/internal/api"
)

// Field identifies one editable report-form field. Values match the wire
// names the gateway expects in the form snapshot.
type Field string

const (
	FieldCallerName    Field = "callerName"
	FieldCallerAge     Field = "callerAge"
	FieldCallerType    Field = "callerType"
	FieldPriority      Field = "priority"
	FieldRegion        Field = "region"
	FieldCity          Field = "city"
	FieldStreet        Field = "street"
	FieldNumber        Field = "number"
	FieldDiagnosis     Field = "diagnosis"
	FieldOperatorNotes Field = "operatorNotes"
	FieldExtraUnits    Field = "extraUnits"
)

// Option pairs a wire code with its display label.
type Option struct {
	Code  string
	Label string
}

// CallerTypes is the fixed caller-relationship vocabulary.
var CallerTypes = []Option{
	{"H1", "Caller is the patient"},
	{"H2", "Calling for someone present"},
	{"H3", "Calling for someone elsewhere"},
}

// Priorities is the fixed call-priority vocabulary.
var Priorities = []Option{
	{"K", "Critical"},
	{"N", "Urgent"},
	{"M", "Less urgent"},
	{"O", "Deferrable"},
}

// Diagnoses is the fixed diagnosis vocabulary.
var Diagnoses = []string{
	"Heart attack",
	"Traffic accident",
	"Abdominal pain",
	"Breathing difficulty",
	"Stroke",
	"Cardiac arrest",
}

// ExtraUnits is the fixed vocabulary of additional response units.
var ExtraUnits = []Option{
	{"HaZZ", "Fire & Rescue"},
	{"PZSR", "State Police"},
	{"MP", "Municipal Police"},
	{"HZS", "Mountain Rescue"},
	{"VZZS", "Air Ambulance"},
	{"KCHL", "Chemical Lab"},
}

// applyField sets one field on the form. String fields take a string value;
// FieldExtraUnits takes the complete []string selection.
func applyField(form *api.ReportForm, field Field, value any) error {
	if field == FieldExtraUnits {
		units, ok := value.([]string)
		if !ok {
			return fmt.Errorf("field %s requires []string, got %T", field, value)
		}
		form.ExtraUnits = slices.Clone(units)
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("field %s requires string, got %T", field, value)
	}
	switch field {
	case FieldCallerName:
		form.CallerName = s
	case FieldCallerAge:
		form.CallerAge = s
	case FieldCallerType:
		form.CallerType = s
	case FieldPriority:
		form.Priority = s
	case FieldRegion:
		form.Region = s
	case FieldCity:
		form.City = s
	case FieldStreet:
		form.Street = s
	case FieldNumber:
		form.Number = s
	case FieldDiagnosis:
		form.Diagnosis = s
	case FieldOperatorNotes:
		form.OperatorNotes = s
	default:
		return fmt.Errorf("unknown report-form field %q", field)
	}
	return nil
}
