package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/sim"
)

// ── Field definitions ─────────────────

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldChoice
	fieldMulti
)

type formField struct {
	id      sim.Field
	label   string
	kind    fieldKind
	options []sim.Option // choice and multi fields only
}

// formFields lists the report-form fields in display order.
var formFields = []formField{
	{id: sim.FieldCallerName, label: "Caller name", kind: fieldText},
	{id: sim.FieldCallerAge, label: "Caller age", kind: fieldText},
	{id: sim.FieldCallerType, label: "Caller type", kind: fieldChoice, options: sim.CallerTypes},
	{id: sim.FieldPriority, label: "Priority", kind: fieldChoice, options: sim.Priorities},
	{id: sim.FieldRegion, label: "Region", kind: fieldText},
	{id: sim.FieldCity, label: "City", kind: fieldText},
	{id: sim.FieldStreet, label: "Street", kind: fieldText},
	{id: sim.FieldNumber, label: "Number", kind: fieldText},
	{id: sim.FieldDiagnosis, label: "Diagnosis", kind: fieldChoice, options: diagnosisOptions()},
	{id: sim.FieldOperatorNotes, label: "Notes", kind: fieldText},
	{id: sim.FieldExtraUnits, label: "Extra units", kind: fieldMulti, options: sim.ExtraUnits},
}

func diagnosisOptions() []sim.Option {
	opts := make([]sim.Option, len(sim.Diagnoses))
	for i, d := range sim.Diagnoses {
		opts[i] = sim.Option{Code: d, Label: d}
	}
	return opts
}

// fieldValue reads the string value of one field from a form snapshot.
func fieldValue(form api.ReportForm, id sim.Field) string {
	switch id {
	case sim.FieldCallerName:
		return form.CallerName
	case sim.FieldCallerAge:
		return form.CallerAge
	case sim.FieldCallerType:
		return form.CallerType
	case sim.FieldPriority:
		return form.Priority
	case sim.FieldRegion:
		return form.Region
	case sim.FieldCity:
		return form.City
	case sim.FieldStreet:
		return form.Street
	case sim.FieldNumber:
		return form.Number
	case sim.FieldDiagnosis:
		return form.Diagnosis
	case sim.FieldOperatorNotes:
		return form.OperatorNotes
	}
	return ""
}

// ── Panel model ───────────────────────

// formPanel is the report-form sidebar of the live console. It edits the
// form through a sim.Autosave coordinator: text and choice edits are
// debounced, unit checkboxes save immediately.
type formPanel struct {
	saver      *sim.Autosave
	cursor     int
	unitCursor int
	editing    bool
	input      textinput.Model
}

func newFormPanel(saver *sim.Autosave) formPanel {
	in := textinput.New()
	in.CharLimit = 200
	in.Width = 24
	return formPanel{saver: saver, input: in}
}

// Update handles one key press while the sidebar has focus.
func (f formPanel) Update(msg tea.KeyMsg) (formPanel, tea.Cmd) {
	field := formFields[f.cursor]

	if f.editing {
		switch msg.String() {
		case "enter":
			f.editing = false
			f.saver.Update(field.id, f.input.Value(), false)
			return f, nil
		case "esc":
			f.editing = false
			return f, nil
		default:
			var cmd tea.Cmd
			f.input, cmd = f.input.Update(msg)
			return f, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < len(formFields)-1 {
			f.cursor++
		}
	case "left", "h":
		switch field.kind {
		case fieldChoice:
			f.cycleChoice(field, -1)
		case fieldMulti:
			if f.unitCursor > 0 {
				f.unitCursor--
			}
		}
	case "right", "l":
		switch field.kind {
		case fieldChoice:
			f.cycleChoice(field, 1)
		case fieldMulti:
			if f.unitCursor < len(field.options)-1 {
				f.unitCursor++
			}
		}
	case "enter":
		if field.kind == fieldText {
			f.editing = true
			f.input.SetValue(fieldValue(f.saver.Form(), field.id))
			f.input.CursorEnd()
			return f, f.input.Focus()
		}
	case " ":
		if field.kind == fieldMulti {
			f.toggleUnit(field.options[f.unitCursor].Code)
		}
	}
	return f, nil
}

// cycleChoice moves a choice field to the previous or next option. An unset
// field starts at the first option.
func (f *formPanel) cycleChoice(field formField, dir int) {
	current := fieldValue(f.saver.Form(), field.id)
	idx := -1
	for i, opt := range field.options {
		if opt.Code == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = 0
	} else {
		idx = (idx + dir + len(field.options)) % len(field.options)
	}
	f.saver.Update(field.id, field.options[idx].Code, false)
}

// toggleUnit flips one unit checkbox. Checkbox edits persist immediately.
func (f *formPanel) toggleUnit(code string) {
	units := slices.Clone(f.saver.Form().ExtraUnits)
	if i := slices.Index(units, code); i >= 0 {
		units = slices.Delete(units, i, i+1)
	} else {
		units = append(units, code)
	}
	f.saver.Update(sim.FieldExtraUnits, units, true)
}

// View renders the sidebar at the given inner width.
func (f formPanel) View(width int, focused bool) string {
	form := f.saver.Form()

	var sb strings.Builder
	sb.WriteString(sectionHeader.Render("Report form") + "\n\n")

	for i, field := range formFields {
		selected := focused && i == f.cursor

		var row string
		switch field.kind {
		case fieldText:
			if selected && f.editing {
				row = fmt.Sprintf("%-12s %s", field.label+":", f.input.View())
			} else {
				value := fieldValue(form, field.id)
				if value == "" {
					value = dimStyle.Render("—")
				}
				row = fmt.Sprintf("%-12s %s", labelStyle.Render(field.label+":"), value)
			}
		case fieldChoice:
			value := fieldValue(form, field.id)
			display := dimStyle.Render("—")
			for _, opt := range field.options {
				if opt.Code == value {
					display = opt.Label
					break
				}
			}
			row = fmt.Sprintf("%-12s %s", labelStyle.Render(field.label+":"), "‹ "+display+" ›")
		case fieldMulti:
			row = labelStyle.Render(field.label + ":")
		}

		if selected && !f.editing {
			row = selectedRowStyle.Render(row)
		}
		sb.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(row) + "\n")

		if field.kind == fieldMulti {
			sb.WriteString(f.renderUnits(form, field, selected))
		}
	}

	return sb.String()
}

// renderUnits draws the unit checkboxes under the multi field.
func (f formPanel) renderUnits(form api.ReportForm, field formField, selected bool) string {
	var sb strings.Builder
	for i, opt := range field.options {
		box := "[ ]"
		if slices.Contains(form.ExtraUnits, opt.Code) {
			box = checkedStyle.Render("[x]")
		}
		row := fmt.Sprintf("  %s %s", box, opt.Label)
		if selected && i == f.unitCursor {
			row = selectedRowStyle.Render(row)
		}
		sb.WriteString(row + "\n")
	}
	return sb.String()
}

// hint returns the key hint for the selected field.
func (f formPanel) hint() string {
	if f.editing {
		return "enter save  esc cancel"
	}
	switch formFields[f.cursor].kind {
	case fieldText:
		return "enter edit"
	case fieldChoice:
		return "←/→ choose"
	case fieldMulti:
		return "←/→ select  space toggle"
	}
	return ""
}
