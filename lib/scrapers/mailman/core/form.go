package core

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldCheckbox
	FieldRadio
	FieldSelect
	FieldTextarea
	FieldSubmit
)

type Field struct {
	Name    string
	Value   string
	Kind    FieldKind
	Checked bool
}

// Form is a snapshot of an html form as rendered by mailman, it can be
// patched and submitted back through Client.Submit.
type Form struct {
	Action *url.URL
	Method string
	Fields []*Field
}

// submit controls, mailman renders their type in upper case
func isButton(kind string) bool {
	switch kind {
	case "submit", "image", "button", "reset":
		return true
	}
	return false
}

// ParseForm locates the form holding the submit control named `submit`
// and captures its fields. Only that submit control is kept among the
// form's buttons, as if it had been clicked.
func ParseForm(page Page, submit string) (*Form, error) {
	button := page.Doc.Find("input, button").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("name", "") != submit {
			return false
		}
		if goquery.NodeName(s) == "button" {
			return true
		}
		return isButton(strings.ToLower(s.AttrOr("type", "")))
	}).First()
	if button.Length() == 0 {
		return nil, Errorf(ErrHtmlParse, "Failed to parse HTML: no submit control named %q", submit)
	}
	formSel := button.Closest("form")
	if formSel.Length() == 0 {
		return nil, Errorf(ErrHtmlParse, "Failed to parse HTML: submit control %q is outside a form", submit)
	}

	action, err := page.Url.Parse(formSel.AttrOr("action", ""))
	if err != nil {
		return nil, Errorf(ErrHtmlParse, "Failed to parse HTML: bad form action: %s", err.Error())
	}
	method := strings.ToUpper(strings.TrimSpace(formSel.AttrOr("method", "")))
	if method == "" {
		method = http.MethodGet
	}

	form := &Form{Action: action, Method: method}
	formSel.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		_, checked := s.Attr("checked")

		switch goquery.NodeName(s) {
		case "select":
			option := s.Find("option[selected]").First()
			if option.Length() == 0 {
				option = s.Find("option").First()
			}
			value, ok := option.Attr("value")
			if !ok {
				value = option.Text()
			}
			form.Fields = append(form.Fields, &Field{Name: name, Value: value, Kind: FieldSelect})
		case "textarea":
			form.Fields = append(form.Fields, &Field{Name: name, Value: s.Text(), Kind: FieldTextarea})
		default:
			kind := strings.ToLower(s.AttrOr("type", "text"))
			value := s.AttrOr("value", "")
			switch {
			case isButton(kind):
				if name != submit {
					return
				}
				form.Fields = append(form.Fields, &Field{Name: name, Value: value, Kind: FieldSubmit})
			case kind == "checkbox":
				if value == "" {
					value = "on"
				}
				form.Fields = append(form.Fields, &Field{Name: name, Value: value, Kind: FieldCheckbox, Checked: checked})
			case kind == "radio":
				form.Fields = append(form.Fields, &Field{Name: name, Value: value, Kind: FieldRadio, Checked: checked})
			case kind == "file":
			default:
				form.Fields = append(form.Fields, &Field{Name: name, Value: value, Kind: FieldText})
			}
		}
	})
	return form, nil
}

func (f *Form) find(name string) []*Field {
	var found []*Field
	for _, field := range f.Fields {
		if field.Name == name {
			found = append(found, field)
		}
	}
	return found
}

func (f *Form) Has(name string) bool {
	return len(f.find(name)) > 0
}

func (f *Form) Get(name string) (string, bool) {
	for _, field := range f.find(name) {
		if field.Kind == FieldCheckbox || field.Kind == FieldRadio {
			if field.Checked {
				return field.Value, true
			}
			continue
		}
		return field.Value, true
	}
	return "", false
}

// Set assigns a value to a named field. For radio groups it checks the
// choice holding value. Repeated fields (like the per row `user` inputs
// on the membership page) collapse into a single one.
func (f *Form) Set(name, value string) error {
	found := f.find(name)
	if len(found) == 0 {
		return Errorf(ErrHtmlParse, "Failed to parse HTML: form has no field %q", name)
	}

	if found[0].Kind == FieldRadio {
		matched := false
		for _, field := range found {
			field.Checked = field.Value == value
			matched = matched || field.Checked
		}
		if !matched {
			return Errorf(ErrUserInput, "Field %q has no choice %q", name, value)
		}
		return nil
	}

	found[0].Value = value
	if found[0].Kind == FieldCheckbox {
		found[0].Checked = true
	}
	if len(found) > 1 {
		kept := f.Fields[:0]
		for _, field := range f.Fields {
			if field.Name == name && field != found[0] {
				continue
			}
			kept = append(kept, field)
		}
		f.Fields = kept
	}
	return nil
}

func (f *Form) checkbox(name string) (*Field, error) {
	for _, field := range f.find(name) {
		if field.Kind == FieldCheckbox {
			return field, nil
		}
	}
	return nil, Errorf(ErrHtmlParse, "Failed to parse HTML: form has no checkbox %q", name)
}

// Tick checks a checkbox, mailman only tests for the field's presence,
// so a ticked box is always submitted as "on".
func (f *Form) Tick(name string) error {
	field, err := f.checkbox(name)
	if err != nil {
		return err
	}
	field.Checked = true
	field.Value = "on"
	return nil
}

func (f *Form) Untick(name string) error {
	field, err := f.checkbox(name)
	if err != nil {
		return err
	}
	field.Checked = false
	return nil
}

// Values are the fields a browser would submit: unchecked checkboxes
// and radios are left out.
func (f *Form) Values() url.Values {
	values := url.Values{}
	for _, field := range f.Fields {
		if (field.Kind == FieldCheckbox || field.Kind == FieldRadio) && !field.Checked {
			continue
		}
		values.Add(field.Name, field.Value)
	}
	return values
}
