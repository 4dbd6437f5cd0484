package notion

import (
	"github.com/bromptonhealth/dmrecall/tabular"
)

// The tracker database exposes a closed set of property types; each one
// has an explicit extraction rule into a scalar or list cell. Anything
// outside the set is dropped by the caller with a warning rather than
// passed through malformed.

type property struct {
	Type           string         `json:"type"`
	Title          []richText     `json:"title"`
	RichText       []richText     `json:"rich_text"`
	Number         *float64       `json:"number"`
	Date           *dateValue     `json:"date"`
	Checkbox       *bool          `json:"checkbox"`
	URL            *string        `json:"url"`
	Email          *string        `json:"email"`
	PhoneNumber    *string        `json:"phone_number"`
	Select         *optionValue   `json:"select"`
	Status         *optionValue   `json:"status"`
	MultiSelect    []optionValue  `json:"multi_select"`
	People         []person       `json:"people"`
	Relation       []relationItem `json:"relation"`
	Rollup         *rollupValue   `json:"rollup"`
	Formula        *formulaValue  `json:"formula"`
	CreatedTime    string         `json:"created_time"`
	LastEditedTime string         `json:"last_edited_time"`
	CreatedBy      *person        `json:"created_by"`
	LastEditedBy   *person        `json:"last_edited_by"`
	Files          []fileValue    `json:"files"`
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type dateValue struct {
	Start string `json:"start"`
}

type optionValue struct {
	Name string `json:"name"`
}

type person struct {
	Name string `json:"name"`
}

type relationItem struct {
	ID string `json:"id"`
}

type rollupValue struct {
	Array []property `json:"array"`
}

type formulaValue struct {
	Type    string     `json:"type"`
	String  *string    `json:"string"`
	Number  *float64   `json:"number"`
	Boolean *bool      `json:"boolean"`
	Date    *dateValue `json:"date"`
}

type fileValue struct {
	Name string `json:"name"`
}

// flattenProperty extracts the cell value for a property. The second
// return value reports whether the property type is recognized.
func flattenProperty(p property) (any, bool) {
	switch p.Type {
	case "title":
		return firstPlainText(p.Title), true
	case "rich_text":
		return firstPlainText(p.RichText), true
	case "number":
		if p.Number == nil {
			return nil, true
		}
		return *p.Number, true
	case "date":
		if p.Date == nil {
			return nil, true
		}
		return p.Date.Start, true
	case "checkbox":
		if p.Checkbox == nil {
			return false, true
		}
		return *p.Checkbox, true
	case "url":
		return stringOrNil(p.URL), true
	case "email":
		return stringOrNil(p.Email), true
	case "phone_number":
		return stringOrNil(p.PhoneNumber), true
	case "select":
		return optionName(p.Select), true
	case "status":
		return optionName(p.Status), true
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, option := range p.MultiSelect {
			names = append(names, option.Name)
		}
		return names, true
	case "people":
		names := make([]string, 0, len(p.People))
		for _, who := range p.People {
			names = append(names, who.Name)
		}
		return names, true
	case "relation":
		ids := make([]string, 0, len(p.Relation))
		for _, rel := range p.Relation {
			ids = append(ids, rel.ID)
		}
		return ids, true
	case "rollup":
		if p.Rollup == nil {
			return nil, true
		}
		values := make([]string, 0, len(p.Rollup.Array))
		for _, item := range p.Rollup.Array {
			if v, ok := flattenProperty(item); ok && v != nil {
				values = append(values, tabular.FormatCell(v))
			}
		}
		return values, true
	case "formula":
		return flattenFormula(p.Formula), true
	case "created_time":
		return p.CreatedTime, true
	case "last_edited_time":
		return p.LastEditedTime, true
	case "created_by":
		if p.CreatedBy == nil {
			return nil, true
		}
		return p.CreatedBy.Name, true
	case "last_edited_by":
		if p.LastEditedBy == nil {
			return nil, true
		}
		return p.LastEditedBy.Name, true
	case "files":
		names := make([]string, 0, len(p.Files))
		for _, f := range p.Files {
			names = append(names, f.Name)
		}
		return names, true
	}
	return nil, false
}

func flattenFormula(f *formulaValue) any {
	if f == nil {
		return nil
	}
	switch f.Type {
	case "string":
		return stringOrNil(f.String)
	case "number":
		if f.Number == nil {
			return nil
		}
		return *f.Number
	case "boolean":
		if f.Boolean == nil {
			return nil
		}
		return *f.Boolean
	case "date":
		if f.Date == nil {
			return nil
		}
		return f.Date.Start
	}
	return nil
}

func firstPlainText(parts []richText) any {
	if len(parts) == 0 {
		return nil
	}
	return parts[0].PlainText
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optionName(o *optionValue) any {
	if o == nil {
		return nil
	}
	return o.Name
}
