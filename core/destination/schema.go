package destination

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Field is a logical record field, independent of the property name it is stored under.
type Field string

// Record fields.
const (
	FieldName          Field = "name"
	FieldExternalID    Field = "external_id"
	FieldType          Field = "type"
	FieldModule        Field = "module"
	FieldCourse        Field = "course"
	FieldDue           Field = "due"
	FieldGrade         Field = "grade"
	FieldStatus        Field = "status"
	FieldClosed        Field = "closed"
	FieldLink          Field = "link"
	FieldSummary       Field = "summary"
	FieldTags          Field = "tags"
	FieldAcknowledged  Field = "acknowledged"
	FieldLastSynced    Field = "last_synced"
	FieldAutoGenerated Field = "auto_generated"
)

// Course planner and error log fields.
const (
	FieldCourseName Field = "course_name"
	FieldDate       Field = "date"
	FieldSource     Field = "source"
	FieldMessage    Field = "message"
	FieldEntity     Field = "entity"
	FieldResolved   Field = "resolved"
)

// Column binds a field to a property.
type Column struct {
	Property string       `yaml:"property"`
	Kind     PropertyKind `yaml:"kind"`
}

// Schema maps the fields of one collection to property names and kinds.
// Fields without a column are not written.
type Schema struct {
	Fields map[Field]Column `yaml:"fields"`
}

// Column returns the column bound to f.
func (s Schema) Column(f Field) (Column, bool) {
	c, ok := s.Fields[f]
	if !ok || c.Property == "" {
		return Column{}, false
	}
	return c, true
}

// Has reports whether f is mapped.
func (s Schema) Has(f Field) bool {
	_, ok := s.Column(f)
	return ok
}

// Put stores value under f's property, converted to the column kind.
// Unmapped fields are ignored.
func (s Schema) Put(props Properties, f Field, value Property) {
	c, ok := s.Column(f)
	if !ok {
		return
	}
	props[c.Property] = value.As(c.Kind)
}

// Get returns the stored property for f.
func (s Schema) Get(page Page, f Field) (Property, bool) {
	c, ok := s.Column(f)
	if !ok {
		return Property{}, false
	}
	p, ok := page.Properties[c.Property]
	return p, ok
}

// Text returns the first stored value of f, or "".
func (s Schema) Text(page Page, f Field) string {
	p, _ := s.Get(page, f)
	return p.First()
}

// Values returns every stored value of f.
func (s Schema) Values(page Page, f Field) []string {
	p, _ := s.Get(page, f)
	return p.Values()
}

// Checked returns the stored checkbox value of f.
func (s Schema) Checked(page Page, f Field) bool {
	p, _ := s.Get(page, f)
	return p.Checked
}

// Equals builds an exact-match filter on f.
func (s Schema) Equals(f Field, value string) (Filter, error) {
	c, ok := s.Column(f)
	if !ok {
		return Filter{}, fmt.Errorf("destination: field %q is not mapped", f)
	}
	return Filter{Property: c.Property, Kind: c.Kind, Equals: value}, nil
}

func (s Schema) validate(name string, required ...Field) error {
	for f, c := range s.Fields {
		if c.Property != "" && !c.Kind.Valid() {
			return fmt.Errorf("destination: %s.%s has unknown kind %q", name, f, c.Kind)
		}
	}
	for _, f := range required {
		if !s.Has(f) {
			return fmt.Errorf("destination: %s.%s must be mapped", name, f)
		}
	}
	return nil
}

// merge overlays the columns of o on s.
func (s Schema) merge(o Schema) Schema {
	out := Schema{Fields: make(map[Field]Column, len(s.Fields)+len(o.Fields))}
	for f, c := range s.Fields {
		out.Fields[f] = c
	}
	for f, c := range o.Fields {
		if c.Kind == "" {
			c.Kind = out.Fields[f].Kind
		}
		out.Fields[f] = c
	}
	return out
}

// Schemas holds the schema of every collection the engine touches.
type Schemas struct {
	Assignments   Schema `yaml:"assignments"`
	Resources     Schema `yaml:"resources"`
	CoursePlanner Schema `yaml:"course_planner"`
	ErrorLog      Schema `yaml:"error_log"`
}

// AssignmentSchema is the built-in assignment collection layout.
func AssignmentSchema() Schema {
	return Schema{Fields: map[Field]Column{
		FieldName:          {"Name", KindTitle},
		FieldExternalID:    {"Canvas Assignment ID", KindRichText},
		FieldType:          {"Type", KindSelect},
		FieldModule:        {"Module", KindSelect},
		FieldCourse:        {"Course", KindRelation},
		FieldDue:           {"Due", KindDate},
		FieldGrade:         {"Grade", KindRichText},
		FieldStatus:        {"Submission Status", KindMultiSelect},
		FieldClosed:        {"Closed", KindSelect},
		FieldLink:          {"Link", KindURL},
		FieldTags:          {"Plot Twist", KindMultiSelect},
		FieldAcknowledged:  {"Acknowledged", KindCheckbox},
		FieldLastSynced:    {"Last Synced", KindDate},
		FieldAutoGenerated: {"Auto-generated", KindCheckbox},
	}}
}

// ResourceSchema is the built-in module item collection layout.
func ResourceSchema() Schema {
	return Schema{Fields: map[Field]Column{
		FieldName:          {"Name", KindTitle},
		FieldExternalID:    {"Canvas Module Item ID", KindRichText},
		FieldType:          {"Type", KindSelect},
		FieldModule:        {"Module", KindRichText},
		FieldCourse:        {"Course", KindRelation},
		FieldLink:          {"Link", KindURL},
		FieldSummary:       {"Summary", KindRichText},
		FieldLastSynced:    {"Last Synced", KindDate},
		FieldAutoGenerated: {"Auto-generated", KindCheckbox},
	}}
}

// CoursePlannerSchema locates course pages by their LMS course name.
func CoursePlannerSchema() Schema {
	return Schema{Fields: map[Field]Column{
		FieldCourseName: {"Canvas Course Name", KindRichText},
	}}
}

// ErrorLogSchema is the built-in error log layout.
func ErrorLogSchema() Schema {
	return Schema{Fields: map[Field]Column{
		FieldName:       {"Name", KindTitle},
		FieldDate:       {"Date", KindDate},
		FieldSource:     {"Source", KindRichText},
		FieldMessage:    {"Error Message", KindRichText},
		FieldEntity:     {"Assignment Name", KindRichText},
		FieldCourseName: {"Canvas Course", KindRichText},
		FieldResolved:   {"Resolved", KindCheckbox},
	}}
}

// DefaultSchemas returns the built-in layouts.
func DefaultSchemas() Schemas {
	return Schemas{
		Assignments:   AssignmentSchema(),
		Resources:     ResourceSchema(),
		CoursePlanner: CoursePlannerSchema(),
		ErrorLog:      ErrorLogSchema(),
	}
}

// ParseSchemas overlays a YAML document on the built-in layouts. A column with an
// empty property unmaps the field; a column without a kind keeps the built-in kind.
func ParseSchemas(data []byte) (Schemas, error) {
	var overlay Schemas
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Schemas{}, fmt.Errorf("destination: parse schema: %w", err)
	}

	base := DefaultSchemas()
	out := Schemas{
		Assignments:   base.Assignments.merge(overlay.Assignments),
		Resources:     base.Resources.merge(overlay.Resources),
		CoursePlanner: base.CoursePlanner.merge(overlay.CoursePlanner),
		ErrorLog:      base.ErrorLog.merge(overlay.ErrorLog),
	}
	if err := out.Validate(); err != nil {
		return Schemas{}, err
	}
	return out, nil
}

// LoadSchemas reads a schema file. An empty path returns the built-in layouts.
func LoadSchemas(path string) (Schemas, error) {
	if path == "" {
		return DefaultSchemas(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Schemas{}, fmt.Errorf("destination: read schema file: %w", err)
	}
	return ParseSchemas(data)
}

// Validate checks that every collection maps the fields the engine depends on.
func (s Schemas) Validate() error {
	if err := s.Assignments.validate("assignments", FieldName, FieldExternalID); err != nil {
		return err
	}
	if err := s.Resources.validate("resources", FieldName, FieldExternalID); err != nil {
		return err
	}
	if err := s.CoursePlanner.validate("course_planner", FieldCourseName); err != nil {
		return err
	}
	return s.ErrorLog.validate("error_log", FieldName)
}
