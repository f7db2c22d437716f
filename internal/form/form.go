// Package form renders and validates every form of the site from one
// declared field schema per form.
package form

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"html"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	Register  = "register"
	Login     = "login"
	Employer  = "employer"
	JobSeeker = "jobSeeker"
	Job       = "job"
)

const maxUploadSize = 10 << 20

//go:embed schema.yaml
var schemaFile []byte

var fieldTypes = map[string]bool{
	"text":     true,
	"password": true,
	"email":    true,
	"tel":      true,
	"number":   true,
	"textarea": true,
	"file":     true,
	"select":   true,
}

type Field struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Type        string   `yaml:"type"`
	Required    bool     `yaml:"required"`
	Placeholder string   `yaml:"placeholder"`
	Options     []string `yaml:"options"`
	Validators  []string `yaml:"validators"`
	Message     string   `yaml:"message"` // replaces the validator's own message
}

func (f Field) IsFile() bool {
	return f.Type == "file"
}

type Schema struct {
	Name   string
	Fields []Field
}

var (
	loadOnce sync.Once
	schemas  map[string]*Schema
	loadErr  error
)

// Parse reads a schema document: a map of form name to its field list.
func Parse(b []byte) (map[string]*Schema, error) {
	raw := map[string][]Field{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "unable to parse form schema")
	}
	out := make(map[string]*Schema, len(raw))
	for name, fields := range raw {
		seen := map[string]bool{}
		for _, f := range fields {
			if f.Name == "" {
				return nil, errors.Errorf("form %s: field without a name", name)
			}
			if seen[f.Name] {
				return nil, errors.Errorf("form %s: duplicate field %s", name, f.Name)
			}
			seen[f.Name] = true
			if !fieldTypes[f.Type] {
				return nil, errors.Errorf("form %s: field %s has unknown type %q", name, f.Name, f.Type)
			}
			for _, v := range f.Validators {
				if _, ok := validators[v]; !ok {
					return nil, errors.Errorf("form %s: field %s has unknown validator %q", name, f.Name, v)
				}
			}
		}
		out[name] = &Schema{Name: name, Fields: fields}
	}
	return out, nil
}

// Lookup returns the embedded schema of the named form.
func Lookup(name string) (*Schema, error) {
	loadOnce.Do(func() {
		schemas, loadErr = Parse(schemaFile)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	s, ok := schemas[name]
	if !ok {
		return nil, errors.Errorf("unknown form %q", name)
	}
	return s, nil
}

func MustLookup(name string) *Schema {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// New returns a form prefilled with the values the schema knows about.
func (s *Schema) New(values map[string]string) *Form {
	f := newForm(s)
	for _, field := range s.Fields {
		if v, ok := values[field.Name]; ok && !field.IsFile() {
			f.values[field.Name] = v
		}
	}
	return f
}

// Bind reads the submitted values of r, whose body may be at most
// maxUploadSize bytes. Text is stripped of markup; passwords are kept
// verbatim.
func (s *Schema) Bind(w http.ResponseWriter, r *http.Request) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxUploadSize)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s form", s.Name)
	}
	f := newForm(s)
	for _, field := range s.Fields {
		if field.IsFile() {
			if r.MultipartForm != nil {
				if fhs := r.MultipartForm.File[field.Name]; len(fhs) > 0 && fhs[0].Size > 0 {
					f.files[field.Name] = fhs[0]
				}
			}
			continue
		}
		v := r.PostForm.Get(field.Name)
		if field.Type != "password" {
			v = sanitize(v)
		}
		f.values[field.Name] = v
	}
	return f, nil
}

var strictPolicy = bluemonday.StrictPolicy()

// sanitize drops any markup; the templates escape on output so entities are
// turned back into plain characters here.
func sanitize(v string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(v)))
}

type Form struct {
	schema *Schema
	values map[string]string
	files  map[string]*multipart.FileHeader
	errors map[string]string
}

func newForm(s *Schema) *Form {
	return &Form{
		schema: s,
		values: map[string]string{},
		files:  map[string]*multipart.FileHeader{},
		errors: map[string]string{},
	}
}

func (f *Form) Name() string {
	return f.schema.Name
}

func (f *Form) Value(name string) string {
	return f.values[name]
}

func (f *Form) Set(name, value string) {
	f.values[name] = value
}

func (f *Form) File(name string) *multipart.FileHeader {
	return f.files[name]
}

func (f *Form) Error(name string) string {
	return f.errors[name]
}

func (f *Form) Errors() map[string]string {
	return f.errors
}

func (f *Form) Valid() bool {
	return len(f.errors) == 0
}

// Validate runs the required check and the declared validators on every
// field and reports whether the form is free of errors.
func (f *Form) Validate() bool {
	f.errors = map[string]string{}
	for _, field := range f.schema.Fields {
		if msg := check(field, f.values[field.Name], f.files[field.Name] != nil); msg != "" {
			f.errors[field.Name] = msg
		}
	}
	return f.Valid()
}

func check(field Field, v string, hasFile bool) string {
	if field.IsFile() {
		if field.Required && !hasFile {
			return fmt.Sprintf("%s is required", field.Label)
		}
		return ""
	}
	if strings.TrimSpace(v) == "" {
		if field.Required {
			return fmt.Sprintf("%s is required", field.Label)
		}
		return ""
	}
	for _, name := range field.Validators {
		if msg := validators[name](field, v); msg != "" {
			if field.Message != "" {
				return field.Message
			}
			return msg
		}
	}
	return ""
}

// Data returns the non-file values to send to the API.
func (f *Form) Data() map[string]string {
	out := make(map[string]string, len(f.values))
	for _, field := range f.schema.Fields {
		if !field.IsFile() {
			out[field.Name] = f.values[field.Name]
		}
	}
	return out
}

// Fingerprint identifies a submission by form and content.
func (f *Form) Fingerprint() string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00", f.schema.Name)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\x00", k, f.values[k])
	}
	for _, field := range f.schema.Fields {
		if fh := f.files[field.Name]; fh != nil {
			fmt.Fprintf(h, "%s@%s:%d\x00", field.Name, fh.Filename, fh.Size)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FieldView is what the templates need to draw one field.
type FieldView struct {
	Field
	Value string
	Error string
}

func (f *Form) Fields() []FieldView {
	out := make([]FieldView, 0, len(f.schema.Fields))
	for _, field := range f.schema.Fields {
		fv := FieldView{Field: field, Error: f.errors[field.Name]}
		if field.Type != "password" {
			fv.Value = f.values[field.Name]
		}
		out = append(out, fv)
	}
	return out
}

// Multipart reports whether the form carries a file field.
func (f *Form) Multipart() bool {
	for _, field := range f.schema.Fields {
		if field.IsFile() {
			return true
		}
	}
	return false
}
