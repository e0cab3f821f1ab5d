// Package runspec loads and validates the YAML files describing a
// benchmark run.
package runspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/contentops/benchconsole/internal/models"
	"github.com/contentops/benchconsole/schemas"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// DefaultTemperature applies to models that leave temperature unset.
const DefaultTemperature = 0.7

var printer = message.NewPrinter(language.English)

var runSchema = mustCompileSchema(schemas.RunSchemaJSON, "run.schema.json")

func mustCompileSchema(raw, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Spec describes one benchmark run.
type Spec struct {
	PurchaseID    int64                `json:"purchaseId"`
	QuestionCount int                  `json:"questionCount"`
	PromptVersion string               `json:"promptVersion,omitempty"`
	Models        []models.ModelConfig `json:"models"`
}

// StartRequest converts the spec into the job service request.
func (s *Spec) StartRequest() models.StartRequest {
	return models.StartRequest{
		PurchaseID:    s.PurchaseID,
		Models:        append([]models.ModelConfig(nil), s.Models...),
		QuestionCount: s.QuestionCount,
		PromptVersion: s.PromptVersion,
	}
}

// ValidationError lists every schema violation of a run spec as
// "/path: message" lines.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	src := e.Source
	if src == "" {
		src = "run spec"
	}
	return fmt.Sprintf("%s is invalid:\n  %s", src, strings.Join(e.Problems, "\n  "))
}

// Load reads and parses the run spec at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	spec, err := Parse(data)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Source = path
		}
		return nil, err
	}
	return spec, nil
}

// Parse validates data against the run schema and decodes it.
func Parse(data []byte) (*Spec, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing run spec: %w", err)
	}
	if problems := validate(doc); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	var spec Spec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &spec,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding run spec: %w", err)
	}

	temps := temperaturesSet(doc)
	for i := range spec.Models {
		if !temps[i] {
			spec.Models[i].Temperature = DefaultTemperature
		}
	}
	return &spec, nil
}

// Validate returns the schema violations of data, or nil.
func Validate(data []byte) []string {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	return validate(doc)
}

func validate(doc any) []string {
	err := runSchema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var problems []string
	collect(ve, &problems)
	return problems
}

func collect(ve *jsonschema.ValidationError, problems *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		*problems = append(*problems, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, c := range ve.Causes {
		collect(c, problems)
	}
}

// temperaturesSet reports, per model index, whether the file set a
// temperature explicitly. A temperature of 0 is a valid choice.
func temperaturesSet(doc any) map[int]bool {
	set := map[int]bool{}
	root, _ := doc.(map[string]any)
	list, _ := root["models"].([]any)
	for i, item := range list {
		m, _ := item.(map[string]any)
		if _, ok := m["temperature"]; ok {
			set[i] = true
		}
	}
	return set
}
