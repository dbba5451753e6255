package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/kit.schema.json
var kitSchemaJSON []byte

const kitSchemaURL = "kit.schema.json"

// kitSchema is compiled on first use.
var kitSchema struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var issuePrinter = message.NewPrinter(language.English)

// ValidationResult is the outcome of checking a manifest against the schema.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Path    string // "/options/0/name"; empty for the document root
	Message string
	Keyword string
}

func compiledKitSchema() (*jsonschema.Schema, error) {
	kitSchema.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(kitSchemaJSON))
		if err != nil {
			kitSchema.err = fmt.Errorf("reading kit schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(kitSchemaURL, doc); err != nil {
			kitSchema.err = fmt.Errorf("registering kit schema: %w", err)
			return
		}
		if kitSchema.schema, err = c.Compile(kitSchemaURL); err != nil {
			kitSchema.err = fmt.Errorf("compiling kit schema: %w", err)
		}
	})
	return kitSchema.schema, kitSchema.err
}

// Validate checks a YAML or JSON manifest against the kit schema. A returned
// error means the document or schema could not be read; schema violations
// are reported in the result.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := compiledKitSchema()
	if err != nil {
		return nil, err
	}

	inst, err := toInstance(data)
	if err != nil {
		return nil, err
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("validating manifest: %w", err)
	}
	return &ValidationResult{Issues: leafIssues(verr)}, nil
}

// toInstance decodes YAML and re-encodes it as JSON so numbers reach the
// validator as json.Number. An empty document is an empty object.
func toInstance(data []byte) (interface{}, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest as JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(buf))
}

// leafIssues flattens the error tree into its leaves, sorted by location.
// Kinds that only group other failures are dropped.
func leafIssues(root *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[ValidationIssue]bool)

	stack := []*jsonschema.ValidationError{root}
	for len(stack) > 0 {
		ve := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(ve.Causes) > 0 {
			stack = append(stack, ve.Causes...)
			continue
		}

		if grouping(ve.ErrorKind) {
			continue
		}
		issue := issueFor(ve)
		if !seen[issue] {
			seen[issue] = true
			issues = append(issues, issue)
		}
	}

	if len(issues) == 0 {
		return []ValidationIssue{{Message: root.Error()}}
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Keyword < issues[j].Keyword
	})
	return issues
}

func issueFor(ve *jsonschema.ValidationError) ValidationIssue {
	var issue ValidationIssue
	if len(ve.InstanceLocation) > 0 {
		issue.Path = "/" + strings.Join(ve.InstanceLocation, "/")
	}
	if ve.ErrorKind == nil {
		return issue
	}
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		issue.Keyword = kw[len(kw)-1]
	} else {
		issue.Keyword = keywordOf(ve.ErrorKind)
	}
	issue.Message = ve.ErrorKind.LocalizedString(issuePrinter)
	return issue
}

func grouping(k jsonschema.ErrorKind) bool {
	switch k.(type) {
	case nil, *kind.Group, *kind.Schema, *kind.AllOf, *kind.Reference:
		return true
	}
	return false
}

// keywordOf names kinds that report no keyword path, such as "not".
func keywordOf(k jsonschema.ErrorKind) string {
	switch k.(type) {
	case *kind.Not:
		return "not"
	case *kind.FalseSchema:
		return "false"
	case *kind.InvalidJsonValue:
		return "value"
	}
	name := fmt.Sprintf("%T", k)
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}
