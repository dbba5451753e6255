package scaffold

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateConfigFile is the project file that points at component templates
// and at the folder new components are placed under.
const TemplateConfigFile = "templateconfig.json"

// DefaultComponentFile replaces "TemplateName" in template file names when no
// file name is given.
const DefaultComponentFile = "index"

var (
	// ErrTemplateConfigMissing is returned when the project has no templateconfig.json.
	ErrTemplateConfigMissing = errors.New("templateconfig.json not found")

	// ErrNoTemplates is returned when the template folder holds no templates.
	ErrNoTemplates = errors.New("no component templates")

	// ErrComponentExists is returned when the component folder already exists
	// and overwriting was not requested.
	ErrComponentExists = errors.New("component already exists")
)

// Placeholders substituted in template files.
const (
	fileNamePlaceholder  = "TemplateName"
	componentPlaceholder = "${TemplateName}"
	classPlaceholder     = "${template-name}"
	templateSuffix       = ".txt"
)

// TemplateConfig is the decoded templateconfig.json. Both paths are relative
// to the project directory.
type TemplateConfig struct {
	TemplatePath  string `json:"templatepath"`
	PlacementPath string `json:"componentPlacementPath"`
}

// ReadTemplateConfig reads dir/templateconfig.json and checks that both
// folders it names exist.
func ReadTemplateConfig(dir string) (*TemplateConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, TemplateConfigFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w in %s", ErrTemplateConfigMissing, dir)
	}
	if err != nil {
		return nil, err
	}

	var cfg TemplateConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", TemplateConfigFile, err)
	}
	for _, f := range []struct{ key, path string }{
		{"templatepath", cfg.TemplatePath},
		{"componentPlacementPath", cfg.PlacementPath},
	} {
		if f.path == "" {
			return nil, fmt.Errorf("%s: %s is not set", TemplateConfigFile, f.key)
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f.path)))
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%s: %s folder %q does not exist", TemplateConfigFile, f.key, f.path)
		}
	}
	return &cfg, nil
}

// Templates lists the template folders under the configured template path.
// Entries with a dot in their name are not templates.
func (c *TemplateConfig) Templates(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, filepath.FromSlash(c.TemplatePath)))
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.Contains(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ComponentRequest describes one component to create from a template.
type ComponentRequest struct {
	Dir       string // project root holding templateconfig.json
	Template  string // template folder name
	Placement string // folder under Dir the component goes into
	Name      string // component name, e.g. "userCard"
	FileName  string // replaces TemplateName in file names
	Overwrite bool
}

// Component is the result of CreateComponent.
type Component struct {
	Dir   string
	Files []string
}

// CreateComponent writes <Placement>/<ComponentName(Name)>/ from the chosen
// template. File names have TemplateName replaced by FileName and a trailing
// .txt dropped; contents have ${TemplateName} and ${template-name} replaced by
// the component and class names.
func CreateComponent(cfg *TemplateConfig, req ComponentRequest) (*Component, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("component name can not be empty")
	}
	if strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) {
		return nil, fmt.Errorf("%w: component name %q", ErrUnsafePath, name)
	}
	if strings.ContainsAny(req.Template, `/\`) || !filepath.IsLocal(req.Template) {
		return nil, fmt.Errorf("invalid template %q", req.Template)
	}
	placement := filepath.Clean(filepath.FromSlash(req.Placement))
	if !filepath.IsLocal(placement) {
		return nil, fmt.Errorf("%w: %q", ErrUnsafePath, req.Placement)
	}
	fileName := req.FileName
	if fileName == "" {
		fileName = DefaultComponentFile
	}
	if strings.ContainsAny(fileName, `/\`) {
		return nil, fmt.Errorf("%w: file name %q", ErrUnsafePath, fileName)
	}

	templateDir := filepath.Join(req.Dir, filepath.FromSlash(cfg.TemplatePath), req.Template)
	entries, err := os.ReadDir(templateDir)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", req.Template, err)
	}

	component := ComponentName(name)
	out := filepath.Join(req.Dir, placement, component)
	if _, err := os.Stat(out); err == nil && !req.Overwrite {
		return nil, fmt.Errorf("%w: %s", ErrComponentExists, out)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, err
	}

	replacer := strings.NewReplacer(
		componentPlaceholder, strings.SplitN(component, ".", 2)[0],
		classPlaceholder, ClassName(name),
	)

	res := &Component{Dir: out}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(templateDir, e.Name()))
		if err != nil {
			return res, err
		}
		target := strings.Replace(e.Name(), fileNamePlaceholder, fileName, 1)
		target = strings.Replace(target, templateSuffix, "", 1)
		if err := os.WriteFile(filepath.Join(out, target), []byte(replacer.Replace(string(data))), 0o644); err != nil {
			return res, err
		}
		res.Files = append(res.Files, target)
	}
	return res, nil
}

// ComponentName upper-cases the first letter of name and keeps the rest.
func ComponentName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return cases.Upper(language.Und).String(string(r)) + name[size:]
}

// ClassName turns a camel-case name into kebab case: "userCard" becomes
// "user-card".
func ClassName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
