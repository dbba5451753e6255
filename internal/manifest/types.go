package manifest

// Question types understood by the prompt collaborator.
const (
	QuestionInput   = "input"
	QuestionConfirm = "confirm"
	QuestionList    = "list"
)

// Lifecycle hook names, in the order the installer runs them.
const (
	HookBeforeInstallCopy = "beforeInstallCopy"
	HookAfterInstallCopy  = "afterInstallCopy"
	HookBeforeInstallDep  = "beforeInstallDep"
	HookAfterInstallDep   = "afterInstallDep"
)

// HookNames lists every lifecycle hook a kit may declare.
var HookNames = []string{
	HookBeforeInstallCopy,
	HookAfterInstallCopy,
	HookBeforeInstallDep,
	HookAfterInstallDep,
}

// Question is one prompt a kit asks while a project is scaffolded.
type Question struct {
	Type    string      `yaml:"type" json:"type"`
	Name    string      `yaml:"name" json:"name"`
	Message string      `yaml:"message" json:"message"`
	Default interface{} `yaml:"default,omitempty" json:"default,omitempty"`
	Choices []string    `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// KitManifest is the kit's own declaration under .steamer/.
type KitManifest struct {
	Files        []string          `yaml:"files,omitempty" json:"files,omitempty"`
	InstallFiles []string          `yaml:"installFiles,omitempty" json:"installFiles,omitempty"`
	Options      []Question        `yaml:"options,omitempty" json:"options,omitempty"`
	Hooks        map[string]string `yaml:"hooks,omitempty" json:"hooks,omitempty"`
}

// InstallList returns the files to install: installFiles when declared,
// otherwise files.
func (m *KitManifest) InstallList() []string {
	if m == nil {
		return nil
	}
	if len(m.InstallFiles) > 0 {
		return m.InstallFiles
	}
	return m.Files
}
