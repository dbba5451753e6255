package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/steamer-labs/steamer-kit/internal/manifest"
	"github.com/steamer-labs/steamer-kit/internal/scaffold"
)

var (
	templateName      string
	templateFile      string
	templateTemplate  string
	templatePlacement string
	templateDir       string
	templateYes       bool
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Create a component from one of the project's templates",
	Long: `Create a component folder from a template listed in the project's
templateconfig.json. "templatepath" names the folder holding the templates and
"componentPlacementPath" the folder new components go into.

In template files "TemplateName" in a file name is replaced by --file and a
trailing .txt is dropped. In their contents ${TemplateName} becomes the
component name and ${template-name} its kebab-case class name.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func init() {
	templateCmd.Flags().StringVarP(&templateName, "name", "n", "", "Component name, e.g. userCard")
	templateCmd.Flags().StringVarP(&templateFile, "file", "f", "", "File name replacing TemplateName (default: index)")
	templateCmd.Flags().StringVarP(&templateTemplate, "template", "t", "", "Template to use")
	templateCmd.Flags().StringVarP(&templatePlacement, "path", "p", "", "Folder to place the component in (default: componentPlacementPath)")
	templateCmd.Flags().StringVar(&templateDir, "dir", ".", "Project folder holding templateconfig.json")
	templateCmd.Flags().BoolVarP(&templateYes, "yes", "y", false, "Accept defaults and overwrite an existing component")
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, _ []string) error {
	cfg, err := scaffold.ReadTemplateConfig(templateDir)
	if err != nil {
		return err
	}
	templates, err := cfg.Templates(templateDir)
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return fmt.Errorf("%w in %s", scaffold.ErrNoTemplates, cfg.TemplatePath)
	}
	if templateYes && templateName == "" {
		return errors.New("a component name is required with --yes")
	}

	req := scaffold.ComponentRequest{
		Dir:       templateDir,
		Template:  templateTemplate,
		Placement: templatePlacement,
		Name:      templateName,
		FileName:  templateFile,
		Overwrite: templateYes,
	}

	var questions []manifest.Question
	if req.Name == "" {
		questions = append(questions, manifest.Question{
			Type:    manifest.QuestionInput,
			Name:    "name",
			Message: "Type your component name",
		})
	}
	if req.FileName == "" {
		questions = append(questions, manifest.Question{
			Type:    manifest.QuestionInput,
			Name:    "file",
			Message: "Type your file name",
			Default: scaffold.DefaultComponentFile,
		})
	}
	if req.Template == "" {
		questions = append(questions, manifest.Question{
			Type:    manifest.QuestionList,
			Name:    "template",
			Message: "Which template do you want to use?",
			Choices: templates,
		})
	}
	if req.Placement == "" {
		questions = append(questions, manifest.Question{
			Type:    manifest.QuestionInput,
			Name:    "path",
			Message: "Where do you want to place the component?",
			Default: cfg.PlacementPath,
		})
	}

	p := newPrompter(cmd, templateYes)
	if len(questions) > 0 {
		answers, err := p.Ask(cmd.Context(), questions)
		if err != nil {
			return err
		}
		if v, ok := answers["name"].(string); ok {
			req.Name = v
		}
		if v, ok := answers["file"].(string); ok {
			req.FileName = v
		}
		if v, ok := answers["template"].(string); ok {
			req.Template = v
		}
		if v, ok := answers["path"].(string); ok {
			req.Placement = v
		}
	}

	res, err := scaffold.CreateComponent(cfg, req)
	if errors.Is(err, scaffold.ErrComponentExists) && !req.Overwrite {
		answers, askErr := p.Ask(cmd.Context(), []manifest.Question{{
			Type:    manifest.QuestionConfirm,
			Name:    "overwrite",
			Message: "Folder already exists, overwrite?",
			Default: true,
		}})
		if askErr != nil {
			return askErr
		}
		if ok, _ := answers["overwrite"].(bool); !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing created.")
			return nil
		}
		req.Overwrite = true
		res, err = scaffold.CreateComponent(cfg, req)
	}
	if err != nil {
		return fmt.Errorf("creating component: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", res.Dir)
	for _, f := range res.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "  → %s\n", f)
	}
	return nil
}
