package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometeylabs/lander/internal/models"
	"github.com/prometeylabs/lander/internal/modules/landing/page"
	"github.com/prometeylabs/lander/internal/modules/landing/pagetemplate"
	"github.com/prometeylabs/lander/internal/pkg/validate"
	"github.com/spf13/cobra"
)

type createPageFlags struct {
	title           string
	html            string
	templateID      string
	css             string
	js              string
	googlePixelID   string
	facebookPixelID string
	metaRobots      string
	inactive        bool
	variables       string
}

func newCreateLandingPageCmd() *cobra.Command {
	var f createPageFlags
	cmd := &cobra.Command{
		Use:   "create-landing-page",
		Short: "Create a landing page from HTML or from a template",
		Example: `  lander create-landing-page --title "Spring sale" --html ./sale.html --css ./sale.css
  lander create-landing-page --title "Webinar" --template-id <uuid> --variables '{"heading":"Join us"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			p, err := createLandingPage(cmd, rt, &f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created landing page %q\n", p.Title)
			fmt.Fprintf(out, "  id:     %s\n", p.ID)
			fmt.Fprintf(out, "  active: %t\n", p.IsActive)
			fmt.Fprintf(out, "  url:    %s\n", page.AbsoluteURL(rt.cfg.SiteURL, p.Slug))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "page title")
	flags.StringVar(&f.html, "html", "", "HTML content or path to an HTML file")
	flags.StringVar(&f.templateID, "template-id", "", "template to instantiate")
	flags.StringVar(&f.css, "css", "", "CSS content or path to a CSS file")
	flags.StringVar(&f.js, "js", "", "JavaScript content or path to a JS file")
	flags.StringVar(&f.googlePixelID, "google-pixel-id", "", "Google tag ID")
	flags.StringVar(&f.facebookPixelID, "facebook-pixel-id", "", "Facebook pixel ID")
	flags.StringVar(&f.metaRobots, "meta-robots", models.DefaultMetaRobots, "robots meta directive")
	flags.BoolVar(&f.inactive, "inactive", false, "create the page deactivated")
	flags.StringVar(&f.variables, "variables", "", "template variables as JSON or path to a JSON file")
	_ = cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("html", "template-id")
	cmd.MarkFlagsOneRequired("html", "template-id")
	return cmd
}

func createLandingPage(cmd *cobra.Command, rt *runtime, f *createPageFlags) (*models.LandingPage, error) {
	active := !f.inactive
	ctx := cmd.Context()
	v, err := newValidator()
	if err != nil {
		return nil, err
	}

	if f.templateID != "" {
		vars, err := parseVariables(f.variables)
		if err != nil {
			return nil, err
		}
		dto := &pagetemplate.InstantiateDTO{
			TemplateID:      f.templateID,
			Title:           f.title,
			Variables:       vars,
			GooglePixelID:   f.googlePixelID,
			FacebookPixelID: f.facebookPixelID,
			MetaRobots:      f.metaRobots,
			IsActive:        &active,
		}
		if err := v.Struct(dto); err != nil {
			return nil, err
		}
		tpl, err := rt.svc.Templates.GetByID(ctx, f.templateID)
		if err != nil {
			return nil, err
		}
		if tpl != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Using template: %s\n", tpl.Name)
		}
		return rt.svc.Templates.Instantiate(ctx, dto)
	}

	html, err := readFileOrString(f.html)
	if err != nil {
		return nil, err
	}
	css, err := readFileOrString(f.css)
	if err != nil {
		return nil, err
	}
	js, err := readFileOrString(f.js)
	if err != nil {
		return nil, err
	}
	dto := &page.CreatePageDTO{
		Title:           f.title,
		HTMLContent:     html,
		CSSContent:      css,
		JSContent:       js,
		GooglePixelID:   f.googlePixelID,
		FacebookPixelID: f.facebookPixelID,
		MetaRobots:      f.metaRobots,
		IsActive:        &active,
	}
	if err := v.Struct(dto); err != nil {
		return nil, err
	}
	return rt.svc.Pages.Create(ctx, dto)
}

func newLoadTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load-default-templates",
		Short: "Insert the bundled landing page templates that are not present yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			created, skipped, err := rt.svc.Templates.LoadDefaults(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range created {
				fmt.Fprintf(out, "created  %s\n", name)
			}
			for _, name := range skipped {
				fmt.Fprintf(out, "exists   %s\n", name)
			}
			fmt.Fprintf(out, "%d created, %d skipped\n", len(created), len(skipped))
			return nil
		},
	}
}

// newValidator checks DTOs with the same rules gin applies to request bodies.
func newValidator() (*validator.Validate, error) {
	v := validator.New()
	v.SetTagName("binding")
	if err := validate.RegisterOn(v); err != nil {
		return nil, err
	}
	return v, nil
}

// readFileOrString returns the file's content when value names a readable file, else value itself.
func readFileOrString(value string) (string, error) {
	if value == "" || strings.ContainsAny(value, "<>{}\n") {
		return value, nil
	}
	info, err := os.Stat(value)
	if err != nil || info.IsDir() {
		return value, nil
	}
	fh, err := os.Open(value)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", value, err)
	}
	defer fh.Close()
	content, err := io.ReadAll(fh)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", value, err)
	}
	return string(content), nil
}

// parseVariables decodes a JSON object given inline or as a file path. Numbers keep their
// literal form so 3 stays "3" after substitution.
func parseVariables(value string) (map[string]interface{}, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	raw, err := readFileOrString(value)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var vars map[string]interface{}
	if err := dec.Decode(&vars); err != nil {
		return nil, fmt.Errorf("variables must be a JSON object: %w", err)
	}
	return vars, nil
}
