package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nordwind-labs/taskdeck/internal/filelock"
	"github.com/nordwind-labs/taskdeck/internal/output"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var projectsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsAdd,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesAdd,
}

func init() {
	projectsCmd.AddCommand(projectsAddCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	r, _, err := openRepo(ctx)
	if err != nil {
		return err
	}

	projects := r.Projects()
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, projects)
	}
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i], names[i] = p.ID, p.Name
	}
	output.RefTable(os.Stdout, "projects", ids, names)
	return nil
}

func runProjectsAdd(_ *cobra.Command, args []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	unlock, err := filelock.Guard(dir)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	ctx, cancel := commandContext()
	defer cancel()

	r, cfg, err := openRepo(ctx)
	if err != nil {
		return err
	}

	p, err := r.AddProject(ctx, args[0])
	if err != nil {
		return err
	}
	logActivity(cfg, "project-add", "", p.Name)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, p)
	}
	output.Messagef(os.Stdout, "Added project #%s: %s", p.ID, p.Name)
	return nil
}

func runCategories(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	r, _, err := openRepo(ctx)
	if err != nil {
		return err
	}

	categories := r.Categories()
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, categories)
	}
	ids := make([]string, len(categories))
	names := make([]string, len(categories))
	for i, c := range categories {
		ids[i], names[i] = c.ID, c.Name
	}
	output.RefTable(os.Stdout, "categories", ids, names)
	return nil
}

func runCategoriesAdd(_ *cobra.Command, args []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	unlock, err := filelock.Guard(dir)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	ctx, cancel := commandContext()
	defer cancel()

	r, cfg, err := openRepo(ctx)
	if err != nil {
		return err
	}

	c, err := r.AddCategory(ctx, args[0])
	if err != nil {
		return err
	}
	logActivity(cfg, "category-add", "", c.Name)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, c)
	}
	output.Messagef(os.Stdout, "Added category #%s: %s", c.ID, c.Name)
	return nil
}
